package mailtrap

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mailtrap/client-go/internal/api"
)

// EmailClient sends email through one of the sending APIs. Obtain it from
// Client.Email, Client.Transactional, Client.Bulk or Client.Test.
type EmailClient struct {
	res     resource
	mode    SendMode
	inboxID int64
}

func newEmailClient(apiClient *api.Client, mode SendMode, base *url.URL, inboxID int64) *EmailClient {
	res := resource{api: apiClient, uri: api.AppendSegments(base, "api"), kind: ResourceEmail}
	if mode == SendSandbox && inboxID <= 0 {
		res = resource{api: apiClient, kind: ResourceEmail, err: ErrSandboxInboxRequired}
	}
	return &EmailClient{res: res, mode: mode, inboxID: inboxID}
}

// Mode returns the sending API used by the client.
func (e *EmailClient) Mode() SendMode {
	return e.mode
}

// endpoint returns api/{action}, or api/{action}/{inbox_id} for the sandbox.
func (e *EmailClient) endpoint(action string) resource {
	if e.res.err != nil {
		return e.res
	}
	if e.mode == SendSandbox {
		return e.res.withID(ResourceEmail, action, e.inboxID)
	}
	return e.res.with(ResourceEmail, action)
}

// Send delivers a single email.
func (e *EmailClient) Send(ctx context.Context, req *SendEmailRequest) (*SendEmailResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is nil")
	}
	resp, err := execJSON[SendEmailResponse](ctx, e.endpoint("send"), http.MethodPost, nil, req)
	if err != nil {
		return nil, err
	}
	e.res.api.Logger().Debug("email sent",
		"mode", string(e.mode),
		"message_ids", resp.MessageIDs,
	)
	return resp, nil
}

// Batch delivers up to 500 emails in one request. The call succeeds when the
// batch was accepted; inspect each entry of Responses for per-email results.
func (e *EmailClient) Batch(ctx context.Context, req *BatchEmailRequest) (*BatchEmailResponse, error) {
	if req == nil {
		return nil, invalidArgument("request is nil")
	}
	resp, err := execJSON[BatchEmailResponse](ctx, e.endpoint("batch"), http.MethodPost, nil, req)
	if err != nil {
		return nil, err
	}
	if failed := resp.Failed(); len(failed) > 0 {
		e.res.api.Logger().Warn("batch partially failed",
			"mode", string(e.mode),
			"failed", len(failed),
			"total", len(resp.Responses),
		)
	}
	return resp, nil
}
