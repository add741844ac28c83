package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

const (
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-Id"
	headerRetryAfter    = "Retry-After"

	mediaTypeJSON = "application/json"
	mediaTypeAny  = "*/*"
)

// newRequest builds the authenticated HTTP request for cmd. The body, when
// present, is serialized with the shared JSON policy.
func (c *Client) newRequest(ctx context.Context, cmd Command) (*http.Request, error) {
	var body io.Reader
	if cmd.Body != nil {
		data, err := marshalJSON(cmd.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cmd.Method, cmd.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Message bodies come back as text/plain, text/html or message/rfc822.
	if cmd.Result == ResultText {
		req.Header.Set(headerAccept, mediaTypeAny)
	} else {
		req.Header.Set(headerAccept, mediaTypeJSON)
	}
	req.Header.Set(headerAuthorization, "Bearer "+c.apiToken)
	req.Header.Set(headerUserAgent, c.userAgent)
	if cmd.Body != nil {
		req.Header.Set(headerContentType, mediaTypeJSON)
	}

	return req, nil
}
