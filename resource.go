package mailtrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/mailtrap/client-go/internal/api"
	"github.com/mailtrap/client-go/internal/apierrors"
	"github.com/mailtrap/client-go/validation"
)

// resource is an addressable API entity: a URI and the shared dispatcher.
// A handle built from an invalid identifier carries err and never reaches
// the network.
type resource struct {
	api  *api.Client
	uri  *url.URL
	kind ResourceType
	err  error
}

// with derives a child resource by appending path segments.
func (r resource) with(kind ResourceType, segments ...string) resource {
	if r.err != nil {
		return resource{api: r.api, kind: kind, err: r.err}
	}
	return resource{api: r.api, uri: api.AppendSegments(r.uri, segments...), kind: kind}
}

// withID derives an item resource from a collection segment and a numeric ID.
func (r resource) withID(kind ResourceType, collection string, id int64) resource {
	if id <= 0 {
		return resource{api: r.api, kind: kind, err: invalidID(kind, id)}
	}
	return r.with(kind, collection, strconv.FormatInt(id, 10))
}

// withKey derives an item resource from a collection segment and a string
// key such as a contact email.
func (r resource) withKey(kind ResourceType, collection, key string) resource {
	if key == "" {
		return resource{api: r.api, kind: kind, err: invalidID(kind, `""`)}
	}
	return r.with(kind, collection, key)
}

func (r resource) wrap(err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.ResourceType == ResourceUnknown {
		return apierrors.WithResourceType(err, r.kind)
	}
	return err
}

// prepare checks the handle and validates the body when it is a request
// type.
func (r resource) prepare(body any) error {
	if r.err != nil {
		return r.err
	}
	if v, ok := body.(validator); ok {
		return validate(v)
	}
	return nil
}

// execJSON sends method to the resource URI and decodes the JSON result.
func execJSON[T any](ctx context.Context, r resource, method string, query url.Values, body any) (*T, error) {
	if err := r.prepare(body); err != nil {
		return nil, err
	}
	var out T
	cmd := api.NewCommand(method, api.AppendQuery(r.uri, query), body)
	if err := r.api.Do(ctx, cmd, &out); err != nil {
		return nil, r.wrap(err)
	}
	return &out, nil
}

// execData is execJSON for endpoints wrapping their result in {"data": ...}.
func execData[T any](ctx context.Context, r resource, method string, query url.Values, body any) (*T, error) {
	env, err := execJSON[struct {
		Data T `json:"data"`
	}](ctx, r, method, query, body)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// execText fetches the resource body as text.
func execText(ctx context.Context, r resource) (string, error) {
	if err := r.prepare(nil); err != nil {
		return "", err
	}
	text, err := r.api.DoText(ctx, api.TextCommand(r.uri))
	if err != nil {
		return "", r.wrap(err)
	}
	return text, nil
}

// execStatus sends method and discards the response body.
func execStatus(ctx context.Context, r resource, method string, body any) error {
	if err := r.prepare(body); err != nil {
		return err
	}
	if _, err := r.api.DoStatus(ctx, api.StatusCommand(method, r.uri, body)); err != nil {
		return r.wrap(err)
	}
	return nil
}

// envelope nests a request under key, as in {"project": {...}}. It
// validates as the wrapped request.
type envelope struct {
	key string
	req validator
}

func nest(key string, req validator) envelope {
	return envelope{key: key, req: req}
}

func (e envelope) Validate() validation.Result {
	return e.req.Validate()
}

func (e envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any{e.key: e.req}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
