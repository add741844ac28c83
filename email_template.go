package mailtrap

import (
	"context"
	"net/http"
	"time"

	"github.com/mailtrap/client-go/validation"
)

// EmailTemplate is a stored template referenced by its UUID when sending.
type EmailTemplate struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	BodyText  string    `json:"body_text"`
	BodyHTML  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailTemplateRequest creates or replaces a template.
type EmailTemplateRequest struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
	BodyHTML string `json:"body_html,omitempty"`
	BodyText string `json:"body_text,omitempty"`
}

// Validate checks the request before it is sent.
func (r EmailTemplateRequest) Validate() validation.Result {
	return validation.Check(
		validation.Length("name", r.Name, 1, 255),
		validation.Length("subject", r.Subject, 1, 255),
		validation.Length("category", r.Category, 1, 255),
		validation.Custom("body", r.BodyHTML != "" || r.BodyText != "", "body_html or body_text is required"),
	)
}

// EmailTemplatesResource is the collection of templates.
type EmailTemplatesResource struct {
	res resource
}

// List returns every template.
func (e *EmailTemplatesResource) List(ctx context.Context) ([]EmailTemplate, error) {
	out, err := execJSON[[]EmailTemplate](ctx, e.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Create creates a template.
func (e *EmailTemplatesResource) Create(ctx context.Context, req EmailTemplateRequest) (*EmailTemplate, error) {
	return execJSON[EmailTemplate](ctx, e.res, http.MethodPost, nil, nest("email_template", req))
}

// EmailTemplateResource is a single template.
type EmailTemplateResource struct {
	res resource
}

// Get fetches the template.
func (e *EmailTemplateResource) Get(ctx context.Context) (*EmailTemplate, error) {
	return execJSON[EmailTemplate](ctx, e.res, http.MethodGet, nil, nil)
}

// Update replaces the template.
func (e *EmailTemplateResource) Update(ctx context.Context, req EmailTemplateRequest) (*EmailTemplate, error) {
	return execJSON[EmailTemplate](ctx, e.res, http.MethodPatch, nil, nest("email_template", req))
}

// Delete removes the template.
func (e *EmailTemplateResource) Delete(ctx context.Context) error {
	return execStatus(ctx, e.res, http.MethodDelete, nil)
}
