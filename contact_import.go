package mailtrap

import (
	"context"
	"net/http"
	"time"

	"github.com/mailtrap/client-go/validation"
)

// Import and export job statuses.
const (
	JobCreated  = "created"
	JobStarted  = "started"
	JobFinished = "finished"
	JobFailed   = "failed"
)

const maxImportSize = 50000

// ImportContact is one contact of a bulk import. Existing contacts are
// updated.
type ImportContact struct {
	Email           string         `json:"email"`
	Fields          map[string]any `json:"fields,omitempty"`
	ListIDsIncluded []int64        `json:"list_ids_included,omitempty"`
	ListIDsExcluded []int64        `json:"list_ids_excluded,omitempty"`
}

// Validate checks the contact.
func (c ImportContact) Validate() validation.Result {
	return validateContactEmail(c.Email)
}

// ImportContactsRequest starts a bulk import.
type ImportContactsRequest struct {
	Contacts []ImportContact `json:"contacts"`
}

// Validate checks the request before it is sent.
func (r ImportContactsRequest) Validate() validation.Result {
	res := validation.Check(
		validation.MinItems("contacts", len(r.Contacts), 1),
		validation.MaxItems("contacts", len(r.Contacts), maxImportSize),
	)
	return res.Merge("", validation.Each("contacts", r.Contacts, ImportContact.Validate))
}

// ContactImport is the state of an import job.
type ContactImport struct {
	ID                     int64  `json:"id"`
	Status                 string `json:"status"`
	CreatedContactsCount   int    `json:"created_contacts_count,omitempty"`
	UpdatedContactsCount   int    `json:"updated_contacts_count,omitempty"`
	ContactsOverLimitCount int    `json:"contacts_over_limit_count,omitempty"`
}

// Done reports whether the job reached a final status.
func (c *ContactImport) Done() bool {
	return c.Status == JobFinished || c.Status == JobFailed
}

// ContactImportsResource starts imports.
type ContactImportsResource struct {
	res resource
}

// Create starts an import job.
func (c *ContactImportsResource) Create(ctx context.Context, req ImportContactsRequest) (*ContactImport, error) {
	return execJSON[ContactImport](ctx, c.res, http.MethodPost, nil, req)
}

// ContactImportResource is a single import job.
type ContactImportResource struct {
	res resource
}

// Get fetches the job state.
func (c *ContactImportResource) Get(ctx context.Context) (*ContactImport, error) {
	return execJSON[ContactImport](ctx, c.res, http.MethodGet, nil, nil)
}

// ExportFilter restricts an export, e.g. {Name: "list_id", Operator: "equal",
// Value: []int64{1, 2}}.
type ExportFilter struct {
	Name     string `json:"name"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ExportContactsRequest starts an export of contacts.
type ExportContactsRequest struct {
	Filters []ExportFilter `json:"filters"`
}

// Validate checks the request before it is sent.
func (r ExportContactsRequest) Validate() validation.Result {
	return validation.Each("filters", r.Filters, func(f ExportFilter) validation.Result {
		return validation.Check(
			validation.Required("name", f.Name),
			validation.Required("operator", f.Operator),
		)
	})
}

// ContactExport is the state of an export job. URL is set once it finished.
type ContactExport struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

// Done reports whether the job reached a final status.
func (c *ContactExport) Done() bool {
	return c.Status == JobFinished || c.Status == JobFailed
}

// ContactExportsResource starts exports.
type ContactExportsResource struct {
	res resource
}

// Create starts an export job.
func (c *ContactExportsResource) Create(ctx context.Context, req ExportContactsRequest) (*ContactExport, error) {
	if req.Filters == nil {
		req.Filters = []ExportFilter{}
	}
	return execJSON[ContactExport](ctx, c.res, http.MethodPost, nil, req)
}

// ContactExportResource is a single export job.
type ContactExportResource struct {
	res resource
}

// Get fetches the job state.
func (c *ContactExportResource) Get(ctx context.Context) (*ContactExport, error) {
	return execJSON[ContactExport](ctx, c.res, http.MethodGet, nil, nil)
}
