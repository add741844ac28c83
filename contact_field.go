package mailtrap

import (
	"context"
	"net/http"

	"github.com/mailtrap/client-go/validation"
)

// Contact field data types.
const (
	FieldTypeText    = "text"
	FieldTypeInteger = "integer"
	FieldTypeFloat   = "float"
	FieldTypeBoolean = "boolean"
	FieldTypeDate    = "date"
)

var fieldTypes = []string{FieldTypeText, FieldTypeInteger, FieldTypeFloat, FieldTypeBoolean, FieldTypeDate}

// ContactField is a custom contact attribute.
type ContactField struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	MergeTag string `json:"merge_tag"`
}

// CreateContactFieldRequest defines a new field.
type CreateContactFieldRequest struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	MergeTag string `json:"merge_tag"`
}

// Validate checks the request before it is sent.
func (r CreateContactFieldRequest) Validate() validation.Result {
	return validation.Check(
		validation.Length("name", r.Name, 1, 80),
		validation.Length("merge_tag", r.MergeTag, 1, 80),
		validation.OneOf("data_type", r.DataType, fieldTypes...),
	)
}

// UpdateContactFieldRequest renames a field. The data type is fixed once
// created.
type UpdateContactFieldRequest struct {
	Name     string `json:"name,omitempty"`
	MergeTag string `json:"merge_tag,omitempty"`
}

// Validate checks the request before it is sent.
func (r UpdateContactFieldRequest) Validate() validation.Result {
	return validation.Check(
		validation.MaxLength("name", r.Name, 80),
		validation.MaxLength("merge_tag", r.MergeTag, 80),
		validation.Custom("", r.Name != "" || r.MergeTag != "", "name or merge_tag is required"),
	)
}

// ContactFieldsResource is the collection of contact fields.
type ContactFieldsResource struct {
	res resource
}

// List returns every contact field, including the built-in ones.
func (c *ContactFieldsResource) List(ctx context.Context) ([]ContactField, error) {
	out, err := execJSON[[]ContactField](ctx, c.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Create defines a new field.
func (c *ContactFieldsResource) Create(ctx context.Context, req CreateContactFieldRequest) (*ContactField, error) {
	return execJSON[ContactField](ctx, c.res, http.MethodPost, nil, req)
}

// ContactFieldResource is a single contact field.
type ContactFieldResource struct {
	res resource
}

// Get fetches the field.
func (c *ContactFieldResource) Get(ctx context.Context) (*ContactField, error) {
	return execJSON[ContactField](ctx, c.res, http.MethodGet, nil, nil)
}

// Update renames the field or changes its merge tag.
func (c *ContactFieldResource) Update(ctx context.Context, req UpdateContactFieldRequest) (*ContactField, error) {
	return execJSON[ContactField](ctx, c.res, http.MethodPatch, nil, req)
}

// Delete removes the field.
func (c *ContactFieldResource) Delete(ctx context.Context) error {
	return execStatus(ctx, c.res, http.MethodDelete, nil)
}
