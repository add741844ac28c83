package mailtrap

import (
	"context"
	"net/http"

	"github.com/mailtrap/client-go/validation"
)

// ContactList groups contacts.
type ContactList struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContactListRequest creates or renames a contact list.
type ContactListRequest struct {
	Name string `json:"name"`
}

// Validate checks the request before it is sent.
func (r ContactListRequest) Validate() validation.Result {
	return validation.Check(validation.Length("name", r.Name, 1, 255))
}

// ContactListsResource is the collection of contact lists.
type ContactListsResource struct {
	res resource
}

// List returns every contact list.
func (c *ContactListsResource) List(ctx context.Context) ([]ContactList, error) {
	out, err := execJSON[[]ContactList](ctx, c.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Create creates a contact list.
func (c *ContactListsResource) Create(ctx context.Context, req ContactListRequest) (*ContactList, error) {
	return execJSON[ContactList](ctx, c.res, http.MethodPost, nil, req)
}

// ContactListResource is a single contact list.
type ContactListResource struct {
	res resource
}

// Get fetches the list.
func (c *ContactListResource) Get(ctx context.Context) (*ContactList, error) {
	return execJSON[ContactList](ctx, c.res, http.MethodGet, nil, nil)
}

// Update renames the list.
func (c *ContactListResource) Update(ctx context.Context, req ContactListRequest) (*ContactList, error) {
	return execJSON[ContactList](ctx, c.res, http.MethodPatch, nil, req)
}

// Delete removes the list. Its contacts are kept.
func (c *ContactListResource) Delete(ctx context.Context) error {
	return execStatus(ctx, c.res, http.MethodDelete, nil)
}
