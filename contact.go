package mailtrap

import (
	"context"
	"net/http"
	"time"

	"github.com/mailtrap/client-go/validation"
)

// Contact statuses.
const (
	ContactSubscribed   = "subscribed"
	ContactUnsubscribed = "unsubscribed"
)

// Contact is a marketing contact. Timestamps are Unix milliseconds.
type Contact struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Fields    map[string]any `json:"fields,omitempty"`
	ListIDs   []int64        `json:"list_ids"`
	Status    string         `json:"status"`
	CreatedAt int64          `json:"created_at"`
	UpdatedAt int64          `json:"updated_at"`
}

// Created returns CreatedAt as a time.
func (c *Contact) Created() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Updated returns UpdatedAt as a time.
func (c *Contact) Updated() time.Time {
	return time.UnixMilli(c.UpdatedAt)
}

// CreateContactRequest creates a contact.
type CreateContactRequest struct {
	Email string `json:"email"`
	// Fields maps merge tags to values.
	Fields  map[string]any `json:"fields,omitempty"`
	ListIDs []int64        `json:"list_ids,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateContactRequest) Validate() validation.Result {
	return validateContactEmail(r.Email)
}

func validateContactEmail(email string) validation.Result {
	return validation.Check(
		validation.Email("email", email),
		validation.MaxLength("email", email, 100),
	)
}

// UpdateContactRequest changes a contact. A contact addressed by an email
// that does not exist yet is created.
type UpdateContactRequest struct {
	Email           string         `json:"email,omitempty"`
	Fields          map[string]any `json:"fields,omitempty"`
	ListIDsIncluded []int64        `json:"list_ids_included,omitempty"`
	ListIDsExcluded []int64        `json:"list_ids_excluded,omitempty"`
	Unsubscribed    *bool          `json:"unsubscribed,omitempty"`
}

// Validate checks the request before it is sent.
func (r UpdateContactRequest) Validate() validation.Result {
	if r.Email == "" {
		return validation.Result{}
	}
	return validateContactEmail(r.Email)
}

// UpdateContactResult reports whether an update created or changed the contact.
type UpdateContactResult struct {
	// Action is "created" or "updated".
	Action  string  `json:"action"`
	Contact Contact `json:"data"`
}

// CreateContactEventRequest records a custom event for a contact.
type CreateContactEventRequest struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Validate checks the request before it is sent.
func (r CreateContactEventRequest) Validate() validation.Result {
	return validation.Check(validation.Length("name", r.Name, 1, 255))
}

// ContactEvent is a recorded contact event.
type ContactEvent struct {
	ContactID    string         `json:"contact_id"`
	ContactEmail string         `json:"contact_email"`
	Name         string         `json:"name"`
	Params       map[string]any `json:"params"`
}

// ContactsResource is the collection of contacts.
type ContactsResource struct {
	res resource
}

// Create creates a contact.
func (c *ContactsResource) Create(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	return execData[Contact](ctx, c.res, http.MethodPost, nil, nest("contact", req))
}

// ContactResource is a single contact, addressed by UUID or email.
type ContactResource struct {
	res resource
}

// Get fetches the contact.
func (c *ContactResource) Get(ctx context.Context) (*Contact, error) {
	return execData[Contact](ctx, c.res, http.MethodGet, nil, nil)
}

// Update changes the contact, creating it when addressed by an unknown email.
func (c *ContactResource) Update(ctx context.Context, req UpdateContactRequest) (*UpdateContactResult, error) {
	return execJSON[UpdateContactResult](ctx, c.res, http.MethodPatch, nil, nest("contact", req))
}

// Delete removes the contact.
func (c *ContactResource) Delete(ctx context.Context) error {
	return execStatus(ctx, c.res, http.MethodDelete, nil)
}

// CreateEvent records a custom event for the contact.
func (c *ContactResource) CreateEvent(ctx context.Context, req CreateContactEventRequest) (*ContactEvent, error) {
	return execJSON[ContactEvent](ctx, c.res.with(ResourceContact, "events"), http.MethodPost, nil, req)
}
