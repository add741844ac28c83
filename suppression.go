package mailtrap

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Suppression types.
const (
	SuppressionHardBounce     = "hard bounce"
	SuppressionSpamComplaint  = "spam complaint"
	SuppressionUnsubscription = "unsubscription"
	SuppressionManualImport   = "manual import"
)

// Suppression is an address Mailtrap will not deliver to.
type Suppression struct {
	ID                     string     `json:"id"`
	Type                   string     `json:"type"`
	CreatedAt              time.Time  `json:"created_at"`
	Email                  string     `json:"email"`
	SendingStream          string     `json:"sending_stream"`
	DomainName             string     `json:"domain_name,omitempty"`
	MessageBounceCategory  string     `json:"message_bounce_category,omitempty"`
	MessageCategory        string     `json:"message_category,omitempty"`
	MessageClientIP        string     `json:"message_client_ip,omitempty"`
	MessageCreatedAt       *time.Time `json:"message_created_at,omitempty"`
	MessageOutgoingIP      string     `json:"message_outgoing_ip,omitempty"`
	MessageRecipientMXName string     `json:"message_recipient_mx_name,omitempty"`
	MessageSenderEmail     string     `json:"message_sender_email,omitempty"`
	MessageSubject         string     `json:"message_subject,omitempty"`
}

// SuppressionsResource is the account's suppression list.
type SuppressionsResource struct {
	res resource
}

// List returns suppressions, optionally filtered by email. At most 1000
// entries are returned.
func (s *SuppressionsResource) List(ctx context.Context, email string) ([]Suppression, error) {
	out, err := execJSON[[]Suppression](ctx, s.res, http.MethodGet, url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// SuppressionResource is a single suppression, addressed by its UUID.
type SuppressionResource struct {
	res resource
}

// Delete removes the suppression so the address may receive mail again.
func (s *SuppressionResource) Delete(ctx context.Context) (*Suppression, error) {
	return execJSON[Suppression](ctx, s.res, http.MethodDelete, nil, nil)
}
