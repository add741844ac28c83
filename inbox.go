package mailtrap

import (
	"context"
	"net/http"
	"time"

	"github.com/mailtrap/client-go/validation"
)

// Inbox is an Email Testing inbox that captures SMTP traffic.
type Inbox struct {
	ID                      int64               `json:"id"`
	Name                    string              `json:"name"`
	Username                string              `json:"username"`
	Password                string              `json:"password,omitempty"`
	MaxSize                 int64               `json:"max_size"`
	Status                  string              `json:"status"`
	EmailUsername           string              `json:"email_username"`
	EmailUsernameEnabled    bool                `json:"email_username_enabled"`
	SentMessagesCount       int64               `json:"sent_messages_count"`
	ForwardedMessagesCount  int64               `json:"forwarded_messages_count"`
	Used                    bool                `json:"used"`
	ForwardFromEmailAddress string              `json:"forward_from_email_address"`
	ProjectID               int64               `json:"project_id"`
	Domain                  string              `json:"domain"`
	POP3Domain              string              `json:"pop3_domain"`
	EmailDomain             string              `json:"email_domain"`
	APIDomain               string              `json:"api_domain"`
	SMTPPorts               []int               `json:"smtp_ports"`
	POP3Ports               []int               `json:"pop3_ports"`
	EmailsCount             int64               `json:"emails_count"`
	EmailsUnreadCount       int64               `json:"emails_unread_count"`
	LastMessageSentAt       *time.Time          `json:"last_message_sent_at"`
	MaxMessageSize          int64               `json:"max_message_size"`
	Permissions             ResourcePermissions `json:"permissions"`
}

// EmailAddress returns the address that delivers straight into the inbox,
// or "" when email username delivery is disabled.
func (i Inbox) EmailAddress() string {
	if !i.EmailUsernameEnabled || i.EmailUsername == "" || i.EmailDomain == "" {
		return ""
	}
	return i.EmailUsername + "@" + i.EmailDomain
}

// UpdateInboxRequest renames an inbox or changes its email username.
// Unset fields are left unchanged.
type UpdateInboxRequest struct {
	Name          string `json:"name,omitempty"`
	EmailUsername string `json:"email_username,omitempty"`
}

// Validate checks the request before it is sent.
func (r UpdateInboxRequest) Validate() validation.Result {
	return validation.Check(
		validation.Custom("", r.Name != "" || r.EmailUsername != "", "at least one of name or email_username must be set"),
		validation.When(r.Name != "", validation.Length("name", r.Name, 1, 100)),
		validation.When(r.EmailUsername != "", validation.Length("email_username", r.EmailUsername, 1, 80)),
	)
}

// InboxesResource is the collection of inboxes.
type InboxesResource struct {
	res resource
}

// List returns every inbox of the account.
func (i *InboxesResource) List(ctx context.Context) ([]Inbox, error) {
	out, err := execJSON[[]Inbox](ctx, i.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// InboxResource is a single testing inbox.
type InboxResource struct {
	res resource
}

// Get fetches the inbox.
func (i *InboxResource) Get(ctx context.Context) (*Inbox, error) {
	return execJSON[Inbox](ctx, i.res, http.MethodGet, nil, nil)
}

// Update changes the inbox name or email username.
func (i *InboxResource) Update(ctx context.Context, req UpdateInboxRequest) (*Inbox, error) {
	return execJSON[Inbox](ctx, i.res, http.MethodPatch, nil, nest("inbox", req))
}

// Delete removes the inbox and its messages.
func (i *InboxResource) Delete(ctx context.Context) (*Inbox, error) {
	return execJSON[Inbox](ctx, i.res, http.MethodDelete, nil, nil)
}

func (i *InboxResource) action(ctx context.Context, name string) (*Inbox, error) {
	return execJSON[Inbox](ctx, i.res.with(ResourceInbox, name), http.MethodPatch, nil, nil)
}

// Clean deletes every message in the inbox.
func (i *InboxResource) Clean(ctx context.Context) (*Inbox, error) {
	return i.action(ctx, "clean")
}

// MarkAllAsRead marks every message in the inbox as read.
func (i *InboxResource) MarkAllAsRead(ctx context.Context) (*Inbox, error) {
	return i.action(ctx, "all_read")
}

// ResetCredentials generates new SMTP credentials.
func (i *InboxResource) ResetCredentials(ctx context.Context) (*Inbox, error) {
	return i.action(ctx, "reset_credentials")
}

// ToggleEmailUsername enables or disables delivery by email address.
func (i *InboxResource) ToggleEmailUsername(ctx context.Context) (*Inbox, error) {
	return i.action(ctx, "toggle_email_username")
}

// ResetEmailUsername generates a new random email username.
func (i *InboxResource) ResetEmailUsername(ctx context.Context) (*Inbox, error) {
	return i.action(ctx, "reset_email_username")
}

// Messages returns the messages captured by the inbox.
func (i *InboxResource) Messages() *MessagesResource {
	return &MessagesResource{res: i.res.with(ResourceMessage, "messages"), logger: i.res.api.Logger()}
}

// Message returns a handle for a single captured message.
func (i *InboxResource) Message(id int64) *MessageResource {
	return &MessageResource{res: i.res.withID(ResourceMessage, "messages", id)}
}
