package mailtrap

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Attachment types accepted by AttachmentsResource.List.
const (
	AttachmentTypeInline     = "inline"
	AttachmentTypeAttachment = "attachment"
)

// MessageAttachment is a file attached to a captured message.
type MessageAttachment struct {
	ID                  int64     `json:"id"`
	MessageID           int64     `json:"message_id"`
	Filename            string    `json:"filename"`
	AttachmentType      string    `json:"attachment_type"`
	ContentType         string    `json:"content_type"`
	ContentID           string    `json:"content_id"`
	TransferEncoding    string    `json:"transfer_encoding"`
	AttachmentSize      int64     `json:"attachment_size"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	AttachmentHumanSize string    `json:"attachment_human_size"`
	DownloadPath        string    `json:"download_path"`
}

// AttachmentsResource lists the attachments of a message.
type AttachmentsResource struct {
	res resource
}

// List returns the message's attachments. An empty attachmentType returns
// all of them; otherwise use AttachmentTypeInline or AttachmentTypeAttachment.
func (a *AttachmentsResource) List(ctx context.Context, attachmentType string) ([]*MessageAttachment, error) {
	out, err := execJSON[[]*MessageAttachment](ctx, a.res, http.MethodGet, url.Values{"attachment_type": {attachmentType}}, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// AttachmentResource is a single message attachment.
type AttachmentResource struct {
	res resource
}

// Get fetches the attachment metadata.
func (a *AttachmentResource) Get(ctx context.Context) (*MessageAttachment, error) {
	return execJSON[MessageAttachment](ctx, a.res, http.MethodGet, nil, nil)
}
