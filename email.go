package mailtrap

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"

	"github.com/mailtrap/client-go/validation"
)

// Attachment dispositions.
const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

const (
	maxRecipients    = 1000
	maxBatchRequests = 500
	maxCategoryLen   = 255
)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ParseAddress parses "Name <email>" or a bare email.
func ParseAddress(s string) (Address, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: address %q: %w", ErrInvalidArgument, s, err)
	}
	return Address{Email: a.Address, Name: a.Name}, nil
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Validate checks the address.
func (a Address) Validate() validation.Result {
	return validation.Check(validation.Email("email", a.Email))
}

// Attachment is a file sent with an email. Content is base64 encoded.
type Attachment struct {
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	Type        string `json:"type,omitempty"`
	Disposition string `json:"disposition,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
}

// NewAttachment encodes data as an attachment.
func NewAttachment(filename, contentType string, data []byte) Attachment {
	return Attachment{
		Content:  base64.StdEncoding.EncodeToString(data),
		Filename: filename,
		Type:     contentType,
	}
}

// NewInlineAttachment encodes data as an inline part referenced from HTML
// by cid:contentID.
func NewInlineAttachment(filename, contentType, contentID string, data []byte) Attachment {
	a := NewAttachment(filename, contentType, data)
	a.Disposition = DispositionInline
	a.ContentID = contentID
	return a
}

// Validate checks the attachment.
func (a Attachment) Validate() validation.Result {
	return validation.Check(
		validation.Required("content", a.Content),
		validation.Required("filename", a.Filename),
		validation.When(a.Disposition != "",
			validation.OneOf("disposition", a.Disposition, DispositionAttachment, DispositionInline)),
		validation.When(a.Disposition == DispositionInline, validation.Required("content_id", a.ContentID)),
	)
}

// SendEmailRequest is a single email. Either set Subject with Text or HTML,
// or set TemplateUUID and TemplateVariables.
type SendEmailRequest struct {
	From              Address           `json:"from,omitzero"`
	To                []Address         `json:"to,omitempty"`
	Cc                []Address         `json:"cc,omitempty"`
	Bcc               []Address         `json:"bcc,omitempty"`
	ReplyTo           *Address          `json:"reply_to,omitempty"`
	Attachments       []Attachment      `json:"attachments,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	CustomVariables   map[string]string `json:"custom_variables,omitempty"`
	Subject           string            `json:"subject,omitempty"`
	Text              string            `json:"text,omitempty"`
	HTML              string            `json:"html,omitempty"`
	Category          string            `json:"category,omitempty"`
	TemplateUUID      string            `json:"template_uuid,omitempty"`
	TemplateVariables map[string]any    `json:"template_variables,omitempty"`
}

// Validate checks the request before it is sent.
func (r SendEmailRequest) Validate() validation.Result {
	recipients := len(r.To) + len(r.Cc) + len(r.Bcc)
	res := validation.Check(
		validation.MinItems("to", recipients, 1),
		validation.MaxItems("to", recipients, maxRecipients),
	)
	res = res.Merge("from", r.From.Validate())
	if r.ReplyTo != nil {
		res = res.Merge("reply_to", r.ReplyTo.Validate())
	}
	res = res.Merge("", validation.Each("to", r.To, Address.Validate))
	res = res.Merge("", validation.Each("cc", r.Cc, Address.Validate))
	res = res.Merge("", validation.Each("bcc", r.Bcc, Address.Validate))
	res = res.Merge("", validateContent(r.TemplateUUID, r.Subject, r.Text, r.HTML, r.Category, len(r.TemplateVariables)))
	res = res.Merge("", validation.Each("attachments", r.Attachments, Attachment.Validate))
	return res.Merge("", validateHeaders(r.Headers))
}

func validateContent(templateUUID, subject, text, html, category string, templateVars int) validation.Result {
	if templateUUID != "" {
		const reason = "when template_uuid is set"
		return validation.Check(
			validation.UUID("template_uuid", templateUUID),
			validation.Empty("subject", subject, reason),
			validation.Empty("text", text, reason),
			validation.Empty("html", html, reason),
			validation.Empty("category", category, reason),
		)
	}
	return validation.Check(
		validation.Required("subject", subject),
		validation.Custom("text", text != "" || html != "", "text or html is required"),
		validation.MaxLength("category", category, maxCategoryLen),
		validation.Custom("template_variables", templateVars == 0, "requires template_uuid"),
	)
}

func validateHeaders(headers map[string]string) validation.Result {
	for name := range headers {
		if strings.TrimSpace(name) == "" {
			return validation.Result{}.Add("headers", "names must not be empty")
		}
	}
	return validation.Result{}
}

// BatchBase holds the fields shared by every request of a batch. Fields set
// on an individual request take precedence.
type BatchBase struct {
	From              *Address          `json:"from,omitempty"`
	ReplyTo           *Address          `json:"reply_to,omitempty"`
	Attachments       []Attachment      `json:"attachments,omitempty"`
	Headers           map[string]string `json:"headers,omitempty"`
	CustomVariables   map[string]string `json:"custom_variables,omitempty"`
	Subject           string            `json:"subject,omitempty"`
	Text              string            `json:"text,omitempty"`
	HTML              string            `json:"html,omitempty"`
	Category          string            `json:"category,omitempty"`
	TemplateUUID      string            `json:"template_uuid,omitempty"`
	TemplateVariables map[string]any    `json:"template_variables,omitempty"`
}

// BatchEmailRequest sends up to 500 emails in one call.
type BatchEmailRequest struct {
	Base     *BatchBase         `json:"base,omitempty"`
	Requests []SendEmailRequest `json:"requests"`
}

// Merged returns request i with the base fields filled in.
func (b BatchEmailRequest) Merged(i int) SendEmailRequest {
	r := b.Requests[i]
	base := b.Base
	if base == nil {
		return r
	}
	if r.From.Email == "" && base.From != nil {
		r.From = *base.From
	}
	if r.ReplyTo == nil {
		r.ReplyTo = base.ReplyTo
	}
	if r.Attachments == nil {
		r.Attachments = base.Attachments
	}
	r.Headers = mergeMap(base.Headers, r.Headers)
	r.CustomVariables = mergeMap(base.CustomVariables, r.CustomVariables)
	// A request that sets its own template or content does not inherit
	// the other mode from the base.
	switch {
	case r.TemplateUUID != "" || r.Subject != "" || r.Text != "" || r.HTML != "":
	case base.TemplateUUID != "":
		r.TemplateUUID = base.TemplateUUID
	default:
		r.Subject, r.Text, r.HTML = base.Subject, base.Text, base.HTML
	}
	if r.TemplateUUID == "" && r.Category == "" {
		r.Category = base.Category
	}
	if r.TemplateUUID != "" {
		r.TemplateVariables = mergeMap(base.TemplateVariables, r.TemplateVariables)
	}
	return r
}

func mergeMap[V any](base, override map[string]V) map[string]V {
	if len(base) == 0 {
		return override
	}
	out := make(map[string]V, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Validate checks every merged request.
func (b BatchEmailRequest) Validate() validation.Result {
	res := validation.Check(
		validation.MinItems("requests", len(b.Requests), 1),
		validation.MaxItems("requests", len(b.Requests), maxBatchRequests),
	)
	for i := range b.Requests {
		res = res.Merge(fmt.Sprintf("requests[%d]", i), b.Merged(i).Validate())
	}
	return res
}

// SendEmailResponse is the result of Send.
type SendEmailResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
}

// BatchEmailResponse is the result of Batch. Each entry of Responses
// corresponds to the request at the same index.
type BatchEmailResponse struct {
	Success   bool               `json:"success"`
	Responses []BatchEmailResult `json:"responses"`
	Errors    []string           `json:"errors,omitempty"`
}

// BatchEmailResult is the outcome of one request of a batch.
type BatchEmailResult struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Failed returns the indexes of unsuccessful requests.
func (r *BatchEmailResponse) Failed() []int {
	var idx []int
	for i, res := range r.Responses {
		if !res.Success {
			idx = append(idx, i)
		}
	}
	return idx
}
