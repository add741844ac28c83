package mailtrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mailtrap/client-go/eml"
	"github.com/mailtrap/client-go/spamreport"
	"github.com/mailtrap/client-go/validation"
)

// Message is an email captured by a testing inbox. Bodies and reports are
// fetched separately through inbox.Message(id).
type Message struct {
	ID                   int64            `json:"id"`
	InboxID              int64            `json:"inbox_id"`
	Subject              string           `json:"subject"`
	SentAt               time.Time        `json:"sent_at"`
	FromEmail            string           `json:"from_email"`
	FromName             string           `json:"from_name"`
	ToEmail              string           `json:"to_email"`
	ToName               string           `json:"to_name"`
	EmailSize            int64            `json:"email_size"`
	IsRead               bool             `json:"is_read"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	HTMLBodySize         int64            `json:"html_body_size"`
	TextBodySize         int64            `json:"text_body_size"`
	HumanSize            string           `json:"human_size"`
	HTMLPath             string           `json:"html_path"`
	TextPath             string           `json:"txt_path"`
	RawPath              string           `json:"raw_path"`
	DownloadPath         string           `json:"download_path"`
	HTMLSourcePath       string           `json:"html_source_path"`
	BlacklistsReportInfo *BlacklistReport `json:"blacklists_report_info,omitempty"`
	SMTPInformation      SMTPInformation  `json:"smtp_information"`
}

// Recipients splits ToEmail into individual addresses.
func (m *Message) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(m.ToEmail, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// BlacklistReport is the blacklist check of the sending IP.
type BlacklistReport struct {
	Result string `json:"result"`
	Domain string `json:"domain"`
	IP     string `json:"ip"`
	Report []struct {
		Name        string `json:"name"`
		URL         string `json:"url"`
		InBlackList bool   `json:"in_black_list"`
	} `json:"report"`
}

// SMTPInformation describes the SMTP session that delivered a message.
type SMTPInformation struct {
	OK   bool `json:"ok"`
	Data struct {
		MailFromAddr string `json:"mail_from_addr"`
		ClientIP     string `json:"client_ip"`
	} `json:"data"`
}

// HTMLAnalysis is the client support report of a message's HTML.
type HTMLAnalysis struct {
	Status string              `json:"status"`
	Errors []HTMLAnalysisError `json:"errors"`
}

// HTMLAnalysisError is an HTML or CSS feature unsupported by some clients.
type HTMLAnalysisError struct {
	ErrorLine    int    `json:"error_line"`
	RuleName     string `json:"rule_name"`
	EmailClients struct {
		Desktop []string `json:"desktop"`
		Mobile  []string `json:"mobile"`
		Web     []string `json:"web"`
	} `json:"email_clients"`
}

// messagesPageSize is the number of messages List returns per page.
const messagesPageSize = 30

// MessageFilter narrows List.
type MessageFilter struct {
	// Search matches subject, to_email and to_name.
	Search string
	// LastID returns messages older than the given message ID.
	LastID int64
	// Page selects a page of 30 messages. It is ignored when LastID is set.
	Page int
}

func (f MessageFilter) values() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.LastID > 0 {
		q.Set("last_id", strconv.FormatInt(f.LastID, 10))
	} else if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// MessagesResource is the collection of messages in an inbox.
type MessagesResource struct {
	res    resource
	logger *slog.Logger
}

// List returns messages, newest first.
func (m *MessagesResource) List(ctx context.Context, filter MessageFilter) ([]*Message, error) {
	out, err := execJSON[[]*Message](ctx, m.res, http.MethodGet, filter.values(), nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// MessageResource is a single captured message.
type MessageResource struct {
	res resource
}

// Get fetches the message metadata.
func (m *MessageResource) Get(ctx context.Context) (*Message, error) {
	return execJSON[Message](ctx, m.res, http.MethodGet, nil, nil)
}

type markReadRequest struct {
	IsRead bool `json:"is_read"`
}

func (markReadRequest) Validate() validation.Result { return validation.Result{} }

// MarkAsRead sets or clears the read flag.
func (m *MessageResource) MarkAsRead(ctx context.Context, read bool) (*Message, error) {
	return execJSON[Message](ctx, m.res, http.MethodPatch, nil, nest("message", markReadRequest{IsRead: read}))
}

// Delete removes the message.
func (m *MessageResource) Delete(ctx context.Context) (*Message, error) {
	return execJSON[Message](ctx, m.res, http.MethodDelete, nil, nil)
}

// ForwardMessageRequest forwards a message to a confirmed address.
type ForwardMessageRequest struct {
	Email string `json:"email"`
}

// Validate checks the request before it is sent.
func (r ForwardMessageRequest) Validate() validation.Result {
	return validation.Check(validation.Email("email", r.Email))
}

// Forward sends the message to req.Email and returns the server's
// confirmation message.
func (m *MessageResource) Forward(ctx context.Context, req ForwardMessageRequest) (string, error) {
	out, err := execJSON[struct {
		Message string `json:"message"`
	}](ctx, m.res.with(ResourceMessage, "forward"), http.MethodPost, nil, req)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// SpamReport returns the SpamAssassin report of the message.
func (m *MessageResource) SpamReport(ctx context.Context) (*spamreport.Report, error) {
	out, err := execJSON[struct {
		Report spamreport.Report `json:"report"`
	}](ctx, m.res.with(ResourceMessage, "spam_report"), http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// HTMLAnalysis returns the email client support report of the HTML body.
func (m *MessageResource) HTMLAnalysis(ctx context.Context) (*HTMLAnalysis, error) {
	out, err := execJSON[struct {
		Report HTMLAnalysis `json:"report"`
	}](ctx, m.res.with(ResourceMessage, "analyze"), http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}

// Headers returns the message headers as sent.
func (m *MessageResource) Headers(ctx context.Context) (map[string]string, error) {
	out, err := execJSON[struct {
		Headers map[string]string `json:"headers"`
	}](ctx, m.res.with(ResourceMessage, "mail_headers"), http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return out.Headers, nil
}

// TextBody returns the plain text body.
func (m *MessageResource) TextBody(ctx context.Context) (string, error) {
	return execText(ctx, m.res.with(ResourceMessage, "body.txt"))
}

// HTMLBody returns the HTML body as rendered by Mailtrap.
func (m *MessageResource) HTMLBody(ctx context.Context) (string, error) {
	return execText(ctx, m.res.with(ResourceMessage, "body.html"))
}

// HTMLSource returns the HTML body exactly as sent.
func (m *MessageResource) HTMLSource(ctx context.Context) (string, error) {
	return execText(ctx, m.res.with(ResourceMessage, "body.htmlsource"))
}

// RawBody returns the raw message body.
func (m *MessageResource) RawBody(ctx context.Context) (string, error) {
	return execText(ctx, m.res.with(ResourceMessage, "body.raw"))
}

// EML returns the full message source in .eml format.
func (m *MessageResource) EML(ctx context.Context) (string, error) {
	return execText(ctx, m.res.with(ResourceMessage, "body.eml"))
}

// Parse downloads the message source and parses it.
func (m *MessageResource) Parse(ctx context.Context) (*eml.Message, error) {
	raw, err := m.EML(ctx)
	if err != nil {
		return nil, err
	}
	return eml.ParseString(raw)
}

// Attachments returns the attachments of the message.
func (m *MessageResource) Attachments() *AttachmentsResource {
	return &AttachmentsResource{res: m.res.with(ResourceAttachment, "attachments")}
}

// Attachment returns a handle for a single attachment.
func (m *MessageResource) Attachment(id int64) *AttachmentResource {
	return &AttachmentResource{res: m.res.withID(ResourceAttachment, "attachments", id)}
}

func equalFoldAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsAddress(list, addr string) bool {
	for _, candidate := range strings.Split(list, ",") {
		if equalFoldAddress(candidate, addr) {
			return true
		}
	}
	return false
}
