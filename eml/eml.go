// Package eml parses raw RFC 5322 messages, such as the .eml source of a
// captured message, into headers, bodies and attachments.
package eml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Address is a parsed mailbox.
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// Attachment is a non-inline part of a message.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	// Inline is set for parts with an inline disposition and a filename,
	// such as embedded images.
	Inline  bool
	Content []byte
}

// Size returns the decoded size of the attachment.
func (a Attachment) Size() int {
	return len(a.Content)
}

// Message is a parsed message.
type Message struct {
	MessageID string
	Subject   string
	Date      time.Time
	From      []Address
	To        []Address
	Cc        []Address
	ReplyTo   []Address
	// Headers holds every header with decoded values, keyed by canonical
	// name.
	Headers textproto.MIMEHeader
	Text    string
	HTML    string

	Attachments []Attachment
}

// Header returns the first value of the named header.
func (m *Message) Header(key string) string {
	return m.Headers.Get(key)
}

// Recipients returns To and Cc addresses.
func (m *Message) Recipients() []Address {
	out := make([]Address, 0, len(m.To)+len(m.Cc))
	out = append(out, m.To...)
	return append(out, m.Cc...)
}

// ParseString parses a message held in a string.
func ParseString(raw string) (*Message, error) {
	return Parse(strings.NewReader(raw))
}

// ParseBytes parses a message held in a byte slice.
func ParseBytes(raw []byte) (*Message, error) {
	return Parse(bytes.NewReader(raw))
}

// Parse reads a whole message from r.
func Parse(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && mr == nil {
		return nil, fmt.Errorf("eml: read header: %w", err)
	}
	defer mr.Close()

	msg := &Message{Headers: textproto.MIMEHeader{}}
	readHeader(msg, &mr.Header)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return msg, fmt.Errorf("eml: read part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return msg, fmt.Errorf("eml: read %s body: %w", contentType, err)
			}
			switch {
			case strings.HasPrefix(contentType, "text/html"):
				if msg.HTML == "" {
					msg.HTML = string(body)
				}
			case strings.HasPrefix(contentType, "text/plain"), contentType == "":
				if msg.Text == "" {
					msg.Text = string(body)
				}
			default:
				// Inline images and the like.
				msg.Attachments = append(msg.Attachments, Attachment{
					ContentType: contentType,
					ContentID:   strings.Trim(h.Get("Content-Id"), "<>"),
					Inline:      true,
					Content:     body,
				})
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return msg, fmt.Errorf("eml: read attachment %q: %w", filename, err)
			}
			disposition, _, _ := h.ContentDisposition()
			msg.Attachments = append(msg.Attachments, Attachment{
				Filename:    filename,
				ContentType: contentType,
				ContentID:   strings.Trim(h.Get("Content-Id"), "<>"),
				Inline:      disposition == "inline",
				Content:     body,
			})
		}
	}

	return msg, nil
}

func readHeader(msg *Message, h *mail.Header) {
	msg.Subject, _ = h.Subject()
	msg.MessageID, _ = h.MessageID()
	msg.Date, _ = h.Date()
	msg.From = addressList(h, "From")
	msg.To = addressList(h, "To")
	msg.Cc = addressList(h, "Cc")
	msg.ReplyTo = addressList(h, "Reply-To")

	fields := h.Fields()
	for fields.Next() {
		v, err := fields.Text()
		if err != nil {
			v = fields.Value()
		}
		msg.Headers.Add(fields.Key(), v)
	}
}

func addressList(h *mail.Header, key string) []Address {
	list, err := h.AddressList(key)
	if err != nil {
		return nil
	}
	out := make([]Address, 0, len(list))
	for _, a := range list {
		out = append(out, Address{Name: a.Name, Email: a.Address})
	}
	return out
}
