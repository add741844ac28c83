// Package webhooks decodes the event notifications Mailtrap posts to a
// configured webhook URL and provides an http.Handler that dispatches them.
//
//	http.Handle("/mailtrap", webhooks.Handler(func(ctx context.Context, events []webhooks.Event) error {
//		for _, e := range events {
//			log.Printf("%s %s", e.Type, e.Email)
//		}
//		return nil
//	}, webhooks.WithSigningSecret(secret)))
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// EventType is the kind of a webhook event.
type EventType string

const (
	EventDelivery    EventType = "delivery"
	EventSoftBounce  EventType = "soft bounce"
	EventBounce      EventType = "bounce"
	EventSuspension  EventType = "suspension"
	EventUnsubscribe EventType = "unsubscribe"
	EventOpen        EventType = "open"
	EventSpam        EventType = "spam"
	EventClick       EventType = "click"
	EventReject      EventType = "reject"
)

// Failure reports whether the event means the message was not delivered.
func (t EventType) Failure() bool {
	switch t {
	case EventSoftBounce, EventBounce, EventSuspension, EventReject:
		return true
	}
	return false
}

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "Mailtrap-Signature"

var (
	// ErrMalformedPayload is returned when the body is not a webhook payload.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrInvalidSignature is returned when the signature does not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Event is a single notification.
type Event struct {
	ID              string            `json:"event_id"`
	Type            EventType         `json:"event"`
	MessageID       string            `json:"message_id"`
	SendingStream   string            `json:"sending_stream"`
	SendingDomain   string            `json:"sending_domain_name,omitempty"`
	Email           string            `json:"email"`
	Timestamp       int64             `json:"timestamp"`
	Category        string            `json:"category,omitempty"`
	CustomVariables map[string]string `json:"custom_variables,omitempty"`

	// Bounce and reject details.
	Reason         string `json:"reason,omitempty"`
	Response       string `json:"response,omitempty"`
	ResponseCode   int    `json:"response_code,omitempty"`
	BounceCategory string `json:"bounce_category,omitempty"`

	// Open and click details.
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Time returns Timestamp as a time.
func (e Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

type payload struct {
	Events *[]Event `json:"events"`
}

// ParseEvents decodes a webhook body.
func ParseEvents(r io.Reader) ([]Event, error) {
	var p payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if p.Events == nil {
		return nil, fmt.Errorf("%w: missing events", ErrMalformedPayload)
	}
	for i, e := range *p.Events {
		if e.Type == "" {
			return nil, fmt.Errorf("%w: events[%d]: missing event type", ErrMalformedPayload, i)
		}
	}
	return *p.Events, nil
}

// Sign returns the signature Mailtrap sends for body.
func Sign(secret string, body []byte) string {
	return hex.EncodeToString(mac(secret, body))
}

// VerifySignature checks signature against body.
func VerifySignature(secret string, body []byte, signature string) error {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || !hmac.Equal(got, mac(secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

func mac(secret string, body []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return h.Sum(nil)
}
