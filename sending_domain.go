package mailtrap

import (
	"context"
	"net/http"
	"time"

	"github.com/mailtrap/client-go/dnsauth"
	"github.com/mailtrap/client-go/validation"
)

// SendingDomain is a domain verified for sending.
type SendingDomain struct {
	ID                          int64               `json:"id"`
	DomainName                  string              `json:"domain_name"`
	Demo                        bool                `json:"demo"`
	ComplianceStatus            string              `json:"compliance_status"`
	DNSVerified                 bool                `json:"dns_verified"`
	DNSVerifiedAt               *time.Time          `json:"dns_verified_at,omitempty"`
	DNSRecords                  []dnsauth.Record    `json:"dns_records"`
	OpenTrackingEnabled         bool                `json:"open_tracking_enabled"`
	ClickTrackingEnabled        bool                `json:"click_tracking_enabled"`
	AutoUnsubscribeLinkEnabled  bool                `json:"auto_unsubscribe_link_enabled"`
	CustomDomainTrackingEnabled bool                `json:"custom_domain_tracking_enabled"`
	HealthAlertsEnabled         bool                `json:"health_alerts_enabled"`
	CriticalAlertsEnabled       bool                `json:"critical_alerts_enabled"`
	AlertRecipientEmail         string              `json:"alert_recipient_email,omitempty"`
	Permissions                 ResourcePermissions `json:"permissions"`
}

// DNSSummary evaluates the domain's DNS records.
func (d *SendingDomain) DNSSummary() dnsauth.Summary {
	return dnsauth.Summarize(d.DNSRecords)
}

// CreateSendingDomainRequest registers a sending domain.
type CreateSendingDomainRequest struct {
	DomainName string `json:"domain_name"`
}

// Validate checks the request before it is sent.
func (r CreateSendingDomainRequest) Validate() validation.Result {
	return validation.Check(
		validation.Length("domain_name", r.DomainName, 1, 253),
		validation.When(r.DomainName != "", validation.Hostname("domain_name", r.DomainName)),
	)
}

type setupInstructionsRequest struct {
	Email string `json:"email"`
}

func (r setupInstructionsRequest) Validate() validation.Result {
	return validation.Check(validation.Email("email", r.Email))
}

// SendingDomainsResource is the collection of sending domains.
type SendingDomainsResource struct {
	res resource
}

// List returns the account's sending domains.
func (s *SendingDomainsResource) List(ctx context.Context) ([]SendingDomain, error) {
	out, err := execData[[]SendingDomain](ctx, s.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Create registers a new sending domain. The returned domain lists the DNS
// records to publish.
func (s *SendingDomainsResource) Create(ctx context.Context, req CreateSendingDomainRequest) (*SendingDomain, error) {
	return execJSON[SendingDomain](ctx, s.res, http.MethodPost, nil, nest("sending_domain", req))
}

// SendingDomainResource is a single sending domain.
type SendingDomainResource struct {
	res resource
}

// Get fetches the domain with its DNS records.
func (s *SendingDomainResource) Get(ctx context.Context) (*SendingDomain, error) {
	return execJSON[SendingDomain](ctx, s.res, http.MethodGet, nil, nil)
}

// Delete removes the domain.
func (s *SendingDomainResource) Delete(ctx context.Context) error {
	return execStatus(ctx, s.res, http.MethodDelete, nil)
}

// SendSetupInstructions emails the DNS setup instructions to email.
func (s *SendingDomainResource) SendSetupInstructions(ctx context.Context, email string) error {
	return execStatus(ctx, s.res.with(ResourceSendingDomain, "send_setup_instructions"), http.MethodPost, setupInstructionsRequest{Email: email})
}

// Check fetches the domain and validates its DNS records. It returns the
// domain together with a *dnsauth.ValidationError when a required record has
// not passed.
func (s *SendingDomainResource) Check(ctx context.Context) (*SendingDomain, error) {
	d, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d, dnsauth.Validate(d.DNSRecords)
}
