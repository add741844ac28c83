// Package dnsauth evaluates the DNS records Mailtrap requires before a
// sending domain may deliver mail: ownership verification, SPF, DKIM and
// DMARC.
package dnsauth

import (
	"strings"
)

// Kind classifies a DNS record by the check it serves.
type Kind string

const (
	KindVerification Kind = "verification"
	KindSPF          Kind = "spf"
	KindDKIM         Kind = "dkim"
	KindDMARC        Kind = "dmarc"
	KindTracking     Kind = "tracking"
	KindOther        Kind = "other"
)

// StatusPass is the status of a record found and matching in DNS.
const StatusPass = "pass"

// Record is a DNS record of a sending domain as reported by the API.
type Record struct {
	// Key identifies the record, e.g. "spf", "dkim1", "dmarc".
	Key    string `json:"key"`
	Domain string `json:"domain"`
	// Type is the DNS record type (CNAME, TXT, MX).
	Type  string `json:"type"`
	Value string `json:"value"`
	// Status is "pass" once the record was found with the expected value.
	Status string `json:"status"`
	Name   string `json:"name"`
}

// Kind derives the record kind from its key.
func (r Record) Kind() Kind {
	key := strings.ToLower(r.Key)
	switch {
	case key == "verification":
		return KindVerification
	case key == "spf":
		return KindSPF
	case strings.HasPrefix(key, "dkim"):
		return KindDKIM
	case key == "dmarc":
		return KindDMARC
	case strings.Contains(key, "tracking"):
		return KindTracking
	default:
		return KindOther
	}
}

// Passed reports whether the record was verified.
func (r Record) Passed() bool {
	return strings.EqualFold(r.Status, StatusPass)
}

// String renders the record as a zone file line.
func (r Record) String() string {
	return r.Domain + " " + strings.ToUpper(r.Type) + " " + r.Value
}

// Summary provides an overview of a domain's DNS setup.
type Summary struct {
	// Passed indicates whether verification, SPF, DKIM and DMARC all passed.
	Passed             bool `json:"passed"`
	VerificationPassed bool `json:"verificationPassed"`
	SPFPassed          bool `json:"spfPassed"`
	// DKIMPassed requires every DKIM record to pass.
	DKIMPassed  bool `json:"dkimPassed"`
	DMARCPassed bool `json:"dmarcPassed"`
	// Pending lists required records that have not passed yet.
	Pending []Record `json:"pending"`
	// Failures contains descriptive messages for any failed checks.
	Failures []string `json:"failures"`
}

func kindPassed(records []Record, kind Kind) (found, passed bool, failing []Record) {
	passed = true
	for _, r := range records {
		if r.Kind() != kind {
			continue
		}
		found = true
		if !r.Passed() {
			passed = false
			failing = append(failing, r)
		}
	}
	return found, found && passed, failing
}

// Summarize evaluates records. Tracking and unknown records never affect
// the result.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{
			Pending:  []Record{},
			Failures: []string{"no DNS records available"},
		}
	}

	s := Summary{Pending: []Record{}, Failures: []string{}}
	check := func(kind Kind, label string) bool {
		found, passed, failing := kindPassed(records, kind)
		if !found {
			s.Failures = append(s.Failures, label+" record missing")
			return false
		}
		if !passed {
			s.Pending = append(s.Pending, failing...)
			keys := make([]string, len(failing))
			for i, r := range failing {
				status := r.Status
				if status == "" {
					status = "missing"
				}
				keys[i] = r.Key + " (" + status + ")"
			}
			s.Failures = append(s.Failures, label+" not verified: "+strings.Join(keys, ", "))
		}
		return passed
	}

	s.VerificationPassed = check(KindVerification, "verification")
	s.SPFPassed = check(KindSPF, "SPF")
	s.DKIMPassed = check(KindDKIM, "DKIM")
	s.DMARCPassed = check(KindDMARC, "DMARC")
	s.Passed = s.VerificationPassed && s.SPFPassed && s.DKIMPassed && s.DMARCPassed
	return s
}

// IsPassing returns true if every required record passed.
func IsPassing(records []Record) bool {
	return Summarize(records).Passed
}
