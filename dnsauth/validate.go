package dnsauth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVerificationFailed is returned when the ownership record is not verified.
	ErrVerificationFailed = errors.New("domain verification failed")

	// ErrSPFFailed is returned when the SPF record is not verified.
	ErrSPFFailed = errors.New("SPF check failed")

	// ErrDKIMFailed is returned when a DKIM record is not verified.
	ErrDKIMFailed = errors.New("DKIM check failed")

	// ErrDMARCFailed is returned when the DMARC record is not verified.
	ErrDMARCFailed = errors.New("DMARC check failed")

	// ErrNoRecords is returned when no DNS records are available.
	ErrNoRecords = errors.New("no DNS records available")
)

// ValidationError contains details about a validation failure.
type ValidationError struct {
	Verification error
	SPF          error
	DKIM         error
	DMARC        error
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Verification != nil {
		parts = append(parts, fmt.Sprintf("verification: %v", e.Verification))
	}
	if e.SPF != nil {
		parts = append(parts, fmt.Sprintf("SPF: %v", e.SPF))
	}
	if e.DKIM != nil {
		parts = append(parts, fmt.Sprintf("DKIM: %v", e.DKIM))
	}
	if e.DMARC != nil {
		parts = append(parts, fmt.Sprintf("DMARC: %v", e.DMARC))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual check failures to errors.Is.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.Verification, e.SPF, e.DKIM, e.DMARC} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateKind(records []Record, kind Kind, sentinel error) error {
	found, passed, failing := kindPassed(records, kind)
	if !found {
		return fmt.Errorf("%w: record missing", sentinel)
	}
	if passed {
		return nil
	}
	statuses := make([]string, len(failing))
	for i, r := range failing {
		statuses[i] = r.Key + "=" + r.Status
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(statuses, ", "))
}

// Validate checks that every required record passed.
func Validate(records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	verr := &ValidationError{
		Verification: validateKind(records, KindVerification, ErrVerificationFailed),
		SPF:          validateKind(records, KindSPF, ErrSPFFailed),
		DKIM:         validateKind(records, KindDKIM, ErrDKIMFailed),
		DMARC:        validateKind(records, KindDMARC, ErrDMARCFailed),
	}
	if len(verr.Unwrap()) > 0 {
		return verr
	}
	return nil
}

// ValidateSPF validates only the SPF record.
func ValidateSPF(records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	return validateKind(records, KindSPF, ErrSPFFailed)
}

// ValidateDKIM validates only the DKIM records.
func ValidateDKIM(records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	return validateKind(records, KindDKIM, ErrDKIMFailed)
}

// ValidateDMARC validates only the DMARC record.
func ValidateDMARC(records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	return validateKind(records, KindDMARC, ErrDMARCFailed)
}
