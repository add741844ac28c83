// Package validation provides composable, local checks for request values.
//
// A [Rule] inspects one field and reports at most one [FieldError]. Rules are
// plain functions collected in slices and evaluated with [Check]; nothing is
// sent over the network. Nested values are validated separately and folded
// into the parent with [Result.Merge] or [Each].
//
//	res := validation.Check(
//		validation.Length("name", req.Name, 2, 100),
//		validation.Email("email", req.Email),
//	)
//	if !res.IsValid() {
//		return res
//	}
package validation

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Result is the outcome of validating a value. The zero value is valid.
type Result struct {
	Errors []FieldError
}

// IsValid reports whether no rule failed.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Error joins all field errors.
func (r Result) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the names of the failing fields in order.
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if !slices.Contains(fields, e.Field) {
			fields = append(fields, e.Field)
		}
	}
	return fields
}

// Has reports whether field has at least one error.
func (r Result) Has(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Add returns r with an extra error.
func (r Result) Add(field, message string) Result {
	r.Errors = append(slices.Clip(r.Errors), FieldError{Field: field, Message: message})
	return r
}

// Merge returns r extended with the errors of other, each field prefixed
// with prefix.
func (r Result) Merge(prefix string, other Result) Result {
	if other.IsValid() {
		return r
	}
	errs := slices.Clip(r.Errors)
	for _, e := range other.Errors {
		field := e.Field
		switch {
		case prefix == "":
		case field == "":
			field = prefix
		default:
			field = prefix + "." + field
		}
		errs = append(errs, FieldError{Field: field, Message: e.Message})
	}
	return Result{Errors: errs}
}

// Rule checks one field and returns nil when it holds.
type Rule func() *FieldError

// Check evaluates every rule and collects the failures.
func Check(rules ...Rule) Result {
	var res Result
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if fe := rule(); fe != nil {
			res.Errors = append(res.Errors, *fe)
		}
	}
	return res
}

// Each validates every item with fn and merges the results under
// field[i].
func Each[T any](field string, items []T, fn func(T) Result) Result {
	var res Result
	for i, item := range items {
		res = res.Merge(fmt.Sprintf("%s[%d]", field, i), fn(item))
	}
	return res
}

func fail(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	if !cond {
		return nil
	}
	return rule
}

// Required fails when value is empty or whitespace.
func Required(field, value string) Rule {
	return func() *FieldError {
		if strings.TrimSpace(value) == "" {
			return fail(field, "is required")
		}
		return nil
	}
}

// Empty fails when value is set. Used for fields that conflict with a mode.
func Empty(field, value, reason string) Rule {
	return func() *FieldError {
		if value != "" {
			return fail(field, "must be empty %s", reason)
		}
		return nil
	}
}

// Length fails unless value has between min and max characters.
func Length(field, value string, min, max int) Rule {
	return func() *FieldError {
		n := utf8.RuneCountInString(value)
		if min > 0 && strings.TrimSpace(value) == "" {
			return fail(field, "is required")
		}
		if n < min || n > max {
			return fail(field, "must be between %d and %d characters", min, max)
		}
		return nil
	}
}

// MaxLength fails when value exceeds max characters.
func MaxLength(field, value string, max int) Rule {
	return func() *FieldError {
		if utf8.RuneCountInString(value) > max {
			return fail(field, "must be at most %d characters", max)
		}
		return nil
	}
}

// Email fails unless value is a bare RFC 5322 address such as
// "john@example.com".
func Email(field, value string) Rule {
	return func() *FieldError {
		if strings.TrimSpace(value) == "" {
			return fail(field, "is required")
		}
		if !IsEmail(value) {
			return fail(field, "must be a valid email address")
		}
		return nil
	}
}

// IsEmail reports whether value is a bare email address with a domain part.
func IsEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return false
	}
	at := strings.LastIndexByte(value, '@')
	return at > 0 && at < len(value)-1
}

// Hostname fails unless value is a DNS name of up to 253 characters made of
// valid labels.
func Hostname(field, value string) Rule {
	return func() *FieldError {
		if value == "" {
			return fail(field, "is required")
		}
		if !IsHostname(value) {
			return fail(field, "must be a valid domain name")
		}
		return nil
	}
}

// IsHostname reports whether value is a syntactically valid DNS name.
func IsHostname(value string) bool {
	if len(value) > 253 || !strings.Contains(value, ".") {
		return false
	}
	for _, label := range strings.Split(value, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			default:
				return false
			}
		}
	}
	return true
}

// OneOf fails unless value is one of allowed.
func OneOf(field, value string, allowed ...string) Rule {
	return func() *FieldError {
		if !slices.Contains(allowed, value) {
			return fail(field, "must be one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// MinItems fails when count is below min.
func MinItems(field string, count, min int) Rule {
	return func() *FieldError {
		if count < min {
			if min == 1 {
				return fail(field, "must not be empty")
			}
			return fail(field, "must contain at least %d items", min)
		}
		return nil
	}
}

// MaxItems fails when count exceeds max.
func MaxItems(field string, count, max int) Rule {
	return func() *FieldError {
		if count > max {
			return fail(field, "must contain at most %d items", max)
		}
		return nil
	}
}

// UUID fails unless value parses as a UUID.
func UUID(field, value string) Rule {
	return func() *FieldError {
		if value == "" {
			return fail(field, "is required")
		}
		if err := uuid.Validate(value); err != nil {
			return fail(field, "must be a valid UUID")
		}
		return nil
	}
}

// Positive fails unless value is greater than zero.
func Positive(field string, value int64) Rule {
	return func() *FieldError {
		if value <= 0 {
			return fail(field, "must be positive")
		}
		return nil
	}
}

// Custom fails with message when ok is false.
func Custom(field string, ok bool, message string) Rule {
	return func() *FieldError {
		if !ok {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}
