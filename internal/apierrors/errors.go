// Package apierrors provides shared error types for the Mailtrap client.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIToken is returned when no API token is provided.
	ErrMissingAPIToken = errors.New("API token is required")

	// ErrInvalidArgument is returned when an identifier or argument is rejected
	// before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation is returned when a request fails local validation.
	ErrValidation = errors.New("request validation failed")

	// ErrBadRequest is returned for HTTP 400 responses.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API token")

	// ErrForbidden is returned when the token lacks access to the resource.
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound is returned for every HTTP 404 response.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned for HTTP 409 responses.
	ErrConflict = errors.New("resource conflict")

	// ErrUnprocessable is returned for HTTP 422 responses.
	ErrUnprocessable = errors.New("unprocessable entity")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is returned for HTTP 5xx responses.
	ErrServer = errors.New("server error")

	// Resource specific not-found errors. They match only when the failing
	// request addressed that kind of resource.
	ErrAccountNotFound       = errors.New("account not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrInboxNotFound         = errors.New("inbox not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrAttachmentNotFound    = errors.New("attachment not found")
	ErrSendingDomainNotFound = errors.New("sending domain not found")
	ErrContactNotFound       = errors.New("contact not found")
	ErrContactListNotFound   = errors.New("contact list not found")
	ErrContactFieldNotFound  = errors.New("contact field not found")
	ErrTemplateNotFound      = errors.New("email template not found")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown       ResourceType = ""
	ResourceAccount       ResourceType = "account"
	ResourceAccountAccess ResourceType = "account_access"
	ResourceProject       ResourceType = "project"
	ResourceInbox         ResourceType = "inbox"
	ResourceMessage       ResourceType = "message"
	ResourceAttachment    ResourceType = "attachment"
	ResourceSendingDomain ResourceType = "sending_domain"
	ResourceSuppression   ResourceType = "suppression"
	ResourceContact       ResourceType = "contact"
	ResourceContactList   ResourceType = "contact_list"
	ResourceContactField  ResourceType = "contact_field"
	ResourceContactImport ResourceType = "contact_import"
	ResourceContactExport ResourceType = "contact_export"
	ResourceTemplate      ResourceType = "email_template"
	ResourceEmail         ResourceType = "email"
)

var notFoundByResource = map[ResourceType]error{
	ResourceAccount:       ErrAccountNotFound,
	ResourceProject:       ErrProjectNotFound,
	ResourceInbox:         ErrInboxNotFound,
	ResourceMessage:       ErrMessageNotFound,
	ResourceAttachment:    ErrAttachmentNotFound,
	ResourceSendingDomain: ErrSendingDomainNotFound,
	ResourceContact:       ErrContactNotFound,
	ResourceContactList:   ErrContactListNotFound,
	ResourceContactField:  ErrContactFieldNotFound,
	ResourceTemplate:      ErrTemplateNotFound,
}

// APIError represents a non-success HTTP response from the Mailtrap API.
type APIError struct {
	// Method and URL identify the failed request.
	Method string
	URL    string

	StatusCode int
	// Reason is the HTTP reason phrase, e.g. "Not Found".
	Reason string
	// Message is the primary problem message parsed from the response body.
	Message string
	// Details holds every individual message when the server returned a list
	// or a field map of errors.
	Details []string

	RequestID    string
	ResourceType ResourceType
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error %d", e.StatusCode)
	if e.Method != "" && e.URL != "" {
		fmt.Fprintf(&b, " on %s %s", e.Method, e.URL)
	}
	switch {
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Reason != "":
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 400:
		return target == ErrBadRequest
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrForbidden
	case 404:
		if target == ErrNotFound {
			return true
		}
		specific, ok := notFoundByResource[e.ResourceType]
		return ok && target == specific
	case 409:
		return target == ErrConflict
	case 422:
		return target == ErrUnprocessable
	case 429:
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrServer
	}
	return false
}

// WithResourceType returns a copy of the error with the resource type set.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		cp := *apiErr
		cp.ResourceType = rt
		return &cp
	}
	return err
}

// NetworkError represents a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Method != "" && e.URL != "" {
		return fmt.Sprintf("network error on %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
