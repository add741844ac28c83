package mailtrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailtrap/client-go/internal/apierrors"
	"github.com/mailtrap/client-go/validation"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIToken is returned when no API token is provided.
	ErrMissingAPIToken = apierrors.ErrMissingAPIToken

	// ErrInvalidArgument is returned for identifiers or arguments rejected
	// before any request is sent, such as a non-positive ID.
	ErrInvalidArgument = apierrors.ErrInvalidArgument

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = apierrors.ErrValidation

	// ErrSandboxInboxRequired is returned when sandbox sending is selected
	// without an inbox ID.
	ErrSandboxInboxRequired = errors.New("sandbox sending requires an inbox ID")

	ErrBadRequest    = apierrors.ErrBadRequest
	ErrUnauthorized  = apierrors.ErrUnauthorized
	ErrForbidden     = apierrors.ErrForbidden
	ErrNotFound      = apierrors.ErrNotFound
	ErrConflict      = apierrors.ErrConflict
	ErrUnprocessable = apierrors.ErrUnprocessable
	ErrRateLimited   = apierrors.ErrRateLimited
	ErrServer        = apierrors.ErrServer

	ErrAccountNotFound       = apierrors.ErrAccountNotFound
	ErrProjectNotFound       = apierrors.ErrProjectNotFound
	ErrInboxNotFound         = apierrors.ErrInboxNotFound
	ErrMessageNotFound       = apierrors.ErrMessageNotFound
	ErrAttachmentNotFound    = apierrors.ErrAttachmentNotFound
	ErrSendingDomainNotFound = apierrors.ErrSendingDomainNotFound
	ErrContactNotFound       = apierrors.ErrContactNotFound
	ErrContactListNotFound   = apierrors.ErrContactListNotFound
	ErrContactFieldNotFound  = apierrors.ErrContactFieldNotFound
	ErrTemplateNotFound      = apierrors.ErrTemplateNotFound
)

// APIError represents a non-success HTTP response from the Mailtrap API.
type APIError = apierrors.APIError

// NetworkError represents a network-level failure.
type NetworkError = apierrors.NetworkError

// ResourceType indicates which type of resource an error relates to.
type ResourceType = apierrors.ResourceType

// Resource types stamped on *APIError values.
const (
	ResourceUnknown       = apierrors.ResourceUnknown
	ResourceAccount       = apierrors.ResourceAccount
	ResourceAccountAccess = apierrors.ResourceAccountAccess
	ResourceProject       = apierrors.ResourceProject
	ResourceInbox         = apierrors.ResourceInbox
	ResourceMessage       = apierrors.ResourceMessage
	ResourceAttachment    = apierrors.ResourceAttachment
	ResourceSendingDomain = apierrors.ResourceSendingDomain
	ResourceSuppression   = apierrors.ResourceSuppression
	ResourceContact       = apierrors.ResourceContact
	ResourceContactList   = apierrors.ResourceContactList
	ResourceContactField  = apierrors.ResourceContactField
	ResourceContactImport = apierrors.ResourceContactImport
	ResourceContactExport = apierrors.ResourceContactExport
	ResourceTemplate      = apierrors.ResourceTemplate
	ResourceEmail         = apierrors.ResourceEmail
)

// ValidationError is returned when a request fails local validation. No
// request was sent.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Result.Error())
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TimeoutError represents a wait that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// Is matches context.DeadlineExceeded so callers can treat both alike.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// validator is implemented by every request type.
type validator interface {
	Validate() validation.Result
}

// validate runs pre-flight validation on v.
func validate(v validator) error {
	if res := v.Validate(); !res.IsValid() {
		return &ValidationError{Result: res}
	}
	return nil
}

func invalidID(kind ResourceType, id any) error {
	return fmt.Errorf("%w: %s id %v", ErrInvalidArgument, kind, id)
}

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
