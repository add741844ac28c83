package apierrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "status only",
			err:      &APIError{StatusCode: 500},
			expected: "API error 500",
		},
		{
			name:     "reason fallback",
			err:      &APIError{StatusCode: 404, Reason: "Not Found"},
			expected: "API error 404: Not Found",
		},
		{
			name:     "message wins over reason",
			err:      &APIError{StatusCode: 401, Reason: "Unauthorized", Message: "Incorrect API token"},
			expected: "API error 401: Incorrect API token",
		},
		{
			name: "with request",
			err: &APIError{
				StatusCode: 422,
				Method:     "POST",
				URL:        "https://mailtrap.io/api/accounts/1/projects",
				Message:    "name is too short",
			},
			expected: "API error 422 on POST https://mailtrap.io/api/accounts/1/projects: name is too short",
		},
		{
			name:     "with request ID",
			err:      &APIError{StatusCode: 500, Reason: "Internal Server Error", RequestID: "req-1"},
			expected: "API error 500: Internal Server Error (request_id: req-1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		target     error
		expected   bool
	}{
		{"400 matches ErrBadRequest", 400, ErrBadRequest, true},
		{"401 matches ErrUnauthorized", 401, ErrUnauthorized, true},
		{"403 matches ErrForbidden", 403, ErrForbidden, true},
		{"404 matches ErrNotFound", 404, ErrNotFound, true},
		{"409 matches ErrConflict", 409, ErrConflict, true},
		{"422 matches ErrUnprocessable", 422, ErrUnprocessable, true},
		{"429 matches ErrRateLimited", 429, ErrRateLimited, true},
		{"500 matches ErrServer", 500, ErrServer, true},
		{"503 matches ErrServer", 503, ErrServer, true},
		{"401 does not match ErrForbidden", 401, ErrForbidden, false},
		{"500 does not match ErrUnauthorized", 500, ErrUnauthorized, false},
		{"418 matches nothing", 418, ErrBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: tt.statusCode}
			if got := errors.Is(err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Is_NotFoundByResource(t *testing.T) {
	tests := []struct {
		name     string
		rt       ResourceType
		target   error
		expected bool
	}{
		{"inbox matches ErrInboxNotFound", ResourceInbox, ErrInboxNotFound, true},
		{"inbox does not match ErrMessageNotFound", ResourceInbox, ErrMessageNotFound, false},
		{"message matches ErrMessageNotFound", ResourceMessage, ErrMessageNotFound, true},
		{"project matches ErrProjectNotFound", ResourceProject, ErrProjectNotFound, true},
		{"contact matches ErrContactNotFound", ResourceContact, ErrContactNotFound, true},
		{"unknown does not match specific", ResourceUnknown, ErrInboxNotFound, false},
		{"unknown matches generic", ResourceUnknown, ErrNotFound, true},
		{"suppression matches generic only", ResourceSuppression, ErrNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: 404, ResourceType: tt.rt}
			if got := errors.Is(err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWithResourceType(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if WithResourceType(nil, ResourceInbox) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("non API error is unchanged", func(t *testing.T) {
		orig := errors.New("boom")
		if got := WithResourceType(orig, ResourceInbox); got != orig {
			t.Errorf("got %v, want original error", got)
		}
	})

	t.Run("wrapped API error is copied", func(t *testing.T) {
		orig := &APIError{StatusCode: 404, Message: "Not Found", RequestID: "r"}
		wrapped := fmt.Errorf("get inbox: %w", orig)

		got := WithResourceType(wrapped, ResourceInbox)
		var apiErr *APIError
		if !errors.As(got, &apiErr) {
			t.Fatalf("expected *APIError, got %T", got)
		}
		if apiErr == orig {
			t.Error("expected a copy, got the original pointer")
		}
		if apiErr.ResourceType != ResourceInbox {
			t.Errorf("ResourceType = %q, want %q", apiErr.ResourceType, ResourceInbox)
		}
		if apiErr.RequestID != "r" || apiErr.Message != "Not Found" {
			t.Errorf("fields not preserved: %+v", apiErr)
		}
		if orig.ResourceType != ResourceUnknown {
			t.Error("original error was mutated")
		}
		if !errors.Is(got, ErrInboxNotFound) {
			t.Error("expected ErrInboxNotFound to match")
		}
	})
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")

	err := &NetworkError{Err: cause}
	if err.Error() != "network error: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}

	err = &NetworkError{Method: "GET", URL: "https://mailtrap.io/api/accounts", Err: cause}
	want := "network error on GET https://mailtrap.io/api/accounts: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
