package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mailtrap/client-go/internal/apierrors"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestNewClient_RequiresAPIToken(t *testing.T) {
	_, err := NewClient(Config{})
	if !errors.Is(err, apierrors.ErrMissingAPIToken) {
		t.Errorf("NewClient() error = %v, want ErrMissingAPIToken", err)
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{APIToken: "test-token"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.retry.MaxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", client.retry.MaxRetries, DefaultMaxRetries)
	}
	if client.retry.BaseDelay != DefaultRetryDelay {
		t.Errorf("retryDelay = %v, want %v", client.retry.BaseDelay, DefaultRetryDelay)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", client.userAgent, DefaultUserAgent)
	}
	if client.limiter != nil {
		t.Error("limiter should be disabled by default")
	}
	if client.logger == nil {
		t.Error("logger is nil")
	}
}

func TestNewClient_CopiesHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}

	client, err := NewClient(Config{APIToken: "test-token", HTTPClient: custom})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.httpClient == custom {
		t.Error("httpClient should be a copy")
	}
	if custom.Transport != nil {
		t.Error("caller's transport was modified")
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
	}
}

func TestNew_WithOptions(t *testing.T) {
	client, err := New("test-token",
		WithRetries(5),
		WithRetryDelay(2*time.Second),
		WithMaxRetryDelay(10*time.Second),
		WithTimeout(45*time.Second),
		WithUserAgent("custom-agent/1.0"),
		WithRateLimit(10, 0),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.retry.MaxRetries != 5 {
		t.Errorf("maxRetries = %d, want 5", client.retry.MaxRetries)
	}
	if client.retry.BaseDelay != 2*time.Second {
		t.Errorf("retryDelay = %v, want 2s", client.retry.BaseDelay)
	}
	if client.retry.MaxDelay != 10*time.Second {
		t.Errorf("maxRetryDelay = %v, want 10s", client.retry.MaxDelay)
	}
	if client.httpClient.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", client.httpClient.Timeout)
	}
	if client.userAgent != "custom-agent/1.0" {
		t.Errorf("userAgent = %q, want custom-agent/1.0", client.userAgent)
	}
	if client.limiter == nil || client.limiter.Burst() != 10 {
		t.Errorf("limiter = %v, want burst 10", client.limiter)
	}
}

func TestNew_WithRetriesZeroDisablesRetries(t *testing.T) {
	client, err := New("test-token", WithRetries(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.retry.MaxRetries != 0 {
		t.Errorf("maxRetries = %d, want 0", client.retry.MaxRetries)
	}
	if client.httpClient.Transport != nil {
		t.Error("retry transport installed although retries are disabled")
	}
}

func TestClient_Execute_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
		}
		if got := r.Header.Get("Content-Type"); got != "" {
			t.Errorf("Content-Type = %q, want empty for bodyless request", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Main"}]`))
	}))
	defer server.Close()

	client, _ := New("test-token")

	var out []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	resp, err := client.Execute(context.Background(), NewCommand(http.MethodGet, mustURL(t, server.URL+"/api/accounts"), nil), &out)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if len(out) != 1 || out[0].ID != 1 || out[0].Name != "Main" {
		t.Errorf("out = %+v", out)
	}
}

func TestClient_Execute_WithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"html":"<p>Hi & bye</p>"}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client, _ := New("test-token")

	body := struct {
		HTML string `json:"html"`
		Text string `json:"text,omitempty"`
	}{HTML: "<p>Hi & bye</p>"}

	var out struct {
		Success bool `json:"success"`
	}
	if err := client.Do(context.Background(), NewCommand(http.MethodPost, mustURL(t, server.URL), body), &out); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !out.Success {
		t.Error("Success = false, want true")
	}
}

func TestClient_DoText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "*/*" {
			t.Errorf("Accept = %q, want */*", got)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Hello world"))
	}))
	defer server.Close()

	client, _ := New("test-token")

	text, err := client.DoText(context.Background(), TextCommand(mustURL(t, server.URL)))
	if err != nil {
		t.Fatalf("DoText() error = %v", err)
	}
	if text != "Hello world" {
		t.Errorf("text = %q, want Hello world", text)
	}
}

func TestClient_DoStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := New("test-token")

	status, err := client.DoStatus(context.Background(), StatusCommand(http.MethodDelete, mustURL(t, server.URL), nil))
	if err != nil {
		t.Fatalf("DoStatus() error = %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("status = %d, want 204", status)
	}
}

func TestClient_Execute_InvalidCommand(t *testing.T) {
	client, _ := New("test-token")

	tests := []struct {
		name string
		cmd  Command
	}{
		{"missing method", Command{URL: mustURL(t, "https://mailtrap.io/")}},
		{"missing URL", Command{Method: http.MethodGet}},
		{"relative URL", Command{Method: http.MethodGet, URL: mustURL(t, "/api/accounts")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Execute(context.Background(), tt.cmd, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClient_Execute_RetriesIdempotent(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, _ := New("test-token", WithRetries(3), WithRetryDelay(time.Millisecond), WithMaxRetryDelay(5*time.Millisecond))

	if err := client.Do(context.Background(), NewCommand(http.MethodGet, mustURL(t, server.URL), nil), nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestClient_Execute_DoesNotRetryPostOnServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := New("test-token", WithRetries(3), WithRetryDelay(time.Millisecond))

	err := client.Do(context.Background(), NewCommand(http.MethodPost, mustURL(t, server.URL), map[string]string{"a": "b"}), nil)
	if !errors.Is(err, apierrors.ErrServer) {
		t.Errorf("error = %v, want ErrServer", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestClient_Execute_RetriesPostOnRateLimit(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":"b"}` {
			t.Errorf("attempt %d body = %s", atomic.LoadInt32(&attempts)+1, body)
		}
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := New("test-token", WithRetries(2), WithRetryDelay(time.Millisecond))

	if err := client.Do(context.Background(), NewCommand(http.MethodPost, mustURL(t, server.URL), map[string]string{"a": "b"}), nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestClient_Execute_NoRetryOn4xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":["bad"]}`))
	}))
	defer server.Close()

	client, _ := New("test-token", WithRetries(3), WithRetryDelay(time.Millisecond))

	err := client.Do(context.Background(), NewCommand(http.MethodGet, mustURL(t, server.URL), nil), nil)
	if !errors.Is(err, apierrors.ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestClient_Execute_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := New("test-token", WithRetries(0))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Do(ctx, NewCommand(http.MethodGet, mustURL(t, server.URL), nil), nil)
	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded in chain", err)
	}
}

func TestClient_Execute_ErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		body        string
		requestID   string
		wantErr     error
		wantMessage string
		wantDetails int
	}{
		{
			name:        "unauthorized error field",
			statusCode:  http.StatusUnauthorized,
			body:        `{"error":"Incorrect API token"}`,
			wantErr:     apierrors.ErrUnauthorized,
			wantMessage: "Incorrect API token",
			wantDetails: 1,
		},
		{
			name:        "forbidden errors string",
			statusCode:  http.StatusForbidden,
			body:        `{"errors":"Access forbidden"}`,
			wantErr:     apierrors.ErrForbidden,
			wantMessage: "Access forbidden",
			wantDetails: 1,
		},
		{
			name:        "validation error list",
			statusCode:  http.StatusBadRequest,
			body:        `{"success":false,"errors":["'from' is required","'subject' is required"]}`,
			wantErr:     apierrors.ErrBadRequest,
			wantMessage: "'from' is required; 'subject' is required",
			wantDetails: 2,
		},
		{
			name:        "field error map",
			statusCode:  http.StatusUnprocessableEntity,
			body:        `{"errors":{"name":["is too short"],"base":["is invalid"]}}`,
			requestID:   "req-42",
			wantErr:     apierrors.ErrUnprocessable,
			wantMessage: "is invalid; name: is too short",
			wantDetails: 2,
		},
		{
			name:        "plain text body",
			statusCode:  http.StatusConflict,
			body:        "already exists",
			wantErr:     apierrors.ErrConflict,
			wantMessage: "already exists",
		},
		{
			name:       "html body ignored",
			statusCode: http.StatusBadGateway,
			body:       "<html><body>Bad Gateway</body></html>",
			wantErr:    apierrors.ErrServer,
		},
		{
			name:       "not found empty body",
			statusCode: http.StatusNotFound,
			wantErr:    apierrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.requestID != "" {
					w.Header().Set("X-Request-Id", tt.requestID)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := New("test-token", WithRetries(0))

			err := client.Do(context.Background(), NewCommand(http.MethodGet, mustURL(t, server.URL+"/x"), nil), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error is not *APIError: %T", err)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if len(apiErr.Details) != tt.wantDetails {
				t.Errorf("Details = %v, want %d entries", apiErr.Details, tt.wantDetails)
			}
			if apiErr.RequestID != tt.requestID {
				t.Errorf("RequestID = %q, want %q", apiErr.RequestID, tt.requestID)
			}
			if apiErr.Method != http.MethodGet || apiErr.URL != server.URL+"/x" {
				t.Errorf("Method/URL = %s %s", apiErr.Method, apiErr.URL)
			}
			if apiErr.Reason != http.StatusText(tt.statusCode) {
				t.Errorf("Reason = %q, want %q", apiErr.Reason, http.StatusText(tt.statusCode))
			}
		})
	}
}

func TestClient_Execute_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	}))
	defer server.Close()

	client, _ := New("test-token")

	var out map[string]any
	err := client.Do(context.Background(), NewCommand(http.MethodGet, mustURL(t, server.URL), nil), &out)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		t.Error("decode failure should not be an APIError")
	}
}

func TestClient_Execute_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := New("test-token", WithRateLimit(1, 1))

	ctx := context.Background()
	cmd := StatusCommand(http.MethodGet, mustURL(t, server.URL), nil)
	if _, err := client.DoStatus(ctx, cmd); err != nil {
		t.Fatalf("first DoStatus() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := client.DoStatus(ctx, cmd); err == nil {
		t.Error("expected limiter to reject the second request within the deadline")
	}
}
