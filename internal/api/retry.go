package api

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"github.com/jpillora/backoff"
)

// RetryConfig configures retry behavior for failed HTTP requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay, including delays requested by Retry-After.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows after each attempt.
	Multiplier float64
	// Jitter randomizes delays.
	Jitter bool
	// RetryOn lists the status codes that trigger a retry.
	RetryOn []int
	Logger  *slog.Logger
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultRetryDelay,
		MaxDelay:   DefaultMaxRetryDelay,
		Multiplier: 2.0,
		Jitter:     true,
		RetryOn:    slices.Clone(DefaultRetryOn),
	}
}

// idempotentMethods may be retried on any listed status or transport error.
// PATCH is excluded: several inbox actions are toggles.
var idempotentMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// ShouldRetry reports whether the attempt should be retried. Idempotent
// requests retry on configured statuses and temporary transport errors.
// Other methods retry only on 429, where the server did not process the
// request.
func (r *RetryConfig) ShouldRetry(a rehttp.Attempt) bool {
	if a.Index >= r.MaxRetries {
		return false
	}
	if a.Request != nil && a.Request.Context().Err() != nil {
		return false
	}

	idempotent := a.Request != nil && slices.Contains(idempotentMethods, a.Request.Method)

	retry := false
	switch {
	case a.Response != nil:
		status := a.Response.StatusCode
		if status == http.StatusTooManyRequests {
			retry = slices.Contains(r.RetryOn, status)
		} else {
			retry = idempotent && slices.Contains(r.RetryOn, status)
		}
	case a.Error != nil:
		retry = idempotent && rehttp.RetryTemporaryErr()(a)
	}

	if retry && r.Logger != nil {
		attrs := []any{"attempt", a.Index + 1, "max_retries", r.MaxRetries}
		if a.Request != nil {
			attrs = append(attrs, "method", a.Request.Method, "url", a.Request.URL.String())
		}
		if a.Response != nil {
			attrs = append(attrs, "status", a.Response.StatusCode)
		}
		if a.Error != nil {
			attrs = append(attrs, "error", a.Error)
		}
		r.Logger.Warn("retrying mailtrap request", attrs...)
	}
	return retry
}

// Delay returns the wait before the next attempt. A Retry-After header on
// the response takes precedence over the exponential curve; both are capped
// at MaxDelay.
func (r *RetryConfig) Delay(a rehttp.Attempt) time.Duration {
	if a.Response != nil {
		if d, ok := parseRetryAfter(a.Response.Header.Get(headerRetryAfter), time.Now()); ok {
			return min(d, r.MaxDelay)
		}
	}
	b := &backoff.Backoff{
		Min:    r.BaseDelay,
		Max:    r.MaxDelay,
		Factor: r.Multiplier,
		Jitter: r.Jitter,
	}
	return b.ForAttempt(float64(a.Index))
}

// Transport wraps rt with the retry policy.
func (r *RetryConfig) Transport(rt http.RoundTripper) http.RoundTripper {
	return rehttp.NewTransport(rt, r.ShouldRetry, r.Delay)
}

// parseRetryAfter accepts either delay-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
