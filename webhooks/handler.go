package webhooks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

const maxBodySize = 10 << 20

// HandlerFunc processes a batch of events. Returning an error answers 500
// so Mailtrap retries the delivery.
type HandlerFunc func(ctx context.Context, events []Event) error

type handlerConfig struct {
	secret string
	logger *slog.Logger
}

// Option configures Handler.
type Option func(*handlerConfig)

// WithSigningSecret requires a valid SignatureHeader on every request.
func WithSigningSecret(secret string) Option {
	return func(c *handlerConfig) {
		c.secret = secret
	}
}

// WithLogger sets the logger for rejected requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// Handler returns an http.Handler accepting webhook POSTs. It answers 200
// after fn succeeds, 400 for malformed payloads, 401 for bad signatures,
// 405 for other methods and 500 when fn fails.
func Handler(fn HandlerFunc, opts ...Option) http.Handler {
	cfg := &handlerConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		if cfg.secret != "" {
			if err := VerifySignature(cfg.secret, body, r.Header.Get(SignatureHeader)); err != nil {
				cfg.logger.Warn("webhook rejected", "error", err, "remote", r.RemoteAddr)
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
		}

		events, err := ParseEvents(bytes.NewReader(body))
		if err != nil {
			cfg.logger.Warn("webhook rejected", "error", err, "remote", r.RemoteAddr)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := fn(r.Context(), events); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			cfg.logger.Error("webhook handler failed", "error", err, "events", len(events))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
