package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mailtrap/client-go/internal/apierrors"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 1 * time.Second
	DefaultMaxRetryDelay = 30 * time.Second
	DefaultUserAgent     = "mailtrap-go"
)

// DefaultRetryOn contains the default HTTP status codes that trigger a retry.
var DefaultRetryOn = []int{408, 429, 500, 502, 503, 504}

// Client dispatches commands against the Mailtrap APIs. It holds no
// per-resource state and is safe for concurrent use.
type Client struct {
	apiToken   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	retry      *RetryConfig
}

// Config holds the dispatcher configuration.
type Config struct {
	APIToken string
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// HTTPClient is copied; its transport is wrapped with the retry layer.
	HTTPClient *http.Client
	// Timeout bounds a whole call including retries. Zero keeps the timeout
	// of HTTPClient, or DefaultTimeout when HTTPClient is nil.
	Timeout time.Duration
	// MaxRetries defaults to DefaultMaxRetries. A negative value disables
	// retries.
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	RetryOn       []int
	// RateLimit is the number of requests per second. Zero disables it.
	RateLimit float64
	RateBurst int
	Logger    *slog.Logger
}

// NewClient creates a dispatcher from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, apierrors.ErrMissingAPIToken
	}

	c := &Client{
		apiToken:  cfg.APIToken,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
		limiter:   newLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	retry := DefaultRetryConfig()
	switch {
	case cfg.MaxRetries < 0:
		retry.MaxRetries = 0
	case cfg.MaxRetries > 0:
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}
	if cfg.MaxRetryDelay > 0 {
		retry.MaxDelay = cfg.MaxRetryDelay
	}
	if len(cfg.RetryOn) > 0 {
		retry.RetryOn = append([]int(nil), cfg.RetryOn...)
	}
	retry.Logger = c.logger
	c.retry = retry

	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	} else {
		hc.Timeout = DefaultTimeout
	}
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	if retry.MaxRetries > 0 {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = retry.Transport(base)
	}
	c.httpClient = &hc

	return c, nil
}

// Option configures a Config for New.
type Option func(*Config)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the overall timeout of a call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the maximum number of retries. Zero disables retries.
func WithRetries(count int) Option {
	return func(c *Config) {
		if count <= 0 {
			c.MaxRetries = -1
			return
		}
		c.MaxRetries = count
	}
}

// WithRetryDelay sets the base retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = d
	}
}

// WithMaxRetryDelay caps the delay between retries.
func WithMaxRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxRetryDelay = d
	}
}

// WithRetryOn sets the status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Config) {
		c.RetryOn = statusCodes
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given
// burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Config) {
		c.RateLimit = rps
		c.RateBurst = burst
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithLogger sets the logger for request and retry events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// New creates a dispatcher using functional options.
func New(apiToken string, opts ...Option) (*Client, error) {
	cfg := Config{APIToken: apiToken}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// Logger returns the configured logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Execute sends cmd and interprets the response. For ResultJSON commands the
// body is decoded into out, which may be nil to discard it.
func (c *Client) Execute(ctx context.Context, cmd Command, out any) (*Response, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &apierrors.NetworkError{Method: cmd.Method, URL: cmd.URL.String(), Err: err}
		}
	}

	req, err := c.newRequest(ctx, cmd)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.DebugContext(ctx, "mailtrap request",
		"method", cmd.Method,
		"url", cmd.URL.String(),
		"result", cmd.Result.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "mailtrap request failed",
			"method", cmd.Method,
			"url", cmd.URL.String(),
			"error", err)
		return nil, &apierrors.NetworkError{Method: cmd.Method, URL: cmd.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "mailtrap response",
		"method", cmd.Method,
		"url", cmd.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return handleResponse(cmd, resp, out)
}

// Do executes a JSON command.
func (c *Client) Do(ctx context.Context, cmd Command, out any) error {
	_, err := c.Execute(ctx, cmd, out)
	return err
}

// DoText executes a text command and returns the body.
func (c *Client) DoText(ctx context.Context, cmd Command) (string, error) {
	cmd.Result = ResultText
	resp, err := c.Execute(ctx, cmd, nil)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// DoStatus executes a command and returns only the status code.
func (c *Client) DoStatus(ctx context.Context, cmd Command) (int, error) {
	cmd.Result = ResultStatus
	resp, err := c.Execute(ctx, cmd, nil)
	if err != nil {
		if resp != nil {
			return resp.StatusCode, err
		}
		return 0, err
	}
	return resp.StatusCode, nil
}
