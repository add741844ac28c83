package mailtrap

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/mailtrap/client-go/internal/api"
)

// Environment variables read by NewFromEnv.
const (
	EnvAPIToken       = "MAILTRAP_API_TOKEN"
	EnvBaseURL        = "MAILTRAP_BASE_URL"
	EnvSandboxInboxID = "MAILTRAP_SANDBOX_INBOX_ID"
)

// Client is the entry point to the Mailtrap APIs. It is safe for concurrent
// use; resources returned by its methods are lightweight handles that share
// its dispatcher.
type Client struct {
	apiClient *api.Client
	logger    *slog.Logger

	baseURL    *url.URL
	sendURL    *url.URL
	bulkURL    *url.URL
	sandboxURL *url.URL

	sendMode       SendMode
	sandboxInboxID int64
}

// buildAPIClient creates and configures the dispatcher from the given config.
func buildAPIClient(apiToken string, cfg *clientConfig) (*api.Client, error) {
	userAgent := cfg.userAgent
	if userAgent == "" {
		userAgent = defaultUserAgent()
	}
	opts := []api.Option{
		api.WithUserAgent(userAgent),
		api.WithHTTPClient(cfg.httpClient),
		api.WithTimeout(cfg.timeout),
		api.WithRetryDelay(cfg.retryDelay),
		api.WithMaxRetryDelay(cfg.maxRetryDelay),
		api.WithRetryOn(cfg.retryOn),
		api.WithRateLimit(cfg.rateLimit, cfg.rateBurst),
		api.WithLogger(cfg.logger),
	}
	if cfg.retries != nil {
		opts = append(opts, api.WithRetries(*cfg.retries))
	}
	return api.New(apiToken, opts...)
}

// New creates a new Mailtrap client with the given API token. No request is
// made until a resource method is called.
func New(apiToken string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiToken) == "" {
		return nil, ErrMissingAPIToken
	}

	cfg := &clientConfig{
		baseURL:    DefaultBaseURL,
		sendURL:    DefaultSendURL,
		bulkURL:    DefaultBulkURL,
		sandboxURL: DefaultSandboxURL,
		sendMode:   SendTransactional,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.sendMode == SendSandbox && cfg.sandboxInboxID <= 0 {
		return nil, ErrSandboxInboxRequired
	}

	c := &Client{
		sendMode:       cfg.sendMode,
		sandboxInboxID: cfg.sandboxInboxID,
	}

	var err error
	for _, u := range []struct {
		dst **url.URL
		raw string
	}{
		{&c.baseURL, cfg.baseURL},
		{&c.sendURL, cfg.sendURL},
		{&c.bulkURL, cfg.bulkURL},
		{&c.sandboxURL, cfg.sandboxURL},
	} {
		if *u.dst, err = api.ParseBaseURL(u.raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	c.apiClient, err = buildAPIClient(apiToken, cfg)
	if err != nil {
		return nil, err
	}
	c.logger = c.apiClient.Logger()

	return c, nil
}

// NewFromEnv creates a client from MAILTRAP_API_TOKEN and the optional
// MAILTRAP_BASE_URL and MAILTRAP_SANDBOX_INBOX_ID variables. Explicit
// options are applied after the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	token := os.Getenv(EnvAPIToken)
	if token == "" {
		return nil, fmt.Errorf("%s is not set: %w", EnvAPIToken, ErrMissingAPIToken)
	}

	var envOpts []Option
	if base := os.Getenv(EnvBaseURL); base != "" {
		envOpts = append(envOpts, WithBaseURL(base))
	}
	if raw := os.Getenv(EnvSandboxInboxID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, EnvSandboxInboxID, err)
		}
		envOpts = append(envOpts, WithSandbox(id))
	}

	return New(token, append(envOpts, opts...)...)
}

// management returns the root of the account management API.
func (c *Client) management() resource {
	return resource{api: c.apiClient, uri: api.AppendSegments(c.baseURL, "api")}
}

// Accounts returns the collection of accounts the token can access.
func (c *Client) Accounts() *AccountsResource {
	return &AccountsResource{res: c.management().with(ResourceAccount, "accounts")}
}

// Account returns a handle for the account with the given ID.
func (c *Client) Account(id int64) *AccountResource {
	return &AccountResource{res: c.management().withID(ResourceAccount, "accounts", id)}
}

// Email returns the sender selected by WithBulk or WithSandbox, or the
// transactional sender by default.
func (c *Client) Email() *EmailClient {
	switch c.sendMode {
	case SendBulk:
		return c.Bulk()
	case SendSandbox:
		return c.Test(c.sandboxInboxID)
	default:
		return c.Transactional()
	}
}

// Transactional returns the transactional sending API.
func (c *Client) Transactional() *EmailClient {
	return newEmailClient(c.apiClient, SendTransactional, c.sendURL, 0)
}

// Bulk returns the bulk sending API.
func (c *Client) Bulk() *EmailClient {
	return newEmailClient(c.apiClient, SendBulk, c.bulkURL, 0)
}

// Test returns the sandbox sending API delivering into the given inbox.
func (c *Client) Test(inboxID int64) *EmailClient {
	return newEmailClient(c.apiClient, SendSandbox, c.sandboxURL, inboxID)
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
