package mailtrap

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"
)

// SendMode selects the API host used by Client.Email.
type SendMode string

const (
	// SendTransactional uses the transactional sending API.
	SendTransactional SendMode = "transactional"
	// SendBulk uses the bulk sending API.
	SendBulk SendMode = "bulk"
	// SendSandbox delivers into an Email Testing inbox.
	SendSandbox SendMode = "sandbox"
)

const (
	DefaultBaseURL    = "https://mailtrap.io"
	DefaultSendURL    = "https://send.api.mailtrap.io"
	DefaultBulkURL    = "https://bulk.api.mailtrap.io"
	DefaultSandboxURL = "https://sandbox.api.mailtrap.io"

	defaultWaitTimeout     = 60 * time.Second
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollInterval = 15 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	sendURL    string
	bulkURL    string
	sandboxURL string

	httpClient    *http.Client
	timeout       time.Duration
	retries       *int
	retryDelay    time.Duration
	maxRetryDelay time.Duration
	retryOn       []int
	rateLimit     float64
	rateBurst     int
	userAgent     string
	logger        *slog.Logger

	sendMode       SendMode
	sandboxInboxID int64
}

// waitConfig holds configuration for waiting on messages.
type waitConfig struct {
	subject      string
	subjectRegex *regexp.Regexp
	from         string
	fromRegex    *regexp.Regexp
	to           string
	predicate    func(*Message) bool
	timeout      time.Duration
	pollInterval time.Duration
	maxInterval  time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures message waiting.
type WaitOption func(*waitConfig)

// WithBaseURL sets the account management API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithSendURL sets the transactional sending API base URL.
func WithSendURL(url string) Option {
	return func(c *clientConfig) {
		c.sendURL = url
	}
}

// WithBulkURL sets the bulk sending API base URL.
func WithBulkURL(url string) Option {
	return func(c *clientConfig) {
		c.bulkURL = url
	}
}

// WithSandboxURL sets the sandbox sending API base URL.
func WithSandboxURL(url string) Option {
	return func(c *clientConfig) {
		c.sandboxURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The client is copied and its
// transport wrapped with the retry layer.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the overall timeout of a single API call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls. Zero disables
// retries.
// Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = &count
	}
}

// WithRetryDelay sets the delay before the first retry.
// Default: 1 second
func WithRetryDelay(d time.Duration) Option {
	return func(c *clientConfig) {
		c.retryDelay = d
	}
}

// WithMaxRetryDelay caps the delay between retries.
// Default: 30 seconds
func WithMaxRetryDelay(d time.Duration) Option {
	return func(c *clientConfig) {
		c.maxRetryDelay = d
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithRateLimit limits outgoing requests to rps per second. A non-positive
// burst is derived from rps.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = rps
		c.rateBurst = burst
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger. Requests are logged at debug level and
// retries at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithBulk makes Client.Email use the bulk sending API.
func WithBulk() Option {
	return func(c *clientConfig) {
		c.sendMode = SendBulk
	}
}

// WithSandbox makes Client.Email deliver into the given testing inbox.
func WithSandbox(inboxID int64) Option {
	return func(c *clientConfig) {
		c.sendMode = SendSandbox
		c.sandboxInboxID = inboxID
	}
}

// WithSubject filters messages by exact subject match.
func WithSubject(subject string) WaitOption {
	return func(c *waitConfig) {
		c.subject = subject
	}
}

// WithSubjectRegex filters messages by subject regex.
func WithSubjectRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.subjectRegex = pattern
	}
}

// WithFrom filters messages by exact sender address.
func WithFrom(from string) WaitOption {
	return func(c *waitConfig) {
		c.from = from
	}
}

// WithFromRegex filters messages by sender regex.
func WithFromRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.fromRegex = pattern
	}
}

// WithTo filters messages by recipient address.
func WithTo(to string) WaitOption {
	return func(c *waitConfig) {
		c.to = to
	}
}

// WithPredicate filters messages by custom predicate.
func WithPredicate(fn func(*Message) bool) WaitOption {
	return func(c *waitConfig) {
		c.predicate = fn
	}
}

// WithWaitTimeout sets the timeout for waiting.
// Default: 60 seconds
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the initial polling interval. The interval grows
// with jitter up to 15 seconds while nothing matches.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
		if c.maxInterval < interval {
			c.maxInterval = interval
		}
	}
}

// Matches checks if a message matches the wait criteria.
func (w *waitConfig) Matches(m *Message) bool {
	if w.subject != "" && m.Subject != w.subject {
		return false
	}
	if w.subjectRegex != nil && !w.subjectRegex.MatchString(m.Subject) {
		return false
	}
	if w.from != "" && !equalFoldAddress(m.FromEmail, w.from) {
		return false
	}
	if w.fromRegex != nil && !w.fromRegex.MatchString(m.FromEmail) {
		return false
	}
	if w.to != "" && !containsAddress(m.ToEmail, w.to) {
		return false
	}
	if w.predicate != nil && !w.predicate(m) {
		return false
	}
	return true
}
