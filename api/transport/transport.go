package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ka2n/wpress/log"
	"github.com/morikuni/failure/v2"
	"golang.org/x/time/rate"
)

// ErrorCode classifies transport failures
type ErrorCode string

const (
	// ErrTimeout represents a request that exceeded the configured timeout
	ErrTimeout ErrorCode = "Timeout"

	// ErrHTTP represents a non-2xx response after retries were exhausted
	ErrHTTP ErrorCode = "HTTPError"

	// ErrNetwork represents a transport-level failure such as DNS or connection errors
	ErrNetwork ErrorCode = "NetworkError"

	// ErrParse represents a response body that is not valid JSON
	ErrParse ErrorCode = "ParseError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// HTTPStatusError carries the status of a non-2xx response, so callers
// can tell listing-boundary client errors from server failures.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// StatusCode returns the HTTP status behind an ErrHTTP failure, or zero
// for any other error.
func StatusCode(err error) int {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

const routePrefix = "/wp-json/wp/v2/"

const (
	DefaultTimeout    = 5 * time.Second
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// Config controls how a Client reaches the remote API.
type Config struct {
	// BaseURL is the site root, e.g. "https://example.com".
	BaseURL string

	// Timeout bounds a single attempt. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Attempts is the total number of tries per logical call.
	// Defaults to DefaultAttempts.
	Attempts int

	// RetryDelay is the pause between attempts. Defaults to
	// DefaultRetryDelay.
	RetryDelay time.Duration

	// ExponentialBackoff doubles the delay after every failed attempt
	// instead of keeping it fixed.
	ExponentialBackoff bool

	// RequestsPerSecond caps client-side throughput. Zero disables
	// throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// Client issues GET requests against the WordPress REST API with a
// bounded timeout and bounded retry.
type Client struct {
	base    string
	client  *http.Client
	timeout time.Duration
	tries   int
	delay   time.Duration
	backoff bool
	limiter *rate.Limiter
}

// New creates a transport client for the site at cfg.BaseURL.
func New(cfg Config) *Client {
	c := &Client{
		base:    strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
		timeout: cfg.Timeout,
		tries:   cfg.Attempts,
		delay:   cfg.RetryDelay,
		backoff: cfg.ExponentialBackoff,
	}
	if c.client == nil {
		c.client = &http.Client{Transport: log.HTTPTransport()}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.tries <= 0 {
		c.tries = DefaultAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultRetryDelay
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// URL returns the absolute URL for a logical endpoint such as "posts",
// "posts/123" or a custom-registered route.
func (c *Client) URL(endpoint string, query url.Values) string {
	u := c.base + routePrefix + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get performs one logical GET against the endpoint, retrying failed
// attempts up to the configured limit. A response body holding a single
// object is normalized to a one-element list.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) ([]map[string]any, error) {
	u := c.URL(endpoint, query)

	var last error
	delay := c.delay
	for attempt := 1; attempt <= c.tries; attempt++ {
		if attempt > 1 {
			log.Debug("retrying request", "url", u, "attempt", attempt)
			if err := sleep(ctx, delay); err != nil {
				break
			}
			if c.backoff {
				delay *= 2
			}
		}

		records, err := c.get(ctx, u)
		if err == nil {
			return records, nil
		}
		last = err

		// Malformed JSON will not fix itself on a retry
		if failure.Is(err, ErrParse) {
			break
		}
	}

	log.Error("request failed", "url", u, "error", last)
	return nil, last
}

func (c *Client) get(ctx context.Context, u string) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, failure.Translate(err, ErrTimeout, failure.Context{"url": u})
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, failure.Translate(err, ErrNetwork, failure.Context{"url": u})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, failure.Translate(err, ErrTimeout,
				failure.Message("request exceeded timeout"),
				failure.Context{"url": u, "timeout": c.timeout.String()},
			)
		}
		return nil, failure.Translate(err, ErrNetwork, failure.Context{"url": u})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, failure.Translate(&HTTPStatusError{StatusCode: resp.StatusCode, URL: u}, ErrHTTP,
			failure.Context{"url": u, "status": resp.Status},
		)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, failure.Translate(err, ErrTimeout, failure.Context{"url": u})
		}
		return nil, failure.Translate(err, ErrNetwork, failure.Context{"url": u})
	}

	return normalize(buf.Bytes(), u)
}

// normalize decodes the body, flattening a single JSON object into a
// one-element list for uniform handling downstream.
func normalize(body []byte, u string) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var record map[string]any
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return nil, failure.Translate(err, ErrParse, failure.Context{"url": u})
		}
		return []map[string]any{record}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, failure.Translate(err, ErrParse, failure.Context{"url": u})
	}
	return records, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
