// Package api is a typed client for the WordPress REST API.
//
// A Client fetches posts, pages, categories and media under
// {BaseURL}/wp-json/wp/v2/, optionally narrowing returned fields and
// quantities, and enriches results with derived data: resolved
// featured images, redirect-repaired posts, and in-content images in
// document order.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/wpress/api/cache"
	"github.com/ka2n/wpress/api/transport"
	"github.com/morikuni/failure/v2"
)

var validate = validator.New()

// Config holds the connection settings for a WordPress site.
type Config struct {
	// BaseURL is the site root, e.g. "https://example.com".
	BaseURL string `validate:"required,url"`

	// Timeout bounds a single transport attempt. Defaults to 5s.
	Timeout time.Duration `validate:"min=0"`

	// Attempts is the total number of tries per call. Defaults to 3.
	Attempts int `validate:"min=0"`

	// RetryDelay is the pause between attempts. Defaults to 1s.
	RetryDelay time.Duration `validate:"min=0"`

	// ExponentialBackoff doubles RetryDelay after each failed attempt.
	ExponentialBackoff bool

	// RequestsPerSecond caps client-side throughput. Zero disables it.
	RequestsPerSecond float64 `validate:"min=0"`

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// Client is a client for a single WordPress site. Construct it with
// New; the zero value is not usable.
type Client struct {
	transport *transport.Client

	// mediaLibrary memoizes the full media listing for the lifetime of
	// the process. Concurrent callers share one paginated fetch.
	mediaLibrary *cache.Cache[[]Record]
}

// New validates cfg and creates a Client for the site at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, failure.Wrap(err, failure.Message("invalid client configuration"))
	}

	t := transport.New(transport.Config{
		BaseURL:            cfg.BaseURL,
		Timeout:            cfg.Timeout,
		Attempts:           cfg.Attempts,
		RetryDelay:         cfg.RetryDelay,
		ExponentialBackoff: cfg.ExponentialBackoff,
		RequestsPerSecond:  cfg.RequestsPerSecond,
		HTTPClient:         cfg.HTTPClient,
	})

	return &Client{
		transport:    t,
		mediaLibrary: cache.New[[]Record](cache.KeepForever()),
	}, nil
}

// wantsImages reports whether a field selection asks for image data.
// An empty selection means full records, which include images.
func wantsImages(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if f == "image" {
			return true
		}
	}
	return false
}
