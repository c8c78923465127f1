package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a project or resource doesn't exist on
	// the service.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the service rejects the request for
	// quota reasons (403 on the GitHub API, 429 elsewhere).
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API
// requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// URLEncode percent-encodes a string for use in URL path segments.
func URLEncode(s string) string { return url.PathEscape(s) }
