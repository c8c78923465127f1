package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/httputil"
	"github.com/matzehuels/metaforge/pkg/observability"
)

// Client provides shared HTTP functionality for all forge API clients.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client backed by the given cache. Cached responses
// expire after ttl. Headers are applied to all requests made through this
// client; pass nil if no default headers are needed.
func NewClient(store cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   store,
		ttl:     ttl,
		headers: headers,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result. The fetch function should populate v; on success, v is stored in
// the cache under key.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		if json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, key)
			return nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, key)
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and handles retries automatically.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with
// defaults. Request-specific headers override client defaults for the same
// key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a
// string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusForbidden || code == http.StatusTooManyRequests:
		rl := &errors.RateLimitedError{
			RetryAfter: retryAfterSeconds(resp.Header),
			Message:    fmt.Sprintf("status %d", code),
		}
		return fmt.Errorf("%w: %w", ErrRateLimited, rl)
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// retryAfterSeconds parses a delay-seconds Retry-After header. HTTP-date
// forms are ignored.
func retryAfterSeconds(h http.Header) int {
	n, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
