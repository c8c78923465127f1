// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about aggregation runs, cache operations, and API calls.
//
// The package uses a simple hooks pattern: hook interfaces per event
// category, no-op defaults, and registration at startup. This avoids import
// cycles (hooks are registered by main, not by libraries) and keeps the core
// library free of observability framework dependencies.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAggregationHooks(&myAggregationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// AggregationHooks receives events from aggregation runs.
type AggregationHooks interface {
	// OnRunStart records the start of an aggregation run.
	OnRunStart(ctx context.Context, runID string, observations int)

	// OnRunComplete records a finished run with its field count.
	OnRunComplete(ctx context.Context, runID string, fields int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopAggregationHooks is a no-op implementation of AggregationHooks.
type NoopAggregationHooks struct{}

func (NoopAggregationHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopAggregationHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	aggregationHooks AggregationHooks = NoopAggregationHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetAggregationHooks registers custom aggregation hooks.
// This should be called once at application startup before any runs.
func SetAggregationHooks(h AggregationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aggregationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Aggregation returns the registered aggregation hooks.
func Aggregation() AggregationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aggregationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	aggregationHooks = NoopAggregationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
