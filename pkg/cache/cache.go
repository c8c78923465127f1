// Package cache provides pluggable cache backends for probe results and
// HTTP responses.
//
// Backends:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: Redis-backed storage for long-lived service deployments
//   - NullCache: no-op cache for tests and cache-disabled runs
//
// Note that this cache is cross-run enrichment only: the aggregator keeps
// its own per-run host cache to guarantee deterministic forge matching
// within one run regardless of backend contents.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value by key. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
