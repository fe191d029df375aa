// Package cache provides the byte-oriented cache used to memoize API responses
// during a single evaluation.
//
// Responses are never persisted between invocations. The CLI and the HTTP API
// create a fresh [MemoryCache] per evaluation and close it when the report is
// written; [NullCache] disables memoization entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Implementations must be safe for concurrent use; the smell engine may run
// plugins in parallel against the same provider.
type Cache interface {
	// Get returns the data stored under key. The bool is false on a miss or
	// when the entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less means the entry lives
	// until the cache is closed.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}
