// Package cache stores extracted page metrics between runs.
//
// Reading a figure's first page is cheap for SVG and raster images but can
// be slow for large PDFs, and panels are usually regenerated many times while
// a figure is being tuned. The cache memoises metrics keyed by the source
// path, size and modification time, so an edited file is always re-read.
//
// Three backends are provided:
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance (useful for the HTTP server)
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long metric entries stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
