package cache

import (
	"context"
	"time"
)

// NullCache disables metric caching: every lookup misses, so each run reads
// page sizes from the source files again. It backs --no-cache and stands in
// for a configured cache that failed to open.
type NullCache struct{}

// NewNullCache returns the cache used when metric caching is off.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every metric key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the extracted metrics.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NullCache) Delete(context.Context, string) error {
	return nil
}

func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
