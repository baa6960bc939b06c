package cache

import (
	"path/filepath"
	"strconv"
	"time"
)

// Keyer generates cache keys for stored values.
type Keyer interface {
	// MetricKey identifies the metrics of one source file revision.
	MetricKey(path string, size int64, modTime time.Time) string
}

// DefaultKeyer hashes the identifying fields of each value.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MetricKey hashes the absolute path together with size and modification
// time, so any edit to the file produces a new key.
func (DefaultKeyer) MetricKey(path string, size int64, modTime time.Time) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return digest("metric", path, strconv.FormatInt(size, 10), strconv.FormatInt(modTime.UnixNano(), 10))
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several tools share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "figpanel:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// MetricKey generates a prefixed metric key.
func (k *ScopedKeyer) MetricKey(path string, size int64, modTime time.Time) string {
	return k.prefix + k.inner.MetricKey(path, size, modTime)
}
