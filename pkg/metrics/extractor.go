package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/observability"
)

var errUnsupported = errors.New("unsupported document type")

// cacheKeyType labels metric entries for cache hooks.
const cacheKeyType = "metric"

// probeFunc measures the first page of one source kind.
type probeFunc func(path string) (width, height float64, err error)

var probes = map[Kind]probeFunc{
	KindPDF:    probePDF,
	KindSVG:    probeSVG,
	KindRaster: probeRaster,
}

// Extractor reads page metrics, memoising successful reads in a cache.
//
// Sources are opened one at a time and closed before the next is opened.
type Extractor struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewExtractor creates an extractor.
// If c is nil, caching is disabled. If keyer is nil, a DefaultKeyer is used.
func NewExtractor(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Extractor {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{Cache: c, Keyer: keyer, TTL: cache.DefaultTTL, Logger: logger}
}

// Extract measures every path in order. Unreadable sources produce fallback
// results rather than errors; the only error returned is ctx's.
func (e *Extractor) Extract(ctx context.Context, paths []string) ([]Result, error) {
	start := time.Now()
	observability.Pipeline().OnExtractStart(ctx, len(paths))

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			observability.Pipeline().OnExtractComplete(ctx, len(paths), Fallbacks(results), time.Since(start), err)
			return nil, err
		}
		r := e.ExtractOne(ctx, p)
		if r.IsFallback() {
			e.Logger.Warn("using fallback metrics", "source", p, "err", r.Err)
		} else {
			e.Logger.Debug("measured source", "source", p, "kind", r.Kind,
				"width", fmt.Sprintf("%.1f", r.Width), "height", fmt.Sprintf("%.1f", r.Height), "cached", r.Cached)
		}
		results = append(results, r)
	}

	observability.Pipeline().OnExtractComplete(ctx, len(paths), Fallbacks(results), time.Since(start), nil)
	return results, nil
}

// ExtractOne measures a single source.
func (e *Extractor) ExtractOne(ctx context.Context, path string) Result {
	fail := func(kind Kind, err error) Result {
		return Result{Metric: Fallback(path), Kind: kind, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(KindUnknown, err)
	}
	if info.IsDir() {
		return fail(KindUnknown, fmt.Errorf("%s is a directory", path))
	}

	key := e.Keyer.MetricKey(path, info.Size(), info.ModTime())
	if r, ok := e.lookup(ctx, key, path); ok {
		return r
	}

	kind, err := DetectFile(path)
	if err != nil {
		return fail(KindUnknown, err)
	}
	probe, ok := probes[kind]
	if !ok {
		return fail(kind, errUnsupported)
	}
	w, h, err := probe(path)
	if err != nil {
		return fail(kind, err)
	}
	if w <= 0 || h <= 0 {
		return fail(kind, fmt.Errorf("degenerate page size %gx%g", w, h))
	}

	r := Result{Metric: NewMetric(w, h, path), Kind: kind}
	e.store(ctx, key, r)
	return r
}

// cachedMetric is the cache wire format.
type cachedMetric struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Kind   Kind    `json:"kind"`
}

func (e *Extractor) lookup(ctx context.Context, key, path string) (Result, bool) {
	data, hit, err := e.Cache.Get(ctx, key)
	if err != nil {
		e.Logger.Debug("metrics cache read failed", "source", path, "err", err)
		return Result{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Result{}, false
	}

	var cm cachedMetric
	if err := json.Unmarshal(data, &cm); err != nil || cm.Width <= 0 || cm.Height <= 0 {
		_ = e.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return Result{Metric: NewMetric(cm.Width, cm.Height, path), Kind: cm.Kind, Cached: true}, true
}

func (e *Extractor) store(ctx context.Context, key string, r Result) {
	data, err := json.Marshal(cachedMetric{Width: r.Width, Height: r.Height, Kind: r.Kind})
	if err != nil {
		return
	}
	if err := e.Cache.Set(ctx, key, data, e.TTL); err != nil {
		e.Logger.Debug("metrics cache write failed", "source", r.Source, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
