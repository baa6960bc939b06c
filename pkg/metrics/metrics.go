package metrics

import "fmt"

// FallbackSize is the width and height, in points, substituted for
// unreadable sources.
const FallbackSize = 100.0

// Metric is the measured size of one source's first page.
type Metric struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
	Source string  `json:"source"`
}

// NewMetric builds a Metric, deriving the aspect ratio.
// A non-positive height yields a ratio of 1.
func NewMetric(width, height float64, source string) Metric {
	ratio := 1.0
	if height > 0 {
		ratio = width / height
	}
	return Metric{Width: width, Height: height, Ratio: ratio, Source: source}
}

// Fallback returns the square placeholder metric for source.
func Fallback(source string) Metric {
	return NewMetric(FallbackSize, FallbackSize, source)
}

// Result is the outcome of reading one source: either a measured metric or
// the fallback metric together with the error that caused it.
type Result struct {
	Metric
	Kind   Kind  `json:"kind"`
	Cached bool  `json:"cached,omitempty"`
	Err    error `json:"-"`
}

// IsFallback reports whether the metric is the fallback placeholder.
func (r Result) IsFallback() bool {
	return r.Err != nil
}

// Warning returns a user-facing message naming the failing source,
// or "" for measured results.
func (r Result) Warning() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("cannot read %s: %v (using %gx%g fallback)", r.Source, r.Err, FallbackSize, FallbackSize)
}

// Metrics returns the metric of every result, in order.
func Metrics(results []Result) []Metric {
	out := make([]Metric, len(results))
	for i, r := range results {
		out[i] = r.Metric
	}
	return out
}

// Fallbacks counts the results that fell back to the placeholder metric.
func Fallbacks(results []Result) int {
	n := 0
	for _, r := range results {
		if r.IsFallback() {
			n++
		}
	}
	return n
}
