package metrics

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/figpanel/internal/testutil"
	"github.com/matzehuels/figpanel/pkg/cache"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestNewMetric(t *testing.T) {
	tests := []struct {
		w, h      float64
		wantRatio float64
	}{
		{200, 100, 2},
		{100, 200, 0.5},
		{100, 0, 1},
		{100, -5, 1},
	}
	for _, tt := range tests {
		m := NewMetric(tt.w, tt.h, "x")
		if !approx(m.Ratio, tt.wantRatio) {
			t.Errorf("NewMetric(%g, %g).Ratio = %g, want %g", tt.w, tt.h, m.Ratio, tt.wantRatio)
		}
	}
}

func TestFallback(t *testing.T) {
	m := Fallback("missing.pdf")
	if m.Width != 100 || m.Height != 100 || m.Ratio != 1 || m.Source != "missing.pdf" {
		t.Errorf("Fallback() = %+v", m)
	}
}

func TestExtractOne(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		wantKind Kind
		wantW    float64
		wantH    float64
	}{
		{"pdf", "a.pdf", testutil.PDF(200, 100, 0), KindPDF, 200, 100},
		{"pdf rotated", "b.pdf", testutil.PDF(200, 100, 90), KindPDF, 100, 200},
		{"svg", "c.svg", testutil.SVG(300, 150), KindSVG, 300, 150},
		{"png", "d.png", testutil.PNG(t, 40, 20), KindRaster, 30, 15},
		{"svg without extension", "e", testutil.SVG(10, 20), KindSVG, 10, 20},
	}

	e := NewExtractor(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, tt.file, tt.data)
			r := e.ExtractOne(context.Background(), path)
			if r.IsFallback() {
				t.Fatalf("ExtractOne fell back: %v", r.Err)
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.wantKind)
			}
			if !approx(r.Width, tt.wantW) || !approx(r.Height, tt.wantH) {
				t.Errorf("size = %gx%g, want %gx%g", r.Width, r.Height, tt.wantW, tt.wantH)
			}
			if !approx(r.Ratio, tt.wantW/tt.wantH) {
				t.Errorf("Ratio = %g, want %g", r.Ratio, tt.wantW/tt.wantH)
			}
			if r.Source != path {
				t.Errorf("Source = %q, want %q", r.Source, path)
			}
		})
	}
}

func TestExtractFallback(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.pdf")
	if err := os.WriteFile(corrupt, []byte("%PDF-1.4\nnot really"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unknown, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := testutil.WriteFile(t, "good.svg", testutil.SVG(200, 100))

	paths := []string{filepath.Join(dir, "missing.pdf"), corrupt, good, unknown, dir}
	results, err := NewExtractor(nil, nil, nil).Extract(context.Background(), paths)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}

	for i, r := range results {
		if r.Source != paths[i] {
			t.Errorf("results[%d].Source = %q, want %q", i, r.Source, paths[i])
		}
		if i == 2 {
			if r.IsFallback() {
				t.Errorf("good source fell back: %v", r.Err)
			}
			continue
		}
		if !r.IsFallback() {
			t.Errorf("results[%d] should be a fallback", i)
		}
		if r.Ratio != 1 || r.Width != FallbackSize || r.Height != FallbackSize {
			t.Errorf("results[%d] = %+v, want fallback square", i, r.Metric)
		}
		if r.Warning() == "" {
			t.Errorf("results[%d] should carry a warning", i)
		}
	}
	if got := Fallbacks(results); got != 4 {
		t.Errorf("Fallbacks() = %d, want 4", got)
	}
	if got := Metrics(results); len(got) != len(paths) || got[2].Ratio != 2 {
		t.Errorf("Metrics() = %+v", got)
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewExtractor(nil, nil, nil).Extract(ctx, []string{"a.pdf"}); err != context.Canceled {
		t.Errorf("Extract error = %v, want context.Canceled", err)
	}
}

func TestExtractUsesCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := testutil.WriteFile(t, "fig.svg", testutil.SVG(120, 60))
	e := NewExtractor(fc, nil, nil)

	first := e.ExtractOne(ctx, path)
	if first.IsFallback() || first.Cached {
		t.Fatalf("first read = %+v, err %v", first, first.Err)
	}
	second := e.ExtractOne(ctx, path)
	if !second.Cached {
		t.Error("second read should come from the cache")
	}
	if second.Metric != first.Metric || second.Kind != first.Kind {
		t.Errorf("cached result %+v differs from %+v", second, first)
	}
}

func TestFallbackIsNotCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := testutil.WriteFile(t, "bad.svg", []byte("<svg"))
	e := NewExtractor(fc, nil, nil)

	for i := 0; i < 2; i++ {
		r := e.ExtractOne(ctx, path)
		if !r.IsFallback() || r.Cached {
			t.Fatalf("read %d = %+v, want uncached fallback", i, r)
		}
	}
}
