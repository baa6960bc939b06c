package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[page]
width = 120
margin = 0

[labels]
size = 9

[raster]
dpi = 600

[cache]
dir = "/tmp/panels"
ttl = "2h"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path != path {
		t.Errorf("Path = %q", c.Path)
	}

	opts := c.Options()
	if opts.PageWidth != 120 || opts.Margin != 0 || opts.LabelSize != 9 || opts.DPI != 600 {
		t.Errorf("options = %+v", opts)
	}
	// Unset keys keep the built-in defaults.
	if opts.Spacing != pipeline.DefaultSpacing || opts.PageHeight != 0 || opts.JPEGQuality != pipeline.DefaultJPEGQuality {
		t.Errorf("defaults lost: %+v", opts)
	}
	if dir, _ := c.CacheDir(); dir != "/tmp/panels" {
		t.Errorf("CacheDir = %q", dir)
	}
	if c.CacheTTL() != 2*time.Hour {
		t.Errorf("CacheTTL = %v", c.CacheTTL())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[page\nwidth = 1"},
		{"unknown key", "[page]\ncolour = 1"},
		{"zero width", "[page]\nwidth = 0"},
		{"negative margin", "[page]\nmargin = -1"},
		{"zero dpi", "[raster]\ndpi = 0"},
		{"bad quality", "[raster]\njpeg_quality = 200"},
		{"bad ttl", "[cache]\nttl = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDiscover(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	c, err := Discover("")
	if err != nil {
		t.Fatalf("Discover without file: %v", err)
	}
	if c.Path != "" {
		t.Errorf("Path = %q, want none", c.Path)
	}
	if opts := c.Options(); opts.PageWidth != pipeline.DefaultPageWidth {
		t.Errorf("PageWidth = %v", opts.PageWidth)
	}

	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[page]\nwidth = 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if opts := c.Options(); opts.PageWidth != 90 {
		t.Errorf("discovered PageWidth = %v, want 90", opts.PageWidth)
	}

	explicit := writeConfig(t, "[page]\nwidth = 60\n")
	c, err = Discover(explicit)
	if err != nil {
		t.Fatal(err)
	}
	if opts := c.Options(); opts.PageWidth != 60 {
		t.Errorf("explicit PageWidth = %v, want 60", opts.PageWidth)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if p, _ := DefaultPath(); p != filepath.Join("/cfg", AppName, FileName) {
		t.Errorf("DefaultPath = %q", p)
	}
}

func TestCacheDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg-cache")
	c := &Config{}
	if dir, _ := c.CacheDir(); dir != filepath.Join("/xdg-cache", AppName) {
		t.Errorf("CacheDir = %q", dir)
	}
	if c.CacheTTL() != cache.DefaultTTL {
		t.Errorf("CacheTTL = %v", c.CacheTTL())
	}
}

func TestOpenCacheFile(t *testing.T) {
	c := &Config{Cache: Cache{Dir: t.TempDir()}}
	got, err := c.OpenCache(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	defer got.Close()
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("OpenCache = %T, want *cache.FileCache", got)
	}
}
