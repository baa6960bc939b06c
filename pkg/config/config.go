// Package config loads figpanel defaults from a TOML file.
//
// The file is optional. It is looked up at $XDG_CONFIG_HOME/figpanel/config.toml
// (falling back to ~/.config/figpanel/config.toml) unless a path is given
// explicitly. Values in the file replace the built-in defaults; command-line
// flags replace both.
//
//	[page]
//	width = 180      # mm
//	height = 0       # mm, 0 = auto
//	margin = 5
//	spacing = 3
//
//	[labels]
//	size = 14
//
//	[raster]
//	dpi = 300
//	jpeg_quality = 95
//
//	[cache]
//	dir = ""
//	redis_url = ""
//	ttl = "168h"
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/errors"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

// AppName names the configuration and cache directories.
const AppName = "figpanel"

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.toml"

// Config is the decoded configuration file. Unset keys are nil so that they
// do not override defaults.
type Config struct {
	Page   Page   `toml:"page"`
	Labels Labels `toml:"labels"`
	Raster Raster `toml:"raster"`
	Cache  Cache  `toml:"cache"`

	// Path is the file the configuration was read from, or "" for none.
	Path string `toml:"-"`
}

// Page holds page dimensions in millimetres.
type Page struct {
	Width   *float64 `toml:"width"`
	Height  *float64 `toml:"height"`
	Margin  *float64 `toml:"margin"`
	Spacing *float64 `toml:"spacing"`
}

// Labels holds label settings.
type Labels struct {
	Size *float64 `toml:"size"`
}

// Raster holds raster output settings.
type Raster struct {
	DPI         *int `toml:"dpi"`
	JPEGQuality *int `toml:"jpeg_quality"`
}

// Cache selects and configures the metrics cache backend.
type Cache struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Duration is a time.Duration decoded from strings such as "168h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultPath returns the configuration file location following the XDG
// base directory convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Load reads and validates the file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return &c, nil
}

// Discover loads the explicit path when given, otherwise the default path if
// that file exists. A missing default file yields an empty configuration.
func Discover(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	checks := []struct {
		name     string
		v        *float64
		positive bool
	}{
		{"page.width", c.Page.Width, true},
		{"page.height", c.Page.Height, false},
		{"page.margin", c.Page.Margin, false},
		{"page.spacing", c.Page.Spacing, false},
		{"labels.size", c.Labels.Size, false},
	}
	for _, chk := range checks {
		if chk.v == nil {
			continue
		}
		var err error
		if chk.positive {
			err = errors.ValidatePositive(chk.name, *chk.v)
		} else {
			err = errors.ValidateNonNegative(chk.name, *chk.v)
		}
		if err != nil {
			return err
		}
	}
	if c.Raster.DPI != nil && *c.Raster.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "raster.dpi must be positive, got %d", *c.Raster.DPI)
	}
	if q := c.Raster.JPEGQuality; q != nil && (*q < 1 || *q > 100) {
		return errors.New(errors.ErrCodeInvalidConfig, "raster.jpeg_quality must be in 1..100, got %d", *q)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Apply copies every value set in the file onto opts.
func (c *Config) Apply(opts *pipeline.Options) {
	setFloat(&opts.PageWidth, c.Page.Width)
	setFloat(&opts.PageHeight, c.Page.Height)
	setFloat(&opts.Margin, c.Page.Margin)
	setFloat(&opts.Spacing, c.Page.Spacing)
	setFloat(&opts.LabelSize, c.Labels.Size)
	setInt(&opts.DPI, c.Raster.DPI)
	setInt(&opts.JPEGQuality, c.Raster.JPEGQuality)
}

// Options returns the built-in defaults overridden by the file.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	c.Apply(&opts)
	return opts
}

// CacheDir returns the file cache directory: the configured one, else
// $XDG_CACHE_HOME/figpanel, else ~/.cache/figpanel.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// CacheTTL returns the configured entry lifetime or cache.DefaultTTL.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL.Duration > 0 {
		return c.Cache.TTL.Duration
	}
	return cache.DefaultTTL
}

// OpenCache opens the configured backend: Redis when redis_url is set,
// otherwise the file cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	if c.Cache.RedisURL != "" {
		return cache.NewRedisCache(ctx, c.Cache.RedisURL)
	}
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
