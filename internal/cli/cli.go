// Package cli implements the figpanel command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figpanel/pkg/buildinfo"
	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/config"
	"github.com/matzehuels/figpanel/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "figpanel composes figures into one labelled multi-panel page",
		Long: `figpanel arranges PDF, SVG and raster figures on a single page following a
compact layout descriptor ("2x2", "2,1", "AB-C", "3"), labels every panel and
writes the result as PDF, SVG, PNG, JPEG or TIFF.`,
		Version:      buildinfo.Current().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured metrics cache.
// A cache that cannot be opened is logged and replaced by a NullCache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cfg.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("metrics cache disabled", "err", err)
		} else {
			store = opened
		}
	}
	r := pipeline.NewRunner(store, metricKeyer(cfg), c.Logger)
	r.Extractor.TTL = cfg.CacheTTL()
	return r
}

// metricKeyer namespaces metric keys when the cache is a Redis instance
// that other tools may share. A nil result selects the default keyer.
func metricKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Cache.RedisURL == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, appName+":")
}
