package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figpanel/pkg/cache"
	"github.com/matzehuels/figpanel/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the metrics cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: discovered)")

	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Only the file
// cache can be cleared; Redis entries expire on their own.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached page metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(*configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.RedisURL != "" {
				printInfo("Cache is backed by Redis; entries expire after %s", cfg.CacheTTL())
				return nil
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(*configPath)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
