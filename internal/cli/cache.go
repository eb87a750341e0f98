package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q holds nothing to clear", c.Config.Cache.Backend)
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", c.Config.Cache.Backend)
			switch c.Config.Cache.Backend {
			case config.CacheFile:
				if dir, err := c.Config.CacheDir(); err == nil {
					printDetail("Directory: %s", dir)
				}
			case config.CacheRedis:
				printDetail("Server: %s", c.Config.Cache.RedisAddr)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
