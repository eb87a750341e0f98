// Package cli implements the infinityflow command-line interface.
//
// # Commands
//
//   - new: write a starter mind map
//   - validate: check snapshot files
//   - layout: compute a layout and write it as JSON
//   - render: render a snapshot to svg, png, json or dot
//   - edit: interactive terminal editor
//   - maps: manage documents in the configured store
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is carried on the CLI and through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/buildinfo"
	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/config"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
	"github.com/matzehuels/infinityflow/pkg/store"
)

const appName = "infinityflow"

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
	Config config.Config

	configFlag string
	configPath string
	verbose    bool
}

// New creates a CLI with default configuration and a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
// The persistent pre-run loads the configuration and attaches the logger
// to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "InfinityFlow lays out and edits mind maps",
		Long:         `InfinityFlow is a mind-map engine: a pure tree-mutation core, deterministic layout strategies, an interactive terminal editor and an HTTP surface for canvas hosts.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFlag, "config", "", "config file (default $XDG_CONFIG_HOME/infinityflow/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless
// --verbose already asked for debug output.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.configFlag)
	if err != nil {
		return err
	}
	c.Config, c.configPath = cfg, path
	switch {
	case c.verbose:
		c.SetLogLevel(LogDebug)
		installDebugHooks(c.Logger)
	default:
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.SetLogLevel(level)
		}
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner on the configured cache. Keys are
// scoped to the build version so an upgrade never reads layouts computed
// by an older engine from a persistent cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Get().Version+":")
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.LayoutTTL = c.Config.Cache.LayoutTTL.Duration
	r.ArtifactTTL = c.Config.Cache.ArtifactTTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.Config.Cache
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured document store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Storage
	switch sc.Backend {
	case config.StorageMemory:
		return store.NewMemoryStore(), nil
	case config.StorageMongo:
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        sc.MongoURI,
			Database:   sc.MongoDatabase,
			Collection: sc.MongoCollection,
		})
	}
	dir, err := c.Config.DataDir()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
