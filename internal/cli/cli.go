package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fourcolor/pkg/buildinfo"
	"github.com/matzehuels/fourcolor/pkg/cache"
	"github.com/matzehuels/fourcolor/pkg/config"
	"github.com/matzehuels/fourcolor/pkg/observability"
	"github.com/matzehuels/fourcolor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "fourcolor"

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

	// Recorder counts pipeline and cache events for the debug summary.
	Recorder *observability.Recorder

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger and built-in config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Config:   config.Default(),
		Recorder: observability.NewRecorder(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Fourcolor separates images into four printable colour plates",
		Long: `Fourcolor reduces an image to red, yellow, white and black at a physical print
width, then writes one SVG and PNG plate per colour for plotters and cutters.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetPipelineHooks(c.Recorder)
			observability.SetCacheHooks(c.Recorder)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.logSummary()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fourcolor/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the preview cache")

	root.AddCommand(c.previewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.tuneCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// logSummary reports what the run computed at debug level.
func (c *CLI) logSummary() {
	s := c.Recorder.Snapshot()
	if s.Processed == 0 && s.CacheHits == 0 && s.Exports == 0 {
		return
	}
	c.Logger.Debug("run summary",
		"previews", s.Processed,
		"process_time", s.ProcessTime,
		"cache_hits", s.CacheHits,
		"cache_misses", s.CacheMisses,
		"cache_bytes", s.CacheWritten,
		"files", s.Files)
}

// loadConfig reads --config, or the default path if it exists.
func (c *CLI) loadConfig() error {
	path, optional := c.configPath, c.configPath == ""
	if optional {
		p, err := config.Path()
		if err != nil {
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// release so a new build never reuses an older build's previews.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if ttl, err := c.Config.Cache.TTLDuration(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
	default:
		dir, err := c.cacheDirectory()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDirectory returns the configured cache directory or the XDG default.
func (c *CLI) cacheDirectory() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/fourcolor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
