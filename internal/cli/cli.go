// Package cli implements the cliquecount command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jamestrimble/maximal-clique/pkg/buildinfo"
	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/config"
	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "cliquecount"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// Out receives command results; status lines and logs go to Err.
	Out io.Writer
	Err io.Writer

	configPath string
	verbose    bool
}

// New creates a CLI that logs to w at the given level. Results are written
// to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		Out:    os.Stdout,
		Err:    w,
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
		Short: "Count maximal cliques with Bron–Kerbosch and pivoting",
		Long: `cliquecount counts the maximal cliques of a graph given as an edge list,
using the Bron–Kerbosch algorithm with Tomita-style pivoting. It reports the
number of recursive calls made alongside the clique count.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			level := parseLevel(c.Config.Log.Level)
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cliquecount/config.toml)")

	root.AddCommand(c.countCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
		return nil
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache backend. The file backend falls back
// to no caching when no cache directory can be determined.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.Backend {
	case cache.BackendNone:
		return cache.NewNullCache(), nil
	case cache.BackendRedis:
		return cache.NewRedisCache(connectCtx, cfg.RedisURL, appName+":")
	case cache.BackendMongo:
		return cache.NewMongoCache(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case cache.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Debug("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cliquecount/).
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
