// Package cli implements the topoview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoview/pkg/buildinfo"
	"github.com/matzehuels/topoview/pkg/cache"
	"github.com/matzehuels/topoview/pkg/config"
	"github.com/matzehuels/topoview/pkg/httputil"
	"github.com/matzehuels/topoview/pkg/icons"
	"github.com/matzehuels/topoview/pkg/interact"
	"github.com/matzehuels/topoview/pkg/observability"
	"github.com/matzehuels/topoview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "topoview"

	// iconTTL is how long downloaded icons are reused before a refetch.
	iconTTL = 7 * 24 * time.Hour
)

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
	// Config is loaded before every command runs.
	Config *config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Topoview draws network topologies as interactive diagrams",
		Long: `Topoview turns a JSON or YAML list of nodes and links into a diagram:
every node is drawn as an icon or a colored rectangle, labeled with its name
and selected metadata, placed by a Graphviz layout and exported to SVG, PNG
or JSON. Double-clicking a node with a loopback address opens a telnet
session to it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.Register(observability.LogHooks(c.Logger))
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Relative icon paths
// resolve against the configured icon_dir, else baseDir.
func (c *CLI) newRunner(ctx context.Context, noCache bool, baseDir string) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.Opener = interact.SystemOpener{}
	if dir := c.Config.Render.IconDir; dir != "" {
		baseDir = dir
	}
	runner.Icons = icons.NewLoader(baseDir, c.newFetcher())
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newFetcher returns the icon fetcher, with an HTTP cache when one can be
// created.
func (c *CLI) newFetcher() *httputil.Fetcher {
	dir, err := httputil.DefaultDir()
	if err != nil {
		return httputil.NewFetcher(nil)
	}
	hc, err := httputil.NewCache(dir, iconTTL)
	if err != nil {
		c.Logger.Debug("icon cache disabled", "err", err)
		return httputil.NewFetcher(nil)
	}
	return httputil.NewFetcher(hc)
}

// cacheDir returns the artifact cache directory: the configured one, or
// the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file.
func (c *CLI) baseOptions() pipeline.Options {
	r, l := c.Config.Render, c.Config.Layout
	return pipeline.Options{
		MetaKeys:     r.MetaKeys,
		Palette:      r.Palette,
		Strict:       r.StrictNames,
		FontSize:     r.FontSize,
		Scale:        r.Scale,
		Engine:       l.Engine,
		Ticks:        l.Ticks,
		TickDuration: l.TickDuration.Std(),
		Logger:       c.Logger,
	}
}

// splitList parses a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
