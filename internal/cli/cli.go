// Package cli implements the exprtree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/buildinfo"
	"github.com/matzehuels/exprtree/pkg/cache"
	"github.com/matzehuels/exprtree/pkg/config"
	"github.com/matzehuels/exprtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "exprtree"
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
	// Config is loaded before any subcommand runs. Flags override it.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "exprtree compiles arithmetic expressions into drawable trees",
		Long: `exprtree parses infix arithmetic expressions, evaluates them and lays the
resulting binary expression tree out on a grid for drawing as SVG, PNG, PDF,
Graphviz DOT or a terminal canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/exprtree/config.toml)")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// build version so that a shared cache never serves output of another
// release.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache picks the cache backend from the configuration: Redis when an
// address is set, otherwise a file cache under the XDG cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/exprtree/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// frameFlags are the layout flags shared by several commands.
type frameFlags struct {
	width  int
	height int
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "frame width in pixels (default from config, then 800)")
	cmd.Flags().IntVar(&f.height, "height", 0, "frame height in pixels (default from config, then 600)")
}

// setCLIDefaults fills unset options from the config file, then applies the
// pipeline defaults.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Config.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Config.Layout.Height
	}
	if opts.Style == "" {
		opts.Style = c.Config.Render.Style
	}
	if len(opts.Formats) == 0 {
		opts.Formats = c.Config.Render.Formats
	}
	if c.Config.Render.Result {
		opts.Result = true
	}
	opts.Logger = c.Logger
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
}

// parseFormats parses a comma-separated format string into a slice. An empty
// string yields nil so the config file or pipeline default applies.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
