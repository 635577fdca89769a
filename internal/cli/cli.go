// Package cli implements the barchart command-line interface.
//
// # Commands
//
//   - render: export a dataset as SVG, HTML, PNG or a JSON snapshot
//   - serve: run the HTTP board with clickable, animated charts
//   - demo: click charts from the terminal
//   - cache: manage the render cache
//
// All commands accept --config to read a TOML file; flags override it.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/buildinfo"
	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/config"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/measure/browser"
	"github.com/matzehuels/barchart/pkg/observability"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "barchart"

	// configFile is looked up in the user config directory when --config
	// is not given.
	configFile = "config.toml"
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

	configPath string
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
		Use:          appName,
		Short:        "Barchart draws animated bar charts",
		Long:         `Barchart lays out horizontal and vertical bar charts, animates every change between datasets and exports them as SVG, HTML or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.UseLogHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads --config, or the user config file if it exists.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path, _ = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend, "measure", cfg.Measure.Backend)
	return cfg, nil
}

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFile), nil
}

func defaultConfigHint() string {
	if p, err := defaultConfigPath(); err == nil {
		return p
	}
	return "none"
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cache.WithKeyPrefix(appName+":"))
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newMeasurer returns the configured bounding box backend and a function
// releasing it. A nil measurer means the chart default.
func (c *CLI) newMeasurer(cfg config.Config, backend string) (measure.Measurer, func(), error) {
	if backend == "" {
		backend = cfg.Measure.Backend
	}
	switch backend {
	case config.MeasureBrowser:
		flags := make([]chromedp.ExecAllocatorOption, len(cfg.Export.ChromeFlags))
		for i, f := range cfg.Export.ChromeFlags {
			flags[i] = chromedp.Flag(f, true)
		}
		b := browser.New(browser.WithLogger(c.Logger), browser.WithExecOptions(flags...))
		return b, func() { b.Close() }, nil
	case config.MeasureMetrics, "":
		var opts []measure.MetricsOption
		if cfg.Measure.FontSize > 0 {
			opts = append(opts, measure.WithDefaultFontSize(cfg.Measure.FontSize))
		}
		m, err := measure.NewMetrics(opts...)
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	}
	return nil, nil, invalidFlag("measure", backend, config.MeasureMetrics, config.MeasureBrowser)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/barchart/).
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

// chartMeasurer wraps m as a chart option, if set.
func chartMeasurer(m measure.Measurer) []chart.Option {
	if m == nil {
		return nil
	}
	return []chart.Option{chart.WithMeasurer(m)}
}
