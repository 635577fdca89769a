// Package config loads barchart settings from a TOML file.
//
// Every field has a default, so an empty or missing file is valid:
//
//	[chart]
//	width = 600
//	color = "tomato"
//	duration = "500ms"
//
//	[chart.margin]
//	left = 120
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Command-line flags override file values.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/barchart/pkg/chart"
	cerrors "github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/palette"
	"github.com/matzehuels/barchart/pkg/sink"
)

// Measure backends.
const (
	MeasureMetrics = "metrics"
	MeasureBrowser = "browser"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration written as a Go duration string ("750ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Chart   Chart   `toml:"chart"`
	Measure Measure `toml:"measure"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
	Export  Export  `toml:"export"`
}

// Chart holds chart defaults. Zero width or height sizes that dimension
// from the data; an empty color picks a random one per chart.
type Chart struct {
	Width     float64      `toml:"width"`
	Height    float64      `toml:"height"`
	Color     string       `toml:"color"`
	Duration  Duration     `toml:"duration"`
	Bandwidth float64      `toml:"bandwidth"`
	Padding   float64      `toml:"padding"`
	Margin    chart.Margin `toml:"margin"`
}

// Measure selects how text and shapes are measured.
type Measure struct {
	Backend  string  `toml:"backend"`
	FontSize float64 `toml:"font_size"`
}

// Server configures `barchart serve`.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Charts       int      `toml:"charts"`
	Seed         uint64   `toml:"seed"`
}

// Cache selects the artifact cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Export configures rasterisation.
type Export struct {
	PNGEngine   string   `toml:"png_engine"`
	Scale       float64  `toml:"scale"`
	ChromeFlags []string `toml:"chrome_flags"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chart: Chart{
			Duration:  Duration{chart.TransitionDuration},
			Bandwidth: chart.DefaultBandwidth,
			Padding:   chart.DefaultPadding,
		},
		Measure: Measure{Backend: MeasureMetrics},
		Server: Server{
			Addr:         "localhost:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			Charts:       2,
		},
		Cache: Cache{Backend: CacheFile, TTL: Duration{7 * 24 * time.Hour}},
		Export: Export{
			PNGEngine: sink.EngineChrome,
			Scale:     sink.DefaultScale,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidOption, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, cerrors.New(cerrors.ErrCodeInvalidOption, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text over the defaults.
func Decode(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidOption, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Chart.Width < 0 || c.Chart.Height < 0:
		return invalid("chart width and height must not be negative")
	case c.Chart.Color != "" && !palette.Valid(c.Chart.Color):
		return cerrors.New(cerrors.ErrCodeInvalidColor, "chart color %q is not a CSS color", c.Chart.Color)
	case c.Chart.Duration.Duration < 0:
		return invalid("chart duration must not be negative")
	case c.Chart.Bandwidth <= 0:
		return invalid("chart bandwidth must be positive")
	case c.Chart.Padding < 0 || c.Chart.Padding >= 1:
		return invalid("chart padding must be in [0, 1)")
	case c.Measure.Backend != MeasureMetrics && c.Measure.Backend != MeasureBrowser:
		return invalid("measure backend %q (must be one of: metrics, browser)", c.Measure.Backend)
	case c.Measure.FontSize < 0:
		return invalid("measure font_size must not be negative")
	case c.Server.Charts < 0:
		return invalid("server charts must not be negative")
	case c.Cache.Backend != CacheFile && c.Cache.Backend != CacheRedis && c.Cache.Backend != CacheNone:
		return invalid("cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	case c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "":
		return invalid("cache redis_url is required for the redis backend")
	case !sink.ValidEngine(c.Export.PNGEngine):
		return invalid("export png_engine %q (must be one of: chrome, rsvg)", c.Export.PNGEngine)
	case c.Export.Scale <= 0:
		return invalid("export scale must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return cerrors.New(cerrors.ErrCodeInvalidOption, format, args...)
}

// ChartOptions converts the chart section into chart options.
func (c Config) ChartOptions() []chart.Option {
	opts := []chart.Option{
		chart.WithWidth(c.Chart.Width),
		chart.WithHeight(c.Chart.Height),
		chart.WithDuration(c.Chart.Duration.Duration),
		chart.WithBandwidth(c.Chart.Bandwidth),
		chart.WithPadding(c.Chart.Padding),
		chart.WithMargin(c.Chart.Margin),
	}
	if c.Chart.Color != "" {
		opts = append(opts, chart.WithColor(c.Chart.Color))
	}
	return opts
}
