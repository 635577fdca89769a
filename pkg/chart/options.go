package chart

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/observability"
	"github.com/matzehuels/barchart/pkg/transition"
)

const (
	// DefaultColor is the conventional bar fill. New charts without a
	// color option get a random rainbow color instead.
	DefaultColor = "steelblue"

	// TransitionDuration is how long every animated change takes.
	TransitionDuration = 750 * time.Millisecond

	// DefaultBandwidth is the bar thickness used to size the category axis
	// when its length is not set explicitly.
	DefaultBandwidth = 60.0
	DefaultPadding   = 0.1

	// DefaultWidth and DefaultHeight size the value axis of horizontal
	// and vertical charts respectively.
	DefaultWidth  = 800.0
	DefaultHeight = 800.0
)

// Margin overrides the measured margin on any side. A nil side is
// computed from the rendered content.
type Margin struct {
	Left   *float64 `json:"left,omitempty" toml:"left"`
	Right  *float64 `json:"right,omitempty" toml:"right"`
	Top    *float64 `json:"top,omitempty" toml:"top"`
	Bottom *float64 `json:"bottom,omitempty" toml:"bottom"`
}

// Px returns a pointer to v, for building Margin literals.
func Px(v float64) *float64 { return &v }

type config struct {
	color     string
	width     float64
	height    float64
	margin    Margin
	duration  time.Duration
	bandwidth float64
	padding   float64
	measurer  measure.Measurer
	clock     transition.Clock
	scheduler *transition.Scheduler
	logger    *log.Logger
	rng       *rand.Rand
	hooks     observability.ChartHooks
}

func defaultConfig() config {
	return config{
		duration:  TransitionDuration,
		bandwidth: DefaultBandwidth,
		padding:   DefaultPadding,
	}
}

// Option configures a Chart.
type Option func(*config)

// WithColor sets the initial bar fill. Any CSS color is accepted.
func WithColor(c string) Option {
	return func(cfg *config) { cfg.color = c }
}

// WithWidth fixes the plot width. Zero keeps the orientation default.
func WithWidth(w float64) Option {
	return func(cfg *config) { cfg.width = w }
}

// WithHeight fixes the plot height. Zero keeps the orientation default.
func WithHeight(h float64) Option {
	return func(cfg *config) { cfg.height = h }
}

// WithMargin overrides the measured margins.
func WithMargin(m Margin) Option {
	return func(cfg *config) { cfg.margin = m }
}

// WithDuration sets the transition duration. Zero disables animation.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.duration = d
		}
	}
}

// WithBandwidth sets the bar thickness used for automatic sizing.
func WithBandwidth(bw float64) Option {
	return func(cfg *config) {
		if bw > 0 {
			cfg.bandwidth = bw
		}
	}
}

// WithPadding sets the band padding fraction, in [0, 1).
func WithPadding(p float64) Option {
	return func(cfg *config) {
		if p >= 0 && p < 1 {
			cfg.padding = p
		}
	}
}

// WithMeasurer sets the bounding box backend used for layout. The default
// is a measure.Metrics.
func WithMeasurer(m measure.Measurer) Option {
	return func(cfg *config) { cfg.measurer = m }
}

// WithClock sets the clock of the chart's own scheduler.
func WithClock(c transition.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithScheduler shares a scheduler between charts. It takes precedence
// over WithClock.
func WithScheduler(s *transition.Scheduler) Option {
	return func(cfg *config) { cfg.scheduler = s }
}

// WithLogger sets the logger. Draw statistics are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithRand sets the random source for the initial color.
func WithRand(r *rand.Rand) Option {
	return func(cfg *config) { cfg.rng = r }
}

// WithHooks sets the observability hooks. The default is the globally
// registered observability.Chart().
func WithHooks(h observability.ChartHooks) Option {
	return func(cfg *config) { cfg.hooks = h }
}

func (cfg *config) fill() error {
	if cfg.measurer == nil {
		m, err := measure.Default()
		if err != nil {
			return err
		}
		cfg.measurer = m
	}
	if cfg.scheduler == nil {
		cfg.scheduler = transition.New(cfg.clock)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.hooks == nil {
		cfg.hooks = observability.Chart()
	}
	return nil
}
