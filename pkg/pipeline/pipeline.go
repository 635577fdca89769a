// Package pipeline turns a dataset into exported chart documents.
//
// It is shared by the CLI and the server so that both build charts with the
// same defaults and cache their output the same way.
//
// # Stages
//
//  1. Parse: read and validate a dataset from JSON
//  2. Layout: build the chart, measure it and settle its transitions
//  3. Render: export SVG, HTML, PNG or a JSON snapshot
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    Orientation: "vertical",
//	    Title:       "Number of cats per capita",
//	    Formats:     []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/palette"
	"github.com/matzehuels/barchart/pkg/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOrientation is used when Options.Orientation is empty.
	DefaultOrientation = "horizontal"

	// DefaultScale is the PNG device pixel ratio.
	DefaultScale = sink.DefaultScale

	// DefaultEngine is the PNG rasteriser.
	DefaultEngine = sink.EngineChrome
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Chart options
	Orientation string       `json:"orientation,omitempty"`
	Title       string       `json:"title,omitempty"`
	Color       string       `json:"color,omitempty"`
	Width       float64      `json:"width,omitempty"`
	Height      float64      `json:"height,omitempty"`
	Margin      chart.Margin `json:"margin,omitzero"`
	Bandwidth   float64      `json:"bandwidth,omitempty"`
	Padding     float64      `json:"padding,omitempty"`

	// Animate keeps the entering transition of the first draw in the SVG
	// and HTML output instead of exporting the settled frame.
	Animate bool `json:"animate,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Engine      string   `json:"engine,omitempty"`
	EmbedFont   bool     `json:"embed_font,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`
	PageTitle   string   `json:"page_title,omitempty"`
	ChromeFlags []string `json:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Measurer measure.Measurer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the built chart. It is nil when every artifact came from
	// the cache.
	Chart *chart.Chart

	// RequestHash identifies the dataset and chart options.
	RequestHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Bars       int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
	PNGHit    bool // the PNG was found under its SVG hash
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, html, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, defaulting to svg.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if _, err := chart.ParseOrientation(o.Orientation); err != nil {
		return err
	}
	if o.Color == "" {
		o.Color = chart.DefaultColor
	}
	if !palette.Valid(o.Color) {
		return errors.New(errors.ErrCodeInvalidColor, "invalid color %q", o.Color)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "width and height must not be negative")
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must be positive, got %v", o.Scale)
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if !sink.ValidEngine(o.Engine) {
		return errors.New(errors.ErrCodeInvalidOption, "invalid engine: %q (must be one of: chrome, rsvg)", o.Engine)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// RenderKeyOpts returns cache key options for the rendered document set.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Orientation: o.Orientation,
		Width:       o.Width,
		Height:      o.Height,
		Animated:    o.Animate,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
		opts.Engine = o.Engine
	}
	return opts
}

// requestKey is the part of a request that determines the chart.
type requestKey struct {
	Data      chart.Dataset `json:"data"`
	Title     string        `json:"title"`
	Color     string        `json:"color"`
	Margin    chart.Margin  `json:"margin"`
	Bandwidth float64       `json:"bandwidth"`
	Padding   float64       `json:"padding"`
	EmbedFont bool          `json:"embed_font"`
	PageTitle string        `json:"page_title"`
	Measurer  string        `json:"measurer"`
}
