package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/config"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Zero values fall back to the config file.
type renderOpts struct {
	output      string
	orientation string
	formats     string
	title       string
	color       string
	width       float64
	height      float64
	margin      marginFlags
	measure     string
	animate     bool
	embedFont   bool
	engine      string
	scale       float64
	noCache     bool
	refresh     bool
}

// marginFlags are the --margin-* flags. Negative means unset.
type marginFlags struct {
	left, right, top, bottom float64
}

func (m marginFlags) apply(base chart.Margin) chart.Margin {
	set := func(v float64, dst **float64) {
		if v >= 0 {
			*dst = chart.Px(v)
		}
	}
	set(m.left, &base.Left)
	set(m.right, &base.Right)
	set(m.top, &base.Top)
	set(m.bottom, &base.Bottom)
	return base
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{margin: marginFlags{-1, -1, -1, -1}}

	cmd := &cobra.Command{
		Use:   "render <data.json>",
		Short: "Render a dataset to SVG, HTML, PNG or JSON",
		Long: `Render a dataset to one or more documents.

The input is a JSON array of [category, value] pairs, or an object with a
"data" field holding one. Use "-" to read from stdin.`,
		Example: `  barchart render cats.json
  barchart render cats.json -f svg,png --orientation vertical -o out/cats
  echo '[["Peru",3],["Chile",7]]' | barchart render - -o cats.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&opts.orientation, "orientation", pipeline.DefaultOrientation, "bar orientation: horizontal, vertical")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), html, png, json (comma-separated)")
	f.StringVarP(&opts.title, "title", "t", "", "chart title")
	f.StringVar(&opts.color, "color", "", "bar color, any CSS color (default "+chart.DefaultColor+")")
	f.Float64Var(&opts.width, "width", 0, "plot width in pixels (0 = automatic)")
	f.Float64Var(&opts.height, "height", 0, "plot height in pixels (0 = automatic)")
	f.Float64Var(&opts.margin.left, "margin-left", -1, "left margin in pixels (default measured)")
	f.Float64Var(&opts.margin.right, "margin-right", -1, "right margin in pixels (default measured)")
	f.Float64Var(&opts.margin.top, "margin-top", -1, "top margin in pixels (default measured)")
	f.Float64Var(&opts.margin.bottom, "margin-bottom", -1, "bottom margin in pixels (default measured)")
	f.StringVar(&opts.measure, "measure", "", "text measurement: metrics, browser (default from config)")
	f.BoolVar(&opts.animate, "animate", false, "keep the entry animation in SVG and HTML output")
	f.BoolVar(&opts.embedFont, "embed-font", false, "embed the label font in the SVG")
	f.StringVar(&opts.engine, "engine", "", "PNG engine: chrome, rsvg (default from config)")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	data, err := pipeline.ParseFile(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Rendering %s", displayName(input))

	opts, err := ro.pipelineOptions(cfg)
	if err != nil {
		return err
	}
	m, release, err := c.newMeasurer(cfg, ro.measure)
	if err != nil {
		return err
	}
	defer release()
	opts.Measurer = m
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if opts.HasFormat(pipeline.FormatPNG) {
		spin = newSpinnerWithContext(ctx, "Rasterising PNG...")
		spin.Start()
	}
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, data, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d bar(s)", len(data)))
	printStats(len(data), opts.Formats, result.CacheInfo.RenderHit)

	paths, err := writeArtifacts(result.Artifacts, outputBase(ro.output, input, opts.Formats), opts.Formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// pipelineOptions merges the flags over the config file.
func (ro renderOpts) pipelineOptions(cfg config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Orientation: ro.orientation,
		Title:       ro.title,
		Color:       firstNonEmpty(ro.color, cfg.Chart.Color),
		Width:       firstPositive(ro.width, cfg.Chart.Width),
		Height:      firstPositive(ro.height, cfg.Chart.Height),
		Margin:      ro.margin.apply(cfg.Chart.Margin),
		Bandwidth:   cfg.Chart.Bandwidth,
		Padding:     cfg.Chart.Padding,
		Animate:     ro.animate,
		Formats:     pipeline.ParseFormats(ro.formats),
		Scale:       firstPositive(ro.scale, cfg.Export.Scale),
		Engine:      firstNonEmpty(ro.engine, cfg.Export.PNGEngine),
		EmbedFont:   ro.embedFont,
		Refresh:     ro.refresh,
		ChromeFlags: cfg.Export.ChromeFlags,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// outputBase derives the path outputs are written under. A single format
// with an explicit -o writes exactly there.
func outputBase(output, input string, formats []string) string {
	if output == "" {
		if input == "-" {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// writeArtifacts writes each artifact to base.<format> and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, base string, formats []string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	ordered := append([]string(nil), formats...)
	sort.Strings(ordered)
	var paths []string
	for _, format := range ordered {
		b, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func displayName(input string) string {
	if input == "-" {
		return "stdin"
	}
	return input
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func invalidFlag(name, value string, want ...string) error {
	return errors.New(errors.ErrCodeInvalidOption, "invalid --%s %q (must be one of: %s)", name, value, strings.Join(want, ", "))
}
