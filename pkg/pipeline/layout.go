package pipeline

import (
	"context"

	"github.com/matzehuels/barchart/pkg/chart"
)

// Layout builds the chart described by opts. Unless opts.Animate is set the
// chart is drawn without transitions, so the result is already settled.
func Layout(ctx context.Context, data chart.Dataset, opts Options) (*chart.Chart, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	o, err := chart.ParseOrientation(opts.Orientation)
	if err != nil {
		return nil, err
	}
	return chart.New(ctx, o, data, opts.Title, chartOptions(opts)...)
}

func chartOptions(opts Options) []chart.Option {
	copts := []chart.Option{
		chart.WithLogger(opts.Logger),
		chart.WithMargin(opts.Margin),
	}
	if !opts.Animate {
		copts = append(copts, chart.WithDuration(0))
	}
	if opts.Color != "" {
		copts = append(copts, chart.WithColor(opts.Color))
	}
	if opts.Width > 0 {
		copts = append(copts, chart.WithWidth(opts.Width))
	}
	if opts.Height > 0 {
		copts = append(copts, chart.WithHeight(opts.Height))
	}
	if opts.Bandwidth > 0 {
		copts = append(copts, chart.WithBandwidth(opts.Bandwidth))
	}
	if opts.Padding > 0 {
		copts = append(copts, chart.WithPadding(opts.Padding))
	}
	if opts.Measurer != nil {
		copts = append(copts, chart.WithMeasurer(opts.Measurer))
	}
	return copts
}
