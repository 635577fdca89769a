package pipeline

import (
	"context"
	"encoding/json"

	"github.com/chromedp/chromedp"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/sink"
)

// Snapshot is the JSON export of a chart.
type Snapshot struct {
	Orientation chart.Orientation `json:"orientation"`
	Title       string            `json:"title"`
	Color       string            `json:"color"`
	Data        chart.Dataset     `json:"data"`
	ViewBox     measure.Rect      `json:"viewBox"`
}

// Render exports c in every requested format except PNG, which callers
// obtain through RenderPNG so it can be cached separately.
func Render(c *chart.Chart, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	svgOpts := svgOptions(opts)

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = sink.RenderSVG(c, append(svgOpts, sink.WithXMLDeclaration())...)
		case FormatHTML:
			title := opts.PageTitle
			if title == "" {
				title = c.Title()
			}
			data, err = sink.RenderHTML([]sink.Entry{{Source: c}},
				sink.WithPageTitle(title),
				sink.WithHTMLSVGOptions(svgOpts...),
			)
		case FormatJSON:
			data, err = json.MarshalIndent(Snapshot{
				Orientation: c.Orientation(),
				Title:       c.Title(),
				Color:       c.Color(),
				Data:        c.Data(),
				ViewBox:     c.ViewBox(),
			}, "", "  ")
		case FormatPNG:
			continue
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExport, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderPNG rasterises c with the engine and scale from opts.
func RenderPNG(ctx context.Context, c *chart.Chart, opts Options) ([]byte, error) {
	pngOpts := []sink.PNGOption{
		sink.WithScale(opts.Scale),
		sink.WithEngine(opts.Engine),
	}
	for _, flag := range opts.ChromeFlags {
		pngOpts = append(pngOpts, sink.WithChromeOptions(chromedp.Flag(flag, true)))
	}
	return sink.RenderPNG(ctx, c, pngOpts...)
}

// staticSVG is the frame a PNG is rasterised from; its hash keys PNG
// artifacts.
func staticSVG(c *chart.Chart) ([]byte, error) {
	return sink.RenderSVG(c, sink.WithoutAnimation(), sink.WithEmbeddedFont())
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if !opts.Animate {
		out = append(out, sink.WithoutAnimation())
	}
	if opts.EmbedFont {
		out = append(out, sink.WithEmbeddedFont())
	}
	return out
}
