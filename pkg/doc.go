// Package pkg holds the barchart libraries.
//
// # Overview
//
// A chart is a small render tree (package [dom]) that is laid out from a
// dataset, measured, and animated towards every new dataset by a
// transition scheduler. The packages build on each other:
//
//  1. [dom], [scale], [palette], [transition] - the tree, band and linear
//     scales, colors and timed attribute tweens
//  2. [measure] - bounding boxes from font metrics or a headless browser
//  3. [chart] - horizontal and vertical bar charts with keyed joins
//  4. [sink] - SVG (with SMIL animation), HTML and PNG export
//  5. [pipeline], [cache] - one-shot rendering with cached output
//  6. [board], [demo], [server] - clickable demo charts served over HTTP
//
// # Data Flow
//
//	[["Norway", 12.5], ["Peru", 3]]
//	         ↓
//	    [chart] package (join, scales, axes, labels, viewBox)
//	         ↓
//	    [transition] package (tweens towards the new layout)
//	         ↓
//	    [sink] package (SVG/HTML/PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/barchart/pkg/chart"
//	    "github.com/matzehuels/barchart/pkg/sink"
//	)
//
//	c, err := chart.New(ctx, chart.Vertical, chart.Dataset{{"Peru", 3}, {"Chile", 7}},
//	    "Number of cats per capita", chart.WithColor("steelblue"))
//	if err != nil {
//	    return err
//	}
//	svg, err := sink.RenderSVG(c)
//
// [dom]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/dom
// [scale]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/scale
// [palette]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/palette
// [transition]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/transition
// [measure]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/measure
// [chart]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart
// [sink]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/cache
// [board]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/board
// [demo]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/demo
// [server]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/server
package pkg
