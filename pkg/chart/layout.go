package chart

import (
	"context"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
)

// computeViewBox measures the rendered chart and returns the box that shows
// all of it, plot area plus whatever overflows it. Configured margins
// replace the measured overflow on their side.
func (c *Chart) computeViewBox(ctx context.Context, chart *dom.Node, width, height float64) (measure.Rect, error) {
	boxes, err := c.cfg.measurer.BBox(ctx, chart)
	if err != nil {
		return measure.Rect{}, err
	}
	if len(boxes) != 1 {
		return measure.Rect{}, errors.New(errors.ErrCodeMeasure, "measurer returned %d boxes for one node", len(boxes))
	}
	bb := boxes[0]

	ml := marginOr(c.cfg.margin.Left, -bb.X)
	mr := marginOr(c.cfg.margin.Right, bb.Width+bb.X-width)
	mt := marginOr(c.cfg.margin.Top, -bb.Y)
	mb := marginOr(c.cfg.margin.Bottom, bb.Height+bb.Y-height)

	return measure.Rect{
		X:      -ml,
		Y:      -mt,
		Width:  ml + width + mr,
		Height: mt + height + mb,
	}, nil
}

func marginOr(override *float64, measured float64) float64 {
	if override != nil {
		return *override
	}
	return measured
}

// setViewBox applies vb to the svg and sizes the container to match. The
// first layout is immediate; later ones animate.
func (c *Chart) setViewBox(vb measure.Rect) {
	value := dom.Num(vb.X) + "," + dom.Num(vb.Y) + "," + dom.Num(vb.Width) + "," + dom.Num(vb.Height)
	d := c.cfg.duration
	if _, ok := c.svg.Attr("viewBox"); !ok {
		d = 0
	}
	sched := c.cfg.scheduler
	sched.Attr(c.svg, "viewBox", value, d)
	sched.Style(c.container, "width", dom.Px(vb.Width), d)
	sched.Style(c.container, "height", dom.Px(vb.Height), d)
	c.viewBox = vb
}

// getChart builds a detached, unanimated copy of the chart at its settled
// state, for measurement.
func (c *Chart) getChart(data Dataset, f frame) *dom.Node {
	svg := dom.New("svg")
	bars := svg.AppendNew("g").Classed("bars", true)
	for _, d := range data {
		rect := bars.AppendNew("rect")
		rect.Key, rect.Datum = d.Category, d
		for _, a := range c.variant.bar(f, d).attrs() {
			rect.SetNum(a.name, a.value)
		}
	}
	xs, ys := c.variant.axes(f)
	var p *axisPainter
	p.paint(svg.AppendNew("g").Classed("xAxis", true), xs)
	p.paint(svg.AppendNew("g").Classed("yAxis", true), ys)
	return svg
}
