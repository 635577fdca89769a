package chart

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/observability"
	"github.com/matzehuels/barchart/pkg/palette"
	"github.com/matzehuels/barchart/pkg/transition"
)

// Chart is an animated bar chart bound to a render tree.
//
// The tree is a div.chart_holder wrapping an svg with three groups:
// g.bars (the bars, filled with the chart color), g.xAxis and g.yAxis.
// Every draw reconciles the bars against the current data by category,
// redraws both axes and refits the svg viewBox to the rendered content.
// Changes are animated through the chart's transition scheduler; callers
// advance it with Scheduler().Tick() or jump to the end with Settle().
//
// A Chart is not safe for concurrent use.
type Chart struct {
	orientation Orientation
	variant     variant
	cfg         config

	data  Dataset
	title string
	color string

	container *dom.Node
	svg       *dom.Node
	bars      *dom.Node
	xAxis     *dom.Node
	yAxis     *dom.Node

	axes    *axisPainter
	viewBox measure.Rect
	last    DrawResult
}

// DrawResult reports what the most recent draw did.
type DrawResult struct {
	Enter  int
	Update int
	Exit   int

	// Width and Height are the plot area, excluding axes and margins.
	Width  float64
	Height float64

	ViewBox measure.Rect

	// UnmatchedLabels lists x axis labels that were left unrotated
	// because no rotation was computed for their category.
	UnmatchedLabels []string
}

// Update carries the fields to change. Zero values leave the field as
// it is: a nil Data, an empty Color or an empty Title.
type Update struct {
	Data  Dataset `json:"data,omitempty"`
	Color string  `json:"color,omitempty"`
	Title string  `json:"title,omitempty"`
}

// New validates data, builds the chart's render tree and draws it. Invalid
// data fails with an INVALID_DATA error before anything is built.
//
// The chart keeps its own copy of data.
func New(ctx context.Context, o Orientation, data Dataset, title string, opts ...Option) (*Chart, error) {
	if o != Horizontal && o != Vertical {
		return nil, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %d", int(o))
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}

	color := cfg.color
	if color == "" {
		color = RandomColor(cfg.rng)
	} else if !palette.Valid(color) {
		return nil, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", color)
	}

	c := &Chart{
		orientation: o,
		variant:     o.variant(),
		cfg:         cfg,
		data:        data.Clone(),
		title:       title,
		color:       color,
		axes:        newAxisPainter(cfg.scheduler, cfg.duration),
	}
	c.container = dom.New("div").Classed("chart_holder", true)
	c.svg = c.container.AppendNew("svg")
	c.bars = c.svg.AppendNew("g").Classed("bars", true).SetAttr("fill", color)
	c.xAxis = c.svg.AppendNew("g").Classed("xAxis", true)
	c.yAxis = c.svg.AppendNew("g").Classed("yAxis", true)

	if err := c.Draw(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies u and redraws. All supplied fields are validated before
// any of them is applied, so a failed update changes nothing.
func (c *Chart) Update(ctx context.Context, u Update) error {
	c.cfg.logger.Debug("updating chart", "orientation", c.orientation, "data", u.Data != nil, "color", u.Color, "title", u.Title)
	if u.Data != nil {
		if err := u.Data.Validate(); err != nil {
			return err
		}
	}
	if u.Color != "" && !palette.Valid(u.Color) {
		return errors.New(errors.ErrCodeInvalidColor, "invalid color %q", u.Color)
	}

	if u.Data != nil {
		c.data = u.Data.Clone()
	}
	if u.Color != "" {
		c.color = u.Color
		c.cfg.scheduler.Attr(c.bars, "fill", c.color, c.cfg.duration)
	}
	if u.Title != "" {
		c.title = u.Title
	}
	return c.Draw(ctx)
}

// Draw runs the draw pipeline on the current state.
func (c *Chart) Draw(ctx context.Context) error {
	start := time.Now()
	c.cfg.hooks.OnDrawStart(ctx, c.orientation.String(), len(c.data))
	res, err := c.drawChart(ctx)
	stats := observability.DrawStats{Enter: res.Enter, Update: res.Update, Exit: res.Exit}
	c.cfg.hooks.OnDrawComplete(ctx, c.orientation.String(), stats, time.Since(start), err)
	if err != nil {
		return err
	}
	c.last = res
	return nil
}

func (c *Chart) drawChart(ctx context.Context) (DrawResult, error) {
	v, sched, d := c.variant, c.cfg.scheduler, c.cfg.duration
	v.prepare(c.data)
	f := newFrame(v, c.data, &c.cfg)

	items := make([]item, len(c.data))
	for i, x := range c.data {
		items[i] = item{key: x.Category, datum: x}
	}
	bars := join(c.bars, func(n *dom.Node) bool { return n.Tag == "rect" }, "rect", items, sched)

	for _, n := range bars.enter {
		for _, a := range v.collapsed(f, n.Datum.(Datum)).attrs() {
			n.SetNum(a.name, a.value)
		}
	}
	for _, n := range bars.exit {
		if d <= 0 {
			n.Remove()
			continue
		}
		for _, a := range v.exit(f) {
			sched.AttrNum(n, a.name, a.value, d)
		}
		sched.Remove(n, d)
	}
	for _, n := range bars.merged {
		for _, a := range v.bar(f, n.Datum.(Datum)).attrs() {
			sched.AttrNum(n, a.name, a.value, d)
		}
	}

	res := DrawResult{
		Enter:  len(bars.enter),
		Update: len(bars.update),
		Exit:   len(bars.exit),
		Width:  f.width,
		Height: f.height,
	}
	c.cfg.logger.Debug("draw",
		"orientation", c.orientation,
		"enter", res.Enter,
		"update", res.Update,
		"exit", res.Exit,
	)

	xs, ys := v.axes(f)
	c.axes.paint(c.xAxis, xs)
	c.axes.paint(c.yAxis, ys)

	chart := c.getChart(c.data, f)
	if v.rotatesLabels() {
		transforms, err := xAxisTransforms(ctx, c.cfg.measurer, chart)
		if err != nil {
			return res, measureError(err)
		}
		res.UnmatchedLabels = applyXAxisTransforms(c.svg, transforms, sched.IsRemoving)
		applyXAxisTransforms(chart, transforms, nil)
		if len(res.UnmatchedLabels) > 0 {
			c.cfg.logger.Debug("labels left unrotated", "categories", res.UnmatchedLabels)
		}
	}

	vb, err := c.computeViewBox(ctx, chart, f.width, f.height)
	if err != nil {
		return res, measureError(err)
	}
	c.setViewBox(vb)
	res.ViewBox = vb
	return res, nil
}

func measureError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeMeasure, err, "measure chart")
}

// Orientation returns the chart's orientation.
func (c *Chart) Orientation() Orientation { return c.orientation }

// Data returns the current dataset. Horizontal charts keep it sorted by
// category. Callers must not modify it.
func (c *Chart) Data() Dataset { return c.data }

// Title returns the chart title. The title is metadata; it is not drawn.
func (c *Chart) Title() string { return c.title }

// Color returns the bar fill.
func (c *Chart) Color() string { return c.color }

// ViewBox returns the viewBox computed by the last draw.
func (c *Chart) ViewBox() measure.Rect { return c.viewBox }

// Node returns the chart's container element.
func (c *Chart) Node() *dom.Node { return c.container }

// SVG returns the svg element inside the container.
func (c *Chart) SVG() *dom.Node { return c.svg }

// Scheduler returns the scheduler driving the chart's animations.
func (c *Chart) Scheduler() *transition.Scheduler { return c.cfg.scheduler }

// LastDraw reports what the most recent successful draw did.
func (c *Chart) LastDraw() DrawResult { return c.last }

// RandomColor returns a color from the cyclical rainbow at a uniformly
// random position. A nil rng uses the global source.
func RandomColor(rng *rand.Rand) string {
	if rng == nil {
		return palette.Rainbow(rand.Float64())
	}
	return palette.Random(rng)
}
