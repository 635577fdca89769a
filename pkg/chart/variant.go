package chart

import (
	"slices"
	"strings"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/scale"
)

// frame is everything a draw derives from the data before touching the
// tree: the plot size and both scales.
type frame struct {
	width, height float64
	x, y          scale.Ticker
}

// geometry is the x, y, width and height of a bar.
type geometry struct {
	x, y, width, height float64
}

func (g geometry) attrs() []attrValue {
	return []attrValue{{"x", g.x}, {"y", g.y}, {"width", g.width}, {"height", g.height}}
}

type attrValue struct {
	name  string
	value float64
}

// variant is the orientation specific part of a chart. The set is closed:
// horizontal and vertical.
type variant interface {
	// prepare may reorder data in place before a draw.
	prepare(data Dataset)
	// size returns the plot area, filling in whichever dimension the
	// configuration leaves open.
	size(n int, cfg *config) (width, height float64)
	createXScale(data Dataset, width, height float64, cfg *config) scale.Ticker
	createYScale(data Dataset, width, height float64, cfg *config) scale.Ticker
	// bar is the settled geometry of d.
	bar(f frame, d Datum) geometry
	// collapsed is the zero-extent geometry entering bars start from.
	collapsed(f frame, d Datum) geometry
	// exit lists the attributes exiting bars animate towards collapse.
	exit(f frame) []attrValue
	axes(f frame) (x, y axisSpec)
	rotatesLabels() bool
}

func newFrame(v variant, data Dataset, cfg *config) frame {
	w, h := v.size(len(data), cfg)
	return frame{
		width:  w,
		height: h,
		x:      v.createXScale(data, w, h, cfg),
		y:      v.createYScale(data, w, h, cfg),
	}
}

func band(t scale.Ticker) *scale.Band { return t.(scale.BandTicker).Band }

func linear(t scale.Ticker) scale.Linear { return t.(scale.LinearTicker).Linear }

func valueDomain(data Dataset) [2]float64 { return [2]float64{0, data.Max()} }

type horizontal struct{}

func (horizontal) prepare(data Dataset) {
	slices.SortStableFunc(data, func(a, b Datum) int {
		return strings.Compare(a.sortKey(), b.sortKey())
	})
}

func (horizontal) size(n int, cfg *config) (float64, float64) {
	w, h := cfg.width, cfg.height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = scale.BandRange(n, cfg.bandwidth, cfg.padding)
	}
	return w, h
}

func (horizontal) createXScale(data Dataset, w, _ float64, _ *config) scale.Ticker {
	return scale.LinearTicker{Linear: scale.Linear{Domain: valueDomain(data), Range: [2]float64{0, w}, Rounded: true}}
}

func (horizontal) createYScale(data Dataset, _, h float64, cfg *config) scale.Ticker {
	return scale.BandTicker{Band: scale.NewBand(data.Categories(), 0, h, cfg.padding)}
}

func (horizontal) bar(f frame, d Datum) geometry {
	y, _ := band(f.y).Map(d.Category)
	return geometry{x: 0, y: y, width: max(0, linear(f.x).Map(d.Value)), height: band(f.y).Bandwidth()}
}

func (horizontal) collapsed(f frame, d Datum) geometry {
	y, _ := band(f.y).Map(d.Category)
	return geometry{x: 0, y: y, width: 0, height: band(f.y).Bandwidth()}
}

func (horizontal) exit(frame) []attrValue {
	return []attrValue{{"width", 0}}
}

func (horizontal) axes(f frame) (axisSpec, axisSpec) {
	return axisSpec{orient: axisTop, ticker: f.x}, axisSpec{orient: axisLeft, ticker: f.y}
}

func (horizontal) rotatesLabels() bool { return false }

type vertical struct{}

func (vertical) prepare(Dataset) {}

func (vertical) size(n int, cfg *config) (float64, float64) {
	w, h := cfg.width, cfg.height
	if w == 0 {
		w = scale.BandRange(n, cfg.bandwidth, cfg.padding)
	}
	if h == 0 {
		h = DefaultHeight
	}
	return w, h
}

func (vertical) createXScale(data Dataset, w, _ float64, cfg *config) scale.Ticker {
	return scale.BandTicker{Band: scale.NewBand(data.Categories(), 0, w, cfg.padding)}
}

func (vertical) createYScale(data Dataset, _, h float64, _ *config) scale.Ticker {
	return scale.LinearTicker{Linear: scale.Linear{Domain: valueDomain(data), Range: [2]float64{h, 0}}}
}

func (vertical) bar(f frame, d Datum) geometry {
	x, _ := band(f.x).Map(d.Category)
	y := linear(f.y).Map(d.Value)
	return geometry{x: x, y: y, width: band(f.x).Bandwidth(), height: max(0, f.height-y)}
}

func (vertical) collapsed(f frame, d Datum) geometry {
	x, _ := band(f.x).Map(d.Category)
	return geometry{x: x, y: f.height, width: band(f.x).Bandwidth(), height: 0}
}

func (vertical) exit(f frame) []attrValue {
	return []attrValue{{"y", f.height}, {"height", 0}}
}

func (vertical) axes(f frame) (axisSpec, axisSpec) {
	x := axisSpec{orient: axisBottom, ticker: f.x, transform: "translate(0," + dom.Num(f.height) + ")"}
	return x, axisSpec{orient: axisLeft, ticker: f.y}
}

func (vertical) rotatesLabels() bool { return true }
