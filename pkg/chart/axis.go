package chart

import (
	"time"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/scale"
	"github.com/matzehuels/barchart/pkg/transition"
)

type axisOrient int

const (
	axisTop axisOrient = iota
	axisRight
	axisBottom
	axisLeft
)

// Axis geometry, in pixels.
const (
	tickSizeInner = 6.0
	tickSizeOuter = 6.0
	tickPadding   = 3.0
	tickSpacing   = tickSizeInner + tickPadding
	// tickOffset moves ticks and the domain line onto pixel centres so
	// one pixel strokes stay crisp.
	tickOffset = 0.5
	// hiddenOpacity is the opacity of ticks fading in or out. It stays
	// above zero so the value never formats in exponent notation.
	hiddenOpacity = 1e-6
)

// axisSpec describes an axis to draw into a group.
type axisSpec struct {
	orient axisOrient
	ticker scale.Ticker
	// transform, when set, positions the axis group itself.
	transform string
}

// axisPainter draws axes and remembers, per axis group, the scale it was
// last drawn with so entering ticks can start from their old position.
type axisPainter struct {
	sched    *transition.Scheduler
	duration time.Duration
	previous map[*dom.Node]scale.Ticker
}

func newAxisPainter(sched *transition.Scheduler, d time.Duration) *axisPainter {
	return &axisPainter{sched: sched, duration: d, previous: make(map[*dom.Node]scale.Ticker)}
}

// paint draws spec into g. A nil painter draws immediately, without
// animation and without memory; that is how measurement copies are built.
func (p *axisPainter) paint(g *dom.Node, spec axisSpec) {
	var (
		prev     scale.Ticker
		sched    *transition.Scheduler
		duration time.Duration
	)
	if p != nil {
		prev = p.previous[g]
		sched, duration = p.sched, p.duration
	}
	animate := sched != nil
	first := prev == nil

	k := 1.0
	if spec.orient == axisTop || spec.orient == axisLeft {
		k = -1
	}
	vertical := spec.orient == axisLeft || spec.orient == axisRight
	coord := "y"
	if vertical {
		coord = "x"
	}
	position := func(v float64) string {
		if vertical {
			return "translate(0," + dom.Num(v+tickOffset) + ")"
		}
		return "translate(" + dom.Num(v+tickOffset) + ",0)"
	}
	set := func(n *dom.Node, name, value string) {
		if animate {
			sched.Attr(n, name, value, duration)
			return
		}
		n.SetAttr(name, value)
	}

	if spec.transform != "" {
		g.SetAttr("transform", spec.transform)
	}

	ticks := spec.ticker.Ticks()
	items := make([]item, len(ticks))
	for i, t := range ticks {
		items[i] = item{key: t.Key(), datum: t.Value}
	}

	path := g.Select("path.domain")
	if path == nil {
		path = g.AppendNew("path").Classed("domain", true).SetAttr("stroke", "currentColor")
	}

	res := join(g, func(n *dom.Node) bool { return n.Tag == "g" && n.HasClass("tick") }, "g", items, sched)
	for _, n := range res.enter {
		n.Classed("tick", true)
		n.AppendNew("line").SetAttr("stroke", "currentColor").SetNum(coord+"2", k*tickSizeInner)
		dy := "0.32em"
		switch spec.orient {
		case axisTop:
			dy = "0em"
		case axisBottom:
			dy = "0.71em"
		}
		n.AppendNew("text").SetAttr("fill", "currentColor").SetNum(coord, k*tickSpacing).SetAttr("dy", dy)

		if animate {
			at, ok := 0.0, false
			if prev != nil {
				at, ok = prev.Locate(n.Datum)
			}
			if !ok {
				at, _ = spec.ticker.Locate(n.Datum)
			}
			n.SetNum("opacity", hiddenOpacity).SetAttr("transform", position(at))
		}
	}

	for _, n := range res.exit {
		if !animate || duration <= 0 {
			n.Remove()
			continue
		}
		sched.AttrNum(n, "opacity", hiddenOpacity, duration)
		if at, ok := spec.ticker.Locate(n.Datum); ok {
			sched.Attr(n, "transform", position(at), duration)
		}
		sched.Remove(n, duration)
	}

	for i, n := range res.merged {
		t := ticks[i]
		if animate {
			sched.AttrNum(n, "opacity", 1, duration)
		} else {
			n.SetNum("opacity", 1)
		}
		set(n, "transform", position(t.Pos))
		if line := n.Select("line"); line != nil {
			set(line, coord+"2", dom.Num(k*tickSizeInner))
		}
		if text := n.Select("text"); text != nil {
			set(text, coord, dom.Num(k*tickSpacing))
			text.SetText(t.Label)
		}
	}

	r0, r1 := spec.ticker.Extent()
	range0, range1 := r0+tickOffset, r1+tickOffset
	var d string
	if vertical {
		d = "M" + dom.Num(k*tickSizeOuter) + "," + dom.Num(range0) + "H" + dom.Num(tickOffset) + "V" + dom.Num(range1) + "H" + dom.Num(k*tickSizeOuter)
	} else {
		d = "M" + dom.Num(range0) + "," + dom.Num(k*tickSizeOuter) + "V" + dom.Num(tickOffset) + "H" + dom.Num(range1) + "V" + dom.Num(k*tickSizeOuter)
	}
	set(path, "d", d)

	if first {
		anchor := "middle"
		switch spec.orient {
		case axisRight:
			anchor = "start"
		case axisLeft:
			anchor = "end"
		}
		g.SetAttr("fill", "none").SetNum("font-size", 10).SetAttr("font-family", "sans-serif").SetAttr("text-anchor", anchor)
	}
	if p != nil {
		p.previous[g] = spec.ticker
	}
}
