package scale

import (
	"math"

	"github.com/matzehuels/barchart/pkg/dom"
)

// Tick is one labelled position on an axis.
type Tick struct {
	// Value is the domain value: a string for Band, a float64 for Linear.
	Value any
	// Pos is the tick position in range units, before any pixel offset.
	Pos   float64
	Label string
}

// Key identifies the tick between redraws. Ticks are matched by value, so
// a value present before and after a domain change keeps its element and
// slides to its new position.
func (t Tick) Key() string {
	switch v := t.Value.(type) {
	case string:
		return v
	case float64:
		return dom.Num(v)
	default:
		return dom.Num(t.Pos)
	}
}

// Ticker is the view of a scale an axis draws from.
type Ticker interface {
	Ticks() []Tick
	// Locate returns where v would sit on this axis, if anywhere.
	Locate(v any) (float64, bool)
	Extent() (float64, float64)
}

// LinearTicker adapts a Linear scale to Ticker with DefaultTickCount ticks.
type LinearTicker struct{ Linear }

func (l LinearTicker) Ticks() []Tick {
	format := l.TickFormat(DefaultTickCount)
	values := l.Linear.Ticks(DefaultTickCount)
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Value: v, Pos: l.Map(v), Label: format(v)}
	}
	return out
}

func (l LinearTicker) Locate(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	p := l.Map(f)
	return p, !math.IsNaN(p) && !math.IsInf(p, 0)
}

func (l LinearTicker) Extent() (float64, float64) { return l.Range[0], l.Range[1] }

// BandTicker adapts a Band scale to Ticker. Ticks sit at band centres,
// less the half pixel the axis adds back when placing them.
type BandTicker struct{ *Band }

func (b BandTicker) Ticks() []Tick {
	out := make([]Tick, len(b.domain))
	for i, c := range b.domain {
		out[i] = Tick{Value: c, Pos: b.positions[i] + b.center(), Label: c}
	}
	return out
}

func (b BandTicker) Locate(v any) (float64, bool) {
	c, ok := v.(string)
	if !ok {
		return 0, false
	}
	p, ok := b.Map(c)
	return p + b.center(), ok
}

func (b BandTicker) Extent() (float64, float64) { return b.Range() }

func (b BandTicker) center() float64 {
	return max(0, b.bandwidth-1) / 2
}
