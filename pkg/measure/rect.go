package measure

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// bounds accumulates points into a box. The zero value is empty.
type bounds struct {
	minX, maxX, minY, maxY float64
	isSet                  bool
}

func (b *bounds) addPoint(x, y float64) {
	if !b.isSet {
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		b.isSet = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// addRect adds the four corners of r mapped through m.
func (b *bounds) addRect(r Rect, m affine) {
	for _, p := range [4][2]float64{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.X, r.Bottom()},
		{r.Right(), r.Bottom()},
	} {
		b.addPoint(m.apply(p[0], p[1]))
	}
}

func (b bounds) rect() Rect {
	if !b.isSet {
		return Rect{}
	}
	return Rect{X: b.minX, Y: b.minY, Width: b.maxX - b.minX, Height: b.maxY - b.minY}
}
