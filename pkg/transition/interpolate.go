package transition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/palette"
)

var numberPattern = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// Interpolate returns the value between from and to at eased progress t.
//
// Plain numbers interpolate numerically and CSS colors interpolate in RGB.
// Any other string is treated as a template: numbers embedded in to are
// interpolated against the numbers found at the same position in from,
// and the rest of to is kept as is. At t >= 1 the result is exactly to.
func Interpolate(from, to string, t float64) string {
	if t >= 1 || from == to {
		return to
	}
	if t <= 0 {
		return from
	}
	if a, err := strconv.ParseFloat(strings.TrimSpace(from), 64); err == nil {
		if b, err := strconv.ParseFloat(strings.TrimSpace(to), 64); err == nil {
			return dom.Num(lerp(a, b, t))
		}
	}
	if a, ok := palette.Parse(from); ok {
		if b, ok := palette.Parse(to); ok {
			return palette.Interpolate(a, b, t)
		}
	}
	return interpolateString(from, to, t)
}

func interpolateString(from, to string, t float64) string {
	fromNums := numberPattern.FindAllString(from, -1)
	locs := numberPattern.FindAllStringIndex(to, -1)
	if len(locs) == 0 {
		return to
	}

	var b strings.Builder
	last := 0
	for i, loc := range locs {
		b.WriteString(to[last:loc[0]])
		last = loc[1]
		target := to[loc[0]:loc[1]]
		if i >= len(fromNums) {
			b.WriteString(target)
			continue
		}
		x, errX := strconv.ParseFloat(fromNums[i], 64)
		y, errY := strconv.ParseFloat(target, 64)
		if errX != nil || errY != nil {
			b.WriteString(target)
			continue
		}
		b.WriteString(dom.Num(lerp(x, y, t)))
	}
	b.WriteString(to[last:])
	return b.String()
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// CubicInOut is the default easing: symmetric cubic acceleration and
// deceleration.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// KeySplines is CubicInOut expressed as an SVG cubic-bezier control point
// list, for exporters that hand animation to the SVG renderer.
const KeySplines = "0.645 0.045 0.355 1"
