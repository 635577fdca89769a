// Package palette parses, formats and interpolates the CSS colors used for
// chart fills.
//
// Colors are accepted as #rgb, #rrggbb, rgb(r, g, b) or any SVG/CSS named
// color. Output uses the rgb(r, g, b) form produced by browser-side chart
// libraries so interpolated frames and random colors look the same as the
// values a browser would write.
package palette

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var rgbPattern = regexp.MustCompile(`^rgba?\(\s*([0-9.]+)\s*,\s*([0-9.]+)\s*,\s*([0-9.]+)\s*(?:,\s*[0-9.]+\s*)?\)$`)

// Parse converts a CSS color string into a colorful.Color.
func Parse(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colorful.Color{}, false
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		return c, err == nil
	}
	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		var ch [3]float64
		for i := range ch {
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil || v > 255 {
				return colorful.Color{}, false
			}
			ch[i] = v / 255
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
	}
	if named, ok := colornames.Map[s]; ok {
		c, ok := colorful.MakeColor(named)
		return c, ok
	}
	return colorful.Color{}, false
}

// Valid reports whether s is a color Parse understands.
func Valid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Format renders c as rgb(r, g, b) with channels clamped to [0, 255].
func Format(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// Interpolate returns the RGB blend of a and b at t in [0, 1].
func Interpolate(a, b colorful.Color, t float64) string {
	return Format(a.BlendRgb(b, t))
}

// Rainbow returns the cyclical cubehelix rainbow color at t; values outside
// [0, 1] wrap around.
func Rainbow(t float64) string {
	if t < 0 || t > 1 {
		t -= math.Floor(t)
	}
	ts := math.Abs(t - 0.5)
	return Format(cubehelix(360*t-100, 1.5-1.5*ts, 0.8-0.9*ts))
}

// Random returns Rainbow at a uniform random position drawn from rng.
func Random(rng *rand.Rand) string {
	return Rainbow(rng.Float64())
}

// cubehelix converts Dave Green's cubehelix coordinates (hue in degrees)
// to RGB.
func cubehelix(h, s, l float64) colorful.Color {
	const (
		a = -0.14861
		b = +1.78277
		c = -0.29227
		d = -0.90649
		e = +1.97294
	)
	h = (h + 120) * math.Pi / 180
	amp := s * l * (1 - l)
	cosh, sinh := math.Cos(h), math.Sin(h)
	return colorful.Color{
		R: l + amp*(a*cosh+b*sinh),
		G: l + amp*(c*cosh+d*sinh),
		B: l + amp*(e*cosh),
	}
}
