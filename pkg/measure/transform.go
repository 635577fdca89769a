package measure

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// affine is the SVG matrix(a, b, c, d, e, f).
type affine [6]float64

var identity = affine{1, 0, 0, 1, 0, 0}

func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// mul returns m·n, i.e. n applied first.
func (m affine) mul(n affine) affine {
	return affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

func translate(tx, ty float64) affine { return affine{1, 0, 0, 1, tx, ty} }

func rotate(deg float64) affine {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return affine{cos, sin, -sin, cos, 0, 0}
}

var (
	transformFunc = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)
	argSplit      = regexp.MustCompile(`[\s,]+`)
)

// parseTransform parses an SVG transform list. Unknown functions are
// ignored.
func parseTransform(s string) affine {
	m := identity
	for _, fn := range transformFunc.FindAllStringSubmatch(s, -1) {
		args := parseArgs(fn[2])
		arg := func(i int, def float64) float64 {
			if i < len(args) {
				return args[i]
			}
			return def
		}
		var t affine
		switch strings.ToLower(fn[1]) {
		case "translate":
			t = translate(arg(0, 0), arg(1, 0))
		case "scale":
			sx := arg(0, 1)
			t = affine{sx, 0, 0, arg(1, sx), 0, 0}
		case "rotate":
			cx, cy := arg(1, 0), arg(2, 0)
			t = translate(cx, cy).mul(rotate(arg(0, 0))).mul(translate(-cx, -cy))
		case "matrix":
			if len(args) < 6 {
				continue
			}
			t = affine{args[0], args[1], args[2], args[3], args[4], args[5]}
		case "skewx":
			t = affine{1, 0, math.Tan(arg(0, 0) * math.Pi / 180), 1, 0, 0}
		case "skewy":
			t = affine{1, math.Tan(arg(0, 0) * math.Pi / 180), 0, 1, 0, 0}
		default:
			continue
		}
		m = m.mul(t)
	}
	return m
}

func parseArgs(s string) []float64 {
	var out []float64
	for _, f := range argSplit.Split(strings.TrimSpace(s), -1) {
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
