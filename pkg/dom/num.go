package dom

import (
	"math"
	"strconv"
	"strings"
)

// Num formats v the way a JavaScript engine stringifies numbers, which is
// what attribute values written by browser-side chart code look like:
// integers have no fraction, very large or small magnitudes use exponent
// notation, and negative zero prints as "0".
func Num(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	a := math.Abs(v)
	if a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go pads the exponent to two digits; JS does not.
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Px formats a CSS pixel length.
func Px(v float64) string {
	return Num(v) + "px"
}
