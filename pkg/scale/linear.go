package scale

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTickCount is the number of ticks axes ask for.
const DefaultTickCount = 10

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear is a continuous scale. When Rounded is set, mapped values are
// rounded to the nearest integer.
type Linear struct {
	Domain  [2]float64
	Range   [2]float64
	Rounded bool
}

// NewLinear returns a linear scale from domain [d0, d1] to range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map converts a domain value into the range. A zero-width domain maps
// everything to the middle of the range.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	var t float64
	switch span := d1 - d0; {
	case span != 0 && !math.IsNaN(span):
		t = (v - d0) / span
	case math.IsNaN(span):
		return math.NaN()
	default:
		t = 0.5
	}
	out := s.Range[0]*(1-t) + s.Range[1]*t
	if s.Rounded {
		out = round(out)
	}
	return out
}

// Ticks returns roughly count evenly spaced, human friendly values inside
// the domain.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.Domain[0], s.Domain[1], count)
}

// TickFormat returns a formatter with enough decimals to distinguish the
// ticks produced for count, using thousands separators.
func (s Linear) TickFormat(count int) func(float64) string {
	step := TickStep(s.Domain[0], s.Domain[1], count)
	precision := 0
	if step != 0 && !math.IsInf(step, 0) && !math.IsNaN(step) {
		precision = max(0, -int(math.Floor(math.Log10(math.Abs(step)))))
	}
	return groupedFormatter(precision)
}

// Ticks returns the tick values for the interval [start, stop].
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	lo, hi := start, stop
	if reverse {
		lo, hi = stop, start
	}
	i1, i2, inc := tickSpec(lo, hi, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := range n {
		k := i1 + float64(i)
		if reverse {
			k = i2 - float64(i)
		}
		if inc < 0 {
			out[i] = k / -inc
		} else {
			out[i] = k * inc
		}
	}
	return out
}

// TickStep returns the distance between adjacent ticks for the interval.
func TickStep(start, stop float64, count int) float64 {
	reverse := stop < start
	lo, hi := start, stop
	if reverse {
		lo, hi = stop, start
	}
	_, _, inc := tickSpec(lo, hi, float64(count))
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

// tickSpec returns the first and last tick indices and the increment.
// A negative increment means the ticks are index / -inc, which keeps
// fractional steps exact.
func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = round(start * inc)
		i2 = round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = round(start / inc)
		i2 = round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// round rounds half up, matching browser number rounding.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

var printer = message.NewPrinter(language.English)

func groupedFormatter(precision int) func(float64) string {
	format := "%." + strconv.Itoa(precision) + "f"
	return func(v float64) string {
		s := printer.Sprintf(format, v)
		if strings.HasPrefix(s, "-") {
			if strings.Trim(s[1:], "0.,") == "" {
				return s[1:]
			}
			return "−" + s[1:]
		}
		return s
	}
}

// FormatFixed formats v with precision decimals and thousands separators.
func FormatFixed(v float64, precision int) string {
	return groupedFormatter(precision)(v)
}

func (s Linear) String() string {
	return fmt.Sprintf("linear[%g,%g]->[%g,%g]", s.Domain[0], s.Domain[1], s.Range[0], s.Range[1])
}
