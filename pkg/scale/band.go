package scale

import "fmt"

// Band maps categories onto equal bands of a continuous range.
type Band struct {
	domain  []string
	index   map[string]int
	r0, r1  float64
	padding float64

	step      float64
	bandwidth float64
	positions []float64
}

// NewBand returns a band scale over the given categories. Duplicate
// categories are dropped, keeping the first occurrence. padding sets both
// the inner (between bands) and outer (before the first and after the last
// band) padding as a fraction of the step, and is clamped to [0, 1).
func NewBand(domain []string, r0, r1, padding float64) *Band {
	b := &Band{index: make(map[string]int, len(domain)), r0: r0, r1: r1}
	for _, c := range domain {
		if _, dup := b.index[c]; dup {
			continue
		}
		b.index[c] = len(b.domain)
		b.domain = append(b.domain, c)
	}
	b.padding = min(max(padding, 0), 0.999999)
	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = stop, start
	}
	pi, po := b.padding, b.padding
	b.step = (stop - start) / max(1, n-pi+po*2)
	start += (stop - start - b.step*(n-pi)) * 0.5
	b.bandwidth = b.step * (1 - pi)

	b.positions = make([]float64, len(b.domain))
	for i := range b.positions {
		b.positions[i] = start + b.step*float64(i)
	}
	if reverse {
		for i, j := 0, len(b.positions)-1; i < j; i, j = i+1, j-1 {
			b.positions[i], b.positions[j] = b.positions[j], b.positions[i]
		}
	}
}

// Map returns the start of the band for category c.
func (b *Band) Map(c string) (float64, bool) {
	i, ok := b.index[c]
	if !ok {
		return 0, false
	}
	return b.positions[i], true
}

// Index returns the position of c in the domain, or -1.
func (b *Band) Index(c string) int {
	if i, ok := b.index[c]; ok {
		return i
	}
	return -1
}

// Domain returns the deduplicated categories in order.
func (b *Band) Domain() []string { return append([]string(nil), b.domain...) }

// Range returns the output interval.
func (b *Band) Range() (float64, float64) { return b.r0, b.r1 }

// Bandwidth is the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Padding returns the padding fraction.
func (b *Band) Padding() float64 { return b.padding }

func (b *Band) String() string {
	return fmt.Sprintf("band[%d]->[%g,%g] padding=%g", len(b.domain), b.r0, b.r1, b.padding)
}

// BandRange returns the range length a Band needs so that n categories get
// exactly the given bandwidth with the given padding. It is the inverse of
// NewBand's layout: NewBand(n categories, 0, BandRange(n, bw, p), p) has
// Bandwidth() == bw.
func BandRange(n int, bandwidth, padding float64) float64 {
	padding = min(max(padding, 0), 0.999999)
	if n <= 0 {
		return 0
	}
	return (float64(n) + padding) * bandwidth / (1 - padding)
}
