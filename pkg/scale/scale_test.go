package scale

import (
	"math"
	"slices"
	"testing"
)

func TestLinearMap(t *testing.T) {
	tests := []struct {
		name  string
		scale Linear
		in    float64
		want  float64
	}{
		{"identity", NewLinear(0, 100, 0, 100), 42, 42},
		{"scaled", NewLinear(0, 50, 0, 800), 25, 400},
		{"inverted range", NewLinear(0, 100, 800, 0), 25, 600},
		{"degenerate domain", NewLinear(0, 0, 0, 800), 123, 400},
		{"rounded", Linear{Domain: [2]float64{0, 3}, Range: [2]float64{0, 100}, Rounded: true}, 1, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Map(tt.in); got != tt.want {
				t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		start, stop float64
		count       int
		want        []float64
	}{
		{0, 10, 10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{0, 1, 5, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{0, 947, 10, []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900}},
		{0, 1000, 10, []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}},
		{10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
		{5, 5, 10, []float64{5}},
		{0, 10, 0, nil},
	}
	for _, tt := range tests {
		got := Ticks(tt.start, tt.stop, tt.count)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Ticks(%v, %v, %d) = %v, want %v", tt.start, tt.stop, tt.count, got, tt.want)
		}
	}
}

func TestTickFormat(t *testing.T) {
	tests := []struct {
		name  string
		scale Linear
		in    float64
		want  string
	}{
		{"integers", NewLinear(0, 1000, 0, 1), 500, "500"},
		{"grouping", NewLinear(0, 20000, 0, 1), 12000, "12,000"},
		{"decimals", NewLinear(0, 1, 0, 1), 0.2, "0.2"},
		{"negative", NewLinear(-10, 10, 0, 1), -4, "−4"},
		{"degenerate", NewLinear(0, 0, 0, 1), 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.TickFormat(DefaultTickCount)(tt.in); got != tt.want {
				t.Errorf("format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"A", "B", "C"}, 0, 310, 0.1)

	if got, want := b.Step(), 100.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Step = %v, want %v", got, want)
	}
	if got, want := b.Bandwidth(), 90.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Bandwidth = %v, want %v", got, want)
	}
	if got, _ := b.Map("A"); math.Abs(got-10) > 1e-9 {
		t.Errorf("Map(A) = %v, want 10", got)
	}
	if got, _ := b.Map("C"); math.Abs(got-210) > 1e-9 {
		t.Errorf("Map(C) = %v, want 210", got)
	}
	if _, ok := b.Map("Z"); ok {
		t.Error("Map(Z) should miss")
	}
}

func TestBandDeduplicates(t *testing.T) {
	b := NewBand([]string{"A", "B", "A"}, 0, 100, 0)
	if got := b.Domain(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Domain = %v", got)
	}
	if b.Index("B") != 1 || b.Index("Z") != -1 {
		t.Error("unexpected Index results")
	}
}

func TestBandRangeIsInverse(t *testing.T) {
	tests := []struct {
		n       int
		bw, pad float64
	}{
		{3, 60, 0.1},
		{1, 60, 0.1},
		{20, 60, 0.1},
		{5, 25, 0},
		{7, 40, 0.5},
	}
	for _, tt := range tests {
		r := BandRange(tt.n, tt.bw, tt.pad)
		domain := make([]string, tt.n)
		for i := range domain {
			domain[i] = string(rune('A' + i))
		}
		b := NewBand(domain, 0, r, tt.pad)
		if math.Abs(b.Bandwidth()-tt.bw) > 1e-9 {
			t.Errorf("n=%d: bandwidth = %v, want %v (range %v)", tt.n, b.Bandwidth(), tt.bw, r)
		}
		// Computing the range again from the measured bandwidth is stable.
		if again := BandRange(tt.n, b.Bandwidth(), tt.pad); math.Abs(again-r) > 1e-9 {
			t.Errorf("n=%d: range %v != %v", tt.n, again, r)
		}
	}
}

func TestBandTickerCentres(t *testing.T) {
	b := BandTicker{NewBand([]string{"A", "B"}, 0, 210, 0)}
	ticks := b.Ticks()
	if len(ticks) != 2 {
		t.Fatalf("ticks = %d", len(ticks))
	}
	if ticks[0].Pos != 52 || ticks[1].Pos != 157 {
		t.Errorf("positions = %v, %v", ticks[0].Pos, ticks[1].Pos)
	}
	if p, ok := b.Locate("B"); !ok || p != 157 {
		t.Errorf("Locate(B) = %v, %v", p, ok)
	}
	if _, ok := b.Locate(3.0); ok {
		t.Error("Locate should reject numbers")
	}
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      string
	}{
		{1234567, 0, "1,234,567"},
		{12.5, 2, "12.50"},
		{-3, 0, "−3"},
		{-0.001, 2, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatFixed(tt.v, tt.precision); got != tt.want {
			t.Errorf("FormatFixed(%v, %d) = %q, want %q", tt.v, tt.precision, got, tt.want)
		}
	}
}

func TestLinearTicker(t *testing.T) {
	l := LinearTicker{NewLinear(0, 1000, 0, 800)}
	ticks := l.Ticks()
	if len(ticks) != 11 {
		t.Fatalf("ticks = %d, want 11", len(ticks))
	}
	last := ticks[len(ticks)-1]
	if last.Pos != 800 || last.Label != "1,000" {
		t.Errorf("last tick = %+v", last)
	}
	if ticks[5].Key() != "500" {
		t.Errorf("Key = %q", ticks[5].Key())
	}
}
