package demo

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/barchart/pkg/chart"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestEmbeddedData(t *testing.T) {
	if len(Countries()) < 100 {
		t.Errorf("countries = %d, want a full list", len(Countries()))
	}
	if len(Nouns()) == 0 {
		t.Error("no nouns")
	}
}

func TestRandomDataBounds(t *testing.T) {
	src := Countries()
	for seed := range uint64(200) {
		data := RandomData(seeded(seed), src)
		if len(data) < MinEntries || len(data) > MaxEntries {
			t.Fatalf("seed %d: %d entries", seed, len(data))
		}
		if err := data.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		seen := map[string]bool{}
		for _, d := range data {
			if seen[d.Category] {
				t.Fatalf("seed %d: duplicate %q", seed, d.Category)
			}
			seen[d.Category] = true
			if d.Value < 0 || d.Value >= MaxDatum {
				t.Fatalf("seed %d: value %v out of range", seed, d.Value)
			}
		}
	}
}

func TestRandomDataSmallPool(t *testing.T) {
	data := RandomData(seeded(1), []string{"A", "B"})
	if len(data) != 2 || data[0].Category != "A" || data[1].Category != "B" {
		t.Errorf("data = %v", data)
	}
	if got := RandomData(seeded(1), []string{"A"}); len(got) != 1 {
		t.Errorf("single entry pool: %v", got)
	}
}

func TestUpdateValuesKeepsCategories(t *testing.T) {
	in := chart.Dataset{{Category: "A", Value: 1}, {Category: "B", Value: 2}, {Category: "C", Value: 3}}
	out := UpdateValues(seeded(7), in)
	if len(out) != len(in) {
		t.Fatalf("len = %d", len(out))
	}
	for i := range in {
		if out[i].Category != in[i].Category {
			t.Errorf("category %d changed: %q", i, out[i].Category)
		}
	}
	if in[0].Value != 1 {
		t.Error("input was modified")
	}
}

func TestUpdateMembership(t *testing.T) {
	src := Countries()
	for seed := range uint64(200) {
		rng := seeded(seed)
		in := RandomData(rng, src)
		out := UpdateMembership(rng, in, src)
		if len(out) < MinEntries {
			t.Fatalf("seed %d: %d entries", seed, len(out))
		}
		seen := map[string]bool{}
		for _, d := range out {
			if seen[d.Category] {
				t.Fatalf("seed %d: duplicate category %q", seed, d.Category)
			}
			seen[d.Category] = true
		}
	}
}

func TestRandomTitle(t *testing.T) {
	got := RandomTitle(seeded(3), []Noun{{"goat", "goats"}})
	if got != "Number of goats per capita" {
		t.Errorf("title = %q", got)
	}
}

func TestClick(t *testing.T) {
	current := chart.Dataset{{Category: "Chile", Value: 1}, {Category: "Peru", Value: 2}}
	tests := []struct {
		name      string
		mods      Modifiers
		wantData  bool
		wantColor bool
		wantTitle bool
	}{
		{"plain", Modifiers{}, true, true, true},
		{"ctrl", Modifiers{Ctrl: true}, true, false, false},
		{"alt", Modifiers{Alt: true}, true, false, false},
		{"ctrl+alt", Modifiers{Ctrl: true, Alt: true}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Click(seeded(11), tt.mods, current)
			if (u.Data != nil) != tt.wantData {
				t.Errorf("data set = %v, want %v", u.Data != nil, tt.wantData)
			}
			if (u.Color != "") != tt.wantColor {
				t.Errorf("color = %q", u.Color)
			}
			if (u.Title != "") != tt.wantTitle {
				t.Errorf("title = %q", u.Title)
			}
		})
	}
}

func TestCtrlClickKeepsCategories(t *testing.T) {
	current := chart.Dataset{{Category: "Chile", Value: 1}, {Category: "Peru", Value: 2}}
	u := Click(seeded(5), Modifiers{Ctrl: true}, current)
	if got := u.Data.Categories(); got[0] != "Chile" || got[1] != "Peru" {
		t.Errorf("categories = %v", got)
	}
}
