// Package demo generates random chart data and turns clicks into chart
// updates, for the interactive demos served by the CLI.
//
// A plain click replaces a chart's data, color and title. With ctrl held it
// only re-rolls values; with alt held it re-rolls some values and drops or
// inserts categories. Holding both redraws without changes.
package demo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/barchart/pkg/chart"
)

const (
	// MaxDatum bounds generated values: they fall in [0, MaxDatum).
	MaxDatum = 1000
	// MaxEntries caps the size of generated datasets.
	MaxEntries = 20
	// MinEntries is the smallest dataset the generators return.
	MinEntries = 2

	pickProbability    = 0.052
	revalueProbability = 0.75
	changeProbability  = 0.3
	dropProbability    = 0.143
	insertProbability  = 0.167

	maxAttempts = 100
)

//go:embed data/countries.json
var countriesJSON []byte

//go:embed data/nouns.json
var nounsJSON []byte

var (
	countries []string
	nouns     []Noun
)

// Noun is a singular/plural pair used in titles.
type Noun struct {
	Singular string
	Plural   string
}

func init() {
	if err := json.Unmarshal(countriesJSON, &countries); err != nil {
		panic(fmt.Sprintf("demo: decode countries: %v", err))
	}
	var pairs [][2]string
	if err := json.Unmarshal(nounsJSON, &pairs); err != nil {
		panic(fmt.Sprintf("demo: decode nouns: %v", err))
	}
	for _, p := range pairs {
		nouns = append(nouns, Noun{Singular: p[0], Plural: p[1]})
	}
}

// Countries returns the built-in category pool.
func Countries() []string { return slices.Clone(countries) }

// Nouns returns the built-in title nouns.
func Nouns() []Noun { return slices.Clone(nouns) }

// Modifiers are the keys held during a click.
type Modifiers struct {
	Ctrl bool `json:"ctrl"`
	Alt  bool `json:"alt"`
}

func (m Modifiers) String() string {
	switch {
	case m.Ctrl && m.Alt:
		return "ctrl+alt"
	case m.Ctrl:
		return "ctrl"
	case m.Alt:
		return "alt"
	}
	return "none"
}

func bit(rng *rand.Rand, p float64) bool {
	return rng.Float64() > 1-p
}

func value(rng *rand.Rand) float64 {
	return float64(rng.IntN(MaxDatum))
}

// RandomData picks a random subset of src, in src order, with a random
// value for each. Every entry is picked independently; the result has
// between MinEntries and MaxEntries data. If src has fewer than MinEntries
// entries the result is as large as src allows.
func RandomData(rng *rand.Rand, src []string) chart.Dataset {
	for range maxAttempts {
		var data chart.Dataset
		for _, c := range src {
			if len(data) >= MaxEntries {
				break
			}
			if bit(rng, pickProbability) {
				data = append(data, chart.Datum{Category: c, Value: value(rng)})
			}
		}
		if len(data) >= MinEntries {
			return data
		}
	}

	// Small pools rarely reach the minimum by chance; pick directly.
	idx := rng.Perm(len(src))[:min(len(src), MinEntries)]
	slices.Sort(idx)
	data := make(chart.Dataset, len(idx))
	for i, j := range idx {
		data[i] = chart.Datum{Category: src[j], Value: value(rng)}
	}
	return data
}

// UpdateValues gives most data a new random value and keeps the rest.
func UpdateValues(rng *rand.Rand, data chart.Dataset) chart.Dataset {
	out := make(chart.Dataset, len(data))
	for i, d := range data {
		if bit(rng, revalueProbability) {
			d.Value = value(rng)
		}
		out[i] = d
	}
	return out
}

// UpdateMembership walks data and, per datum, either re-rolls its value,
// drops it, or inserts a new category from src in front of it. The result
// keeps at least MinEntries data when data has that many.
func UpdateMembership(rng *rand.Rand, data chart.Dataset, src []string) chart.Dataset {
	for range maxAttempts {
		out := make(chart.Dataset, 0, len(data)+1)
		used := make(map[string]bool, len(data))
		for _, d := range data {
			used[d.Category] = true
		}
		for _, d := range data {
			switch {
			case bit(rng, changeProbability):
				d.Value = value(rng)
			case bit(rng, dropProbability):
				continue
			case bit(rng, insertProbability):
				if c, ok := unusedCategory(rng, src, used); ok {
					used[c] = true
					out = append(out, chart.Datum{Category: c, Value: value(rng)})
				}
			}
			out = append(out, d)
		}
		if len(out) >= MinEntries || len(out) >= len(data) {
			return out
		}
	}
	return data.Clone()
}

// unusedCategory draws categories from src until it finds one not in used.
// It gives up after a bounded number of draws.
func unusedCategory(rng *rand.Rand, src []string, used map[string]bool) (string, bool) {
	if len(src) == 0 {
		return "", false
	}
	for range maxAttempts {
		c := src[rng.IntN(len(src))]
		if !used[c] {
			return c, true
		}
	}
	for _, c := range src {
		if !used[c] {
			return c, true
		}
	}
	return "", false
}

// RandomTitle returns "Number of <plural noun> per capita".
func RandomTitle(rng *rand.Rand, nouns []Noun) string {
	if len(nouns) == 0 {
		return "Number of things per capita"
	}
	return fmt.Sprintf("Number of %s per capita", nouns[rng.IntN(len(nouns))].Plural)
}

// Click returns the update a click with mods makes to a chart showing
// current.
func Click(rng *rand.Rand, mods Modifiers, current chart.Dataset) chart.Update {
	switch {
	case mods.Ctrl && !mods.Alt:
		return chart.Update{Data: UpdateValues(rng, current)}
	case mods.Alt && !mods.Ctrl:
		return chart.Update{Data: UpdateMembership(rng, current, countries)}
	case !mods.Ctrl && !mods.Alt:
		return chart.Update{
			Data:  RandomData(rng, countries),
			Color: chart.RandomColor(rng),
			Title: RandomTitle(rng, nouns),
		}
	}
	return chart.Update{}
}

// Margin is the fixed margin demo charts use so rotated labels have room.
func Margin() chart.Margin {
	return chart.Margin{Left: chart.Px(120), Bottom: chart.Px(120)}
}

// InitialTitle is the title demo charts start with.
const InitialTitle = "Number of cats per capita"
