package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"pairs", `[["A",1],["B",2]]`, true},
		{"empty", `[]`, false},
		{"non-numeric value", `[["A","x"]]`, false},
		{"numeric string value", `[["A","12.5"]]`, true},
		{"extra fields", `[["A",1,"note"]]`, true},
		{"short datum", `[["A"]]`, false},
		{"datum not an array", `[{"A":1}]`, false},
		{"not an array", `{"A":1}`, false},
		{"null value", `[["A",null]]`, false},
		{"bool value", `[["A",true]]`, false},
		{"numeric category", `[[2024,3]]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(decode(t, tt.in)))
		})
	}
}

func TestParseDataset(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Dataset
	}{
		{"array", `[["A",1],["B",2.5]]`, Dataset{{"A", 1}, {"B", 2.5}}},
		{"object", `{"data":[["A",1]]}`, Dataset{{"A", 1}}},
		{"numeric category", `[[1e3,"4"]]`, Dataset{{"1000", 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataset([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{`{"rows":[]}`, `not json`, `[]`, `[["A","NaN"]]`} {
		_, err := ParseDataset([]byte(bad))
		assert.True(t, IsInvalidData(err), "input %s: err = %v", bad, err)
	}
}

func TestDatumJSON(t *testing.T) {
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(`[["A",1],["B","2"]]`), &d))
	assert.Equal(t, Dataset{{"A", 1}, {"B", 2}}, d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[["A",1],["B",2]]`, string(out))

	err = json.Unmarshal([]byte(`[["A","x"]]`), &d)
	assert.True(t, IsInvalidData(err))
}

func TestDatasetHelpers(t *testing.T) {
	d := Dataset{{"A", 3}, {"B", -1}, {"C", 7}}
	assert.Equal(t, 7.0, d.Max())
	assert.Equal(t, []string{"A", "B", "C"}, d.Categories())
	assert.Equal(t, 0.0, Dataset{}.Max())

	c := d.Clone()
	c[0].Value = 99
	assert.Equal(t, 3.0, d[0].Value)
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{"horizontal": Horizontal, "H": Horizontal, "vertical": Vertical, " v ": Vertical} {
		got, err := ParseOrientation(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOrientation("diagonal")
	assert.Error(t, err)

	var o Orientation
	require.NoError(t, o.UnmarshalText([]byte("vertical")))
	assert.Equal(t, Vertical, o)
}
