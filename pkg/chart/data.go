package chart

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
)

// Datum is one bar: a category label and its value.
//
// In JSON a Datum is a two element array, ["Norway", 12.5]. Extra elements
// are ignored. The category may be a string or a number; the value must be
// a finite number or a string holding one.
type Datum struct {
	Category string
	Value    float64
}

// Dataset is an ordered list of data. Categories identify bars across
// draws and should be unique.
type Dataset []Datum

// Clone returns a copy that does not share storage with d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	return slices.Clone(d)
}

// Max returns the largest value, or 0 for an empty dataset.
func (d Dataset) Max() float64 {
	if len(d) == 0 {
		return 0
	}
	m := d[0].Value
	for _, x := range d[1:] {
		m = max(m, x.Value)
	}
	return m
}

// Categories returns the category of each datum in order.
func (d Dataset) Categories() []string {
	out := make([]string, len(d))
	for i, x := range d {
		out[i] = x.Category
	}
	return out
}

// Validate reports an INVALID_DATA error unless d is non-empty and every
// value is a finite number.
func (d Dataset) Validate() error {
	if len(d) == 0 {
		return errors.New(errors.ErrCodeInvalidData, "dataset is empty")
	}
	for i, x := range d {
		if math.IsNaN(x.Value) || math.IsInf(x.Value, 0) {
			return errors.New(errors.ErrCodeInvalidData, "datum %d (%q): value is not a finite number", i, x.Category)
		}
	}
	return nil
}

// IsInvalidData reports whether err is a data validation failure.
func IsInvalidData(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidData)
}

// sortKey orders horizontal charts: category and value joined the way a
// browser stringifies a pair, compared as plain strings.
func (x Datum) sortKey() string {
	return x.Category + "," + dom.Num(x.Value)
}

// MarshalJSON implements json.Marshaler.
func (x Datum) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{x.Category, x.Value})
}

// UnmarshalJSON implements json.Unmarshaler.
func (x *Datum) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "decode datum")
	}
	d, err := datumFromRaw(raw, 0)
	if err != nil {
		return err
	}
	*x = d
	return nil
}

// IsValid reports whether raw, as decoded from JSON into an any, is usable
// chart data: a non-empty array whose elements are arrays of at least two
// fields with a numeric second field.
func IsValid(raw any) bool {
	return ValidateRaw(raw) == nil
}

// ValidateRaw is IsValid with the reason for rejection.
func ValidateRaw(raw any) error {
	_, err := FromRaw(raw)
	return err
}

// FromRaw converts decoded JSON into a Dataset.
func FromRaw(raw any) (Dataset, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidData, "data must be an array, got %s", kind(raw))
	}
	if len(list) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "dataset is empty")
	}
	out := make(Dataset, len(list))
	for i, item := range list {
		d, err := datumFromRaw(item, i)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// ParseDataset decodes JSON data. Both a bare array and an object with a
// "data" field are accepted.
func ParseDataset(b []byte) (Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "decode dataset")
	}
	if obj, ok := raw.(map[string]any); ok {
		inner, ok := obj["data"]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidData, "object has no \"data\" field")
		}
		raw = inner
	}
	return FromRaw(raw)
}

func datumFromRaw(item any, i int) (Datum, error) {
	pair, ok := item.([]any)
	if !ok || len(pair) < 2 {
		return Datum{}, errors.New(errors.ErrCodeInvalidData, "datum %d: want [category, value], got %s", i, kind(item))
	}
	cat, ok := category(pair[0])
	if !ok {
		return Datum{}, errors.New(errors.ErrCodeInvalidData, "datum %d: category must be a string or number", i)
	}
	v, ok := number(pair[1])
	if !ok {
		return Datum{}, errors.New(errors.ErrCodeInvalidData, "datum %d (%q): value is not numeric", i, cat)
	}
	return Datum{Category: cat, Value: v}, nil
}

func category(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		return c, true
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return c.String(), true
		}
		return dom.Num(f), true
	case float64:
		return dom.Num(c), true
	case int:
		return strconv.Itoa(c), true
	}
	return "", false
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	return f, !math.IsNaN(f) && !math.IsInf(f, 0)
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return "number"
}
