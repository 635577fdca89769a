package chart

import (
	"strings"

	"github.com/matzehuels/barchart/pkg/errors"
)

// Orientation selects which axis carries the categories.
type Orientation int

const (
	// Horizontal charts draw bars growing rightward from a category axis
	// on the left, with the value axis on top.
	Horizontal Orientation = iota
	// Vertical charts draw bars growing upward from a category axis at the
	// bottom, with the value axis on the left.
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "unknown"
}

// ParseOrientation accepts "horizontal"/"h" and "vertical"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %q (want horizontal or vertical)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o Orientation) variant() variant {
	if o == Vertical {
		return vertical{}
	}
	return horizontal{}
}
