package measure

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// Identifier is implemented by measurers that can name the configuration
// their boxes depend on. Two measurers with the same ID must measure any
// tree identically.
type Identifier interface {
	ID() string
}

// ID returns the identity of m for cache keys. A nil m stands for the
// shared default Metrics. Measurers that do not implement Identifier are
// identified by their type.
func ID(m Measurer) string {
	switch v := m.(type) {
	case nil:
		return metricsID(defaultFontName, DefaultFontSize)
	case Identifier:
		return v.ID()
	default:
		return fmt.Sprintf("%T", m)
	}
}

const defaultFontName = "Go Regular"

// ID implements Identifier. It names the font and the default font size.
func (m *Metrics) ID() string {
	return metricsID(m.fontName, m.defaultSize)
}

func metricsID(font string, size float64) string {
	return fmt.Sprintf("metrics:%s:%g", font, size)
}

func fontName(f *sfnt.Font) string {
	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil || name == "" {
		return "unnamed"
	}
	return name
}
