package measure

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/fonts"
)

// DefaultFontSize is the font size used when no ancestor sets one.
const DefaultFontSize = 16.0

// Measurer returns the bounding boxes of nodes, one per node, in order.
type Measurer interface {
	BBox(ctx context.Context, nodes ...*dom.Node) ([]Rect, error)
}

// Metrics measures nodes from their attributes and font metrics.
// It is safe for concurrent use.
type Metrics struct {
	font        *opentype.Font
	fontName    string
	defaultSize float64

	mu    sync.Mutex
	faces map[float64]font.Face
}

// MetricsOption configures a Metrics.
type MetricsOption func(*Metrics)

// WithFont replaces the Go Regular font used for text.
func WithFont(f *opentype.Font) MetricsOption {
	return func(m *Metrics) { m.font = f }
}

// WithDefaultFontSize sets the font size for text without an explicit or
// inherited font-size.
func WithDefaultFontSize(size float64) MetricsOption {
	return func(m *Metrics) {
		if size > 0 {
			m.defaultSize = size
		}
	}
}

// NewMetrics returns a Metrics measurer.
func NewMetrics(opts ...MetricsOption) (*Metrics, error) {
	m := &Metrics{defaultSize: DefaultFontSize, faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(m)
	}
	if m.font == nil {
		f, err := opentype.Parse(fonts.RegularTTF())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasure, err, "parse font")
		}
		m.font = f
		m.fontName = defaultFontName
	}
	if m.fontName == "" {
		m.fontName = fontName(m.font)
	}
	return m, nil
}

// BBox implements Measurer.
func (m *Metrics) BBox(ctx context.Context, nodes ...*dom.Node) ([]Rect, error) {
	out := make([]Rect, len(nodes))
	for i, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n == nil {
			return nil, errors.New(errors.ErrCodeMeasure, "cannot measure a nil node")
		}
		r, _, err := m.local(n)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// local returns the box of n in its own user space and whether n has any
// geometry at all.
func (m *Metrics) local(n *dom.Node) (Rect, bool, error) {
	if display, _ := n.Attr("display"); display == "none" {
		return Rect{}, false, nil
	}
	switch n.Tag {
	case "rect":
		return Rect{
			X:      n.AttrFloat("x"),
			Y:      n.AttrFloat("y"),
			Width:  max(0, n.AttrFloat("width")),
			Height: max(0, n.AttrFloat("height")),
		}, true, nil
	case "line":
		var b bounds
		b.addPoint(n.AttrFloat("x1"), n.AttrFloat("y1"))
		b.addPoint(n.AttrFloat("x2"), n.AttrFloat("y2"))
		return b.rect(), true, nil
	case "path":
		r, ok := pathBounds(n.AttrOr("d", ""))
		return r, ok, nil
	case "text":
		return m.text(n)
	case "g", "svg", "a":
		var b bounds
		for _, c := range n.Children() {
			r, ok, err := m.local(c)
			if err != nil {
				return Rect{}, false, err
			}
			if !ok {
				continue
			}
			b.addRect(r, parseTransform(c.AttrOr("transform", "")))
		}
		return b.rect(), b.isSet, nil
	}
	return Rect{}, false, nil
}

func (m *Metrics) text(n *dom.Node) (Rect, bool, error) {
	content := n.Text()
	if content == "" {
		return Rect{}, false, nil
	}
	size := m.fontSize(n)

	// Faces are not safe for concurrent use.
	m.mu.Lock()
	face, err := m.face(size)
	if err != nil {
		m.mu.Unlock()
		return Rect{}, false, err
	}
	width := fixedToFloat(advance(face, content))
	metrics := face.Metrics()
	m.mu.Unlock()
	ascent, descent := fixedToFloat(metrics.Ascent), fixedToFloat(metrics.Descent)

	x := firstLength(n.AttrOr("x", ""), size) + length(n.AttrOr("dx", ""), size)
	y := firstLength(n.AttrOr("y", ""), size) + length(n.AttrOr("dy", ""), size)
	switch inherited(n, "text-anchor") {
	case "middle":
		x -= width / 2
	case "end":
		x -= width
	}
	return Rect{X: x, Y: y - ascent, Width: width, Height: ascent + descent}, true, nil
}

func (m *Metrics) fontSize(n *dom.Node) float64 {
	v := inherited(n, "font-size")
	if v == "" {
		return m.defaultSize
	}
	if size := length(v, m.defaultSize); size > 0 {
		return size
	}
	return m.defaultSize
}

// face returns the cached face for size. The caller holds m.mu.
func (m *Metrics) face(size float64) (font.Face, error) {
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasure, err, "create font face")
	}
	m.faces[size] = f
	return f, nil
}

// advance returns the kerned advance width of s.
func advance(face font.Face, s string) fixed.Int26_6 {
	var adv fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		if a, ok := face.GlyphAdvance(r); ok {
			adv += a
		}
		prev = r
	}
	return adv
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// inherited looks up a presentation attribute or inline style on n and its
// ancestors.
func inherited(n *dom.Node, name string) string {
	for x := n; x != nil; x = x.Parent() {
		if v, ok := x.Style(name); ok && v != "" {
			return v
		}
		if v, ok := x.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// length parses an SVG length in px or em units.
func length(s string, fontSize float64) float64 {
	s = strings.TrimSpace(s)
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "em"):
		s, scale = strings.TrimSuffix(s, "em"), fontSize
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * scale
}

// firstLength reads the first entry of a coordinate list such as "0 10 20".
func firstLength(s string, fontSize float64) float64 {
	if f := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }); len(f) > 0 {
		return length(f[0], fontSize)
	}
	return 0
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
	defaultErr     error
)

// Default returns a shared Metrics with default options.
func Default() (*Metrics, error) {
	defaultOnce.Do(func() {
		defaultMetrics, defaultErr = NewMetrics()
	})
	return defaultMetrics, defaultErr
}
