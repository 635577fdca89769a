package sink

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/fonts"
	"github.com/matzehuels/barchart/pkg/transition"
)

// Source is anything that can be exported. *chart.Chart satisfies it.
type Source interface {
	Node() *dom.Node
	SVG() *dom.Node
	Title() string
	Scheduler() *transition.Scheduler
}

// SVGOption configures SVG export.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	animate   bool
	embedFont bool
	title     bool
	xmlDecl   bool
}

// WithoutAnimation writes the current frame only.
func WithoutAnimation() SVGOption { return func(r *svgRenderer) { r.animate = false } }

// WithEmbeddedFont embeds the measurement font so labels render with the
// metrics the layout was computed from.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithoutTitle omits the <title> element.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.title = false } }

// WithXMLDeclaration prefixes the document with an XML declaration.
func WithXMLDeclaration() SVGOption { return func(r *svgRenderer) { r.xmlDecl = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{animate: true, title: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders the chart's svg element as a standalone document.
func RenderSVG(src Source, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	root, err := buildSVG(src, r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if r.xmlDecl {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	if err := dom.WriteXML(&buf, root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "write svg")
	}
	return buf.Bytes(), nil
}

// buildSVG returns a detached copy of the chart's svg prepared for export.
func buildSVG(src Source, r svgRenderer) (*dom.Node, error) {
	if src == nil || src.SVG() == nil {
		return nil, errors.New(errors.ErrCodeExport, "nothing to export")
	}
	root, clones := src.SVG().CloneMap()

	w, h := documentSize(src)
	if w > 0 && h > 0 {
		root.SetNum("width", w)
		root.SetNum("height", h)
	}

	var head []*dom.Node
	if r.title && src.Title() != "" {
		head = append(head, dom.New("title").SetText(src.Title()))
	}
	if r.embedFont {
		defs := dom.New("defs")
		defs.AppendNew("style").SetText(fonts.FontFaceCSS() + "text{font-family:" + fonts.FallbackFontFamily + ";}")
		head = append(head, defs)
	}
	for i, n := range head {
		root.Insert(i, n)
	}

	if r.animate {
		if s := src.Scheduler(); s != nil {
			animate(s, clones)
		}
	}
	return root, nil
}

// documentSize returns the container's pixel size, falling back to the
// viewBox.
func documentSize(src Source) (float64, float64) {
	if c := src.Node(); c != nil {
		w, wok := px(c, "width")
		h, hok := px(c, "height")
		if wok && hok {
			return w, h
		}
	}
	vb, _ := src.SVG().Attr("viewBox")
	f := strings.FieldsFunc(vb, func(r rune) bool { return r == ',' || r == ' ' })
	if len(f) != 4 {
		return 0, 0
	}
	w, _ := strconv.ParseFloat(f[2], 64)
	h, _ := strconv.ParseFloat(f[3], 64)
	return w, h
}

func px(n *dom.Node, name string) (float64, bool) {
	v, ok := n.Style(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	return f, err == nil
}

var translatePattern = regexp.MustCompile(`^\s*translate\(\s*([^)]*)\)\s*$`)

// animate appends SMIL children to the cloned nodes for every tween and
// removal that targets a node inside the exported subtree.
func animate(s *transition.Scheduler, clones map[*dom.Node]*dom.Node) {
	now := s.Now()
	for _, t := range s.Pending() {
		target, ok := clones[t.Node]
		if !ok {
			continue
		}
		if n := smil(t, now); n != nil {
			target.Append(n)
		}
	}
	for _, rm := range s.PendingRemovals() {
		target, ok := clones[rm.Node]
		if !ok {
			continue
		}
		target.Append(dom.New("set").
			SetAttr("attributeName", "display").
			SetAttr("to", "none").
			SetAttr("begin", seconds(rm.At.Sub(now))).
			SetAttr("fill", "freeze"))
	}
}

// smil returns the animation element reproducing t, begun at its original
// start relative to now.
func smil(t transition.Tween, now time.Time) *dom.Node {
	var n *dom.Node
	from, to := t.From, t.To
	if t.Name == "transform" {
		fm := translatePattern.FindStringSubmatch(from)
		tm := translatePattern.FindStringSubmatch(to)
		if fm == nil || tm == nil {
			return dom.New("set").
				SetAttr("attributeName", "transform").
				SetAttr("to", to).
				SetAttr("begin", seconds(t.End().Sub(now))).
				SetAttr("fill", "freeze")
		}
		n = dom.New("animateTransform").SetAttr("attributeName", "transform").SetAttr("type", "translate")
		from, to = fm[1], tm[1]
	} else {
		n = dom.New("animate").SetAttr("attributeName", t.Name)
		if t.Kind == transition.KindStyle {
			n.SetAttr("attributeType", "CSS")
		}
	}
	return n.
		SetAttr("from", from).
		SetAttr("to", to).
		SetAttr("begin", seconds(t.Start.Sub(now))).
		SetAttr("dur", seconds(t.Duration)).
		SetAttr("calcMode", "spline").
		SetAttr("keyTimes", "0;1").
		SetAttr("keySplines", transition.KeySplines).
		SetAttr("fill", "freeze")
}

// seconds formats d as a SMIL clock value.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
