package chart

import (
	"context"
	"fmt"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
)

const (
	labelAngle = -70.0
	labelGap   = 2.0
	labelDY    = -0.5
)

const xAxisLabels = "g.xAxis > .tick > text"

// labelTransform rotates one category label.
type labelTransform struct {
	dx, dy    float64
	transform string
}

// xAxisTransforms measures every x axis label of svg and derives the
// rotation that tilts it up and to the left of its tick. Results are keyed
// by category.
func xAxisTransforms(ctx context.Context, m measure.Measurer, svg *dom.Node) (map[string]labelTransform, error) {
	texts := svg.SelectAll(xAxisLabels)
	if len(texts) == 0 {
		return nil, nil
	}
	boxes, err := m.BBox(ctx, texts...)
	if err != nil {
		return nil, err
	}
	if len(boxes) != len(texts) {
		return nil, errors.New(errors.ErrCodeMeasure, "measurer returned %d boxes for %d labels", len(boxes), len(texts))
	}
	out := make(map[string]labelTransform, len(texts))
	for i, text := range texts {
		dim := boxes[i]
		dx := -dim.Width/2 - labelGap
		out[labelKey(text)] = labelTransform{
			dx:        dx,
			dy:        labelDY,
			transform: fmt.Sprintf("rotate(%s, %s, %s)", dom.Num(labelAngle), dom.Num(dim.X-dx), dom.Num(dim.Y)),
		}
	}
	return out, nil
}

// applyXAxisTransforms sets dx, dy and transform on the x axis labels of
// svg. Labels without an entry are left as they are; their categories are
// returned. skip excludes labels, such as those fading out, from that
// report.
func applyXAxisTransforms(svg *dom.Node, transforms map[string]labelTransform, skip func(tick *dom.Node) bool) []string {
	var unmatched []string
	for _, text := range svg.SelectAll(xAxisLabels) {
		key := labelKey(text)
		t, ok := transforms[key]
		if !ok {
			if skip == nil || !skip(text.Parent()) {
				unmatched = append(unmatched, key)
			}
			continue
		}
		text.SetNum("dx", t.dx).SetNum("dy", t.dy).SetAttr("transform", t.transform)
	}
	return unmatched
}

// labelKey is the category a label belongs to, read from its tick.
func labelKey(text *dom.Node) string {
	tick := text.Parent()
	if tick == nil {
		return text.Text()
	}
	switch v := tick.Datum.(type) {
	case string:
		return v
	case float64:
		return dom.Num(v)
	}
	return text.Text()
}
