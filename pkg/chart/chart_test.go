package chart

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/barchart/pkg/dom"
	cerrors "github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/transition"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestChart(t *testing.T, o Orientation, data Dataset, opts ...Option) (*Chart, *transition.ManualClock) {
	t.Helper()
	clock := transition.NewManualClock(epoch)
	opts = append([]Option{WithClock(clock), WithColor(DefaultColor)}, opts...)
	c, err := New(context.Background(), o, data, "title", opts...)
	require.NoError(t, err)
	return c, clock
}

func bars(c *Chart) []*dom.Node {
	return c.SVG().SelectAll("g.bars > rect")
}

func barByKey(c *Chart, key string) *dom.Node {
	for _, n := range bars(c) {
		if n.Key == key {
			return n
		}
	}
	return nil
}

func keys(nodes []*dom.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestNewRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name string
		data Dataset
	}{
		{"nil", nil},
		{"empty", Dataset{}},
		{"nan", Dataset{{"A", math.NaN()}}},
		{"inf", Dataset{{"A", 1}, {"B", math.Inf(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(context.Background(), Horizontal, tt.data, "")
			require.Error(t, err)
			assert.True(t, IsInvalidData(err))
			assert.Nil(t, c)
		})
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(context.Background(), Vertical, Dataset{{"A", 1}}, "", WithColor("not-a-color"))
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidColor))

	_, err = New(context.Background(), Orientation(7), Dataset{{"A", 1}}, "")
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidOrientation))
}

func TestSkeleton(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"A", 1}, {"B", 2}})

	root := c.Node()
	assert.Equal(t, "div", root.Tag)
	assert.True(t, root.HasClass("chart_holder"))
	require.NotNil(t, root.Select("div > svg > g.bars"))
	require.NotNil(t, root.Select("svg > g.xAxis"))
	require.NotNil(t, root.Select("svg > g.yAxis"))
	assert.Equal(t, DefaultColor, root.Select("g.bars").AttrOr("fill", ""))
	assert.Len(t, bars(c), 2)
}

func TestRandomColorWhenUnset(t *testing.T) {
	c, err := New(context.Background(), Horizontal, Dataset{{"A", 1}}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.Color(), "rgb("), "color = %q", c.Color())
}

func TestIdentityAcrossUpdates(t *testing.T) {
	c, clock := newTestChart(t, Horizontal, Dataset{{"A", 1}, {"B", 2}, {"C", 3}})
	c.Scheduler().Settle()

	before := map[string]*dom.Node{}
	for _, n := range bars(c) {
		before[n.Key] = n
	}
	widthB := before["B"].AttrFloat("width")

	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"A", 1}, {"B", 2.5}, {"C", 3}}}))
	res := c.LastDraw()
	assert.Equal(t, 0, res.Enter)
	assert.Equal(t, 3, res.Update)
	assert.Equal(t, 0, res.Exit)

	clock.Advance(TransitionDuration)
	c.Scheduler().Tick()

	for _, n := range bars(c) {
		assert.Same(t, before[n.Key], n, "bar %s was recreated", n.Key)
	}
	assert.Greater(t, before["B"].AttrFloat("width"), widthB)
}

func TestEnterExit(t *testing.T) {
	c, clock := newTestChart(t, Vertical, Dataset{{"A", 10}, {"B", 20}})
	c.Scheduler().Settle()
	a, b := barByKey(c, "A"), barByKey(c, "B")
	require.NotNil(t, a)
	height := c.LastDraw().Height

	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"B", 20}, {"C", 5}}}))
	res := c.LastDraw()
	assert.Equal(t, 1, res.Enter)
	assert.Equal(t, 1, res.Update)
	assert.Equal(t, 1, res.Exit)

	cBar := barByKey(c, "C")
	require.NotNil(t, cBar)
	assert.Equal(t, 0.0, cBar.AttrFloat("height"), "entering bar starts collapsed")
	assert.Equal(t, height, cBar.AttrFloat("y"), "entering bar starts on the baseline")
	assert.True(t, c.Scheduler().IsRemoving(a))
	assert.Same(t, b, barByKey(c, "B"))

	clock.Advance(TransitionDuration / 2)
	c.Scheduler().Tick()
	assert.NotNil(t, a.Parent(), "exiting bar stays while it collapses")
	assert.Less(t, a.AttrFloat("height"), height)

	clock.Advance(TransitionDuration / 2)
	c.Scheduler().Tick()
	assert.Nil(t, a.Parent(), "exiting bar is removed at the end")
	assert.Greater(t, cBar.AttrFloat("height"), 0.0)
	assert.Equal(t, []string{"B", "C"}, keys(bars(c)))
}

func TestExitingBarIsRevived(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestChart(t, Horizontal, Dataset{{"A", 1}, {"B", 2}})
	c.Scheduler().Settle()
	a := barByKey(c, "A")

	require.NoError(t, c.Update(ctx, Update{Data: Dataset{{"B", 2}}}))
	clock.Advance(TransitionDuration / 3)
	c.Scheduler().Tick()
	require.True(t, c.Scheduler().IsRemoving(a))

	require.NoError(t, c.Update(ctx, Update{Data: Dataset{{"A", 1}, {"B", 2}}}))
	assert.False(t, c.Scheduler().IsRemoving(a))
	assert.Equal(t, 0, c.LastDraw().Enter)

	c.Scheduler().Settle()
	assert.Same(t, a, barByKey(c, "A"))
	assert.Len(t, bars(c), 2)
}

func TestHorizontalSortsByCategory(t *testing.T) {
	c1, _ := newTestChart(t, Horizontal, Dataset{{"B", 2}, {"C", 3}, {"A", 1}})
	c2, _ := newTestChart(t, Horizontal, Dataset{{"C", 3}, {"A", 1}, {"B", 2}})

	assert.Equal(t, []string{"A", "B", "C"}, keys(bars(c1)))
	assert.Equal(t, keys(bars(c1)), keys(bars(c2)))
	assert.Equal(t, []string{"A", "B", "C"}, c1.Data().Categories())

	c1.Scheduler().Settle()
	c2.Scheduler().Settle()
	for i, n := range bars(c1) {
		assert.Equal(t, n.AttrFloat("y"), bars(c2)[i].AttrFloat("y"))
	}
}

func TestNewCopiesInput(t *testing.T) {
	data := Dataset{{"B", 2}, {"A", 1}}
	c, _ := newTestChart(t, Horizontal, data)
	assert.Equal(t, "B", data[0].Category, "caller's slice must not be sorted")
	data[1].Value = 100
	assert.Equal(t, 1.0, c.Data()[0].Value)
}

func TestColorOnlyUpdate(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"A", 1}, {"B", 2}})
	c.Scheduler().Settle()
	data := c.Data()

	require.NoError(t, c.Update(context.Background(), Update{Color: "#ff0000"}))
	assert.Equal(t, data, c.Data())
	assert.Equal(t, "title", c.Title())
	assert.Equal(t, "#ff0000", c.Color())

	c.Scheduler().Settle()
	assert.Equal(t, "#ff0000", c.SVG().Select("g.bars").AttrOr("fill", ""))
}

func TestTitleOnlyUpdateKeepsGeometry(t *testing.T) {
	c, _ := newTestChart(t, Horizontal, Dataset{{"A", 1}, {"B", 2}})
	c.Scheduler().Settle()
	before := dom.Markup(c.Node())
	vb := c.ViewBox()

	require.NoError(t, c.Update(context.Background(), Update{Title: "new title"}))
	c.Scheduler().Settle()

	assert.Equal(t, "new title", c.Title())
	assert.Equal(t, vb, c.ViewBox())
	assert.Equal(t, before, dom.Markup(c.Node()))
}

func TestUpdateIsAtomic(t *testing.T) {
	c, _ := newTestChart(t, Horizontal, Dataset{{"A", 1}})
	ctx := context.Background()

	err := c.Update(ctx, Update{Data: Dataset{{"A", math.NaN()}}, Color: "red", Title: "x"})
	require.Error(t, err)
	assert.True(t, IsInvalidData(err))
	assert.Equal(t, DefaultColor, c.Color())
	assert.Equal(t, "title", c.Title())

	err = c.Update(ctx, Update{Data: Dataset{{"Z", 9}}, Color: "nope"})
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidColor))
	assert.Equal(t, "A", c.Data()[0].Category)

	err = c.Update(ctx, Update{Data: Dataset{}})
	assert.True(t, IsInvalidData(err), "an empty, non-nil dataset is invalid")
}

func TestAutoSizing(t *testing.T) {
	data := Dataset{{"A", 1}, {"B", 2}, {"C", 3}}

	h, _ := newTestChart(t, Horizontal, data)
	assert.Equal(t, DefaultWidth, h.LastDraw().Width)
	assert.InDelta(t, 3.1*60/0.9, h.LastDraw().Height, 1e-9)

	v, _ := newTestChart(t, Vertical, data, WithHeight(300))
	assert.InDelta(t, 3.1*60/0.9, v.LastDraw().Width, 1e-9)
	assert.Equal(t, 300.0, v.LastDraw().Height)

	v.Scheduler().Settle()
	for _, n := range bars(v) {
		assert.InDelta(t, DefaultBandwidth, n.AttrFloat("width"), 1e-9)
	}
}

func TestViewBox(t *testing.T) {
	c, _ := newTestChart(t, Horizontal, Dataset{{"Alpha", 10}, {"Beta", 20}})
	vb := c.ViewBox()

	// The top axis labels and the left category labels overflow the plot.
	assert.Less(t, vb.X, 0.0)
	assert.Less(t, vb.Y, 0.0)
	assert.Greater(t, vb.Width, c.LastDraw().Width)

	width, _ := c.Node().Style("width")
	assert.Equal(t, dom.Px(vb.Width), width)
	assert.Equal(t, dom.Num(vb.X)+","+dom.Num(vb.Y)+","+dom.Num(vb.Width)+","+dom.Num(vb.Height), c.SVG().AttrOr("viewBox", ""))
}

func TestViewBoxIsDeterministic(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"Alpha", 10}, {"Beta", 20}})
	ctx := context.Background()
	f := newFrame(c.variant, c.data, &c.cfg)
	tree := c.getChart(c.data, f)

	first, err := c.computeViewBox(ctx, tree, f.width, f.height)
	require.NoError(t, err)
	second, err := c.computeViewBox(ctx, tree, f.width, f.height)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarginOverrides(t *testing.T) {
	c, _ := newTestChart(t, Horizontal, Dataset{{"A", 1}},
		WithMargin(Margin{Left: Px(0), Top: Px(25)}))
	vb := c.ViewBox()
	assert.Equal(t, 0.0, vb.X, "an explicit zero margin is honoured")
	assert.Equal(t, -25.0, vb.Y)
}

func TestViewBoxAnimatesAfterFirstDraw(t *testing.T) {
	c, clock := newTestChart(t, Horizontal, Dataset{{"A", 1}})
	first := c.SVG().AttrOr("viewBox", "")
	require.NotEmpty(t, first)

	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"A", 1}, {"B", 2}, {"C", 3}}}))
	assert.Equal(t, first, c.SVG().AttrOr("viewBox", ""), "viewBox should not jump")
	assert.NotEmpty(t, c.Scheduler().PendingFor(c.SVG()))

	clock.Advance(TransitionDuration)
	c.Scheduler().Tick()
	assert.NotEqual(t, first, c.SVG().AttrOr("viewBox", ""))
}

func TestVerticalLabelsAreRotated(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"Norway", 1}, {"Chile", 2}})

	labels := c.SVG().SelectAll(xAxisLabels)
	require.Len(t, labels, 2)
	for _, l := range labels {
		assert.True(t, strings.HasPrefix(l.AttrOr("transform", ""), "rotate(-70, "), "transform = %q", l.AttrOr("transform", ""))
		assert.Equal(t, "-0.5", l.AttrOr("dy", ""))
	}
	assert.Empty(t, c.LastDraw().UnmatchedLabels)
}

func TestUnmatchedLabelsAreReported(t *testing.T) {
	svg := dom.New("svg")
	tick := svg.AppendNew("g").Classed("xAxis", true).AppendNew("g").Classed("tick", true)
	tick.Datum = "Ghost"
	text := tick.AppendNew("text").SetText("Ghost")

	unmatched := applyXAxisTransforms(svg, map[string]labelTransform{"Other": {}}, nil)
	assert.Equal(t, []string{"Ghost"}, unmatched)
	_, rotated := text.Attr("transform")
	assert.False(t, rotated)
}

func TestAxes(t *testing.T) {
	c, _ := newTestChart(t, Horizontal, Dataset{{"A", 400}, {"B", 1000}})
	c.Scheduler().Settle()

	yTicks := c.SVG().SelectAll("g.yAxis > .tick")
	require.Len(t, yTicks, 2)
	assert.Equal(t, "A", yTicks[0].Select("text").Text())

	xTicks := c.SVG().SelectAll("g.xAxis > .tick")
	require.Len(t, xTicks, 11)
	assert.Equal(t, "1,000", xTicks[10].Select("text").Text())
	assert.Equal(t, "translate(800.5,0)", xTicks[10].AttrOr("transform", ""))

	domain := c.SVG().Select("g.xAxis > path.domain")
	require.NotNil(t, domain)
	assert.Equal(t, "M0.5,-6V0.5H800.5V-6", domain.AttrOr("d", ""))
	assert.Equal(t, "end", c.SVG().Select("g.yAxis").AttrOr("text-anchor", ""))
}

func TestTicksSlideWithTheirValue(t *testing.T) {
	c, clock := newTestChart(t, Horizontal, Dataset{{"A", 400}, {"B", 1000}})
	c.Scheduler().Settle()

	tickFor := func(v float64) *dom.Node {
		for _, n := range c.SVG().SelectAll("g.xAxis > .tick") {
			if n.Datum == v {
				return n
			}
		}
		return nil
	}
	thousand := tickFor(1000)
	require.NotNil(t, thousand)
	assert.Equal(t, "translate(800.5,0)", thousand.AttrOr("transform", ""))

	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"A", 400}, {"B", 2000}}}))
	assert.Same(t, thousand, tickFor(1000))
	assert.Equal(t, "1,000", thousand.Select("text").Text())

	clock.Advance(c.cfg.duration / 2)
	c.Scheduler().Tick()
	mid := thousand.AttrOr("transform", "")
	assert.NotEqual(t, "translate(800.5,0)", mid)
	assert.NotEqual(t, "translate(400.5,0)", mid)

	c.Scheduler().Settle()
	assert.Equal(t, "translate(400.5,0)", thousand.AttrOr("transform", ""))
	assert.Nil(t, tickFor(100), "ticks without a place on the new scale exit")
	assert.Len(t, c.SVG().SelectAll("g.xAxis > .tick"), 11)
}

func TestDuplicateCategoriesDoNotPanic(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"A", 1}, {"A", 2}})
	assert.Len(t, bars(c), 2)
	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"A", 3}}}))
	c.Scheduler().Settle()
	assert.Len(t, bars(c), 1)
}

func TestZeroDurationIsImmediate(t *testing.T) {
	c, _ := newTestChart(t, Vertical, Dataset{{"A", 1}, {"B", 2}}, WithDuration(0))
	require.NoError(t, c.Update(context.Background(), Update{Data: Dataset{{"B", 2}}}))
	assert.Len(t, bars(c), 1)
	assert.True(t, c.Scheduler().Idle())
}

type failingMeasurer struct{}

func (failingMeasurer) BBox(context.Context, ...*dom.Node) ([]measure.Rect, error) {
	return nil, errors.New("no layout engine")
}

func TestMeasureFailure(t *testing.T) {
	_, err := New(context.Background(), Horizontal, Dataset{{"A", 1}}, "", WithMeasurer(failingMeasurer{}))
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeMeasure))
}

// singleBoxMeasurer answers every request with one box, however many nodes
// were asked for.
type singleBoxMeasurer struct{}

func (singleBoxMeasurer) BBox(context.Context, ...*dom.Node) ([]measure.Rect, error) {
	return []measure.Rect{{Width: 10, Height: 10}}, nil
}

func TestShortMeasurerReply(t *testing.T) {
	var c *Chart
	var err error
	require.NotPanics(t, func() {
		c, err = New(context.Background(), Vertical, Dataset{{"A", 1}, {"B", 2}}, "", WithMeasurer(singleBoxMeasurer{}))
	})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeMeasure))
}
