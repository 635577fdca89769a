package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/barchart/pkg/board"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/demo"
	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/palette"
	"github.com/matzehuels/barchart/pkg/scale"
	"github.com/matzehuels/barchart/pkg/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// frameInterval is how often the board redraws while animating.
	frameInterval = 40 * time.Millisecond

	// barCells is the terminal width of a full-length bar.
	barCells = 40
)

// frameMsg advances animations.
type frameMsg time.Time

// =============================================================================
// BoardModel - Interactive chart board
// =============================================================================

// BoardModel is the bubbletea model for the terminal demo. Key presses
// stand in for mouse clicks: v is a ctrl-click, m an alt-click and enter a
// plain click on the selected chart.
type BoardModel struct {
	Board    *board.Board
	Cursor   int
	SaveDir  string
	Status   string
	Err      error
	ctx      context.Context
	animated bool
}

// NewBoardModel creates a board model. Saved SVGs go to dir.
func NewBoardModel(ctx context.Context, b *board.Board, dir string) BoardModel {
	return BoardModel{Board: b, SaveDir: dir, ctx: ctx, animated: true}
}

func (m BoardModel) Init() tea.Cmd {
	return m.frame()
}

func (m BoardModel) frame() tea.Cmd {
	if !m.animated {
		return nil
	}
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := m.Board.Len()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "j":
			if n > 0 {
				m.Cursor = (m.Cursor + 1) % n
			}
		case "shift+tab", "up", "k":
			if n > 0 {
				m.Cursor = (m.Cursor + n - 1) % n
			}
		case "v":
			m = m.click(demo.Modifiers{Ctrl: true})
		case "m":
			m = m.click(demo.Modifiers{Alt: true})
		case "enter", " ":
			m = m.click(demo.Modifiers{})
		case "s":
			m = m.save()
		}
	case frameMsg:
		m.Board.Tick()
		return m, m.frame()
	}
	return m, nil
}

func (m BoardModel) selected() (board.Handle, bool) {
	list := m.Board.List()
	if m.Cursor < 0 || m.Cursor >= len(list) {
		return board.Handle{}, false
	}
	return list[m.Cursor], true
}

func (m BoardModel) click(mods demo.Modifiers) BoardModel {
	h, ok := m.selected()
	if !ok {
		return m
	}
	m.Err = m.Board.Click(m.ctx, h.ID, mods)
	if m.Err == nil {
		m.Status = fmt.Sprintf("%s on chart %d", clickName(mods), m.Cursor+1)
	}
	return m
}

func (m BoardModel) save() BoardModel {
	h, ok := m.selected()
	if !ok {
		return m
	}
	path := filepath.Join(m.SaveDir, fmt.Sprintf("chart-%d.svg", m.Cursor+1))
	m.Err = m.Board.With(h.ID, func(c *chart.Chart) error {
		svg, err := sink.RenderSVG(c, sink.WithXMLDeclaration())
		if err != nil {
			return err
		}
		return os.WriteFile(path, svg, 0o644)
	})
	if m.Err == nil {
		m.Status = "saved " + path
	}
	return m
}

func clickName(mods demo.Modifiers) string {
	switch {
	case mods.Ctrl && !mods.Alt:
		return "ctrl-click"
	case mods.Alt && !mods.Ctrl:
		return "alt-click"
	}
	return "click"
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Bar Chart Demo"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab select  v ctrl-click  m alt-click  ⏎ click  s save svg  q quit"))
	b.WriteString("\n\n")

	for i, h := range m.Board.List() {
		cursor := "  "
		title := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			title = listSelectedStyle
		}
		c := h.Chart
		b.WriteString(cursor + title.Render(c.Title()) + " " + listDimStyle.Render(c.Orientation().String()))
		b.WriteString("\n")
		for _, line := range barLines(c) {
			b.WriteString("    " + line + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	case m.Status != "":
		b.WriteString(listDimStyle.Render(m.Status))
	}
	return b.String()
}

// barLines draws the chart's bars as they currently stand, mid-animation
// included, one line per bar in document order.
func barLines(c *chart.Chart) []string {
	g := c.SVG().Select("g.bars")
	if g == nil {
		return nil
	}
	style := lipgloss.NewStyle()
	if col, ok := palette.Parse(g.AttrOr("fill", "")); ok {
		style = style.Foreground(lipgloss.Color(col.Clamped().Hex()))
	}

	length, extent := "width", c.LastDraw().Width
	if c.Orientation() == chart.Vertical {
		length, extent = "height", c.LastDraw().Height
	}

	rects := g.SelectAll("rect")
	labelWidth := 0
	for _, r := range rects {
		labelWidth = max(labelWidth, lipgloss.Width(r.Key))
	}
	lines := make([]string, 0, len(rects))
	for _, r := range rects {
		label := lipgloss.NewStyle().Width(labelWidth).Render(r.Key)
		lines = append(lines, label+" "+style.Render(bar(r, length, extent))+valueSuffix(r))
	}
	return lines
}

func bar(r *dom.Node, attr string, extent float64) string {
	if extent <= 0 {
		return ""
	}
	cells := int(math.Round(r.AttrFloat(attr) / extent * barCells))
	return strings.Repeat("█", min(max(cells, 0), barCells))
}

func valueSuffix(r *dom.Node) string {
	d, ok := r.Datum.(chart.Datum)
	if !ok {
		return ""
	}
	return " " + listDimStyle.Render(formatValue(d.Value))
}

// formatValue prints v with thousands separators, keeping two decimals
// only for fractional values.
func formatValue(v float64) string {
	precision := 0
	if v != math.Trunc(v) {
		precision = 2
	}
	return scale.FormatFixed(v, precision)
}
