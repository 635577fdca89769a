package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/transition"
)

func newTestModel(t *testing.T) (BoardModel, *transition.ManualClock) {
	t.Helper()
	clock := transition.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b, err := seedBoard(context.Background(), 2, 7, []chart.Option{chart.WithClock(clock)})
	if err != nil {
		t.Fatal(err)
	}
	return NewBoardModel(context.Background(), b, t.TempDir()), clock
}

func press(m BoardModel, key string) BoardModel {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(BoardModel)
}

func TestSeedBoardAlternatesOrientation(t *testing.T) {
	m, _ := newTestModel(t)
	list := m.Board.List()
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].Chart.Orientation() != chart.Horizontal || list[1].Chart.Orientation() != chart.Vertical {
		t.Errorf("orientations = %v, %v", list[0].Chart.Orientation(), list[1].Chart.Orientation())
	}
}

func TestBoardModelSelect(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "tab")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}
	m = press(m, "tab")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want wrap to 0", m.Cursor)
	}
}

func TestBoardModelClicks(t *testing.T) {
	m, clock := newTestModel(t)
	c := m.Board.List()[0].Chart
	categories := strings.Join(c.Data().Categories(), ",")

	m = press(m, "v")
	if m.Err != nil {
		t.Fatal(m.Err)
	}
	if got := strings.Join(c.Data().Categories(), ","); got != categories {
		t.Errorf("ctrl-click changed categories: %s -> %s", categories, got)
	}
	if !strings.HasPrefix(m.Status, "ctrl-click") {
		t.Errorf("Status = %q", m.Status)
	}

	m = press(m, "enter")
	if m.Err != nil {
		t.Fatal(m.Err)
	}
	if !strings.HasPrefix(c.Title(), "Number of ") {
		t.Errorf("Title = %q", c.Title())
	}

	clock.Advance(time.Second)
	next, cmd := m.Update(frameMsg(clock.Now()))
	if cmd == nil {
		t.Error("frame should schedule the next frame")
	}
	m = next.(BoardModel)
	if !c.Scheduler().Idle() {
		t.Error("animations should have finished after a second")
	}
}

func TestBoardModelSave(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "tab")
	m = press(m, "s")
	if m.Err != nil {
		t.Fatal(m.Err)
	}
	b, err := os.ReadFile(filepath.Join(m.SaveDir, "chart-2.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "<?xml") {
		t.Errorf("saved file is not an SVG document:\n%.80s", b)
	}
}

func TestBoardModelView(t *testing.T) {
	m, clock := newTestModel(t)
	clock.Advance(time.Second)
	m.Board.Tick()

	view := m.View()
	if !strings.Contains(view, chartTitle) {
		t.Errorf("view has no title:\n%s", view)
	}
	if !strings.Contains(view, "█") {
		t.Errorf("view has no bars:\n%s", view)
	}
	for _, cat := range m.Board.List()[1].Chart.Data().Categories() {
		if !strings.Contains(view, cat) {
			t.Errorf("view is missing %q", cat)
		}
	}
}

func TestBoardModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

const chartTitle = "Number of cats per capita"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{998, "998"},
		{12000, "12,000"},
		{3.25, "3.25"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
