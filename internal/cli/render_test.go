package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/config"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "data/cats.json", "data/cats"},
		{"stdin", "", "-", "chart"},
		{"explicit with format extension", "out/cats.svg", "cats.json", "out/cats"},
		{"explicit base", "out/cats", "cats.json", "out/cats"},
		{"unknown extension kept", "cats.v2", "cats.json", "cats.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.input, []string{"svg"}); got != tt.want {
				t.Errorf("outputBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestMarginFlags(t *testing.T) {
	base := chart.Margin{Left: chart.Px(120)}
	got := marginFlags{left: -1, right: 5, top: -1, bottom: 0}.apply(base)

	if got.Left == nil || *got.Left != 120 {
		t.Errorf("Left = %v, want config value 120", got.Left)
	}
	if got.Right == nil || *got.Right != 5 {
		t.Errorf("Right = %v, want 5", got.Right)
	}
	if got.Top != nil {
		t.Errorf("Top = %v, want unset", *got.Top)
	}
	if got.Bottom == nil || *got.Bottom != 0 {
		t.Errorf("Bottom = %v, want explicit 0", got.Bottom)
	}
}

func TestPipelineOptionsMergesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Chart.Color = "tomato"
	cfg.Chart.Width = 640
	cfg.Export.Scale = 3

	opts, err := renderOpts{orientation: "v", formats: "svg,png", height: 200}.pipelineOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Color != "tomato" || opts.Width != 640 || opts.Height != 200 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Scale != 3 || opts.Engine != cfg.Export.PNGEngine {
		t.Errorf("scale/engine = %v/%q", opts.Scale, opts.Engine)
	}
	if len(opts.Formats) != 2 || !opts.HasFormat(pipeline.FormatPNG) {
		t.Errorf("Formats = %v", opts.Formats)
	}

	opts, err = renderOpts{orientation: "horizontal", color: "red"}.pipelineOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Color != "red" {
		t.Errorf("flag color = %q, want red", opts.Color)
	}
}

func TestPipelineOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts renderOpts
		code errors.Code
	}{
		{"orientation", renderOpts{orientation: "diagonal"}, errors.ErrCodeInvalidOrientation},
		{"format", renderOpts{orientation: "h", formats: "gif"}, errors.ErrCodeInvalidFormat},
		{"color", renderOpts{orientation: "h", color: "nope"}, errors.ErrCodeInvalidColor},
		{"engine", renderOpts{orientation: "h", engine: "gimp"}, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.pipelineOptions(config.Default())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "cats")
	paths, err := writeArtifacts(map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}, base, []string{"svg", "json", "png"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{base + ".json", base + ".svg"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	b, err := os.ReadFile(base + ".svg")
	if err != nil || string(b) != "<svg/>" {
		t.Errorf("svg = %q, %v", b, err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cats.json")
	if err := os.WriteFile(input, []byte(`[["Peru",3],["Chile","7"],["Norway",1]]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, "[cache]\nbackend = \"none\"\n")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"render", input, "--config", cfgPath, "-f", "svg,json", "--title", "Cats", "--orientation", "vertical"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "cats.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<title>Cats</title>") {
		t.Errorf("svg has no title:\n%s", svg)
	}
	snap, err := os.ReadFile(filepath.Join(dir, "cats.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(snap), `"orientation": "vertical"`) {
		t.Errorf("snapshot = %s", snap)
	}
}

func TestRenderCommandInvalidData(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(input, []byte(`[["Peru",null]]`), 0o644); err != nil {
		t.Fatal(err)
	}
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"render", input, "--config", writeConfig(t, "")})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); !chart.IsInvalidData(err) {
		t.Errorf("err = %v, want INVALID_DATA", err)
	}
}
