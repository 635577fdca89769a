package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"os/exec"

	"github.com/chromedp/chromedp"

	"github.com/matzehuels/barchart/pkg/errors"
)

// PNG rasterisation engines.
const (
	EngineChrome = "chrome"
	EngineRsvg   = "rsvg"
)

// DefaultScale is the device pixel ratio used for PNG output.
const DefaultScale = 2.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts  []SVGOption
	scale    float64
	engine   string
	execOpts []chromedp.ExecAllocatorOption
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
// Animations are always dropped.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithEngine selects EngineChrome or EngineRsvg.
func WithEngine(engine string) PNGOption {
	return func(r *pngRenderer) {
		if engine != "" {
			r.engine = engine
		}
	}
}

// WithChromeOptions appends chromedp allocator options, e.g. chromedp.NoSandbox.
func WithChromeOptions(opts ...chromedp.ExecAllocatorOption) PNGOption {
	return func(r *pngRenderer) { r.execOpts = append(r.execOpts, opts...) }
}

// ValidEngine reports whether engine names a supported rasteriser.
func ValidEngine(engine string) bool {
	return engine == EngineChrome || engine == EngineRsvg
}

// RenderPNG rasterises the chart's current frame.
func RenderPNG(ctx context.Context, src Source, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale, engine: EngineChrome}
	for _, opt := range opts {
		opt(&r)
	}
	if !ValidEngine(r.engine) {
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown png engine %q (must be one of: chrome, rsvg)", r.engine)
	}

	if r.engine == EngineRsvg {
		if _, err := exec.LookPath("rsvg-convert"); err != nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "png export with rsvg requires rsvg-convert. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
		}
	}

	svgOpts := append(r.svgOpts[:len(r.svgOpts):len(r.svgOpts)], WithoutAnimation(), WithEmbeddedFont())
	svg, err := RenderSVG(src, svgOpts...)
	if err != nil {
		return nil, err
	}
	w, h := documentSize(src)

	var png []byte
	switch r.engine {
	case EngineRsvg:
		png, err = rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", r.scale))
	default:
		png, err = chromeScreenshot(ctx, svg, w, h, r.scale, r.execOpts)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "render png with %s", r.engine)
	}
	return png, nil
}

// chromeScreenshot loads svg as a data URI in headless Chrome and captures
// the svg element.
func chromeScreenshot(ctx context.Context, svg []byte, w, h, scale float64, extra []chromedp.ExecAllocatorOption) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	opts = append(opts, extra...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	vw, vh := int64(math.Ceil(max(w, 1))), int64(math.Ceil(max(h, 1)))

	var buf []byte
	err := chromedp.Run(bctx,
		chromedp.EmulateViewport(vw, vh, chromedp.EmulateScale(scale)),
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty screenshot")
	}
	return buf, nil
}

// rsvgConvert shells out to rsvg-convert for format conversion. The caller
// checks that the binary exists.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
