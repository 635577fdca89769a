// Package browser measures render trees in headless Chrome.
//
// The tree containing each node is serialised, injected into a hidden
// element of a blank page and measured with the browser's own getBBox, so
// text boxes reflect the fonts the browser would actually use.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
)

const markerAttr = "data-measure"

const measureScript = `(function(markup) {
  const host = document.createElement('div');
  host.style.position = 'absolute';
  host.style.visibility = 'hidden';
  host.innerHTML = markup;
  document.body.appendChild(host);
  try {
    const out = [];
    host.querySelectorAll('[%[1]s]').forEach(function(el) {
      const b = el.getBBox();
      out[+el.getAttribute('%[1]s')] = {x: b.x, y: b.y, width: b.width, height: b.height};
    });
    return out;
  } finally {
    host.remove();
  }
})(%[2]s)`

// Measurer is a measure.Measurer backed by a headless Chrome instance.
// The browser starts on first use. Close releases it.
type Measurer struct {
	opts   []chromedp.ExecAllocatorOption
	logger *log.Logger

	once        sync.Once
	startErr    error
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	mu          sync.Mutex
}

var (
	_ measure.Measurer   = (*Measurer)(nil)
	_ measure.Identifier = (*Measurer)(nil)
)

// Option configures a Measurer.
type Option func(*Measurer)

// WithExecOptions appends chromedp allocator options, for example
// chromedp.NoSandbox when running inside a container.
func WithExecOptions(opts ...chromedp.ExecAllocatorOption) Option {
	return func(m *Measurer) { m.opts = append(m.opts, opts...) }
}

// WithLogger sets the logger for browser lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(m *Measurer) { m.logger = l }
}

// New returns a Measurer. No browser is launched until the first BBox.
func New(opts ...Option) *Measurer {
	m := &Measurer{
		opts: append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	return m
}

// ID implements measure.Identifier. Every browser measurer uses Chrome's
// own fonts, so they share one identity.
func (m *Measurer) ID() string { return "browser" }

func (m *Measurer) start() error {
	m.once.Do(func() {
		m.logger.Debug("starting headless chrome")
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), m.opts...)
		ctx, cancelCtx := chromedp.NewContext(allocCtx)
		if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
			cancelCtx()
			cancelAlloc()
			m.startErr = errors.Wrap(errors.ErrCodeMeasure, err, "start browser")
			return
		}
		m.ctx, m.cancelAlloc, m.cancelCtx = ctx, cancelAlloc, cancelCtx
	})
	return m.startErr
}

// BBox implements measure.Measurer.
func (m *Measurer) BBox(ctx context.Context, nodes ...*dom.Node) ([]measure.Rect, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	if err := m.start(); err != nil {
		return nil, err
	}

	// Group nodes by the tree they belong to so each tree is injected once.
	type batch struct {
		root    *dom.Node
		indexes []int
	}
	var batches []*batch
	byRoot := make(map[*dom.Node]*batch)
	for i, n := range nodes {
		if n == nil {
			return nil, errors.New(errors.ErrCodeMeasure, "cannot measure a nil node")
		}
		root := n.Root()
		b, ok := byRoot[root]
		if !ok {
			b = &batch{root: root}
			byRoot[root] = b
			batches = append(batches, b)
		}
		b.indexes = append(b.indexes, i)
	}

	out := make([]measure.Rect, len(nodes))
	for _, b := range batches {
		clone, mapping := b.root.CloneMap()
		for local, i := range b.indexes {
			mapping[nodes[i]].SetAttr(markerAttr, strconv.Itoa(local))
		}
		rects, err := m.eval(ctx, dom.Markup(clone))
		if err != nil {
			return nil, err
		}
		if len(rects) != len(b.indexes) {
			return nil, errors.New(errors.ErrCodeMeasure, "browser returned %d boxes for %d nodes", len(rects), len(b.indexes))
		}
		for local, i := range b.indexes {
			out[i] = rects[local]
		}
	}
	return out, nil
}

func (m *Measurer) eval(ctx context.Context, markup string) ([]measure.Rect, error) {
	arg, err := json.Marshal(markup)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasure, err, "encode markup")
	}
	script := fmt.Sprintf(measureScript, markerAttr, arg)

	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(m.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var rects []measure.Rect
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &rects)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeMeasure, err, "evaluate getBBox")
	}
	return rects, nil
}

// Close shuts the browser down.
func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelCtx != nil {
		m.cancelCtx()
		m.cancelAlloc()
		m.cancelCtx, m.cancelAlloc = nil, nil
	}
	return nil
}
