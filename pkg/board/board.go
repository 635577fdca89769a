// Package board keeps a set of live charts addressed by ID.
//
// A Board owns the charts it is given. It serialises access to them, so
// HTTP handlers and terminal UIs can share one board across goroutines.
// Clicks are routed through an injected ClickFunc, which decides what
// update a click makes.
package board

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/demo"
	"github.com/matzehuels/barchart/pkg/errors"
)

// ClickFunc maps a click on a chart to an update.
type ClickFunc func(rng *rand.Rand, mods demo.Modifiers, c *chart.Chart) chart.Update

// DemoClick is the default ClickFunc, backed by demo.Click.
func DemoClick(rng *rand.Rand, mods demo.Modifiers, c *chart.Chart) chart.Update {
	return demo.Click(rng, mods, c.Data())
}

// Handle is a chart and its ID.
type Handle struct {
	ID    uuid.UUID
	Chart *chart.Chart
}

// Board is a concurrency-safe, ordered collection of charts.
type Board struct {
	mu      sync.Mutex
	handles []Handle
	onClick ClickFunc
	rng     *rand.Rand
}

// Option configures a Board.
type Option func(*Board)

// WithClickFunc replaces DemoClick.
func WithClickFunc(fn ClickFunc) Option {
	return func(b *Board) {
		if fn != nil {
			b.onClick = fn
		}
	}
}

// WithRand sets the random source handed to the ClickFunc.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) { b.rng = r }
}

// New returns an empty board.
func New(opts ...Option) *Board {
	b := &Board{onClick: DemoClick}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

// Add stores c and returns its new ID.
func (b *Board) Add(c *chart.Chart) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.handles = append(b.handles, Handle{ID: id, Chart: c})
	return id
}

// List returns the charts in insertion order.
func (b *Board) List() []Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.handles)
}

// Len returns the number of charts.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handles)
}

// Get returns the handle with the given ID. The chart is shared, so
// callers racing with the server should go through With instead.
func (b *Board) Get(id uuid.UUID) (Handle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return Handle{}, false
	}
	return b.handles[i], true
}

// Remove drops the chart with the given ID.
func (b *Board) Remove(id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return notFound(id)
	}
	b.handles = slices.Delete(b.handles, i, i+1)
	return nil
}

// With runs fn on the chart with the given ID while holding the board's
// lock. The scheduler is ticked first so fn sees the chart as of now.
func (b *Board) With(id uuid.UUID, fn func(*chart.Chart) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return notFound(id)
	}
	c := b.handles[i].Chart
	c.Scheduler().Tick()
	return fn(c)
}

// Update applies u to the chart with the given ID.
func (b *Board) Update(ctx context.Context, id uuid.UUID, u chart.Update) error {
	return b.With(id, func(c *chart.Chart) error {
		return c.Update(ctx, u)
	})
}

// Click routes a click with mods to the chart with the given ID.
func (b *Board) Click(ctx context.Context, id uuid.UUID, mods demo.Modifiers) error {
	return b.With(id, func(c *chart.Chart) error {
		return c.Update(ctx, b.onClick(b.rng, mods, c))
	})
}

// Range ticks every chart and calls fn on each in order while holding the
// board's lock. It stops at the first error.
func (b *Board) Range(fn func(Handle) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handles {
		h.Chart.Scheduler().Tick()
		if err := fn(h); err != nil {
			return err
		}
	}
	return nil
}

// View ticks every chart and calls fn with all handles while holding the
// board's lock, for work that needs a consistent view of several charts.
func (b *Board) View(fn func([]Handle) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handles {
		h.Chart.Scheduler().Tick()
	}
	return fn(slices.Clone(b.handles))
}

// Tick advances every chart's animations.
func (b *Board) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handles {
		h.Chart.Scheduler().Tick()
	}
}

func (b *Board) index(id uuid.UUID) int {
	return slices.IndexFunc(b.handles, func(h Handle) bool { return h.ID == id })
}

func notFound(id uuid.UUID) error {
	return errors.New(errors.ErrCodeNotFound, "chart %s not found", id)
}
