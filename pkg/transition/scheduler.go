package transition

import (
	"slices"
	"time"

	"github.com/matzehuels/barchart/pkg/dom"
)

// Kind distinguishes attribute tweens from inline style tweens.
type Kind int

const (
	KindAttr Kind = iota
	KindStyle
)

func (k Kind) String() string {
	if k == KindStyle {
		return "style"
	}
	return "attr"
}

// Tween is a single in-flight value change.
type Tween struct {
	Node     *dom.Node
	Kind     Kind
	Name     string
	From     string
	To       string
	Start    time.Time
	Duration time.Duration

	seq uint64
}

// End returns the time at which the tween reaches its target.
func (t Tween) End() time.Time { return t.Start.Add(t.Duration) }

// Progress returns the eased progress at the given time, in [0, 1].
func (t Tween) Progress(at time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(at.Sub(t.Start)) / float64(t.Duration)
	return CubicInOut(max(0, min(1, p)))
}

// Value returns the interpolated value at the given time.
func (t Tween) Value(at time.Time) string {
	return Interpolate(t.From, t.To, t.Progress(at))
}

// Removal is a pending node removal.
type Removal struct {
	Node *dom.Node
	At   time.Time
}

type tweenKey struct {
	node *dom.Node
	kind Kind
	name string
}

// Scheduler tracks tweens and pending removals. It is not safe for
// concurrent use.
type Scheduler struct {
	clock    Clock
	tweens   map[tweenKey]*Tween
	removals map[*dom.Node]time.Time
	seq      uint64
}

// New creates a scheduler driven by clock. A nil clock means SystemClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock:    clock,
		tweens:   make(map[tweenKey]*Tween),
		removals: make(map[*dom.Node]time.Time),
	}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// Now is shorthand for s.Clock().Now().
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Attr animates attribute name of n towards to over d. A non-positive
// duration, or a target equal to the current value, sets it immediately.
func (s *Scheduler) Attr(n *dom.Node, name, to string, d time.Duration) {
	s.schedule(tweenKey{n, KindAttr, name}, to, d)
}

// AttrNum is Attr for numeric targets.
func (s *Scheduler) AttrNum(n *dom.Node, name string, to float64, d time.Duration) {
	s.Attr(n, name, dom.Num(to), d)
}

// Style animates inline style name of n towards to over d.
func (s *Scheduler) Style(n *dom.Node, name, to string, d time.Duration) {
	s.schedule(tweenKey{n, KindStyle, name}, to, d)
}

func (s *Scheduler) schedule(k tweenKey, to string, d time.Duration) {
	now := s.clock.Now()
	from, had := s.current(k, now)
	if d <= 0 || !had || from == to {
		delete(s.tweens, k)
		write(k, to)
		return
	}
	write(k, from)
	s.seq++
	s.tweens[k] = &Tween{
		Node:     k.node,
		Kind:     k.kind,
		Name:     k.name,
		From:     from,
		To:       to,
		Start:    now,
		Duration: d,
		seq:      s.seq,
	}
}

// current returns the value k shows at now, following an active tween when
// there is one.
func (s *Scheduler) current(k tweenKey, now time.Time) (string, bool) {
	if t, ok := s.tweens[k]; ok {
		return t.Value(now), true
	}
	if k.kind == KindStyle {
		return k.node.Style(k.name)
	}
	return k.node.Attr(k.name)
}

func write(k tweenKey, v string) {
	if k.kind == KindStyle {
		k.node.SetStyle(k.name, v)
		return
	}
	k.node.SetAttr(k.name, v)
}

// Remove detaches n once d has elapsed. Scheduling again moves the
// deadline.
func (s *Scheduler) Remove(n *dom.Node, d time.Duration) {
	s.removals[n] = s.clock.Now().Add(d)
}

// Revive cancels a pending removal of n and reports whether one existed.
func (s *Scheduler) Revive(n *dom.Node) bool {
	_, ok := s.removals[n]
	delete(s.removals, n)
	return ok
}

// IsRemoving reports whether n has a pending removal.
func (s *Scheduler) IsRemoving(n *dom.Node) bool {
	_, ok := s.removals[n]
	return ok
}

// Active reports whether n has any running tween.
func (s *Scheduler) Active(n *dom.Node) bool {
	for k := range s.tweens {
		if k.node == n {
			return true
		}
	}
	return false
}

// Tick applies the state of every tween at the current time, completes
// finished tweens and performs due removals. It returns true while anything
// remains scheduled.
func (s *Scheduler) Tick() bool {
	return s.advance(s.clock.Now(), false)
}

// Settle finishes every tween and performs every pending removal
// regardless of the clock.
func (s *Scheduler) Settle() {
	s.advance(s.clock.Now(), true)
}

func (s *Scheduler) advance(now time.Time, all bool) bool {
	for _, t := range s.Pending() {
		k := tweenKey{t.Node, t.Kind, t.Name}
		if all || !now.Before(t.End()) {
			write(k, t.To)
			delete(s.tweens, k)
			continue
		}
		write(k, t.Value(now))
	}
	for _, r := range s.PendingRemovals() {
		if all || !now.Before(r.At) {
			s.detach(r.Node)
		}
	}
	return len(s.tweens) > 0 || len(s.removals) > 0
}

func (s *Scheduler) detach(n *dom.Node) {
	delete(s.removals, n)
	n.Walk(func(x *dom.Node) bool {
		for k := range s.tweens {
			if k.node == x {
				delete(s.tweens, k)
			}
		}
		if x != n {
			delete(s.removals, x)
		}
		return true
	})
	n.Remove()
}

// Pending returns a snapshot of the running tweens in scheduling order.
func (s *Scheduler) Pending() []Tween {
	out := make([]Tween, 0, len(s.tweens))
	for _, t := range s.tweens {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Tween) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// PendingFor returns the running tweens of a single node.
func (s *Scheduler) PendingFor(n *dom.Node) []Tween {
	var out []Tween
	for _, t := range s.Pending() {
		if t.Node == n {
			out = append(out, t)
		}
	}
	return out
}

// PendingRemovals returns the scheduled removals ordered by deadline.
func (s *Scheduler) PendingRemovals() []Removal {
	out := make([]Removal, 0, len(s.removals))
	for n, at := range s.removals {
		out = append(out, Removal{Node: n, At: at})
	}
	slices.SortStableFunc(out, func(a, b Removal) int { return a.At.Compare(b.At) })
	return out
}

// Idle reports whether nothing is scheduled.
func (s *Scheduler) Idle() bool {
	return len(s.tweens) == 0 && len(s.removals) == 0
}
