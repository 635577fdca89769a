package chart

import (
	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/transition"
)

// item is one keyed element the join should end up with.
type item struct {
	key   string
	datum any
}

// joined is the outcome of a keyed join.
type joined struct {
	enter  []*dom.Node
	update []*dom.Node
	exit   []*dom.Node
	// merged is enter and update together, in item order.
	merged []*dom.Node
}

// join matches the children of parent selected by match against items by
// key.
//
// Children still fading out from an earlier join are candidates too: if
// their key comes back they are revived and land in update, so an element
// keeps its identity for as long as its key keeps reappearing. When several
// children share a key the first one wins and the rest exit; when several
// items share a key the first one binds and the rest enter as new elements.
//
// Entering nodes are created with tag and appended. Afterwards the matched
// children are reordered to follow items, exiting children come next and
// children that match does not select keep their relative order at the
// end.
func join(parent *dom.Node, match func(*dom.Node) bool, tag string, items []item, sched *transition.Scheduler) joined {
	var (
		existing []*dom.Node
		others   []*dom.Node
	)
	byKey := make(map[string]*dom.Node)
	for _, c := range parent.Children() {
		if !match(c) {
			others = append(others, c)
			continue
		}
		existing = append(existing, c)
		if _, dup := byKey[c.Key]; !dup {
			byKey[c.Key] = c
		}
	}

	var out joined
	used := make(map[*dom.Node]bool, len(existing))
	for _, it := range items {
		n, ok := byKey[it.key]
		if ok && !used[n] {
			used[n] = true
			if sched != nil {
				sched.Revive(n)
			}
			n.Datum = it.datum
			out.update = append(out.update, n)
			out.merged = append(out.merged, n)
			continue
		}
		n = dom.New(tag)
		n.Key, n.Datum = it.key, it.datum
		parent.Append(n)
		out.enter = append(out.enter, n)
		out.merged = append(out.merged, n)
	}
	for _, c := range existing {
		if !used[c] {
			out.exit = append(out.exit, c)
		}
	}

	order := make([]*dom.Node, 0, len(out.merged)+len(out.exit)+len(others))
	order = append(order, out.merged...)
	order = append(order, out.exit...)
	order = append(order, others...)
	parent.SetChildren(order)
	return out
}
