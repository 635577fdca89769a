package dom

import "strings"

// compound is a simple selector: an optional tag plus class names.
type compound struct {
	tag     string
	classes []string
}

// step is a compound selector together with the combinator that links it
// to the step on its left.
type step struct {
	child bool // true for ">", false for descendant
	sel   compound
}

// Select returns the first descendant of n matching selector, or nil.
func (n *Node) Select(selector string) *Node {
	steps := parseSelector(selector)
	var found *Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if found != nil {
				return false
			}
			if matchSteps(x, steps, len(steps)-1, n) {
				found = x
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// SelectAll returns every descendant of n matching selector in document
// order. The supported grammar is a sequence of tag, .class or tag.class
// compounds joined by whitespace (descendant) or ">" (child).
func (n *Node) SelectAll(selector string) []*Node {
	steps := parseSelector(selector)
	var out []*Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if matchSteps(x, steps, len(steps)-1, n) {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// Matches reports whether n matches a single compound selector such as
// "g.tick".
func (n *Node) Matches(selector string) bool {
	steps := parseSelector(selector)
	return len(steps) == 1 && steps[0].sel.matches(n)
}

func parseSelector(s string) []step {
	s = strings.ReplaceAll(s, ">", " > ")
	var steps []step
	child := false
	for _, tok := range strings.Fields(s) {
		if tok == ">" {
			child = true
			continue
		}
		steps = append(steps, step{child: child, sel: parseCompound(tok)})
		child = false
	}
	return steps
}

func parseCompound(tok string) compound {
	parts := strings.Split(tok, ".")
	c := compound{tag: parts[0]}
	if c.tag == "*" {
		c.tag = ""
	}
	for _, p := range parts[1:] {
		if p != "" {
			c.classes = append(c.classes, p)
		}
	}
	return c
}

func (c compound) matches(n *Node) bool {
	if c.tag != "" && c.tag != n.Tag {
		return false
	}
	for _, cl := range c.classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	return true
}

// matchSteps matches steps[:i+1] right-to-left with x bound to steps[i].
// Ancestors are searched up to and including scope.
func matchSteps(x *Node, steps []step, i int, scope *Node) bool {
	if i < 0 {
		return true
	}
	if !steps[i].sel.matches(x) {
		return false
	}
	if i == 0 {
		return true
	}
	if steps[i].child {
		p := x.parent
		if p == nil || !scope.Contains(p) {
			return false
		}
		return matchSteps(p, steps, i-1, scope)
	}
	for p := x.parent; p != nil && scope.Contains(p); p = p.parent {
		if matchSteps(p, steps, i-1, scope) {
			return true
		}
	}
	return false
}
