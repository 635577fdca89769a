package dom

import (
	"slices"
	"strconv"
	"strings"
)

// Attribute is a single name/value pair on a Node.
type Attribute struct {
	Name  string
	Value string
}

// Node is an element in the render tree.
//
// A Node is not safe for concurrent use; callers that share a tree across
// goroutines must synchronise access themselves.
type Node struct {
	Tag string

	// Key is the join key bound to this node ("" when unbound).
	Key string

	// Datum is the value bound alongside Key.
	Datum any

	text     string
	parent   *Node
	children []*Node
	attrs    []Attribute
	styles   []Attribute
}

// New creates a detached node with the given tag.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// Append attaches child as the last child of n, detaching it from any
// previous parent, and returns child.
func (n *Node) Append(child *Node) *Node {
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// AppendNew creates a node with tag, appends it to n and returns it.
func (n *Node) AppendNew(tag string) *Node {
	return n.Append(New(tag))
}

// Insert attaches child at position i among n's children.
// Out-of-range positions are clamped.
func (n *Node) Insert(i int, child *Node) *Node {
	child.Remove()
	i = max(0, min(i, len(n.children)))
	child.parent = n
	n.children = slices.Insert(n.children, i, child)
	return child
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns a copy of n's child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Index returns n's position among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// SetChildren replaces n's children with nodes, in order.
// Every node must already be a child of n or detached.
func (n *Node) SetChildren(nodes []*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	for _, c := range nodes {
		n.Append(c)
	}
}

// SetText replaces the text content of n.
func (n *Node) SetText(s string) *Node {
	n.text = s
	return n
}

// Text returns the text content of n.
func (n *Node) Text() string { return n.text }

// SetAttr sets an attribute, preserving its original position when it
// already exists.
func (n *Node) SetAttr(name, value string) *Node {
	n.attrs = setPair(n.attrs, name, value)
	return n
}

// SetNum sets a numeric attribute formatted with Num.
func (n *Node) SetNum(name string, v float64) *Node {
	return n.SetAttr(name, Num(v))
}

// Attr returns the attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	return getPair(n.attrs, name)
}

// AttrOr returns the attribute value or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// AttrFloat parses the attribute as a number. Missing or malformed values
// yield 0.
func (n *Node) AttrFloat(name string) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) *Node {
	n.attrs = slices.DeleteFunc(n.attrs, func(a Attribute) bool { return a.Name == name })
	return n
}

// Attrs returns a copy of the attributes in insertion order.
func (n *Node) Attrs() []Attribute { return slices.Clone(n.attrs) }

// SetStyle sets an inline style property.
func (n *Node) SetStyle(name, value string) *Node {
	n.styles = setPair(n.styles, name, value)
	return n
}

// Style returns an inline style property and whether it was present.
func (n *Node) Style(name string) (string, bool) {
	return getPair(n.styles, name)
}

// Styles returns a copy of the inline style properties in insertion order.
func (n *Node) Styles() []Attribute { return slices.Clone(n.styles) }

// Classed adds or removes a class name.
func (n *Node) Classed(name string, on bool) *Node {
	classes := n.Classes()
	has := slices.Contains(classes, name)
	switch {
	case on && !has:
		classes = append(classes, name)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(c string) bool { return c == name })
	default:
		return n
	}
	if len(classes) == 0 {
		return n.RemoveAttr("class")
	}
	return n.SetAttr("class", strings.Join(classes, " "))
}

// HasClass reports whether n carries the class name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.Classes(), name)
}

// Classes returns the class list of n.
func (n *Node) Classes() []string {
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range slices.Clone(n.children) {
		c.Walk(fn)
	}
}

// Clone returns a detached deep copy of n.
func (n *Node) Clone() *Node {
	c, _ := n.CloneMap()
	return c
}

// CloneMap returns a detached deep copy of n together with a mapping from
// every original node in the subtree to its copy.
func (n *Node) CloneMap() (*Node, map[*Node]*Node) {
	m := make(map[*Node]*Node)
	return n.cloneInto(nil, m), m
}

func (n *Node) cloneInto(parent *Node, m map[*Node]*Node) *Node {
	c := &Node{
		Tag:    n.Tag,
		Key:    n.Key,
		Datum:  n.Datum,
		text:   n.text,
		parent: parent,
		attrs:  slices.Clone(n.attrs),
		styles: slices.Clone(n.styles),
	}
	m[n] = c
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, ch := range n.children {
			c.children[i] = ch.cloneInto(c, m)
		}
	}
	return c
}

func setPair(pairs []Attribute, name, value string) []Attribute {
	for i := range pairs {
		if pairs[i].Name == name {
			pairs[i].Value = value
			return pairs
		}
	}
	return append(pairs, Attribute{Name: name, Value: value})
}

func getPair(pairs []Attribute, name string) (string, bool) {
	for _, p := range pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
