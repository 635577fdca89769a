// Package measure computes bounding boxes of render tree nodes.
//
// A Measurer answers the question a browser answers with getBBox: the
// tight box around a node's rendered geometry, in the node's own user
// space. The node's own transform is not applied; the transforms of its
// descendants are.
//
// Metrics is the pure-Go implementation. It knows the geometry of rect,
// line and path elements, lays out text with the Go Regular font, and
// unions groups through translate, rotate, scale and matrix transforms.
// The browser subpackage asks a headless Chrome instead, for callers that
// need real browser font metrics.
package measure
