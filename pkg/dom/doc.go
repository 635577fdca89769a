// Package dom provides a small element tree that stands in for the browser
// DOM when building charts.
//
// Nodes carry ordered attributes, inline styles, text content and an
// optional join key. The tree supports the handful of selectors chart code
// needs (tag, .class, tag.class, descendant and child combinators), deep
// cloning for detached measurement copies, and XML serialisation.
//
// # Usage
//
//	svg := dom.New("svg")
//	bars := svg.AppendNew("g").Classed("bars", true)
//	bars.AppendNew("rect").SetNum("width", 120).SetNum("height", 54)
//
//	for _, r := range svg.SelectAll("g.bars > rect") {
//	    fmt.Println(r.AttrFloat("width"))
//	}
//
//	fmt.Println(dom.Markup(svg))
package dom
