package dom

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const svgNS = "http://www.w3.org/2000/svg"

// WriteXML serialises n and its subtree to w. Root svg elements get the
// SVG namespace attribute when they do not carry one.
func WriteXML(w io.Writer, n *Node) error {
	var buf bytes.Buffer
	writeNode(&buf, n, 0, n.Tag == "svg")
	_, err := w.Write(buf.Bytes())
	return err
}

// Markup returns the serialised form of n.
func Markup(n *Node) string {
	var buf bytes.Buffer
	writeNode(&buf, n, 0, n.Tag == "svg")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int, addNS bool) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	if addNS {
		if _, ok := n.Attr("xmlns"); !ok {
			buf.WriteString(` xmlns="` + svgNS + `"`)
		}
	}
	for _, a := range n.attrs {
		writeAttr(buf, a.Name, a.Value)
	}
	if len(n.styles) > 0 {
		parts := make([]string, len(n.styles))
		for i, s := range n.styles {
			parts[i] = s.Name + ": " + s.Value
		}
		writeAttr(buf, "style", strings.Join(parts, "; ")+";")
	}

	switch {
	case len(n.children) == 0 && n.text == "":
		buf.WriteString("/>\n")
	case len(n.children) == 0:
		buf.WriteByte('>')
		buf.WriteString(EscapeXML(n.text))
		buf.WriteString("</" + n.Tag + ">\n")
	default:
		buf.WriteString(">")
		buf.WriteString(EscapeXML(n.text))
		buf.WriteByte('\n')
		for _, c := range n.children {
			// Nested svg elements inherit the namespace.
			writeNode(buf, c, depth+1, false)
		}
		buf.WriteString(indent + "</" + n.Tag + ">\n")
	}
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(EscapeXML(value))
	buf.WriteByte('"')
}

// EscapeXML escapes text for use in element content or attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
