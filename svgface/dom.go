package svgface

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is a minimal mutable XML element tree. Character data is kept as
// nodes with an empty Name so that serialization round-trips.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if attrName(a.Name) == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if attrName(a.Name) == name {
			return true
		}
	}
	return false
}

// SetAttr sets or appends an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if attrName(a.Name) == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	out := n.Attrs[:0]
	for _, a := range n.Attrs {
		if attrName(a.Name) != name {
			out = append(out, a)
		}
	}
	n.Attrs = out
}

// IsElement reports whether n is an element (not character data).
func (n *Node) IsElement() bool { return n.Name != "" }

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates all descendant character data.
func (n *Node) TextContent() string {
	if !n.IsElement() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Walk visits n and its descendants in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func attrName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func elemName(n xml.Name) string {
	return attrName(n)
}

// parseMarkup builds a Node tree. Comments, processing instructions and
// directives are dropped; decorative rect elements are skipped with their
// subtrees.
func parseMarkup(markup string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
		skip  int
	)
	for {
		tok, err := dec.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := elemName(t.Name)
			if skip > 0 || name == "rect" {
				skip++
				continue
			}
			n := &Node{Name: name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("存在多个根元素 <%s>", name)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			name := elemName(t.Name)
			// 非严格模式下容忍未闭合的子元素：弹出到匹配的元素为止
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].Name == name {
					stack = stack[:i]
					break
				}
			}
		case xml.CharData:
			if skip > 0 || len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Text: string(t)})
		}
	}
	if root == nil {
		return nil, fmt.Errorf("缺少根元素")
	}
	return root, nil
}

// serialize writes n as XML markup.
func serialize(n *Node) string {
	var buf bytes.Buffer
	writeNode(&buf, n)
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node) {
	if !n.IsElement() {
		_ = xml.EscapeText(buf, []byte(n.Text))
		return
	}
	buf.WriteByte('<')
	buf.WriteString(n.Name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attrName(a.Name))
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		writeNode(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteByte('>')
}
