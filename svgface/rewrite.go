package svgface

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	commentPattern = regexp.MustCompile(`<!--[\s\S]*?-->`)
	rectPattern    = regexp.MustCompile(`<rect[^>]*?/>`)
	numberPattern  = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
	scalePattern   = regexp.MustCompile(`scale\([^)]*\)`)
	gapPattern     = regexp.MustCompile(`>\s+<`)
)

// Unescape undoes the JSON-style escaping carried by vector payloads:
// `\/` and `\"` sequences, and both literal `\r\n` and real line breaks.
func Unescape(raw string) string {
	r := strings.NewReplacer(
		`\/`, "/",
		`\"`, `"`,
		`\r\n`, " ",
		`\n`, " ",
		`\r`, " ",
		`\t`, " ",
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
	return r.Replace(raw)
}

// stripArtifacts removes comment nodes and self-closing rect primitives
// before parsing; non self-closing rects are dropped by the parser.
func stripArtifacts(markup string) string {
	markup = commentPattern.ReplaceAllString(markup, "")
	markup = rectPattern.ReplaceAllString(markup, "")
	return gapPattern.ReplaceAllString(markup, ">\n<")
}

// canonicalize rewrites primitive shapes as path elements in place.
func canonicalize(n *Node) {
	for i, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if p, ok := primitiveToPath(c); ok {
			n.Children[i] = p
			continue
		}
		canonicalize(c)
	}
	n.Children = pruneNil(n.Children)
}

func pruneNil(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, c := range nodes {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// primitiveToPath returns the replacement for a primitive element.
// A nil replacement with ok=true drops the element.
func primitiveToPath(n *Node) (*Node, bool) {
	var (
		d       string
		consume []string
	)
	switch n.Name {
	case "polygon", "polyline":
		pts := pointPairs(n.Attr("points"))
		if len(pts) == 0 {
			return nil, true
		}
		d = "M " + strings.Join(pts, " L ")
		if n.Name == "polygon" {
			d += " Z"
		}
		consume = []string{"points"}
	case "line":
		d = fmt.Sprintf("M %s,%s L %s,%s",
			num(n.Attr("x1")), num(n.Attr("y1")), num(n.Attr("x2")), num(n.Attr("y2")))
		consume = []string{"x1", "y1", "x2", "y2"}
	case "circle":
		r := parseNum(n.Attr("r"))
		if r <= 0 {
			return nil, true
		}
		d = ellipsePath(parseNum(n.Attr("cx")), parseNum(n.Attr("cy")), r, r)
		consume = []string{"cx", "cy", "r"}
	case "ellipse":
		rx, ry := parseNum(n.Attr("rx")), parseNum(n.Attr("ry"))
		if rx <= 0 || ry <= 0 {
			return nil, true
		}
		d = ellipsePath(parseNum(n.Attr("cx")), parseNum(n.Attr("cy")), rx, ry)
		consume = []string{"cx", "cy", "rx", "ry"}
	default:
		return nil, false
	}
	p := &Node{Name: "path"}
	p.SetAttr("d", d)
	for _, a := range n.Attrs {
		if contains(consume, attrName(a.Name)) {
			continue
		}
		p.Attrs = append(p.Attrs, a)
	}
	return p, true
}

// pointPairs turns a points list into "x,y" pairs; a dangling coordinate is dropped.
func pointPairs(points string) []string {
	nums := numberPattern.FindAllString(points, -1)
	var out []string
	for i := 0; i+1 < len(nums); i += 2 {
		out = append(out, nums[i]+","+nums[i+1])
	}
	return out
}

func ellipsePath(cx, cy, rx, ry float64) string {
	return fmt.Sprintf("M %s,%s A %s,%s 0 1,0 %s,%s A %s,%s 0 1,0 %s,%s Z",
		fnum(cx-rx), fnum(cy), fnum(rx), fnum(ry), fnum(cx+rx), fnum(cy),
		fnum(rx), fnum(ry), fnum(cx-rx), fnum(cy))
}

// resetSecondGroupScale rewrites the scale() of the second group in
// document order to scale(1); exported drawings carry a viewer zoom there.
func resetSecondGroupScale(root *Node) {
	count := 0
	root.Walk(func(n *Node) {
		if n.Name != "g" {
			return
		}
		count++
		if count != 2 {
			return
		}
		tf := n.Attr("transform")
		if loc := scalePattern.FindStringIndex(tf); loc != nil {
			n.SetAttr("transform", tf[:loc[0]]+"scale(1)"+tf[loc[1]:])
		}
	})
}

// unwrapNestedSVG lifts the children of <svg> elements nested in a
// <g ID="SVGUse"> into the group.
func unwrapNestedSVG(root *Node) {
	root.Walk(func(n *Node) {
		if n.Name != "g" || n.Attr("ID") != "SVGUse" {
			return
		}
		var kids []*Node
		for _, c := range n.Children {
			if c.Name == "svg" {
				kids = append(kids, c.Children...)
				continue
			}
			kids = append(kids, c)
		}
		n.Children = kids
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func parseNum(s string) float64 {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func num(s string) string { return fnum(parseNum(s)) }

func fnum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
