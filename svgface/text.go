package svgface

import (
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/devscene/svgattr"
)

const (
	defaultFontSize = 12.0
	defaultFill     = "black"
	// pointToPixel converts a unit-less or pt font size into the pixel
	// units the outlines are measured in.
	pointToPixel = 4.0 / 3.0
	// anchorShift moves anchored runs left; exported labels are centered
	// by the drawing tool but the anchor is lost with the outlines.
	anchorShift = 22.0
)

// textStyle is the resolved styling of one text run.
type textStyle struct {
	size     float64
	fill     string
	family   string
	anchored bool
}

func resolveTextStyle(container, text *Node) (textStyle, error) {
	st := textStyle{size: defaultFontSize, fill: defaultFill}
	apply := func(n *Node) error {
		if n == nil {
			return nil
		}
		decls, err := svgattr.ParseStyle(n.Attr("style"))
		if err != nil {
			return err
		}
		for _, key := range []string{"font-size", "fill", "font-family", "text-anchor"} {
			if v := n.Attr(key); v != "" {
				if _, ok := decls[key]; !ok {
					decls[key] = strings.ToLower(strings.TrimSpace(v))
				}
			}
		}
		for key, val := range decls {
			switch key {
			case "font-size":
				v, unit, ok := svgattr.ParseLength(val)
				if !ok {
					continue
				}
				if unit == "px" {
					st.size = v
				} else {
					st.size = v * pointToPixel
				}
			case "fill":
				st.fill = val
			case "font-family":
				st.family = strings.Trim(val, `'"`)
			case "text-anchor":
				st.anchored = true
			}
		}
		return nil
	}
	if err := apply(container); err != nil {
		return st, err
	}
	if err := apply(text); err != nil {
		return st, err
	}
	return st, nil
}

// glyphRun converts one text run into one path element per glyph, advancing
// left to right by the scaled advance width.
func (nz *Normalizer) glyphRun(text *Node, st textStyle, extra canvas.Matrix) ([]*Node, error) {
	x := parseNum(text.Attr("x"))
	y := parseNum(text.Attr("y"))
	if st.anchored {
		x -= anchorShift
	}
	content := text.TextContent()
	ppem := fixed.Int26_6(st.size * 64)

	var (
		buf sfnt.Buffer
		out []*Node
	)
	for _, r := range content {
		idx, err := nz.font.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("查找字形 %q 失败: %w", r, err)
		}
		adv, err := nz.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("读取字形 %q 步进失败: %w", r, err)
		}
		segs, err := nz.font.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("读取字形 %q 轮廓失败: %w", r, err)
		}
		if d := segmentsToPath(segs); d != "" {
			p := &Node{Name: "path"}
			p.SetAttr("d", d)
			tf := fmt.Sprintf("translate(%s, %s)", fnum(x), fnum(y))
			if !extra.Equals(canvas.Identity) {
				tf = svgattr.MatrixString(extra) + " " + tf
			}
			p.SetAttr("transform", tf)
			p.SetAttr("fill", st.fill)
			p.SetAttr("stroke", st.fill)
			out = append(out, p)
		}
		x += float64(adv) / 64
	}
	return out, nil
}

// segmentsToPath renders sfnt outline segments as path data. sfnt already
// uses a y-down coordinate system, matching the markup.
func segmentsToPath(segs sfnt.Segments) string {
	if len(segs) == 0 {
		return ""
	}
	var sb strings.Builder
	pt := func(p fixed.Point26_6) string {
		return fnum(float64(p.X)/64) + " " + fnum(float64(p.Y)/64)
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				sb.WriteString("Z ")
			}
			sb.WriteString("M " + pt(s.Args[0]) + " ")
			open = true
		case sfnt.SegmentOpLineTo:
			sb.WriteString("L " + pt(s.Args[0]) + " ")
		case sfnt.SegmentOpQuadTo:
			sb.WriteString("Q " + pt(s.Args[0]) + ", " + pt(s.Args[1]) + " ")
		case sfnt.SegmentOpCubeTo:
			sb.WriteString("C " + pt(s.Args[0]) + ", " + pt(s.Args[1]) + ", " + pt(s.Args[2]) + " ")
		}
	}
	if open {
		sb.WriteString("Z")
	}
	return strings.TrimSpace(sb.String())
}

// isTextContainer reports whether g holds only text runs, in which case the
// whole group is replaced by the outlines.
func isTextContainer(g *Node) bool {
	if g.Name != "g" {
		return false
	}
	elems := g.Elements()
	if len(elems) == 0 {
		return false
	}
	for _, e := range elems {
		if e.Name != "text" {
			return false
		}
	}
	return true
}

// convertText replaces every text run below n with glyph outline paths.
func (nz *Normalizer) convertText(n *Node, container *Node) error {
	var kids []*Node
	for _, c := range n.Children {
		switch {
		case isTextContainer(c):
			extra, err := svgattr.ParseTransform(c.Attr("transform"))
			if err != nil {
				return err
			}
			for _, t := range c.Elements() {
				paths, err := nz.textToPaths(c, t, extra)
				if err != nil {
					return err
				}
				kids = append(kids, paths...)
			}
		case c.Name == "text":
			paths, err := nz.textToPaths(container, c, canvas.Identity)
			if err != nil {
				return err
			}
			kids = append(kids, paths...)
		case c.IsElement():
			next := container
			if c.Name == "g" && c.HasAttr("style") {
				next = c
			}
			if err := nz.convertText(c, next); err != nil {
				return err
			}
			kids = append(kids, c)
		default:
			kids = append(kids, c)
		}
	}
	n.Children = kids
	return nil
}

func (nz *Normalizer) textToPaths(container, text *Node, extra canvas.Matrix) ([]*Node, error) {
	st, err := resolveTextStyle(container, text)
	if err != nil {
		return nil, err
	}
	return nz.glyphRun(text, st, extra)
}
