package renderer

import (
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/devscene/svgattr"
	"github.com/ByLCY/devscene/svgface"
)

// Shape 是文档中的一个路径区域，坐标已变换到文档坐标系（y 向下）。
// Fill 或 Stroke 为 nil 表示该项为 none，不产生任何绘制。
type Shape struct {
	Path        *canvas.Path
	Fill        *Paint
	Stroke      *Paint
	StrokeWidth float64
}

// 不参与绘制的元素，连同子树一起跳过。
var skippedElements = map[string]bool{
	"defs": true, "clippath": true, "mask": true, "style": true,
	"title": true, "desc": true, "metadata": true, "symbol": true,
}

type inherited struct {
	fill          string
	stroke        string
	fillOpacity   float64
	strokeOpacity float64
	opacity       float64
	strokeWidth   float64
	transform     canvas.Matrix
}

var paintProps = []string{
	"fill", "stroke", "opacity", "fill-opacity", "stroke-opacity",
	"stroke-width", "display", "visibility",
}

// Shapes extracts the drawable path regions of a normalized document in
// document order.
func Shapes(doc *svgface.Document) ([]Shape, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("文档为空")
	}
	root := inherited{
		fill:          "black",
		stroke:        "none",
		fillOpacity:   1,
		strokeOpacity: 1,
		opacity:       1,
		strokeWidth:   1,
		transform:     canvas.Identity,
	}
	var out []Shape
	if err := collect(doc.Root, root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collect(n *svgface.Node, parent inherited, out *[]Shape) error {
	if !n.IsElement() || skippedElements[strings.ToLower(n.Name)] {
		return nil
	}
	props, err := declarations(n)
	if err != nil {
		return err
	}
	if props["display"] == "none" || props["visibility"] == "hidden" {
		return nil
	}
	st := parent
	if v, ok := props["fill"]; ok {
		st.fill = v
	}
	if v, ok := props["stroke"]; ok {
		st.stroke = v
	}
	if v, ok := number(props, "fill-opacity"); ok {
		st.fillOpacity = v
	}
	if v, ok := number(props, "stroke-opacity"); ok {
		st.strokeOpacity = v
	}
	if v, ok := number(props, "opacity"); ok {
		st.opacity *= v
	}
	if v, ok := number(props, "stroke-width"); ok {
		st.strokeWidth = v
	}
	tf, err := svgattr.ParseTransform(n.Attr("transform"))
	if err != nil {
		return err
	}
	st.transform = parent.transform.Mul(tf)

	if n.Name == "path" {
		shape, ok, err := pathShape(n, st)
		if err != nil {
			return err
		}
		if ok {
			*out = append(*out, shape)
		}
		return nil
	}
	for _, c := range n.Children {
		if err := collect(c, st, out); err != nil {
			return err
		}
	}
	return nil
}

func pathShape(n *svgface.Node, st inherited) (Shape, bool, error) {
	d := strings.TrimSpace(n.Attr("d"))
	if d == "" {
		return Shape{}, false, nil
	}
	p, err := canvas.ParseSVGPath(d)
	if err != nil {
		return Shape{}, false, fmt.Errorf("解析路径失败: %w", err)
	}
	if p.Empty() {
		return Shape{}, false, nil
	}
	if !st.transform.Equals(canvas.Identity) {
		p = p.Transform(st.transform)
	}
	shape := Shape{Path: p, StrokeWidth: st.strokeWidth}
	if c, ok := ParseColor(st.fill); ok {
		shape.Fill = &Paint{Color: c, Opacity: clamp01(st.fillOpacity * st.opacity)}
	}
	if c, ok := ParseColor(st.stroke); ok && st.strokeWidth > 0 {
		shape.Stroke = &Paint{Color: c, Opacity: clamp01(st.strokeOpacity * st.opacity)}
	}
	return shape, true, nil
}

// declarations merges presentation attributes with the inline style, the
// style declarations taking precedence.
func declarations(n *svgface.Node) (map[string]string, error) {
	props := map[string]string{}
	for _, key := range paintProps {
		if v := strings.TrimSpace(n.Attr(key)); v != "" {
			props[key] = strings.ToLower(v)
		}
	}
	style, err := svgattr.ParseStyle(n.Attr("style"))
	if err != nil {
		return nil, err
	}
	for k, v := range style {
		props[k] = v
	}
	return props, nil
}

func number(props map[string]string, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	n, unit, ok := svgattr.ParseLength(v)
	if !ok {
		return 0, false
	}
	if unit == "%" {
		n /= 100
	}
	return n, true
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }
