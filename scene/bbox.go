package scene

import (
	"fmt"
	"math"
)

// DegenerateGeometryError 表示测得的包围盒尺寸为 0，无法作为缩放除数。
type DegenerateGeometryError struct {
	Subject string
	Size    Vec3
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("%s 的包围盒退化（尺寸 %g×%g×%g），缩放回退为 1", e.Subject, e.Size.X, e.Size.Y, e.Size.Z)
}

// Box3 is an axis-aligned bounding box. The zero-extent empty box has
// Min=+Inf and Max=-Inf.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows b to include p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	b.Min = Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)}
	b.Max = Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)}
	return b
}

// Union returns the smallest box containing b and o.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns Max-Min, or zero for an empty box.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint, or zero for an empty box.
func (b Box3) Center() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Measure returns the bounding box of n and its descendants expressed in
// n's parent frame, i.e. including n's own transform. It depends only on
// the sub-graph, so repeated calls return identical boxes.
func Measure(n *Node) Box3 {
	box := EmptyBox()
	if n == nil {
		return box
	}
	measure(n, n.Local(), &box)
	return box
}

func measure(n *Node, m Mat4, box *Box3) {
	if n.Geometry != nil {
		for _, p := range n.Geometry.Points() {
			*box = box.ExpandByPoint(m.Apply(p))
		}
	}
	for _, c := range n.Children {
		measure(c, m.Mul(c.Local()), box)
	}
}

// FitScale derives the per-axis factors that scale a measured box to the
// nominal width and height. A zero measured extent yields factor 1 for that
// axis and a *DegenerateGeometryError.
func FitScale(subject string, box Box3, width, height float64) (sx, sy float64, err error) {
	size := box.Size()
	sx, sy = 1, 1
	if size.X > 0 {
		sx = width / size.X
	}
	if size.Y > 0 {
		sy = height / size.Y
	}
	if size.X <= 0 || size.Y <= 0 {
		return sx, sy, &DegenerateGeometryError{Subject: subject, Size: size}
	}
	return sx, sy, nil
}

// Recenter translates n so that its bounding box is centered on the origin
// of its parent frame, and returns the applied offset.
func Recenter(n *Node) Vec3 {
	box := Measure(n)
	if box.IsEmpty() {
		return Vec3{}
	}
	off := box.Center().MulScalar(-1)
	n.Position = n.Position.Add(off)
	return off
}
