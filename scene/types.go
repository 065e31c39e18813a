// Package scene 定义组合结果的场景图节点，以及包围盒计算与资源释放。
package scene

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Vec3 是三维向量，单位与设备描述一致。
type Vec3 struct {
	X float64 `json:"x" cbor:"x"`
	Y float64 `json:"y" cbor:"y"`
	Z float64 `json:"z" cbor:"z"`
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// MulScalar returns v·s.
func (v Vec3) MulScalar(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// One is the unit scale.
var One = Vec3{1, 1, 1}

// GeometryKind 区分几何体的种类。
type GeometryKind string

const (
	KindPlane GeometryKind = "plane"
	KindBox   GeometryKind = "box"
	KindMesh  GeometryKind = "mesh"
)

// Geometry 描述节点的几何形状。Plane 以 Width×Height 位于 z=0 平面并居中；
// Box 以三个尺寸居中；Mesh 由三角形顶点与索引组成。
type Geometry struct {
	ID       uuid.UUID    `json:"id" cbor:"id"`
	Kind     GeometryKind `json:"kind" cbor:"kind"`
	Width    float64      `json:"width,omitempty" cbor:"width,omitempty"`
	Height   float64      `json:"height,omitempty" cbor:"height,omitempty"`
	Depth    float64      `json:"depth,omitempty" cbor:"depth,omitempty"`
	Vertices []Vec3       `json:"vertices,omitempty" cbor:"vertices,omitempty"`
	Indices  []uint32     `json:"indices,omitempty" cbor:"indices,omitempty"`

	owner    *Tracker
	released atomic.Bool
}

// NewPlane returns a width×height plane geometry.
func NewPlane(width, height float64) *Geometry {
	return &Geometry{ID: uuid.New(), Kind: KindPlane, Width: width, Height: height}
}

// NewBox returns a box geometry.
func NewBox(width, height, depth float64) *Geometry {
	return &Geometry{ID: uuid.New(), Kind: KindBox, Width: width, Height: height, Depth: depth}
}

// NewMesh returns a triangle mesh geometry.
func NewMesh(vertices []Vec3, indices []uint32) *Geometry {
	return &Geometry{ID: uuid.New(), Kind: KindMesh, Vertices: vertices, Indices: indices}
}

// Points returns the corner or vertex positions of the geometry in its own frame.
func (g *Geometry) Points() []Vec3 {
	switch g.Kind {
	case KindPlane:
		w, h := g.Width/2, g.Height/2
		return []Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}}
	case KindBox:
		w, h, d := g.Width/2, g.Height/2, g.Depth/2
		out := make([]Vec3, 0, 8)
		for _, x := range []float64{-w, w} {
			for _, y := range []float64{-h, h} {
				for _, z := range []float64{-d, d} {
					out = append(out, Vec3{x, y, z})
				}
			}
		}
		return out
	default:
		return g.Vertices
	}
}

// Release frees the geometry. Repeated calls are no-ops.
func (g *Geometry) Release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		return
	}
	g.owner.forget(g.ID)
}

// Released reports whether Release has run.
func (g *Geometry) Released() bool { return g.released.Load() }

// Texture 是以 PNG 编码的位图纹理。
type Texture struct {
	ID     uuid.UUID `json:"id" cbor:"id"`
	Width  int       `json:"width" cbor:"width"`
	Height int       `json:"height" cbor:"height"`
	PNG    []byte    `json:"png" cbor:"png"`

	owner    *Tracker
	released atomic.Bool
}

// NewTexture wraps encoded PNG data.
func NewTexture(width, height int, png []byte) *Texture {
	return &Texture{ID: uuid.New(), Width: width, Height: height, PNG: png}
}

// Release frees the texture. Repeated calls are no-ops, so a texture shared
// by several materials is released once.
func (t *Texture) Release() {
	if t == nil || !t.released.CompareAndSwap(false, true) {
		return
	}
	t.PNG = nil
	t.owner.forget(t.ID)
}

// Released reports whether Release has run.
func (t *Texture) Released() bool { return t.released.Load() }

// Material 描述表面颜色、透明度与可选纹理。
type Material struct {
	Color       string   `json:"color" cbor:"color"`
	Opacity     float64  `json:"opacity" cbor:"opacity"`
	Transparent bool     `json:"transparent,omitempty" cbor:"transparent,omitempty"`
	DoubleSided bool     `json:"doubleSided,omitempty" cbor:"doubleSided,omitempty"`
	Map         *Texture `json:"map,omitempty" cbor:"map,omitempty"`
}

// Node 是场景图中的一个变换节点。名称是对外的唯一约定（拾取与显隐切换使用）。
type Node struct {
	Name        string      `json:"name" cbor:"name"`
	Position    Vec3        `json:"position" cbor:"position"`
	Rotation    Vec3        `json:"rotation" cbor:"rotation"` // 欧拉角（弧度），XYZ 顺序
	Scale       Vec3        `json:"scale" cbor:"scale"`
	RenderOrder int         `json:"renderOrder,omitempty" cbor:"renderOrder,omitempty"`
	Geometry    *Geometry   `json:"geometry,omitempty" cbor:"geometry,omitempty"`
	Materials   []*Material `json:"materials,omitempty" cbor:"materials,omitempty"`
	Children    []*Node     `json:"children,omitempty" cbor:"children,omitempty"`

	disposeOnce sync.Once
	disposed    atomic.Bool
}

// NewGroup returns an empty transform node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Scale: One}
}

// NewMeshNode returns a node carrying geometry and materials.
func NewMeshNode(name string, g *Geometry, mats ...*Material) *Node {
	return &Node{Name: name, Scale: One, Geometry: g, Materials: mats}
}

// Add appends children, skipping nil.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// Dispose releases every geometry and texture owned by the sub-graph.
// Each node disposes itself and its children exactly once.
func (n *Node) Dispose() {
	if n == nil {
		return
	}
	n.disposeOnce.Do(func() {
		for _, c := range n.Children {
			c.Dispose()
		}
		n.Geometry.Release()
		for _, m := range n.Materials {
			if m != nil {
				m.Map.Release()
			}
		}
		n.disposed.Store(true)
	})
}

// Disposed reports whether Dispose has run.
func (n *Node) Disposed() bool { return n.disposed.Load() }
