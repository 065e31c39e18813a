// Package meshrenderer 实现挤出形状策略：每个填充区域生成一个（可选挤出的）
// 多边形网格，每条描边子路径生成一个条带网格。
package meshrenderer

import (
	"fmt"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

// Options configures the mesh renderer.
type Options struct {
	// ExtrudeDepth 为 0 时只生成平面填充。
	ExtrudeDepth float64
	// Tolerance 是曲线展平的最大误差，<=0 时使用 canvas.Tolerance。
	Tolerance float64
	// StrokeWidth 覆盖文档中的描边宽度，<=0 时使用文档值。
	StrokeWidth float64
}

// Renderer builds triangle meshes directly from path data.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a mesh renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Tolerance <= 0 {
		opts.Tolerance = canvas.Tolerance
	}
	return &Renderer{opts: opts}
}

// RenderFace returns a group holding one fill mesh per visible fill region
// and one stroke mesh per stroked sub-path, in document order. Shapes whose
// fill or stroke is none contribute no mesh for that paint.
func (r *Renderer) RenderFace(doc *svgface.Document, spec renderer.FaceSpec) (*scene.Node, error) {
	shapes, err := renderer.Shapes(doc)
	if err != nil {
		return nil, &renderer.RasterizationError{Face: spec.Name, Err: err}
	}
	group := scene.NewGroup(spec.Name)
	order := 0
	for i, s := range shapes {
		if s.Fill != nil {
			if g := r.fillGeometry(s.Path); g != nil {
				order++
				n := scene.NewMeshNode(fmt.Sprintf("%s-path%d-fill", spec.Name, i), g, material(*s.Fill))
				n.RenderOrder = order
				group.Add(n)
			}
		}
		if s.Stroke != nil {
			width := s.StrokeWidth
			if r.opts.StrokeWidth > 0 {
				width = r.opts.StrokeWidth
			}
			for j, sub := range s.Path.Split() {
				ribbon := sub.Stroke(width, canvas.ButtCap, canvas.MiterJoin, r.opts.Tolerance)
				g := r.flatGeometry(ribbon)
				if g == nil {
					continue
				}
				order++
				n := scene.NewMeshNode(fmt.Sprintf("%s-path%d-stroke%d", spec.Name, i, j), g, material(*s.Stroke))
				n.RenderOrder = order
				group.Add(n)
			}
		}
	}
	if len(group.Children) == 0 {
		return nil, &renderer.RasterizationError{Face: spec.Name, Err: fmt.Errorf("文档中没有可绘制的区域")}
	}
	return group, nil
}

func material(p renderer.Paint) *scene.Material {
	return &scene.Material{
		Color:       p.Hex(),
		Opacity:     p.Opacity,
		Transparent: p.Opacity < 1,
		DoubleSided: true,
	}
}

// rings flattens p into closed point rings in document coordinates.
func (r *Renderer) rings(p *canvas.Path) [][]pt {
	var out [][]pt
	for _, sub := range p.Copy().Flatten(r.opts.Tolerance).Split() {
		var ring []pt
		for _, c := range sub.Coords() {
			q := pt{c.X, c.Y}
			if len(ring) > 0 && ring[len(ring)-1].eq(q) {
				continue
			}
			ring = append(ring, q)
		}
		for len(ring) > 1 && ring[0].eq(ring[len(ring)-1]) {
			ring = ring[:len(ring)-1]
		}
		if len(ring) >= 3 && signedArea(ring) != 0 {
			out = append(out, ring)
		}
	}
	return out
}

func (r *Renderer) fillGeometry(p *canvas.Path) *scene.Geometry {
	if r.opts.ExtrudeDepth > 0 {
		return r.extrudedGeometry(p, r.opts.ExtrudeDepth)
	}
	return r.flatGeometry(p)
}

func (r *Renderer) flatGeometry(p *canvas.Path) *scene.Geometry {
	var (
		verts []scene.Vec3
		idx   []uint32
	)
	for _, poly := range groupRings(r.rings(p)) {
		verts, idx = appendCap(verts, idx, poly.bridge(), 0, false)
	}
	if len(idx) == 0 {
		return nil
	}
	return scene.NewMesh(verts, idx)
}

// extrudedGeometry builds a front cap at z=depth, a back cap at z=0 and the
// side walls of every ring.
func (r *Renderer) extrudedGeometry(p *canvas.Path, depth float64) *scene.Geometry {
	var (
		verts []scene.Vec3
		idx   []uint32
	)
	for _, poly := range groupRings(r.rings(p)) {
		ring := poly.bridge()
		verts, idx = appendCap(verts, idx, ring, depth, false)
		verts, idx = appendCap(verts, idx, ring, 0, true)
		for _, wall := range append([][]pt{poly.outer}, poly.holes...) {
			verts, idx = appendWall(verts, idx, wall, depth)
		}
	}
	if len(idx) == 0 {
		return nil
	}
	return scene.NewMesh(verts, idx)
}

// appendCap triangulates ring at height z. Document y points down, so y is
// negated on the way into the scene.
func appendCap(verts []scene.Vec3, idx []uint32, ring []pt, z float64, flip bool) ([]scene.Vec3, []uint32) {
	tris, ok := triangulate(ring)
	if !ok {
		tris = fan(len(ring))
	}
	base := uint32(len(verts))
	for _, p := range ring {
		verts = append(verts, scene.Vec3{X: p.x, Y: -p.y, Z: z})
	}
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		if flip {
			b, c = c, b
		}
		idx = append(idx, base+a, base+b, base+c)
	}
	return verts, idx
}

func appendWall(verts []scene.Vec3, idx []uint32, ring []pt, depth float64) ([]scene.Vec3, []uint32) {
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		base := uint32(len(verts))
		verts = append(verts,
			scene.Vec3{X: a.x, Y: -a.y, Z: 0},
			scene.Vec3{X: b.x, Y: -b.y, Z: 0},
			scene.Vec3{X: b.x, Y: -b.y, Z: depth},
			scene.Vec3{X: a.x, Y: -a.y, Z: depth},
		)
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, idx
}
