package meshrenderer

import (
	"math"
	"sort"
)

type pt struct{ x, y float64 }

func (p pt) eq(o pt) bool { return math.Abs(p.x-o.x) < 1e-9 && math.Abs(p.y-o.y) < 1e-9 }

func signedArea(pts []pt) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return a * 0.5
}

func isConvex(a, b, c pt, ccw bool) bool {
	cross := (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
	if ccw {
		return cross > 0
	}
	return cross < 0
}

func pointInTri(p, a, b, c pt) bool {
	sign := func(p1, p2, p3 pt) float64 {
		return (p1.x-p3.x)*(p2.y-p3.y) - (p2.x-p3.x)*(p1.y-p3.y)
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// pointInRing is an even-odd containment test.
func pointInRing(p pt, ring []pt) bool {
	in := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.y > p.y) != (b.y > p.y) && p.x < (b.x-a.x)*(p.y-a.y)/(b.y-a.y)+a.x {
			in = !in
		}
	}
	return in
}

// triangulate ear-clips a simple polygon. Vertices that coincide with an
// ear corner (the seams introduced by hole bridging) do not block it.
func triangulate(pts []pt) ([]uint32, bool) {
	n := len(pts)
	if n < 3 {
		return nil, false
	}
	ccw := signedArea(pts) > 0

	V := make([]int, n)
	for i := range V {
		V[i] = i
	}

	var out []uint32
	for guard := 0; len(V) > 2 && guard < 4*n*n+16; guard++ {
		earFound := false
		for i := 0; i < len(V); i++ {
			i0 := V[(i+len(V)-1)%len(V)]
			i1 := V[i]
			i2 := V[(i+1)%len(V)]
			a, b, c := pts[i0], pts[i1], pts[i2]
			if !isConvex(a, b, c, ccw) {
				continue
			}
			contains := false
			for _, j := range V {
				if j == i0 || j == i1 || j == i2 {
					continue
				}
				q := pts[j]
				if q.eq(a) || q.eq(b) || q.eq(c) {
					continue
				}
				if pointInTri(q, a, b, c) {
					contains = true
					break
				}
			}
			if contains {
				continue
			}
			out = append(out, uint32(i0), uint32(i1), uint32(i2))
			V = append(V[:i], V[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			// 剩余部分共线时可以直接丢弃
			if math.Abs(signedArea(pick(pts, V))) < 1e-9 {
				break
			}
			return nil, false
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func pick(pts []pt, idx []int) []pt {
	out := make([]pt, len(idx))
	for i, j := range idx {
		out[i] = pts[j]
	}
	return out
}

// fan triangulates a convex polygon; used when ear clipping fails.
func fan(n int) []uint32 {
	var out []uint32
	for i := 1; i+1 < n; i++ {
		out = append(out, 0, uint32(i), uint32(i+1))
	}
	return out
}

// polygon is an outer ring with the holes it directly contains.
type polygon struct {
	outer []pt
	holes [][]pt
}

// groupRings classifies rings by nesting depth: even depth rings are
// outlines, odd depth rings are holes of the innermost outline around them.
func groupRings(rings [][]pt) []polygon {
	depth := make([]int, len(rings))
	parent := make([]int, len(rings))
	for i, r := range rings {
		parent[i] = -1
		best := math.Inf(1)
		for j, o := range rings {
			if i == j || !pointInRing(r[0], o) {
				continue
			}
			depth[i]++
			if a := math.Abs(signedArea(o)); a < best {
				best = a
				parent[i] = j
			}
		}
	}
	index := map[int]int{}
	var out []polygon
	for i, r := range rings {
		if depth[i]%2 == 0 {
			index[i] = len(out)
			out = append(out, polygon{outer: orient(r, true)})
		}
	}
	for i, r := range rings {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			if k, ok := index[parent[i]]; ok {
				out[k].holes = append(out[k].holes, orient(r, false))
			}
		}
	}
	return out
}

func orient(r []pt, ccw bool) []pt {
	if (signedArea(r) > 0) == ccw {
		return r
	}
	out := make([]pt, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// bridge splices every hole into the outline through a seam edge, producing
// one simple (weakly) polygon that ear clipping accepts.
func (p polygon) bridge() []pt {
	ring := append([]pt(nil), p.outer...)
	holes := append([][]pt(nil), p.holes...)
	sort.Slice(holes, func(i, j int) bool { return maxX(holes[i]) > maxX(holes[j]) })
	for _, h := range holes {
		ring = spliceHole(ring, h)
	}
	return ring
}

func maxX(r []pt) float64 {
	m := math.Inf(-1)
	for _, p := range r {
		m = math.Max(m, p.x)
	}
	return m
}

func spliceHole(ring, hole []pt) []pt {
	hi := 0
	for i, p := range hole {
		if p.x > hole[hi].x {
			hi = i
		}
	}
	m := hole[hi]

	// 向 +x 方向投射射线，找到最近的外轮廓边
	best := -1
	bestX := math.Inf(1)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if (a.y > m.y) == (b.y > m.y) {
			continue
		}
		x := a.x + (m.y-a.y)*(b.x-a.x)/(b.y-a.y)
		if x >= m.x && x < bestX {
			bestX = x
			best = i
			if a.x < b.x {
				best = (i + 1) % len(ring)
			}
		}
	}
	if best < 0 {
		best = nearest(ring, m)
	} else {
		// 射线与候选点构成的三角形内若有其它顶点，改用夹角最小者
		hit := pt{bestX, m.y}
		cand := ring[best]
		minAngle := math.Inf(1)
		for i, q := range ring {
			if i == best || q.x < m.x || !pointInTri(q, m, hit, cand) || q.eq(cand) {
				continue
			}
			ang := math.Abs(math.Atan2(q.y-m.y, q.x-m.x))
			if ang < minAngle {
				minAngle = ang
				best = i
			}
		}
	}

	out := make([]pt, 0, len(ring)+len(hole)+2)
	out = append(out, ring[:best+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(hi+k)%len(hole)])
	}
	out = append(out, ring[best])
	out = append(out, ring[best+1:]...)
	return out
}

func nearest(ring []pt, p pt) int {
	best, bestD := 0, math.Inf(1)
	for i, q := range ring {
		if d := math.Hypot(q.x-p.x, q.y-p.y); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
