package scene

import "math"

// Mat4 是行主序的 4×4 仿射矩阵。
type Mat4 [4][4]float64

// Identity4 is the identity matrix.
var Identity4 = Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}

// Mul returns m·o (o applied first).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Apply transforms a point.
func (m Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3],
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3],
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3],
	}
}

// rotationXYZ builds Rx·Ry·Rz, i.e. the XYZ Euler order common to 3D scene graphs.
func rotationXYZ(r Vec3) Mat4 {
	sx, cx := math.Sincos(r.X)
	sy, cy := math.Sincos(r.Y)
	sz, cz := math.Sincos(r.Z)
	rx := Mat4{{1, 0, 0, 0}, {0, cx, -sx, 0}, {0, sx, cx, 0}, {0, 0, 0, 1}}
	ry := Mat4{{cy, 0, sy, 0}, {0, 1, 0, 0}, {-sy, 0, cy, 0}, {0, 0, 0, 1}}
	rz := Mat4{{cz, -sz, 0, 0}, {sz, cz, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	return rx.Mul(ry).Mul(rz)
}

// Local returns the node's transform relative to its parent: T·R·S.
func (n *Node) Local() Mat4 {
	t := Identity4
	t[0][3], t[1][3], t[2][3] = n.Position.X, n.Position.Y, n.Position.Z
	s := Mat4{{n.Scale.X, 0, 0, 0}, {0, n.Scale.Y, 0, 0}, {0, 0, n.Scale.Z, 0}, {0, 0, 0, 1}}
	return t.Mul(rotationXYZ(n.Rotation)).Mul(s)
}
