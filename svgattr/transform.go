package svgattr

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tdewolff/canvas"
)

// Matrix converts a single transform function into a canvas matrix.
func (op *TransformOp) Matrix() (canvas.Matrix, error) {
	a := op.Args
	arg := func(i int, def float64) float64 {
		if i < len(a) {
			return a[i]
		}
		return def
	}
	switch op.Name {
	case "matrix":
		if len(a) != 6 {
			return canvas.Identity, fmt.Errorf("matrix 需要 6 个参数，实际 %d", len(a))
		}
		return canvas.Matrix{{a[0], a[2], a[4]}, {a[1], a[3], a[5]}}, nil
	case "translate":
		if len(a) == 0 {
			return canvas.Identity, fmt.Errorf("translate 缺少参数")
		}
		return canvas.Identity.Translate(a[0], arg(1, 0)), nil
	case "scale":
		if len(a) == 0 {
			return canvas.Identity, fmt.Errorf("scale 缺少参数")
		}
		return canvas.Identity.Scale(a[0], arg(1, a[0])), nil
	case "rotate":
		if len(a) == 0 {
			return canvas.Identity, fmt.Errorf("rotate 缺少参数")
		}
		if len(a) >= 3 {
			return canvas.Identity.RotateAbout(a[0], a[1], a[2]), nil
		}
		return canvas.Identity.Rotate(a[0]), nil
	case "skewX":
		return canvas.Identity.Shear(math.Tan(arg(0, 0)*math.Pi/180), 0), nil
	case "skewY":
		return canvas.Identity.Shear(0, math.Tan(arg(0, 0)*math.Pi/180)), nil
	}
	return canvas.Identity, fmt.Errorf("未知的 transform 函数 %q", op.Name)
}

// MatrixString formats m as an SVG matrix(a b c d e f) function.
func MatrixString(m canvas.Matrix) string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		num(m[0][0]), num(m[1][0]), num(m[0][1]), num(m[1][1]), num(m[0][2]), num(m[1][2]))
}

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
