package renderer

import (
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/colornames"

	"github.com/ByLCY/devscene/svgattr"
)

// Paint is a resolved fill or stroke.
type Paint struct {
	Color   color.RGBA
	Opacity float64
}

// Hex formats the paint color as #rrggbb.
func (p Paint) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{p.Color.R, p.Color.G, p.Color.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// ParseColor resolves an SVG paint value. ok is false for `none` and
// `transparent`; unknown values resolve to black.
func ParseColor(v string) (c color.RGBA, ok bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "none", v == "transparent":
		return color.RGBA{}, false
	case strings.HasPrefix(v, "#"):
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.RGBA{A: 0xff}, true
		}
		return canvas.Hex("#" + hex), true
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(v, "rgb("), ")"), ",")
		if len(parts) != 3 {
			return color.RGBA{A: 0xff}, true
		}
		var ch [3]uint8
		for i, p := range parts {
			n, unit, _ := svgattr.ParseLength(p)
			if unit == "%" {
				n = n * 255 / 100
			}
			ch[i] = uint8(min(max(n, 0), 255))
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, true
	}
	if named, found := colornames.Map[v]; found {
		return named, true
	}
	return color.RGBA{A: 0xff}, true
}

// RGBA returns the paint with its opacity applied, premultiplied as canvas expects.
func (p Paint) RGBA() color.RGBA {
	return canvas.RGBA(float64(p.Color.R)/255, float64(p.Color.G)/255, float64(p.Color.B)/255, p.Opacity)
}
