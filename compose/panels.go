package compose

import (
	"image/color"
	"math"

	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
)

var (
	panelGrey  = panelStyle{color: "#aaaaaa", opacity: 1}
	panelSide  = panelStyle{color: "#eeeeee", opacity: 0.8}
	panelRear  = panelStyle{color: "#808080", opacity: 1}
	moduleSide = panelStyle{color: "#aaaaaa", opacity: 0.8}

	viewLabelBackground   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	moduleLabelBackground = color.RGBA{0x00, 0xff, 0x00, 0xff}
)

const (
	viewLabelSize    = 150.0
	viewLabelDepth   = 10.0
	moduleLabelSize  = 50.0
	moduleLabelDepth = 1.0
)

type panelStyle struct {
	color   string
	opacity float64
}

// panel builds a double-sided plane. Zero-area panels are not built.
func panel(name string, w, h float64, st panelStyle, pos, rot scene.Vec3) *scene.Node {
	if w <= 0 || h <= 0 {
		return nil
	}
	n := scene.NewMeshNode(name, scene.NewPlane(w, h), &scene.Material{
		Color:       st.color,
		Opacity:     st.opacity,
		Transparent: true,
		DoubleSided: true,
	})
	n.Position = pos
	n.Rotation = rot
	return n
}

// boxSides returns the top, bottom, left and right panels around a w×h
// footprint of depth d, centered on the origin.
func boxSides(name func(side string) string, w, h, d float64, top, side panelStyle) []*scene.Node {
	flat := scene.Vec3{X: math.Pi / 2}
	upright := scene.Vec3{Y: math.Pi / 2}
	return []*scene.Node{
		panel(name("Top"), w, d, top, scene.Vec3{Y: h / 2}, flat),
		panel(name("Bottom"), w, d, top, scene.Vec3{Y: -h / 2}, flat),
		panel(name("Left"), d, h, side, scene.Vec3{X: w / 2}, upright),
		panel(name("Right"), d, h, side, scene.Vec3{X: -w / 2}, upright),
	}
}

// labelBox builds a box whose +z face (and -z face when both is set)
// carries the texture. Material order follows the box faces: +x, -x, +y,
// -y, +z, -z.
func labelBox(name string, w, h, d float64, base color.RGBA, tex *scene.Texture, both bool) *scene.Node {
	edge := renderer.Paint{Color: base}.Hex()
	mats := make([]*scene.Material, 6)
	for i := range mats {
		mats[i] = &scene.Material{Color: edge, Opacity: 1}
	}
	if tex != nil {
		mats[4] = &scene.Material{Color: "#ffffff", Opacity: 1, Map: tex}
		if both {
			mats[5] = &scene.Material{Color: "#ffffff", Opacity: 1, Map: tex}
		}
	}
	return scene.NewMeshNode(name, scene.NewBox(w, h, d), mats...)
}
