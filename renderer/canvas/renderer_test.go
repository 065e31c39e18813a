package canvasrenderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

func normalize(t *testing.T, raw string) *svgface.Document {
	t.Helper()
	nz, err := svgface.NewNormalizer("")
	require.NoError(t, err)
	doc, err := nz.Normalize(raw)
	require.NoError(t, err)
	return doc
}

func decode(t *testing.T, tex *scene.Texture) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(tex.PNG))
	require.NoError(t, err)
	return img
}

func TestRenderFaceTexturedPlane(t *testing.T) {
	doc := normalize(t, `<svg width="40" height="20"><path d="M0 0 L20 0 L20 10 L0 10 Z" fill="#ff0000"/></svg>`)
	node, err := NewRenderer(Options{}).RenderFace(doc, renderer.FaceSpec{Name: "Box-Front", Width: 400, Height: 200})
	require.NoError(t, err)

	assert.Equal(t, "Box-Front", node.Name)
	require.NotNil(t, node.Geometry)
	assert.Equal(t, scene.KindPlane, node.Geometry.Kind)
	assert.Equal(t, 400.0, node.Geometry.Width)
	assert.Equal(t, 200.0, node.Geometry.Height)
	require.Len(t, node.Materials, 1)
	tex := node.Materials[0].Map
	require.NotNil(t, tex)
	assert.Equal(t, 400, tex.Width)
	assert.Equal(t, 200, tex.Height)

	// 40×20 的绘图铺满 400×200 的面，左上四分之一为红色
	img := decode(t, tex)
	assertRed(t, img, 50, 50)
	_, _, _, a := img.At(300, 150).RGBA()
	assert.Zero(t, a)
}

func assertRed(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	r, g, _, a := img.At(x, y).RGBA()
	assert.Greater(t, r, uint32(0xc000), "(%d,%d)", x, y)
	assert.Less(t, g, uint32(0x4000), "(%d,%d)", x, y)
	assert.Greater(t, a, uint32(0xc000), "(%d,%d)", x, y)
}

func TestRenderFaceMapsViewBox(t *testing.T) {
	doc := normalize(t, `<svg width="4in" height="2in" viewBox="0 0 288 144"><path d="M144 72 H288 V144 H144 Z" fill="#ff0000"/></svg>`)
	node, err := NewRenderer(Options{}).RenderFace(doc, renderer.FaceSpec{Name: "f", Width: 40, Height: 20})
	require.NoError(t, err)
	assert.Equal(t, 40.0, node.Geometry.Width)
	tex := node.Materials[0].Map
	assert.Equal(t, 40, tex.Width)
	assert.Equal(t, 20, tex.Height)

	img := decode(t, tex)
	assertRed(t, img, 30, 15)
	for _, p := range []image.Point{{5, 5}, {30, 5}, {5, 15}} {
		_, _, _, a := img.At(p.X, p.Y).RGBA()
		assert.Zero(t, a, "%v", p)
	}

	// 无标称尺寸时按 4in×2in（384×192 用户单位）出图
	node, err = NewRenderer(Options{MaxPixels: 96}).RenderFace(doc, renderer.FaceSpec{Name: "f"})
	require.NoError(t, err)
	assert.InDelta(t, 384, node.Geometry.Width, 1e-9)
	tex = node.Materials[0].Map
	assert.Equal(t, 96, tex.Width)
	assert.Equal(t, 48, tex.Height)
	img = decode(t, tex)
	assertRed(t, img, 80, 40)
	_, _, _, a := img.At(10, 10).RGBA()
	assert.Zero(t, a)
}

func TestRenderFaceCapsResolution(t *testing.T) {
	doc := normalize(t, `<svg width="40" height="20"><path d="M0 0 L20 0 L20 10 Z"/></svg>`)
	node, err := NewRenderer(Options{PixelsPerUnit: 4, MaxPixels: 10}).RenderFace(doc, renderer.FaceSpec{Name: "f"})
	require.NoError(t, err)
	tex := node.Materials[0].Map
	assert.Equal(t, 10, tex.Width)
	assert.Equal(t, 5, tex.Height)
	assert.Equal(t, 40.0, node.Geometry.Width)
}

func TestRenderFaceFallsBackToNominalSize(t *testing.T) {
	doc := normalize(t, `<svg><path d="M0 0 L20 0 L20 10 Z"/></svg>`)
	node, err := NewRenderer(Options{}).RenderFace(doc, renderer.FaceSpec{Name: "f", Width: 30, Height: 15})
	require.NoError(t, err)
	assert.Equal(t, 30.0, node.Geometry.Width)
	assert.Equal(t, 15.0, node.Geometry.Height)

	_, err = NewRenderer(Options{}).RenderFace(doc, renderer.FaceSpec{Name: "f"})
	var re *renderer.RasterizationError
	require.True(t, errors.As(err, &re))
}

func TestLabelTexture(t *testing.T) {
	r := NewRenderer(Options{})
	tex, err := r.LabelTexture("42", color.RGBA{0, 0xff, 0, 0xff})
	require.NoError(t, err)
	assert.Equal(t, 512, tex.Width)
	assert.Equal(t, 512, tex.Height)

	img := decode(t, tex)
	cr, cg, cb, _ := img.At(2, 2).RGBA()
	assert.Zero(t, cr)
	assert.Equal(t, uint32(0xffff), cg)
	assert.Zero(t, cb)

	dark := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !dark; y += 2 {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			if _, g, _, _ := img.At(x, y).RGBA(); g < 0x4000 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "label text was not drawn")

	small, err := NewRenderer(Options{LabelPixels: 64}).LabelTexture("A", color.White)
	require.NoError(t, err)
	assert.Equal(t, 64, small.Width)
}

func TestLabelTextureUnknownFont(t *testing.T) {
	_, err := NewRenderer(Options{LabelFont: "embed:missing"}).LabelTexture("x", color.White)
	require.Error(t, err)
}
