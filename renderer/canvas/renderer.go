package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/devscene/fonts"
	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

const (
	defaultLabelPixels = 512
	// labelFontRatio 为标签字号与纹理边长之比（512 像素纹理上约 200 像素的粗体字）。
	labelFontRatio   = 200.0 / 512.0
	defaultMaxPixels = 4096
)

// Renderer draws normalized documents via github.com/tdewolff/canvas and
// rasterizes them into PNG textures.
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Labeler  = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// PixelsPerUnit 是每个绘图单位对应的像素数，默认 1。
	PixelsPerUnit float64
	// MaxPixels 限制纹理的最长边，超出时按比例降低分辨率。
	MaxPixels int
	// LabelPixels 是标签纹理的边长，默认 512。
	LabelPixels int
	// LabelFont 是标签字体来源（见 fonts.Load），默认 embed:bold。
	LabelFont string
}

// NewRenderer creates a canvas-based renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.PixelsPerUnit <= 0 {
		opts.PixelsPerUnit = 1
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = defaultMaxPixels
	}
	if opts.LabelPixels <= 0 {
		opts.LabelPixels = defaultLabelPixels
	}
	if opts.LabelFont == "" {
		opts.LabelFont = "embed:bold"
	}
	return &Renderer{opts: opts, fontFamilies: map[string]*fontFamilyEntry{}}
}

// RenderFace rasterizes the document onto a plane of the nominal face size.
// The viewBox (or the declared size) is mapped onto the whole plane; the
// declared size is only used when the face has no nominal size.
func (r *Renderer) RenderFace(doc *svgface.Document, spec renderer.FaceSpec) (*scene.Node, error) {
	fail := func(err error) (*scene.Node, error) {
		return nil, &renderer.RasterizationError{Face: spec.Name, Err: err}
	}
	shapes, err := renderer.Shapes(doc)
	if err != nil {
		return fail(err)
	}
	w, h := spec.Width, spec.Height
	if w <= 0 || h <= 0 {
		w, h = doc.Size()
	}
	if w <= 0 || h <= 0 {
		return fail(fmt.Errorf("无法确定绘图尺寸"))
	}

	view := doc.Fit(w, h)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与矢量文档一致：左上角为原点，y 向下
	for _, s := range shapes {
		drawShape(ctx, s, view)
	}

	tex, err := r.rasterize(c, w, h)
	if err != nil {
		return fail(err)
	}
	return scene.NewMeshNode(spec.Name, scene.NewPlane(w, h), &scene.Material{
		Color:       "#ffffff",
		Opacity:     1,
		Transparent: true,
		DoubleSided: true,
		Map:         tex,
	}), nil
}

func drawShape(ctx *canvas.Context, s renderer.Shape, view canvas.Matrix) {
	if s.Fill != nil {
		ctx.SetFillColor(s.Fill.RGBA())
	} else {
		ctx.SetFillColor(canvas.Transparent)
	}
	if s.Stroke != nil {
		ctx.SetStrokeColor(s.Stroke.RGBA())
		ctx.SetStrokeWidth(s.StrokeWidth * lineScale(view))
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
	}
	ctx.DrawPath(0, 0, s.Path.Transform(view))
}

// lineScale is the mean linear scale factor of m.
func lineScale(m canvas.Matrix) float64 {
	return math.Sqrt(math.Abs(m[0][0]*m[1][1] - m[0][1]*m[1][0]))
}

func (r *Renderer) rasterize(c *canvas.Canvas, w, h float64) (*scene.Texture, error) {
	ppu := r.opts.PixelsPerUnit
	if longest := math.Max(w, h) * ppu; longest > float64(r.opts.MaxPixels) {
		ppu *= float64(r.opts.MaxPixels) / longest
	}
	img := rasterizer.Draw(c, canvas.DPMM(ppu), canvas.DefaultColorSpace)
	return encodeTexture(img)
}

func encodeTexture(img image.Image) (*scene.Texture, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("位图尺寸为 0")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return scene.NewTexture(b.Dx(), b.Dy(), buf.Bytes()), nil
}

// LabelTexture draws text in bold, centered on a square background.
func (r *Renderer) LabelTexture(text string, background color.Color) (*scene.Texture, error) {
	size := float64(r.opts.LabelPixels)
	face, err := r.fontFace(r.opts.LabelFont, size*labelFontRatio, color.Black)
	if err != nil {
		return nil, err
	}
	c := canvas.New(size, size)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(background)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(size, size))

	// 垂直居中：基线位于中线下方 (Ascent-Descent)/2 处
	m := face.Metrics()
	baseline := size/2 + (m.Ascent-m.Descent)/2
	ctx.DrawText(size/2, baseline, canvas.NewTextLine(face, text, canvas.Center))

	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	return encodeTexture(img)
}

// fontFace returns a face whose size is given in drawing units (mm for canvas).
func (r *Renderer) fontFace(src string, size float64, col color.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(src)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(size), col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(src string) (*canvas.FontFamily, canvas.FontStyle, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[src]; ok {
		return entry.family, entry.style, nil
	}
	data, err := fonts.Load(src)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	style := fontStyleFor(src)
	family := canvas.NewFontFamily(src)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	r.fontFamilies[src] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func fontStyleFor(src string) canvas.FontStyle {
	if strings.Contains(strings.ToLower(src), "bold") {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * 72 / 25.4 }
