package svgface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/devscene/fonts"
	"github.com/ByLCY/devscene/svgattr"
)

// ErrEmptyMarkup is wrapped by NormalizationError when the payload is blank.
var ErrEmptyMarkup = errors.New("矢量内容为空")

// NormalizationError reports a vector payload that could not be turned into
// a document. Callers skip the face and keep composing the enclosure.
type NormalizationError struct {
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("矢量规范化失败: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// Document is a normalized vector drawing.
type Document struct {
	Root *Node
}

// Markup serializes the document.
func (d *Document) Markup() string {
	if d == nil || d.Root == nil {
		return ""
	}
	return serialize(d.Root)
}

// 长度单位到用户单位（px）的换算。
var unitToPixel = map[string]float64{
	"": 1, "px": 1, "pt": 4.0 / 3, "pc": 16,
	"in": 96, "cm": 96 / 2.54, "mm": 96 / 25.4,
}

func length(v string) float64 {
	n, unit, ok := svgattr.ParseLength(v)
	if !ok {
		return 0
	}
	k, ok := unitToPixel[unit]
	if !ok {
		return 0
	}
	return n * k
}

// Size returns the declared width and height of the drawing in user units
// (px), taken from the width/height attributes or, failing that, from the
// viewBox.
func (d *Document) Size() (w, h float64) {
	if d == nil || d.Root == nil {
		return 0, 0
	}
	w = length(d.Root.Attr("width"))
	h = length(d.Root.Attr("height"))
	if w > 0 && h > 0 {
		return w, h
	}
	if _, _, vw, vh, ok := d.ViewBox(); ok {
		return vw, vh
	}
	return w, h
}

// ViewBox returns the viewBox rectangle. ok is false when it is absent or
// has a non-positive extent.
func (d *Document) ViewBox() (minX, minY, w, h float64, ok bool) {
	if d == nil || d.Root == nil {
		return 0, 0, 0, 0, false
	}
	vb := numberPattern.FindAllString(d.Root.Attr("viewBox"), -1)
	if len(vb) != 4 {
		return 0, 0, 0, 0, false
	}
	minX, minY, w, h = parseNum(vb[0]), parseNum(vb[1]), parseNum(vb[2]), parseNum(vb[3])
	return minX, minY, w, h, w > 0 && h > 0
}

// Fit returns the matrix mapping user coordinates onto a w×h viewport: the
// viewBox when present, otherwise the declared size. The drawing is
// stretched to fill the viewport on both axes.
func (d *Document) Fit(w, h float64) canvas.Matrix {
	if x, y, vw, vh, ok := d.ViewBox(); ok {
		return canvas.Identity.Scale(w/vw, h/vh).Translate(-x, -y)
	}
	if dw, dh := d.Size(); dw > 0 && dh > 0 {
		return canvas.Identity.Scale(w/dw, h/dh)
	}
	return canvas.Identity
}

// Normalizer turns raw vector payloads into normalized documents.
// It holds no per-device state and is safe for concurrent use.
type Normalizer struct {
	font *sfnt.Font
}

// NewNormalizer prepares a normalizer whose text runs are outlined with the
// font at src (see fonts.Load).
func NewNormalizer(src string) (*Normalizer, error) {
	f, err := fonts.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Normalizer{font: f}, nil
}

// Normalize unescapes, strips and canonicalizes raw markup and replaces every
// text run with glyph outline paths.
func (nz *Normalizer) Normalize(raw string) (*Document, error) {
	markup := strings.TrimSpace(Unescape(raw))
	if markup == "" {
		return nil, &NormalizationError{Err: ErrEmptyMarkup}
	}
	root, err := parseMarkup(stripArtifacts(markup))
	if err != nil {
		return nil, &NormalizationError{Err: err}
	}
	if root.Name != "svg" {
		return nil, &NormalizationError{Err: fmt.Errorf("根元素应为 <svg>，实际为 <%s>", root.Name)}
	}
	unwrapNestedSVG(root)
	resetSecondGroupScale(root)
	canonicalize(root)
	if err := nz.convertText(root, nil); err != nil {
		return nil, &NormalizationError{Err: err}
	}
	return &Document{Root: root}, nil
}
