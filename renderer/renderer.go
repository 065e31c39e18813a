package renderer

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

// FaceSpec 描述需要生成的面：名称与名义尺寸。
type FaceSpec struct {
	Name   string
	Width  float64
	Height float64
}

// Renderer 将规范化后的矢量文档转换为场景节点。
// 返回的节点使用绘图单位（x 向右、y 向上），由调用方按名义尺寸缩放并居中。
type Renderer interface {
	RenderFace(doc *svgface.Document, spec FaceSpec) (*scene.Node, error)
}

// Labeler 生成标签纹理：背景色上居中绘制粗体文本。
type Labeler interface {
	LabelTexture(text string, background color.Color) (*scene.Texture, error)
}

// RasterizationError 表示某个面的纹理或几何生成失败，调用方跳过该面但保留外壳。
type RasterizationError struct {
	Face string
	Err  error
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("生成面 %s 失败: %v", e.Face, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }
