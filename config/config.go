// Package config 读取组合引擎的配置文件（YAML 或 TOML，按扩展名选择）。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/devscene/binding"
	"github.com/ByLCY/devscene/compose"
	"github.com/ByLCY/devscene/placement"
	"github.com/ByLCY/devscene/renderer"
	canvasrenderer "github.com/ByLCY/devscene/renderer/canvas"
	meshrenderer "github.com/ByLCY/devscene/renderer/mesh"
	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

// Strategy 选择面的生成方式。
type Strategy string

const (
	StrategyTexture Strategy = "texture"
	StrategyMesh    Strategy = "mesh"
)

// Config is the file-level configuration.
type Config struct {
	Strategy    Strategy  `yaml:"strategy" toml:"strategy"`
	Concurrency int       `yaml:"concurrency" toml:"concurrency"`
	Placement   Placement `yaml:"placement" toml:"placement"`
	Texture     Texture   `yaml:"texture" toml:"texture"`
	Mesh        Mesh      `yaml:"mesh" toml:"mesh"`
	Font        Font      `yaml:"font" toml:"font"`
	Names       Names     `yaml:"names" toml:"names"`
}

type Placement struct {
	RUOffset float64 `yaml:"ruOffset" toml:"ruOffset"`
}

type Texture struct {
	PixelsPerUnit float64 `yaml:"pixelsPerUnit" toml:"pixelsPerUnit"`
	MaxPixels     int     `yaml:"maxPixels" toml:"maxPixels"`
	LabelPixels   int     `yaml:"labelPixels" toml:"labelPixels"`
}

type Mesh struct {
	ExtrudeDepth float64 `yaml:"extrudeDepth" toml:"extrudeDepth"`
	Tolerance    float64 `yaml:"tolerance" toml:"tolerance"`
	StrokeWidth  float64 `yaml:"strokeWidth" toml:"strokeWidth"`
}

// Font 指定文本轮廓与标签使用的字体，取值见 fonts.Load。
type Font struct {
	Path  string `yaml:"path" toml:"path"`
	Label string `yaml:"label" toml:"label"`
}

// Names 覆盖输出节点的命名模板，留空使用默认值。
type Names struct {
	Device      string `yaml:"device" toml:"device"`
	View        string `yaml:"view" toml:"view"`
	Face        string `yaml:"face" toml:"face"`
	Panel       string `yaml:"panel" toml:"panel"`
	Module      string `yaml:"module" toml:"module"`
	ModulePanel string `yaml:"modulePanel" toml:"modulePanel"`
	Label       string `yaml:"label" toml:"label"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Strategy: StrategyTexture,
		Texture:  Texture{PixelsPerUnit: 1, MaxPixels: 4096, LabelPixels: 512},
		Mesh:     Mesh{StrokeWidth: 1},
		Font:     Font{Path: "embed:regular", Label: "embed:bold"},
	}
}

// Load reads path on top of Default. The format follows the extension:
// .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext and validates the result.
func Decode(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("解析 YAML 配置失败: %w", err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("解析 TOML 配置失败: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("不支持的配置格式 %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and naming templates.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyTexture, StrategyMesh:
	default:
		return fmt.Errorf("未知的生成策略 %q（可选 texture、mesh）", c.Strategy)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency 不能为负数: %d", c.Concurrency)
	}
	if c.Texture.PixelsPerUnit < 0 || c.Texture.MaxPixels < 0 || c.Texture.LabelPixels < 0 {
		return fmt.Errorf("texture 参数不能为负数")
	}
	if c.Mesh.ExtrudeDepth < 0 || c.Mesh.Tolerance < 0 || c.Mesh.StrokeWidth < 0 {
		return fmt.Errorf("mesh 参数不能为负数")
	}
	if err := c.names().Check(); err != nil {
		return fmt.Errorf("命名模板无效: %w", err)
	}
	return nil
}

func (c Config) names() compose.Names {
	return compose.Names{
		Device:      c.Names.Device,
		View:        binding.Template(c.Names.View),
		Face:        binding.Template(c.Names.Face),
		Panel:       binding.Template(c.Names.Panel),
		Module:      binding.Template(c.Names.Module),
		ModulePanel: binding.Template(c.Names.ModulePanel),
		Label:       binding.Template(c.Names.Label),
	}
}

// Renderer builds the face renderer selected by Strategy.
func (c Config) Renderer() renderer.Renderer {
	if c.Strategy == StrategyMesh {
		return meshrenderer.NewRenderer(meshrenderer.Options{
			ExtrudeDepth: c.Mesh.ExtrudeDepth,
			Tolerance:    c.Mesh.Tolerance,
			StrokeWidth:  c.Mesh.StrokeWidth,
		})
	}
	return c.labeler()
}

func (c Config) labeler() *canvasrenderer.Renderer {
	return canvasrenderer.NewRenderer(canvasrenderer.Options{
		PixelsPerUnit: c.Texture.PixelsPerUnit,
		MaxPixels:     c.Texture.MaxPixels,
		LabelPixels:   c.Texture.LabelPixels,
		LabelFont:     c.Font.Label,
	})
}

// Compose maps the configuration onto compose.Options. Label textures are
// always drawn with the canvas renderer, whatever the face strategy.
func (c Config) Compose(tracker *scene.Tracker) (compose.Options, error) {
	if err := c.Validate(); err != nil {
		return compose.Options{}, err
	}
	nz, err := svgface.NewNormalizer(c.Font.Path)
	if err != nil {
		return compose.Options{}, fmt.Errorf("加载轮廓字体失败: %w", err)
	}
	return compose.Options{
		Normalizer:  nz,
		Renderer:    c.Renderer(),
		Labeler:     c.labeler(),
		Rules:       placement.Rules{RUOffset: c.Placement.RUOffset},
		Tracker:     tracker,
		Concurrency: c.Concurrency,
		Names:       c.names(),
	}, nil
}
