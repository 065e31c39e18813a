package compose

import (
	"github.com/ByLCY/devscene/binding"
	"github.com/ByLCY/devscene/device"
	"github.com/ByLCY/devscene/placement"
	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
	"github.com/ByLCY/devscene/svgface"
)

// Normalizer 将原始矢量内容转换为规范化文档。
type Normalizer interface {
	Normalize(raw string) (*svgface.Document, error)
}

// Options 配置组合阶段所需的依赖。
type Options struct {
	Normalizer Normalizer
	Renderer   renderer.Renderer
	// Labeler 为空时标签盒不贴纹理。
	Labeler renderer.Labeler
	Rules   placement.Rules
	// Tracker 记录生成的几何体与纹理，可为空。
	Tracker *scene.Tracker
	// Concurrency 限制同一视图内并发组合的模块数，<=0 表示不限制。
	Concurrency int
	Names       Names
}

// Names holds the naming templates of the output nodes. Names are the only
// contract toward the picking layer.
type Names struct {
	Device      string
	View        binding.Template // ${tooltip} ${view} ${details[i].DataN}
	Face        binding.Template // ${tooltip} ${view} ${details[i].DataN}
	Panel       binding.Template // ${tooltip} ${side}
	Module      binding.Template // ${tooltip} ${id} ${details[i].DataN}
	ModulePanel binding.Template // ${tooltip} ${side}
	Label       binding.Template // ${role} ${details[i].DataN}
}

// DefaultNames returns the naming scheme expected by the viewer.
func DefaultNames() Names {
	return Names{
		Device:      "Device",
		View:        "View ${view}",
		Face:        "${tooltip}-${view}",
		Panel:       "Blank Box Tooltip - ${side}",
		Module:      "${tooltip}",
		ModulePanel: "${tooltip}-${side}",
		Label:       "Detail Data ${role}",
	}
}

// Check validates every template against the fields available to it.
func (n Names) Check() error {
	checks := []struct {
		t      binding.Template
		fields []string
	}{
		{n.View, []string{"tooltip", "view", "details"}},
		{n.Face, []string{"tooltip", "view", "details"}},
		{n.Panel, []string{"tooltip", "side"}},
		{n.Module, []string{"tooltip", "id", "details"}},
		{n.ModulePanel, []string{"tooltip", "side"}},
		{n.Label, []string{"role", "details"}},
	}
	for _, c := range checks {
		if err := c.t.Check(c.fields...); err != nil {
			return err
		}
	}
	return nil
}

func (n Names) withDefaults() Names {
	d := DefaultNames()
	if n.Device == "" {
		n.Device = d.Device
	}
	if n.View == "" {
		n.View = d.View
	}
	if n.Face == "" {
		n.Face = d.Face
	}
	if n.Panel == "" {
		n.Panel = d.Panel
	}
	if n.Module == "" {
		n.Module = d.Module
	}
	if n.ModulePanel == "" {
		n.ModulePanel = d.ModulePanel
	}
	if n.Label == "" {
		n.Label = d.Label
	}
	return n
}

// render interpolates t with key/value pairs. Keys are strings; values are
// strings or the result of details.
func render(t binding.Template, kv ...any) string {
	data := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return t.Render(data)
}

// details exposes the detail entries to templates as
// ${details[i].Data1} .. ${details[i].Data3}. Absent data stays unresolved.
func details(ds []device.Detail) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		m := map[string]any{}
		for k, v := range map[string]*device.Datum{"Data1": d.Data1, "Data2": d.Data2, "Data3": d.Data3} {
			if v != nil {
				m[k] = string(*v)
			}
		}
		out[i] = m
	}
	return out
}
