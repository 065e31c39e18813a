package device

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MissingDimensionError 表示必需的名义尺寸缺失或非正数，对应的视图/模块整体跳过。
type MissingDimensionError struct {
	Subject string // 视图或模块的 tooltip
	Field   string
	Value   float64
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("%s: 尺寸 %s 必须为正数，实际为 %g", e.Subject, e.Field, e.Value)
}

// UnknownFaceError 表示视图的面标签既不是 Front 也不是 Rear，该视图整体跳过。
type UnknownFaceError struct {
	Subject string
	Face    Face
}

func (e *UnknownFaceError) Error() string {
	return fmt.Sprintf("%s: 面标签 %q 无效", e.Subject, e.Face)
}

// Parse decodes a device description and validates its structure.
// Per-view problems (dimensions, face tags) are not reported here; they are contained
// at composition time so that sibling views still render.
func Parse(r io.Reader) (*Device, error) {
	var dev Device
	dec := json.NewDecoder(r)
	if err := dec.Decode(&dev); err != nil {
		return nil, fmt.Errorf("解析设备 JSON 失败: %w", err)
	}
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	return &dev, nil
}

// ParseString parses a device description held in a string.
func ParseString(input string) (*Device, error) {
	return Parse(strings.NewReader(input))
}

// Validate checks device-level invariants: at most one view per face.
// Unknown face tags are left to View.Validate.
func (d *Device) Validate() error {
	if d == nil {
		return fmt.Errorf("设备为空")
	}
	seen := map[Face]int{}
	for i, v := range d.Parent {
		if !v.View.Known() {
			continue
		}
		if prev, ok := seen[v.View]; ok {
			return fmt.Errorf("视图 %d 与视图 %d 重复使用面 %s", i, prev, v.View)
		}
		seen[v.View] = i
	}
	return nil
}

// Validate checks that the view's face tag and nominal footprint can be
// composed.
func (v View) Validate() error {
	if !v.View.Known() {
		return &UnknownFaceError{Subject: v.Tooltip, Face: v.View}
	}
	if v.ViewWidth <= 0 {
		return &MissingDimensionError{Subject: v.Tooltip, Field: "ViewWidth", Value: v.ViewWidth}
	}
	if v.ViewLength <= 0 {
		return &MissingDimensionError{Subject: v.Tooltip, Field: "ViewLength", Value: v.ViewLength}
	}
	if d := v.Depth(); d < 0 {
		return &MissingDimensionError{Subject: v.Tooltip, Field: "ViewDepth", Value: d}
	}
	return nil
}

// ModuleScale returns the divisor used to size mounted modules.
func (v View) ModuleScale() (float64, error) {
	if v.Scale == nil || *v.Scale <= 0 {
		var got float64
		if v.Scale != nil {
			got = *v.Scale
		}
		return 0, &MissingDimensionError{Subject: v.Tooltip, Field: "Scale", Value: got}
	}
	return *v.Scale, nil
}

// Validate checks the module's nominal size and scale.
func (m Mounted) Validate() error {
	switch {
	case m.ModViewWidth <= 0:
		return &MissingDimensionError{Subject: m.ToolTip, Field: "ModViewWidth", Value: m.ModViewWidth}
	case m.ModViewLength <= 0:
		return &MissingDimensionError{Subject: m.ToolTip, Field: "ModViewLength", Value: m.ModViewLength}
	case m.Scale <= 0:
		return &MissingDimensionError{Subject: m.ToolTip, Field: "Scale", Value: m.Scale}
	case m.Depth() < 0:
		return &MissingDimensionError{Subject: m.ToolTip, Field: "ModViewDepth", Value: m.Depth()}
	}
	return nil
}
