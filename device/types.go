package device

// 该文件定义设备描述 JSON 的数据模型，字段名与上游导出的资产保持一致。

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Face 是视图所在的面。
type Face string

const (
	Front Face = "Front"
	Rear  Face = "Rear"
)

// Known reports whether f is Front or Rear.
func (f Face) Known() bool { return f == Front || f == Rear }

// Opposite returns the other face of the enclosure.
func (f Face) Opposite() Face {
	if f == Rear {
		return Front
	}
	return Rear
}

// MountType selects the placement rule of a mounted module.
type MountType string

const (
	MountPM      MountType = "PM"
	MountRU      MountType = "RU"
	MountPlug    MountType = "Plug"
	MountDefault MountType = ""
)

// Device 对应资产中的 ParentJSON，Parent 按源顺序保存各个视图。
type Device struct {
	Parent []View `json:"Parent"`
}

// View 描述设备的一个面（前/后）。
type View struct {
	ID         string    `json:"ID,omitempty"`
	ShapeID    string    `json:"ShapeID,omitempty"`
	ViewID     string    `json:"ViewID,omitempty"`
	View       Face      `json:"View"`
	ViewX      float64   `json:"ViewX,omitempty"`
	ViewY      float64   `json:"ViewY,omitempty"`
	ViewWidth  float64   `json:"ViewWidth"`
	ViewLength float64   `json:"ViewLength"`
	ViewDepth  *float64  `json:"ViewDepth,omitempty"` // 缺省视为 0（扁平设备）
	Tooltip    string    `json:"Tooltip"`
	Scale      *float64  `json:"Scale,omitempty"` // 挂载模块尺寸换算的除数
	SVGFile    string    `json:"SVGFile"`
	Details    []Detail  `json:"Details,omitempty"`
	Slots      []Slot    `json:"Slots,omitempty"`
	Mounted    []Mounted `json:"Mounted,omitempty"`
}

// Depth returns the nominal depth, 0 when absent.
func (v View) Depth() float64 {
	if v.ViewDepth == nil {
		return 0
	}
	return *v.ViewDepth
}

// Slot is a named attachment point on a view.
type Slot struct {
	SlotID         string    `json:"SlotID,omitempty"`
	SlotViewX      float64   `json:"SlotViewX"`
	SlotViewY      float64   `json:"SlotViewY"`
	SlotViewWidth  float64   `json:"SlotViewWidth,omitempty"`
	SlotViewLength float64   `json:"SlotViewLength,omitempty"`
	SlotMountType  MountType `json:"SlotMountType,omitempty"`
	SlotIndex      int       `json:"SlotIndex,omitempty"`
	Used           bool      `json:"Used,omitempty"`
}

// Mounted 是占用某个插槽的模块，插槽几何信息被复制到模块上。
type Mounted struct {
	ID               string    `json:"ID,omitempty"`
	View             Face      `json:"View,omitempty"`
	ToolTip          string    `json:"ToolTip"`
	Scale            float64   `json:"Scale"`
	SVGFile          string    `json:"SVGFile"`
	OtherSideSVGFile *string   `json:"OtherSideSVGFile,omitempty"`
	ModViewWidth     float64   `json:"ModViewWidth"`
	ModViewLength    float64   `json:"ModViewLength"`
	ModViewDepth     *float64  `json:"ModViewDepth,omitempty"`
	SlotViewX        float64   `json:"SlotViewX"`
	SlotViewY        float64   `json:"SlotViewY"`
	SlotViewWidth    float64   `json:"SlotViewWidth,omitempty"`
	SlotViewLength   float64   `json:"SlotViewLength,omitempty"`
	SlotMountType    MountType `json:"SlotMountType,omitempty"`
	Details          []Detail  `json:"Details,omitempty"`
}

// Depth returns the nominal module depth, 0 when absent.
func (m Mounted) Depth() float64 {
	if m.ModViewDepth == nil {
		return 0
	}
	return *m.ModViewDepth
}

// HasBackFace reports whether a rear drawing was supplied.
func (m Mounted) HasBackFace() bool {
	return m.OtherSideSVGFile != nil && strings.TrimSpace(*m.OtherSideSVGFile) != ""
}

// Detail is a textual annotation rendered onto a face.
type Detail struct {
	Name        string  `json:"Name,omitempty"`
	Description string  `json:"Description,omitempty"`
	Data1       *Datum  `json:"Data1,omitempty"`
	Data2       *Datum  `json:"Data2,omitempty"`
	Data3       *Datum  `json:"Data3,omitempty"`
	Width       float64 `json:"Width,omitempty"`
	Height      float64 `json:"Height,omitempty"`
	Depth       float64 `json:"Depth,omitempty"`
}

// Text returns the first non-empty data field.
func (d Detail) Text() (string, bool) {
	for _, v := range []*Datum{d.Data1, d.Data2, d.Data3} {
		if v != nil && *v != "" {
			return string(*v), true
		}
	}
	return "", false
}

// Datum 兼容资产中数字与字符串两种写法，统一保存为文本。
type Datum string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Datum) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Datum(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil {
		*d = Datum(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*d = Datum(n.String())
	return nil
}

// MarshalJSON keeps numeric data numeric on the way out.
func (d Datum) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(d), 64); err == nil {
		return []byte(d), nil
	}
	return json.Marshal(string(d))
}
