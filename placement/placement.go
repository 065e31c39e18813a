// Package placement 计算挂载模块相对父设备的偏移。
//
// 各插槽类型的公式是沿用的经验布局约定，并非物理推导，
// 修改任何常量都会破坏与既有资产的视觉一致性。
package placement

import (
	"math"

	"github.com/ByLCY/devscene/device"
	"github.com/ByLCY/devscene/scene"
)

// plugEdgeMargin is the distance from the right edge beyond which a Plug
// module is laid out leftwards from its slot.
const plugEdgeMargin = 10

// Footprint 是宽、高、深三个方向的尺寸。
type Footprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Placement is the resolved local transform of a module root.
type Placement struct {
	Position scene.Vec3
	Rotation scene.Vec3
}

// Rules holds the tunable constants of the placement formulas.
type Rules struct {
	// RUOffset 在 PM 与 RU 两种插槽的 y 方向上统一扣除。
	RUOffset float64
}

// Resolve returns the offset of module m, whose resolved local size is
// module, on a parent view with footprint parent. It is a pure function of
// its inputs.
func (r Rules) Resolve(m device.Mounted, module, parent Footprint, face device.Face) Placement {
	slotX, slotY := m.SlotViewX, m.SlotViewY
	pw, ph, pd := parent.Width, parent.Height, parent.Depth
	mw, mh, md := module.Width, module.Height, module.Depth

	var x, y, z float64
	switch m.SlotMountType {
	case device.MountPM:
		x = slotX - pw/2 - mw/2
		y = ph/2 - slotY - r.RUOffset
		z = pd/2 - md/2 + 2
	case device.MountRU:
		x = slotX - pw/2 + mw/2
		y = ph/2 - slotY + mh/2 - 2*m.SlotViewLength - r.RUOffset
		z = pd/2 - md/2 + 1
	case device.MountPlug:
		if slotX > pw-plugEdgeMargin {
			x = slotX - pw/2 + mw/2
		} else {
			x = slotX - pw/2 - mw/2 + 1
		}
		y = 0
		z = pd/2 - md/2 + 1
	default:
		x = slotX - pw/2 + mw/2
		y = ph/2 - slotY + mh/2
		z = pd/2 - md/2 + 1
	}

	p := Placement{Position: scene.Vec3{X: x, Y: y, Z: z}}
	if face == device.Rear {
		p.Position.Z = -z
		p.Rotation.Y = math.Pi
	}
	return p
}

// ModuleFootprint resolves a module's local size: nominal size × module
// scale ÷ parent scale. Absent depth resolves to 0.
func ModuleFootprint(m device.Mounted, parentScale float64) Footprint {
	k := m.Scale / parentScale
	return Footprint{
		Width:  m.ModViewWidth * k,
		Height: m.ModViewLength * k,
		Depth:  m.Depth() * k,
	}
}
