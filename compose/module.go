package compose

import (
	"github.com/ByLCY/devscene/device"
	"github.com/ByLCY/devscene/placement"
	"github.com/ByLCY/devscene/scene"
)

type moduleResult struct {
	node   *scene.Node
	issues []Issue
}

// composeModule builds one mounted module: faces, ministrip, label and its
// placement on the parent view. It never shares state with sibling modules.
func (c *composer) composeModule(m device.Mounted, parentFace device.Face, parent placement.Footprint, parentScale float64) moduleResult {
	var out moduleResult
	if err := m.Validate(); err != nil {
		out.issues = append(out.issues, newIssue(m.ToolTip, StageValidate, err))
		return out
	}
	fp := placement.ModuleFootprint(m, parentScale)
	tag := m.View
	if tag == "" {
		tag = parentFace
	}

	group := scene.NewGroup(render(c.names.Module, "tooltip", m.ToolTip, "id", m.ID, "details", details(m.Details)))

	// 正面
	faceName := render(c.names.Face, "tooltip", m.ToolTip, "view", string(tag), "details", details(m.Details))
	front, issues := c.buildFace(m.SVGFile, faceName, fp.Width, fp.Height, false)
	out.issues = append(out.issues, issues...)
	if front != nil {
		front.Position.Z += fp.Depth / 2
		group.Add(front)
	}

	// 背面：有 OtherSideSVGFile 时贴第二张面，否则补一块平板
	panelName := func(side string) string {
		return render(c.names.ModulePanel, "tooltip", m.ToolTip, "side", side)
	}
	if m.HasBackFace() {
		backName := render(c.names.Face, "tooltip", m.ToolTip, "view", string(tag.Opposite()), "details", details(m.Details))
		back, issues := c.buildFace(*m.OtherSideSVGFile, backName, fp.Width, fp.Height, true)
		out.issues = append(out.issues, issues...)
		if back != nil {
			back.Position.Z -= fp.Depth / 2
			group.Add(back)
		}
	} else {
		group.Add(panel(panelName("Rear"), fp.Width, fp.Height, panelGrey, scene.Vec3{Z: -fp.Depth / 2}, scene.Vec3{}))
	}
	group.Add(boxSides(panelName, fp.Width, fp.Height, fp.Depth, panelGrey, moduleSide)...)

	if label := c.moduleLabel(m, fp, &out); label != nil {
		group.Add(label)
	}

	p := c.opts.Rules.Resolve(m, fp, parent, parentFace)
	group.Position = p.Position
	group.Rotation = p.Rotation
	out.node = group
	return out
}

// moduleLabel puts a small box on the front-bottom-left corner of the module
// showing the first present data field of any detail.
func (c *composer) moduleLabel(m device.Mounted, fp placement.Footprint, out *moduleResult) *scene.Node {
	var text string
	for _, d := range m.Details {
		if t, ok := d.Text(); ok {
			text = t
			break
		}
	}
	if text == "" {
		return nil
	}
	name := render(c.names.Label, "role", "Mount", "details", details(m.Details))
	var tex *scene.Texture
	if c.opts.Labeler != nil {
		t, err := c.opts.Labeler.LabelTexture(text, moduleLabelBackground)
		if err != nil {
			out.issues = append(out.issues, newIssue(name, StageLabel, err))
		} else {
			tex = t
		}
	}
	box := labelBox(name, moduleLabelSize, moduleLabelSize, moduleLabelDepth, moduleLabelBackground, tex, false)
	half := moduleLabelSize / 2
	box.Position = scene.Vec3{
		X: -fp.Width/2 + half,
		Y: -fp.Height/2 + half,
		Z: fp.Depth/2 + moduleLabelDepth/2,
	}
	return box
}
