// Package compose 将设备描述组合为场景图：面纹理、外壳面板、标签与挂载模块。
package compose

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/devscene/device"
	"github.com/ByLCY/devscene/diag"
	"github.com/ByLCY/devscene/placement"
	"github.com/ByLCY/devscene/renderer"
	"github.com/ByLCY/devscene/scene"
)

// Result 保存组合后的场景图以及各视图的状态与被隔离的失败。
type Result struct {
	Root      *scene.Node         `json:"root,omitempty"`
	Enclosure placement.Footprint `json:"enclosure"`
	Views     []ViewReport        `json:"views"`
	Issues    []Issue             `json:"issues,omitempty"`
}

// Dispose releases every resource of the composed scene exactly once.
func (r *Result) Dispose() {
	if r != nil {
		r.Root.Dispose()
	}
}

// AttachedViews counts the views that reached Attached.
func (r *Result) AttachedViews() int {
	n := 0
	for _, v := range r.Views {
		if v.State == Attached {
			n++
		}
	}
	return n
}

type composer struct {
	opts  Options
	names Names
	log   *slog.Logger
}

// Compose builds the scene of d.
//
// Views are processed in source order. Device-level maxima are computed from
// every valid view first, and the shared enclosure panels are built once
// from them. Modules of one view are composed concurrently. Failures of a
// face, label or module are contained and reported in Result.Issues; Compose
// itself only fails on invalid arguments or when ctx is done, in which case
// everything built so far is released.
func Compose(ctx context.Context, d *device.Device, opts Options) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.Normalizer == nil {
		return nil, fmt.Errorf("normalizer 不能为空")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	names := opts.Names.withDefaults()
	if err := names.Check(); err != nil {
		return nil, fmt.Errorf("命名模板无效: %w", err)
	}
	c := &composer{opts: opts, names: names, log: diag.Logger()}
	return c.compose(ctx, d)
}

func (c *composer) compose(ctx context.Context, d *device.Device) (*Result, error) {
	res := &Result{Root: scene.NewGroup(c.names.Device)}
	res.Views = make([]ViewReport, len(d.Parent))

	// 第一遍：校验视图并求设备级最大尺寸
	valid := make([]bool, len(d.Parent))
	eligible := 0
	for i, v := range d.Parent {
		res.Views[i] = ViewReport{Face: v.View, Tooltip: v.Tooltip, State: Pending}
		if err := v.Validate(); err != nil {
			c.report(res, &res.Views[i], newIssue(v.Tooltip, StageValidate, err))
			continue
		}
		valid[i] = true
		eligible++
		res.Enclosure.Width = math.Max(res.Enclosure.Width, v.ViewWidth)
		res.Enclosure.Height = math.Max(res.Enclosure.Height, v.ViewLength)
		res.Enclosure.Depth = math.Max(res.Enclosure.Depth, v.Depth())
	}
	if eligible > 0 {
		res.Root.Add(c.track(c.enclosure(d, valid, eligible, res.Enclosure)))
	}

	// 第二遍：按源顺序逐个组合视图
	for i, v := range d.Parent {
		if !valid[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, c.abort(res, err)
		}
		group, err := c.composeView(ctx, v, &res.Views[i], res)
		if err != nil {
			group.Dispose()
			return nil, c.abort(res, err)
		}
		res.Root.Add(c.track(group))
		res.Views[i].advance(Attached)
		c.log.Debug("视图已挂载", "view", string(v.View), "tooltip", v.Tooltip, "modules", res.Views[i].Modules)
	}
	c.log.Debug("设备组合完成", "views", res.AttachedViews(), "issues", len(res.Issues))
	return res, nil
}

func (c *composer) abort(res *Result, err error) error {
	res.Dispose()
	return fmt.Errorf("组合被中止: %w", err)
}

func (c *composer) report(res *Result, view *ViewReport, is Issue) {
	if view != nil {
		view.Issues = append(view.Issues, is)
	}
	res.Issues = append(res.Issues, is)
	attrs := make([]any, 0, 10)
	if view != nil {
		attrs = append(attrs, "view", view.Tooltip+"-"+string(view.Face))
	}
	if is.Module != "" {
		attrs = append(attrs, "module", is.Module)
	}
	attrs = append(attrs, "node", is.Subject, "stage", string(is.Stage), "err", is.Err)
	c.log.Warn("已跳过", attrs...)
}

// enclosure builds the shared panels from the device maxima. The rear
// panel closes the box only when a single view is present; it sits on the
// side opposite that view.
func (c *composer) enclosure(d *device.Device, valid []bool, eligible int, fp placement.Footprint) *scene.Node {
	tooltip := ""
	var only device.Face
	for i, v := range d.Parent {
		if valid[i] {
			if tooltip == "" {
				tooltip = v.Tooltip
			}
			only = v.View
		}
	}
	name := func(side string) string {
		return render(c.names.Panel, "tooltip", tooltip, "side", side)
	}
	g := scene.NewGroup("Enclosure")
	g.Add(boxSides(name, fp.Width, fp.Height, fp.Depth, panelGrey, panelSide)...)
	if eligible == 1 {
		back := only.Opposite()
		z := -fp.Depth / 2
		if only == device.Rear {
			z = fp.Depth / 2
		}
		g.Add(panel(name(string(back)), fp.Width, fp.Height, panelRear, scene.Vec3{Z: z}, scene.Vec3{}))
	}
	return g
}

// composeView walks one view through its states. The returned group is
// non-nil even on error so that the caller can release it.
func (c *composer) composeView(ctx context.Context, v device.View, rep *ViewReport, res *Result) (*scene.Node, error) {
	group := scene.NewGroup(render(c.names.View, "tooltip", v.Tooltip, "view", string(v.View), "details", details(v.Details)))
	depth := v.Depth()
	faceZ := depth / 2
	if v.View == device.Rear {
		faceZ = -faceZ
	}

	// Pending → FaceBuilt
	faceName := render(c.names.Face, "tooltip", v.Tooltip, "view", string(v.View), "details", details(v.Details))
	face, issues := c.buildFace(v.SVGFile, faceName, v.ViewWidth, v.ViewLength, v.View == device.Rear)
	for _, is := range issues {
		c.report(res, rep, is)
	}
	if face != nil {
		face.Position.Z += faceZ
		group.Add(face)
	}
	if label := c.viewLabel(v, faceZ, rep, res); label != nil {
		group.Add(label)
	}
	rep.advance(FaceBuilt)

	// FaceBuilt → EnclosureBuilt：面板已按第一遍求得的最大尺寸建好
	rep.advance(EnclosureBuilt)

	// EnclosureBuilt → ModulesComposed
	modules, err := c.composeModules(ctx, v, rep, res)
	if err != nil {
		return group, err
	}
	group.Add(modules...)
	rep.Modules = len(modules)
	rep.advance(ModulesComposed)
	return group, nil
}

// buildFace normalizes, renders and fits one face drawing to w×h, centered
// on the origin. A nil node with issues means the face is missing.
func (c *composer) buildFace(raw, name string, w, h float64, rear bool) (*scene.Node, []Issue) {
	doc, err := c.opts.Normalizer.Normalize(raw)
	if err != nil {
		return nil, []Issue{newIssue(name, StageNormalize, err)}
	}
	node, err := c.opts.Renderer.RenderFace(doc, renderer.FaceSpec{Name: name, Width: w, Height: h})
	if err != nil {
		var re *renderer.RasterizationError
		if !errors.As(err, &re) {
			err = &renderer.RasterizationError{Face: name, Err: err}
		}
		return nil, []Issue{newIssue(name, StageRender, err)}
	}
	node.Name = name

	var issues []Issue
	sx, sy, err := scene.FitScale(name, scene.Measure(node), w, h)
	if err != nil {
		issues = append(issues, newIssue(name, StageFit, err))
	}
	node.Scale = scene.Vec3{X: node.Scale.X * sx, Y: node.Scale.Y * sy, Z: node.Scale.Z}
	if rear {
		node.Rotation.Y += math.Pi
	}
	scene.Recenter(node)
	return node, issues
}

// viewLabel builds the detail box above (Front) or below (Rear) the face.
func (c *composer) viewLabel(v device.View, faceZ float64, rep *ViewReport, res *Result) *scene.Node {
	if len(v.Details) == 0 {
		return nil
	}
	text, ok := v.Details[0].Text()
	if !ok {
		return nil
	}
	role, y := "Top", v.ViewLength/2+viewLabelSize/2
	if v.View == device.Rear {
		role, y = "Bottom", -y
	}
	name := render(c.names.Label, "role", role, "details", details(v.Details))
	tex := c.labelTexture(name, text, viewLabelBackground, rep, res)
	box := labelBox(name, viewLabelSize, viewLabelSize, viewLabelDepth, viewLabelBackground, tex, true)
	box.Position = scene.Vec3{Y: y, Z: faceZ}
	return box
}

func (c *composer) labelTexture(name, text string, bg color.RGBA, rep *ViewReport, res *Result) *scene.Texture {
	if c.opts.Labeler == nil {
		return nil
	}
	tex, err := c.opts.Labeler.LabelTexture(text, bg)
	if err != nil {
		c.report(res, rep, newIssue(name, StageLabel, err))
		return nil
	}
	return tex
}

// composeModules composes every module of v concurrently and returns the
// successfully built module groups in source order.
func (c *composer) composeModules(ctx context.Context, v device.View, rep *ViewReport, res *Result) ([]*scene.Node, error) {
	if len(v.Mounted) == 0 {
		return nil, nil
	}
	parentScale, err := v.ModuleScale()
	if err != nil {
		c.report(res, rep, newIssue(v.Tooltip, StageModule, err))
		return nil, nil
	}
	parent := placement.Footprint{Width: v.ViewWidth, Height: v.ViewLength, Depth: v.Depth()}

	results := make([]moduleResult, len(v.Mounted))
	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Concurrency > 0 {
		g.SetLimit(c.opts.Concurrency)
	}
	for i, m := range v.Mounted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.composeModule(m, v.View, parent, parentScale)
			return nil
		})
	}
	waitErr := g.Wait()

	var nodes []*scene.Node
	for i, r := range results {
		for _, is := range r.issues {
			is.Module = v.Mounted[i].ToolTip
			c.report(res, rep, is)
		}
		if r.node != nil {
			nodes = append(nodes, r.node)
		}
	}
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		for _, n := range nodes {
			n.Dispose()
		}
		return nil, waitErr
	}
	return nodes, nil
}

// track registers every geometry and texture of an attached sub-graph.
func (c *composer) track(root *scene.Node) *scene.Node {
	if c.opts.Tracker == nil {
		return root
	}
	seen := map[*scene.Texture]bool{}
	root.Walk(func(n *scene.Node) {
		c.opts.Tracker.Geometry(n.Geometry)
		for _, m := range n.Materials {
			if m != nil && m.Map != nil && !seen[m.Map] {
				seen[m.Map] = true
				c.opts.Tracker.Texture(m.Map)
			}
		}
	})
	return root
}
