package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z")
}

func TestMeasurePlaneAndBox(t *testing.T) {
	plane := NewMeshNode("face", NewPlane(100, 50))
	box := Measure(plane)
	assertVec(t, Vec3{-50, -25, 0}, box.Min)
	assertVec(t, Vec3{50, 25, 0}, box.Max)

	cube := NewMeshNode("cube", NewBox(2, 4, 6))
	cube.Position = Vec3{10, 0, 0}
	box = Measure(cube)
	assertVec(t, Vec3{9, -2, -3}, box.Min)
	assertVec(t, Vec3{11, 2, 3}, box.Max)
}

func TestMeasureNestedTransforms(t *testing.T) {
	root := NewGroup("root")
	root.Scale = Vec3{2, 2, 2}
	child := NewMeshNode("child", NewPlane(10, 10))
	child.Position = Vec3{5, 0, 0}
	root.Add(child, nil)
	require.Len(t, root.Children, 1)

	box := Measure(root)
	assertVec(t, Vec3{0, -10, 0}, box.Min)
	assertVec(t, Vec3{20, 10, 0}, box.Max)
}

func TestMeasureRotationY(t *testing.T) {
	n := NewMeshNode("rear", NewBox(10, 2, 4))
	n.Position = Vec3{0, 0, 5}
	n.Rotation = Vec3{Y: math.Pi / 2}
	box := Measure(n)
	assertVec(t, Vec3{-2, -1, 0}, box.Min)
	assertVec(t, Vec3{2, 1, 10}, box.Max)
}

func TestMeasureIsDeterministic(t *testing.T) {
	build := func() *Node {
		g := NewGroup("g")
		a := NewMeshNode("a", NewMesh([]Vec3{{0, 0, 0}, {3, 1, 0}, {1, 4, 2}}, []uint32{0, 1, 2}))
		a.Rotation = Vec3{0.3, 0.2, 0.1}
		g.Add(a, NewMeshNode("b", NewPlane(1, 1)))
		return g
	}
	first := Measure(build())
	second := Measure(build())
	assert.Equal(t, first, second)
}

func TestEmptyBox(t *testing.T) {
	box := Measure(NewGroup("empty"))
	assert.True(t, box.IsEmpty())
	assert.Equal(t, Vec3{}, box.Size())
	assert.Equal(t, Vec3{}, Recenter(NewGroup("empty")))
}

func TestFitScale(t *testing.T) {
	box := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{200, 100, 0}}
	sx, sy, err := FitScale("face", box, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.5, sx)
	assert.Equal(t, 0.5, sy)

	flat := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{10, 0, 0}}
	sx, sy, err = FitScale("line", flat, 100, 50)
	var dg *DegenerateGeometryError
	require.True(t, errors.As(err, &dg))
	assert.Equal(t, "line", dg.Subject)
	assert.Equal(t, 10.0, sx)
	assert.Equal(t, 1.0, sy)

	_, _, err = FitScale("none", EmptyBox(), 100, 50)
	require.Error(t, err)
}

func TestRecenter(t *testing.T) {
	g := NewGroup("g")
	p := NewMeshNode("p", NewPlane(4, 2))
	p.Position = Vec3{10, 5, 1}
	g.Add(p)

	off := Recenter(g)
	assertVec(t, Vec3{-10, -5, -1}, off)
	c := Measure(g).Center()
	assertVec(t, Vec3{}, c)
}

func TestDisposeOnceAndTracker(t *testing.T) {
	tr := NewTracker()
	tex := tr.Texture(NewTexture(2, 2, []byte{1, 2, 3}))
	label := NewMeshNode("label", tr.Geometry(NewBox(1, 1, 1)),
		&Material{Color: "#ffffff", Opacity: 1},
		&Material{Map: tex, Opacity: 1},
		&Material{Map: tex, Opacity: 1},
	)
	root := NewGroup("root")
	root.Add(label, NewMeshNode("face", tr.Geometry(NewPlane(1, 1))))
	assert.Equal(t, 3, tr.Live())

	root.Dispose()
	root.Dispose()
	label.Dispose()

	assert.Equal(t, 0, tr.Live())
	assert.Equal(t, 3, tr.Released())
	assert.True(t, tex.Released())
	assert.True(t, root.Disposed())
	assert.True(t, label.Disposed())
}

func TestNilTrackerIsUsable(t *testing.T) {
	var tr *Tracker
	g := tr.Geometry(NewPlane(1, 1))
	g.Release()
	assert.True(t, g.Released())
	assert.Zero(t, tr.Live())
}

func TestFind(t *testing.T) {
	root := NewGroup("Device")
	view := NewGroup("Box-Front")
	view.Add(NewGroup("Detail Data Top"))
	root.Add(view)
	assert.Same(t, view, root.Find("Box-Front"))
	assert.NotNil(t, root.Find("Detail Data Top"))
	assert.Nil(t, root.Find("missing"))
}

func TestExport(t *testing.T) {
	root := NewGroup("Device")
	face := NewMeshNode("Box-Front", NewPlane(10, 5), &Material{
		Color: "#ffffff", Opacity: 1, Map: NewTexture(1, 1, []byte{0x89, 'P', 'N', 'G'}),
	})
	face.Position = Vec3{0, 0, 2.5}
	face.RenderOrder = 3
	root.Add(face)

	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, root))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "Device", decoded["name"])
	assert.Len(t, decoded["children"], 1)

	var cb bytes.Buffer
	require.NoError(t, WriteCBOR(&cb, root))
	back, err := ReadCBOR(&cb)
	require.NoError(t, err)
	require.Len(t, back.Children, 1)
	got := back.Children[0]
	assert.Equal(t, "Box-Front", got.Name)
	assert.Equal(t, 3, got.RenderOrder)
	assert.Equal(t, face.Geometry.ID, got.Geometry.ID)
	assert.Equal(t, face.Materials[0].Map.PNG, got.Materials[0].Map.PNG)
	assert.Equal(t, Measure(root), Measure(back))

	assert.NoError(t, WriteJSON(&js, nil))
}
