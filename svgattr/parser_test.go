package svgattr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/devscene/svgattr"
)

func TestParseStyle(t *testing.T) {
	st, err := svgattr.ParseStyle("fill:#FF0000; font-size: 12px;font-family:'Arial', sans-serif;;")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", st["fill"])
	assert.Equal(t, "12px", st["font-size"])
	assert.Equal(t, "'arial', sans-serif", st["font-family"])
}

func TestParseStyleEmpty(t *testing.T) {
	st, err := svgattr.ParseStyle("  ")
	require.NoError(t, err)
	assert.Empty(t, st)
}

func TestParseTransform(t *testing.T) {
	cases := []struct {
		in   string
		x, y float64
	}{
		{"translate(10, 20)", 11, 21},
		{"translate(10)", 11, 1},
		{"scale(2)", 2, 2},
		{"translate(5,5) scale(2 3)", 7, 8},
		{"matrix(1 0 0 1 -1 -2)", 0, -1},
		{"rotate(90)", -1, 1},
		{"rotate(90 1 0)", 0, 0},
		{"skewX(45)", 2, 1},
		{"skewY(45)", 1, 2},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := svgattr.ParseTransform(tc.in)
			require.NoError(t, err)
			p := m.Dot(canvas.Point{X: 1, Y: 1})
			assert.InDelta(t, tc.x, p.X, 1e-9)
			assert.InDelta(t, tc.y, p.Y, 1e-9)
		})
	}
}

func TestParseTransformRejectsUnknown(t *testing.T) {
	_, err := svgattr.ParseTransform("warp(1)")
	require.Error(t, err)
}

func TestParseLength(t *testing.T) {
	v, unit, ok := svgattr.ParseLength("12.5px")
	require.True(t, ok)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, "px", unit)

	v, unit, ok = svgattr.ParseLength("9")
	require.True(t, ok)
	assert.Equal(t, 9.0, v)
	assert.Equal(t, "", unit)

	_, _, ok = svgattr.ParseLength("px")
	assert.False(t, ok)
}

func TestMatrixString(t *testing.T) {
	m, err := svgattr.ParseTransform("translate(10 0) scale(2)")
	require.NoError(t, err)
	assert.Equal(t, "matrix(2 0 0 2 10 0)", svgattr.MatrixString(m))
	assert.Equal(t, "matrix(1 0 0 1 0 0)", svgattr.MatrixString(canvas.Identity))
}
