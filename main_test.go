package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/devscene/scene"
)

const sampleDevice = `{
  "Parent": [{
    "View": "Front",
    "Tooltip": "Switch",
    "ViewWidth": 120,
    "ViewLength": 40,
    "ViewDepth": 30,
    "Scale": 1,
    "SVGFile": "<svg width=\"120\" height=\"40\"><rect width=\"120\" height=\"40\"/><polygon points=\"0,0 120,0 120,40 0,40\" fill=\"#222222\"/></svg>",
    "Mounted": [{
      "ToolTip": "SFP",
      "Scale": 1,
      "SVGFile": "<svg width=\"10\" height=\"8\"><path d=\"M0 0 H10 V8 H0 Z\" fill=\"#cccccc\"/></svg>",
      "ModViewWidth": 10,
      "ModViewLength": 8,
      "SlotViewX": 20,
      "SlotViewY": 10,
      "SlotMountType": "Plug"
    }]
  }]
}`

func writeInput(t *testing.T) (dir, input string) {
	dir = t.TempDir()
	input = filepath.Join(dir, "device.json")
	require.NoError(t, os.WriteFile(input, []byte(sampleDevice), 0o644))
	return dir, input
}

func TestRunWritesSceneAndReport(t *testing.T) {
	dir, input := writeInput(t)
	out := filepath.Join(dir, "out", "scene.json")
	report := filepath.Join(dir, "out", "report.json")

	err := run(context.Background(), cliOptions{input: input, output: out, format: "json", strategy: "mesh", report: report})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var root map[string]any
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Equal(t, "Device", root["name"])

	data, err = os.ReadFile(report)
	require.NoError(t, err)
	var rep struct {
		Views []struct {
			State   string `json:"state"`
			Modules int    `json:"modules"`
		} `json:"views"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Len(t, rep.Views, 1)
	assert.Equal(t, "Attached", rep.Views[0].State)
	assert.Equal(t, 1, rep.Views[0].Modules)
}

func TestRunCBOR(t *testing.T) {
	dir, input := writeInput(t)
	out := filepath.Join(dir, "scene.cbor")
	cfg := filepath.Join(dir, "devscene.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("strategy: mesh\nmesh:\n  extrudeDepth: 1\n"), 0o644))

	require.NoError(t, run(context.Background(), cliOptions{input: input, output: out, format: "cbor", configPath: cfg}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	root, err := scene.ReadCBOR(f)
	require.NoError(t, err)
	assert.NotNil(t, root.Find("Switch-Front"))
	assert.NotNil(t, root.Find("SFP"))
}

func TestRunErrors(t *testing.T) {
	dir, input := writeInput(t)
	out := filepath.Join(dir, "scene.bin")

	err := run(context.Background(), cliOptions{input: filepath.Join(dir, "missing.json"), output: out, format: "json"})
	require.Error(t, err)

	err = run(context.Background(), cliOptions{input: input, output: out, format: "xml", strategy: "mesh"})
	require.Error(t, err)

	err = run(context.Background(), cliOptions{input: input, output: out, format: "json", strategy: "voxel"})
	require.Error(t, err)
}
