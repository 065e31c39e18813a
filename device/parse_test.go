package device_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/devscene/device"
)

const sampleDevice = `{
  "Parent": [
    {
      "View": "Front",
      "ViewWidth": 400,
      "ViewLength": 300,
      "ViewDepth": 200,
      "Tooltip": "Switch",
      "Scale": 1,
      "SVGFile": "<svg><\/svg>",
      "Details": [{"Name": "id", "Data1": 42}],
      "Slots": [{"SlotViewX": 10, "SlotViewY": 20, "SlotMountType": "RU", "SlotIndex": 1, "Used": true}],
      "Mounted": [
        {
          "ToolTip": "PSU",
          "Scale": 1,
          "SVGFile": "<svg><\/svg>",
          "OtherSideSVGFile": null,
          "ModViewWidth": 50,
          "ModViewLength": 40,
          "SlotViewX": 10,
          "SlotViewY": 20,
          "SlotViewLength": 5,
          "SlotMountType": "RU",
          "Details": [{"Data2": "OK"}]
        }
      ]
    },
    {
      "View": "Rear",
      "ViewWidth": 400,
      "ViewLength": 300,
      "Tooltip": "Switch",
      "SVGFile": ""
    }
  ]
}`

func TestParseDevice(t *testing.T) {
	dev, err := device.ParseString(sampleDevice)
	require.NoError(t, err)
	require.Len(t, dev.Parent, 2)

	front := dev.Parent[0]
	assert.Equal(t, device.Front, front.View)
	assert.Equal(t, 200.0, front.Depth())
	require.Len(t, front.Slots, 1)
	assert.Equal(t, device.MountRU, front.Slots[0].SlotMountType)

	text, ok := front.Details[0].Text()
	require.True(t, ok)
	assert.Equal(t, "42", text)

	mod := front.Mounted[0]
	assert.False(t, mod.HasBackFace())
	assert.Equal(t, 0.0, mod.Depth(), "absent ModViewDepth resolves to 0")
	text, ok = mod.Details[0].Text()
	require.True(t, ok)
	assert.Equal(t, "OK", text)

	rear := dev.Parent[1]
	assert.Equal(t, 0.0, rear.Depth())
	assert.Empty(t, rear.Mounted)
	assert.Empty(t, rear.Slots)
}

func TestParseRejectsDuplicateFace(t *testing.T) {
	_, err := device.ParseString(`{"Parent":[{"View":"Front","ViewWidth":1,"ViewLength":1},{"View":"Front","ViewWidth":1,"ViewLength":1}]}`)
	require.Error(t, err)
}

func TestParseKeepsUnknownFaceForComposition(t *testing.T) {
	dev, err := device.ParseString(`{"Parent":[{"View":"Side","ViewWidth":1,"ViewLength":1},{"View":"Front","ViewWidth":1,"ViewLength":1}]}`)
	require.NoError(t, err)
	require.Len(t, dev.Parent, 2)

	var ufe *device.UnknownFaceError
	require.ErrorAs(t, dev.Parent[0].Validate(), &ufe)
	assert.Equal(t, device.Face("Side"), ufe.Face)
	assert.NoError(t, dev.Parent[1].Validate())

	// 未知面标签不参与重复检测
	_, err = device.ParseString(`{"Parent":[{"View":"Side"},{"View":"Side"},{"View":"Rear","ViewWidth":1,"ViewLength":1}]}`)
	require.NoError(t, err)
}

func TestEmptyDeviceIsValid(t *testing.T) {
	dev, err := device.ParseString(`{"Parent":[]}`)
	require.NoError(t, err)
	assert.Empty(t, dev.Parent)
}

func TestViewValidateMissingDimension(t *testing.T) {
	cases := []struct {
		name  string
		view  device.View
		field string
	}{
		{"zero width", device.View{View: device.Front, ViewLength: 10}, "ViewWidth"},
		{"negative length", device.View{View: device.Rear, ViewWidth: 10, ViewLength: -1}, "ViewLength"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.view.Validate()
			var mde *device.MissingDimensionError
			require.True(t, errors.As(err, &mde))
			assert.Equal(t, tc.field, mde.Field)
		})
	}
	assert.NoError(t, device.View{View: device.Front, ViewWidth: 1, ViewLength: 1}.Validate())
}

func TestModuleScaleRequired(t *testing.T) {
	_, err := device.View{Tooltip: "x"}.ModuleScale()
	var mde *device.MissingDimensionError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, "Scale", mde.Field)

	two := 2.0
	s, err := device.View{Scale: &two}.ModuleScale()
	require.NoError(t, err)
	assert.Equal(t, 2.0, s)
}

func TestMountedValidate(t *testing.T) {
	m := device.Mounted{ToolTip: "m", ModViewWidth: 10, ModViewLength: 10}
	var mde *device.MissingDimensionError
	require.ErrorAs(t, m.Validate(), &mde)
	assert.Equal(t, "Scale", mde.Field)

	m.Scale = 1
	assert.NoError(t, m.Validate())
}

func TestDetailTextFirstPresentWins(t *testing.T) {
	empty := device.Datum("")
	second := device.Datum("B")
	third := device.Datum("C")
	d := device.Detail{Data1: &empty, Data2: &second, Data3: &third}
	text, ok := d.Text()
	require.True(t, ok)
	assert.Equal(t, "B", text)

	_, ok = device.Detail{}.Text()
	assert.False(t, ok)
}
