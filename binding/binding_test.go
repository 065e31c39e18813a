package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"tooltip": "Switch A",
		"view":    "Front",
		"details": []any{map[string]any{"data": 42}},
	}
	tests := []struct {
		in, want string
	}{
		{"${tooltip}-${view}", "Switch A-Front"},
		{"Detail Data ${ details[0].data }", "Detail Data 42"},
		{"${missing}", "${missing}"},
		{"${details[3].data}", "${details[3].data}"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpolate(tt.in, data), tt.in)
	}
	assert.Equal(t, "${x}", Interpolate("${x}", nil))
}

func TestTemplateWithStringMap(t *testing.T) {
	tpl := Template("Blank Box ${tooltip} - ${side}")
	got := tpl.Render(map[string]string{"tooltip": "Chassis", "side": "Top"})
	assert.Equal(t, "Blank Box Chassis - Top", got)
	assert.Equal(t, []string{"tooltip", "side"}, tpl.Fields())
}

func TestTemplateCheck(t *testing.T) {
	require.NoError(t, Template("${tooltip}-${view}").Check("tooltip", "view"))
	require.NoError(t, Template("static").Check())
	err := Template("${tooltip}-${slot}").Check("tooltip", "view")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "${slot}")
}
