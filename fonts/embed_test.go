package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{"", "embed:regular", "embed:bold"} {
		data, err := Load(src)
		require.NoError(t, err, src)
		assert.NotEmpty(t, data, src)
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("embed:comic")
	require.Error(t, err)
	_, err = Load("/nonexistent/ARIAL.TTF")
	require.Error(t, err)
}

func TestParseCaches(t *testing.T) {
	a, err := Parse("embed:regular")
	require.NoError(t, err)
	b, err := Parse("embed:regular")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Greater(t, int(a.UnitsPerEm()), 0)
}
