package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopy(t *testing.T) {
	t.Run("Should copy nested maps without aliasing", func(t *testing.T) {
		src := map[string]any{
			"signing": map[string]any{"keyless": true},
			"tags":    []any{"a", "b"},
		}
		copied, err := DeepCopy(src)
		require.NoError(t, err)
		copied["signing"].(map[string]any)["keyless"] = false
		assert.Equal(t, true, src["signing"].(map[string]any)["keyless"])
	})
	t.Run("Should return zero value for nil map", func(t *testing.T) {
		var src map[string]any
		copied, err := DeepCopy(src)
		require.NoError(t, err)
		assert.Nil(t, copied)
	})
	t.Run("Should copy structs by value graph", func(t *testing.T) {
		src := &ComponentSpec{
			Name:   "pipeline",
			Type:   ComponentDeploymentBundle,
			Config: map[string]any{"fipsMode": true},
		}
		copied, err := DeepCopy(src)
		require.NoError(t, err)
		copied.Config["fipsMode"] = false
		assert.Equal(t, true, src.Config["fipsMode"])
	})
}
