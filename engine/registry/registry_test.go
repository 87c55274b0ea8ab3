package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/resolver"
	"github.com/gantryhq/gantry/engine/schema"
)

func testDefinition(componentType core.ComponentType) *Definition {
	return &Definition{
		Type:        componentType,
		Description: "test component",
		Schema:      schema.NewDefinition(schema.Schema{"type": "object"}),
		Build: func(_ context.Context, _ *resolver.Request) (resolver.Resolution, error) {
			return nil, nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Should register and return a definition", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(testDefinition("widget")))
		def, err := reg.Get("widget")
		require.NoError(t, err)
		assert.Equal(t, core.ComponentType("widget"), def.Type)
	})
	t.Run("Should reject a duplicate type", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(testDefinition("widget")))
		err := reg.Register(testDefinition("widget"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})
	t.Run("Should reject incomplete definitions", func(t *testing.T) {
		reg := New()

		missingType := testDefinition("")
		assert.Error(t, reg.Register(missingType))

		missingSchema := testDefinition("widget")
		missingSchema.Schema = nil
		assert.Error(t, reg.Register(missingSchema))

		missingBuild := testDefinition("widget")
		missingBuild.Build = nil
		assert.Error(t, reg.Register(missingBuild))

		assert.Error(t, reg.Register(nil))
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Run("Should name the known types for an unknown lookup", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(testDefinition("widget")))
		require.NoError(t, reg.Register(testDefinition("gadget")))
		_, err := reg.Get("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown component type "missing"`)
		assert.Contains(t, err.Error(), "gadget, widget")
	})
	t.Run("Should list definitions in registration order", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(testDefinition("widget")))
		require.NoError(t, reg.Register(testDefinition("gadget")))
		defs := reg.List()
		require.Len(t, defs, 2)
		assert.Equal(t, core.ComponentType("widget"), defs[0].Type)
		assert.Equal(t, core.ComponentType("gadget"), defs[1].Type)
	})
	t.Run("Should sort known type names", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(testDefinition("widget")))
		require.NoError(t, reg.Register(testDefinition("gadget")))
		assert.Equal(t, []string{"gadget", "widget"}, reg.Known())
	})
}
