package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentSpec_Validate(t *testing.T) {
	t.Run("Should pass with name and type", func(t *testing.T) {
		spec := &ComponentSpec{Name: "pipeline", Type: ComponentDeploymentBundle}
		assert.NoError(t, spec.Validate())
	})
	t.Run("Should fail without name", func(t *testing.T) {
		spec := &ComponentSpec{Type: ComponentDeploymentBundle}
		err := spec.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})
	t.Run("Should fail without type", func(t *testing.T) {
		spec := &ComponentSpec{Name: "pipeline"}
		err := spec.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type is required")
	})
}

func TestComponentSpec_Merge(t *testing.T) {
	t.Run("Should deep merge config maps", func(t *testing.T) {
		base := &ComponentSpec{
			Name: "pipeline",
			Type: ComponentDeploymentBundle,
			Config: map[string]any{
				"security": map[string]any{"failOnCritical": true, "onlyFixed": false},
			},
		}
		err := base.Merge(&ComponentSpec{
			Config: map[string]any{
				"security": map[string]any{"onlyFixed": true},
			},
		})
		require.NoError(t, err)
		security := base.Config["security"].(map[string]any)
		assert.Equal(t, true, security["failOnCritical"])
		assert.Equal(t, true, security["onlyFixed"])
	})
	t.Run("Should reject non-spec values", func(t *testing.T) {
		base := &ComponentSpec{Name: "pipeline", Type: ComponentDeploymentBundle}
		assert.Error(t, base.Merge("not a spec"))
	})
}

func TestComponentSpec_FromMap(t *testing.T) {
	t.Run("Should decode a yaml-shaped map", func(t *testing.T) {
		spec := &ComponentSpec{}
		err := spec.FromMap(map[string]any{
			"name": "orders",
			"type": "dynamodb-table",
			"config": map[string]any{
				"partitionKey": map[string]any{"name": "pk", "type": "string"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "orders", spec.Name)
		assert.Equal(t, ComponentDynamoDBTable, spec.Type)
		assert.Contains(t, spec.Config, "partitionKey")
	})
}

func TestComponentSpec_Clone(t *testing.T) {
	t.Run("Should not alias the config map", func(t *testing.T) {
		spec := &ComponentSpec{
			Name:   "pipeline",
			Type:   ComponentDeploymentBundle,
			Config: map[string]any{"fipsMode": false},
		}
		clone, err := spec.Clone()
		require.NoError(t, err)
		clone.Config["fipsMode"] = true
		assert.Equal(t, false, spec.Config["fipsMode"])
	})
}
