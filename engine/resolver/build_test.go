package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/schema"
)

// cacheConfig is a minimal component used to exercise the driver without
// dragging a real component package into the test.
type cacheConfig struct {
	Service     string            `mapstructure:"service"`
	Environment string            `mapstructure:"environment"`
	Endpoint    string            `mapstructure:"endpoint"`
	Tier        string            `mapstructure:"tier"`
	Replication cacheReplication  `mapstructure:"replication"`
	Tags        map[string]string `mapstructure:"tags"`
}

type cacheReplication struct {
	Enabled  bool `mapstructure:"enabled"`
	Replicas int  `mapstructure:"replicas"`
}

type cacheComponent struct {
	definition   *schema.Definition
	semanticErr  error
	environments map[core.Environment]map[string]any
	compliance   map[core.ComplianceFramework]map[string]any
}

func newCacheComponent() *cacheComponent {
	return &cacheComponent{
		definition: schema.NewDefinition(schema.Schema{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"service", "environment", "endpoint"},
			"properties": map[string]any{
				"service":     map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
				"environment": map[string]any{"type": "string", "enum": []string{"dev", "staging", "prod"}},
				"endpoint":    map[string]any{"type": "string"},
				"tier":        map[string]any{"type": "string", "enum": []string{"standard", "premium"}, "default": "standard"},
				"replication": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"enabled":  map[string]any{"type": "boolean", "default": false},
						"replicas": map[string]any{"type": "integer", "default": 1},
					},
				},
				"tags": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
		}),
		environments: map[core.Environment]map[string]any{
			core.EnvProduction: {
				"tier":        "premium",
				"replication": map[string]any{"enabled": true, "replicas": 3},
			},
		},
		compliance: map[core.ComplianceFramework]map[string]any{
			core.ComplianceFedRAMPHigh: {
				"replication": map[string]any{"replicas": 5},
			},
		},
	}
}

func (c *cacheComponent) ComponentType() core.ComponentType {
	return core.ComponentType("cache-cluster")
}

func (c *cacheComponent) Definition() *schema.Definition {
	return c.definition
}

func (c *cacheComponent) FallbackDefaults() map[string]any {
	return map[string]any{
		"replication": map[string]any{"enabled": false},
	}
}

func (c *cacheComponent) PlatformDefaults(settings *platform.Settings) map[string]any {
	if settings == nil || settings.ArtifactoryHost == "" {
		return nil
	}
	return map[string]any{"endpoint": "cache." + settings.ArtifactoryHost}
}

func (c *cacheComponent) EnvironmentDefaults(env core.Environment) map[string]any {
	return c.environments[env]
}

func (c *cacheComponent) ComplianceDefaults(framework core.ComplianceFramework) map[string]any {
	return c.compliance[framework]
}

func (c *cacheComponent) Normalize(req *Request, merged map[string]any) error {
	merged["environment"] = req.Context.Environment.String()
	if _, ok := merged["service"]; !ok {
		merged["service"] = req.Context.ServiceName
	}
	return nil
}

func (c *cacheComponent) ValidateResolved(_ context.Context, req *Request, cfg *cacheConfig) error {
	if c.semanticErr != nil {
		return c.semanticErr
	}
	if cfg.Replication.Enabled && cfg.Replication.Replicas < 1 {
		return NewValidationError(KindCrossFieldInconsistency, c.ComponentType(), req.Spec.Name,
			"replication.replicas", "replication requires at least one replica")
	}
	return nil
}

func testRequest(spec *core.ComponentSpec) *Request {
	return &Request{
		Context: &core.ComponentContext{
			ServiceName: "checkout-api",
			Environment: core.EnvDevelopment,
		},
		Spec: spec,
	}
}

func TestBuild(t *testing.T) {
	t.Run("Should resolve with schema defaults at the bottom", func(t *testing.T) {
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "cache.dev.internal"},
		}))
		require.NoError(t, err)
		assert.Equal(t, "standard", resolved.Config.Tier)
		assert.Equal(t, 1, resolved.Config.Replication.Replicas)
		assert.False(t, resolved.Config.Replication.Enabled)
		assert.Equal(t, "checkout-api", resolved.Config.Service)
		assert.Equal(t, "dev", resolved.Config.Environment)
	})
	t.Run("Should apply environment defaults above fallbacks", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "cache.prod.internal"},
		})
		req.Context.Environment = core.EnvProduction
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		assert.Equal(t, "premium", resolved.Config.Tier)
		assert.True(t, resolved.Config.Replication.Enabled)
		assert.Equal(t, 3, resolved.Config.Replication.Replicas)
	})
	t.Run("Should let compliance override environment but preserve siblings", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "cache.prod.internal"},
		})
		req.Context.Environment = core.EnvProduction
		req.Context.ComplianceFramework = core.ComplianceFedRAMPHigh
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		assert.Equal(t, 5, resolved.Config.Replication.Replicas)
		assert.True(t, resolved.Config.Replication.Enabled, "sibling from environment layer must survive the deeper compliance override")
	})
	t.Run("Should let the spec override everything including explicit false", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name: "session-cache",
			Type: "cache-cluster",
			Config: map[string]any{
				"endpoint":    "cache.prod.internal",
				"replication": map[string]any{"enabled": false},
			},
		})
		req.Context.Environment = core.EnvProduction
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		assert.False(t, resolved.Config.Replication.Enabled)
		assert.Equal(t, 3, resolved.Config.Replication.Replicas, "untouched nested sibling keeps the environment value")
	})
	t.Run("Should draw the platform layer from settings", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{Name: "session-cache", Type: "cache-cluster"})
		req.Settings = &platform.Settings{ArtifactoryHost: "registry.internal"}
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		assert.Equal(t, "cache.registry.internal", resolved.Config.Endpoint)
		layer, ok := resolved.Source("endpoint")
		require.True(t, ok)
		assert.Equal(t, LayerPlatform, layer)
	})
	t.Run("Should be idempotent and leave inputs untouched", func(t *testing.T) {
		spec := &core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "cache.dev.internal"},
		}
		req := testRequest(spec)
		first, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		second, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		assert.Equal(t, first.Config, second.Config)
		assert.Equal(t, first.Raw(), second.Raw())
		assert.Equal(t, map[string]any{"endpoint": "cache.dev.internal"}, spec.Config)
	})
}

func TestBuild_Provenance(t *testing.T) {
	t.Run("Should attribute each key to the layer that provided it", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "cache.prod.internal", "tier": "standard"},
		})
		req.Context.Environment = core.EnvProduction
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)

		expect := map[string]Layer{
			"endpoint":             LayerSpec,
			"tier":                 LayerSpec,
			"replication.enabled":  LayerEnvironment,
			"replication.replicas": LayerEnvironment,
			"service":              LayerDerived,
			"environment":          LayerDerived,
		}
		for path, want := range expect {
			got, ok := resolved.Source(path)
			require.True(t, ok, "path %s", path)
			assert.Equal(t, want, got, "path %s", path)
		}
	})
	t.Run("Should record nested spec keys at their leaf paths", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "e", "tags": map[string]any{"team": "payments"}},
		})
		resolved, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.NoError(t, err)
		layer, ok := resolved.Source("tags.team")
		require.True(t, ok)
		assert.Equal(t, LayerSpec, layer)
		assert.Contains(t, resolved.ProvenancePaths(), "tags.team")
	})
}

func TestBuild_Failures(t *testing.T) {
	t.Run("Should report the first missing required field deterministically", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			_, err := Build[cacheConfig](context.Background(), newCacheComponent(), testRequest(&core.ComponentSpec{
				Name: "session-cache",
				Type: "cache-cluster",
			}))
			require.Error(t, err)
			require.True(t, IsKind(err, KindMissingRequiredField))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "endpoint", verr.Field)
		}
	})
	t.Run("Should reject enum violations as schema violations", func(t *testing.T) {
		_, err := Build[cacheConfig](context.Background(), newCacheComponent(), testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "e", "tier": "gold"},
		}))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchemaViolation))
	})
	t.Run("Should reject unknown keys", func(t *testing.T) {
		_, err := Build[cacheConfig](context.Background(), newCacheComponent(), testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "e", "surprise": true},
		}))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchemaViolation))
	})
	t.Run("Should reject an unknown environment through the schema enum", func(t *testing.T) {
		req := testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "e"},
		})
		req.Context.Environment = core.Environment("qa")
		_, err := Build[cacheConfig](context.Background(), newCacheComponent(), req)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchemaViolation))
	})
	t.Run("Should pass semantic validation errors through untouched", func(t *testing.T) {
		component := newCacheComponent()
		component.semanticErr = NewValidationError(KindMutualExclusionViolation, component.ComponentType(),
			"session-cache", "replication", "irreconcilable options")
		_, err := Build[cacheConfig](context.Background(), component, testRequest(&core.ComponentSpec{
			Name:   "session-cache",
			Type:   "cache-cluster",
			Config: map[string]any{"endpoint": "e"},
		}))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindMutualExclusionViolation))
	})
	t.Run("Should reject a spec routed to the wrong component type", func(t *testing.T) {
		_, err := Build[cacheConfig](context.Background(), newCacheComponent(), testRequest(&core.ComponentSpec{
			Name: "session-cache",
			Type: "dynamodb-table",
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected")
	})
	t.Run("Should reject a request without a context", func(t *testing.T) {
		_, err := Build[cacheConfig](context.Background(), newCacheComponent(), &Request{
			Spec: &core.ComponentSpec{Name: "session-cache", Type: "cache-cluster"},
		})
		require.Error(t, err)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Should format with and without a field", func(t *testing.T) {
		withField := NewValidationError(KindMissingRequiredField, "cache-cluster", "session-cache",
			"endpoint", "required field missing")
		assert.Contains(t, withField.Error(), "at endpoint")

		withoutField := NewValidationError(KindSchemaViolation, "cache-cluster", "session-cache",
			"", "bad shape")
		assert.NotContains(t, withoutField.Error(), " at ")
	})
	t.Run("Should unwrap its cause", func(t *testing.T) {
		cause := fmt.Errorf("decode exploded")
		err := &ValidationError{Kind: KindSchemaViolation, Component: "cache-cluster", Cause: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "decode exploded")
	})
}
