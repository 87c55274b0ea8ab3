package resolver

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/schema"
	"github.com/gantryhq/gantry/pkg/logger"
)

// Component is implemented once per component type. The layer methods
// return partial maps in schema shape; unknown environments and frameworks
// must return nil rather than fail, since schema validation is the stage
// that rejects them with a useful message.
type Component[T any] interface {
	ComponentType() core.ComponentType
	Definition() *schema.Definition
	// FallbackDefaults is the hardcoded safety net beneath every
	// environment.
	FallbackDefaults() map[string]any
	// PlatformDefaults contributes only values the platform actually
	// carries, so provenance stays honest about what came from settings.
	PlatformDefaults(settings *platform.Settings) map[string]any
	EnvironmentDefaults(env core.Environment) map[string]any
	ComplianceDefaults(framework core.ComplianceFramework) map[string]any
	// Normalize mutates the merged map after the fold and before
	// validation: context injection, derived names, expansion of shorthand.
	Normalize(req *Request, merged map[string]any) error
	// ValidateResolved runs semantic checks on the decoded config and
	// returns a *ValidationError on rejection.
	ValidateResolved(ctx context.Context, req *Request, cfg *T) error
}

// Request bundles the inputs of one resolution.
type Request struct {
	Context  *core.ComponentContext
	Spec     *core.ComponentSpec
	Settings *platform.Settings
}

func (r *Request) validate() error {
	if r == nil {
		return fmt.Errorf("resolution request is nil")
	}
	if r.Context == nil {
		return fmt.Errorf("resolution request: component context is required")
	}
	if err := r.Context.Validate(); err != nil {
		return err
	}
	if r.Spec == nil {
		return fmt.Errorf("resolution request: component spec is required")
	}
	return r.Spec.Validate()
}

// Build resolves one component spec through the full chain: fold the six
// layers, normalize, then validate fail-fast. It returns either a complete
// Resolved or an error, never both and never a partial result. Inputs are
// not mutated, and no state survives between calls.
func Build[T any](ctx context.Context, c Component[T], req *Request) (*Resolved[T], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Spec.Type != c.ComponentType() {
		return nil, fmt.Errorf("component %q has type %q, expected %q", req.Spec.Name, req.Spec.Type, c.ComponentType())
	}

	def := c.Definition()
	merged, provenance := fold(layerPartials(c, req))

	preNormalize := flattenMap("", merged)
	if err := c.Normalize(req, merged); err != nil {
		return nil, fmt.Errorf("failed to normalize %s %q: %w", c.ComponentType(), req.Spec.Name, err)
	}
	markDerived(provenance, preNormalize, flattenMap("", merged))

	if err := validateMerged(def, c.ComponentType(), req.Spec.Name, merged); err != nil {
		return nil, err
	}

	cfg, err := decodeStrict[T](merged)
	if err != nil {
		return nil, &ValidationError{
			Kind:      KindSchemaViolation,
			Component: c.ComponentType(),
			SpecName:  req.Spec.Name,
			Message:   "resolved configuration does not decode into the component config",
			Cause:     err,
		}
	}
	if err := c.ValidateResolved(ctx, req, &cfg); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("resolved component",
		"type", c.ComponentType(),
		"name", req.Spec.Name,
		"environment", req.Context.Environment,
		"complianceFramework", req.Context.EffectiveComplianceFramework(),
	)
	return &Resolved[T]{
		Config:     cfg,
		component:  c.ComponentType(),
		name:       req.Spec.Name,
		raw:        merged,
		provenance: provenance,
	}, nil
}

type layerPartial struct {
	layer  Layer
	values map[string]any
}

func layerPartials[T any](c Component[T], req *Request) []layerPartial {
	return []layerPartial{
		{LayerSchemaDefault, c.Definition().Defaults()},
		{LayerFallback, c.FallbackDefaults()},
		{LayerPlatform, c.PlatformDefaults(req.Settings)},
		{LayerEnvironment, c.EnvironmentDefaults(req.Context.Environment)},
		{LayerCompliance, c.ComplianceDefaults(req.Context.EffectiveComplianceFramework())},
		{LayerSpec, req.Spec.Config},
	}
}

// fold deep-merges the partials lowest to highest and records, per flattened
// leaf, the layer that provided the winning value.
func fold(partials []layerPartial) (map[string]any, map[string]Layer) {
	merged := map[string]any{}
	provenance := map[string]Layer{}
	for _, partial := range partials {
		if len(partial.values) == 0 {
			continue
		}
		merged = core.DeepMergeMaps(merged, partial.values)
		for path := range flattenMap("", partial.values) {
			recordProvenance(provenance, path, partial.layer)
		}
	}
	return merged, provenance
}

// recordProvenance writes path→layer and drops entries the write made stale:
// descendants of a leaf that replaced a subtree, and any ancestor leaf a new
// subtree replaced.
func recordProvenance(provenance map[string]Layer, path string, layer Layer) {
	prefix := path + "."
	for existing := range provenance {
		if strings.HasPrefix(existing, prefix) {
			delete(provenance, existing)
		}
	}
	for idx := strings.LastIndex(path, "."); idx > 0; idx = strings.LastIndex(path[:idx], ".") {
		delete(provenance, path[:idx])
	}
	provenance[path] = layer
}

// markDerived attributes keys added or changed by Normalize, then prunes
// entries whose leaves no longer exist.
func markDerived(provenance map[string]Layer, before, after map[string]any) {
	for path, value := range after {
		prior, existed := before[path]
		if !existed || !reflect.DeepEqual(prior, value) {
			recordProvenance(provenance, path, LayerDerived)
		}
	}
	for path := range provenance {
		if _, exists := after[path]; !exists {
			delete(provenance, path)
		}
	}
}

// validateMerged is the structural gate: ordered required-path check first
// so the reported missing field is deterministic, then the compiled schema.
func validateMerged(def *schema.Definition, component core.ComponentType, specName string, merged map[string]any) error {
	if path, missing := def.FirstMissingRequired(merged); missing {
		return &ValidationError{
			Kind:      KindMissingRequiredField,
			Component: component,
			SpecName:  specName,
			Field:     path,
			Message:   fmt.Sprintf("required field %q is missing after applying all defaults", path),
		}
	}
	messages, err := def.Evaluate(merged)
	if err != nil {
		return err
	}
	if len(messages) > 0 {
		return &ValidationError{
			Kind:      KindSchemaViolation,
			Component: component,
			SpecName:  specName,
			Message:   strings.Join(messages, "; "),
		}
	}
	return nil
}

// decodeStrict decodes the merged map into the typed config. The unused-key
// guard backstops schema drift: a key the schema admits but the struct does
// not carry fails loudly instead of silently dropping.
func decodeStrict[T any](merged map[string]any) (T, error) {
	var cfg T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(merged); err != nil {
		return cfg, err
	}
	return cfg, nil
}
