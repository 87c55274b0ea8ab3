package resolver

// Layer identifies one level of the precedence chain. Later layers override
// earlier ones; the fold applies them in the order returned by Layers.
type Layer string

const (
	// LayerSchemaDefault holds per-property defaults declared in the
	// component schema, beneath everything else.
	LayerSchemaDefault Layer = "schema-default"
	// LayerFallback holds the hardcoded, environment-independent safety net.
	LayerFallback Layer = "fallback"
	// LayerPlatform holds values sourced from platform settings (env vars).
	LayerPlatform Layer = "platform"
	// LayerEnvironment holds per-environment defaults (dev, staging, prod).
	LayerEnvironment Layer = "environment"
	// LayerCompliance holds compliance-framework defaults.
	LayerCompliance Layer = "compliance"
	// LayerSpec holds the developer's explicit spec override, highest wins.
	LayerSpec Layer = "spec"
	// LayerDerived marks keys written by post-merge normalization rather
	// than any input layer.
	LayerDerived Layer = "derived"
)

func (l Layer) String() string {
	return string(l)
}

// Layers returns the precedence chain lowest to highest. LayerDerived is not
// part of the fold; it only appears in provenance.
func Layers() []Layer {
	return []Layer{
		LayerSchemaDefault,
		LayerFallback,
		LayerPlatform,
		LayerEnvironment,
		LayerCompliance,
		LayerSpec,
	}
}
