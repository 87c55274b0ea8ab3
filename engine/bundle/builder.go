package bundle

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/engine/resolver"
	"github.com/gantryhq/gantry/engine/schema"
)

var definition = schema.NewDefinition(Doc())

// component wires the deployment-bundle layer tables into the shared
// resolution driver.
type component struct{}

func (component) ComponentType() core.ComponentType {
	return core.ComponentDeploymentBundle
}

func (component) Definition() *schema.Definition {
	return definition
}

func (component) FallbackDefaults() map[string]any {
	return fallbackDefaults()
}

func (component) PlatformDefaults(settings *platform.Settings) map[string]any {
	return platformDefaults(settings)
}

func (component) EnvironmentDefaults(env core.Environment) map[string]any {
	return environmentDefaults(env)
}

func (component) ComplianceDefaults(framework core.ComplianceFramework) map[string]any {
	return complianceDefaults(framework)
}

// Normalize injects the context discriminators and derives registry
// coordinates: service falls back to the context service name, repo paths
// to conventional paths under the artifactory host.
func (component) Normalize(req *resolver.Request, merged map[string]any) error {
	merged["environment"] = req.Context.Environment.String()
	merged["complianceFramework"] = req.Context.EffectiveComplianceFramework().String()
	if _, ok := merged["service"]; !ok {
		merged["service"] = req.Context.ServiceName
	}
	host, hasHost := merged["artifactoryHost"].(string)
	if hasHost && host != "" {
		if _, ok := merged["ociRepoBundles"]; !ok {
			merged["ociRepoBundles"] = host + "/bundles"
		}
		if _, ok := merged["ociRepoImages"]; !ok {
			merged["ociRepoImages"] = host + "/images"
		}
	}
	return nil
}

// ValidateResolved applies the semantic rules that the structural schema
// cannot express.
func (c component) ValidateResolved(ctx context.Context, req *resolver.Request, cfg *Config) error {
	if err := resolver.StructTagViolation(ctx, c.ComponentType(), req.Spec.Name, cfg); err != nil {
		return err
	}
	if err := validateHostAuthority(c.ComponentType(), req.Spec.Name, "artifactoryHost", cfg.ArtifactoryHost); err != nil {
		return err
	}
	return validateSigning(c.ComponentType(), req.Spec.Name, &cfg.Signing)
}

// validateSigning enforces the exactly-one rule between keyless and
// KMS-based signing.
func validateSigning(componentType core.ComponentType, specName string, signing *SigningConfig) error {
	switch {
	case signing.Keyless && signing.KMSKeyID != "":
		return resolver.NewValidationError(
			resolver.KindMutualExclusionViolation, componentType, specName,
			"signing", "Cannot specify both keyless and KMS-based signing",
		)
	case !signing.Keyless && signing.KMSKeyID == "":
		return resolver.NewValidationError(
			resolver.KindMutualExclusionViolation, componentType, specName,
			"signing", "Must specify either keyless or KMS-based signing",
		)
	}
	return nil
}

// validateHostAuthority rejects host values that do not parse as a bare URL
// authority.
func validateHostAuthority(componentType core.ComponentType, specName, field, host string) error {
	parsed, err := url.Parse("//" + host)
	if err != nil || parsed.Host != host || parsed.Path != "" {
		return resolver.NewValidationError(
			resolver.KindSchemaViolation, componentType, specName,
			field, fmt.Sprintf("%q is not a valid host", host),
		)
	}
	return nil
}

// Build resolves one deployment-bundle spec.
func Build(ctx context.Context, req *resolver.Request) (*resolver.Resolved[Config], error) {
	return resolver.Build[Config](ctx, component{}, req)
}

// Register adds the deployment-bundle definition to a catalog.
func Register(r *registry.Registry) error {
	return r.Register(&registry.Definition{
		Type:        core.ComponentDeploymentBundle,
		Description: "Signed, scanned deployment bundle pipeline",
		Schema:      definition,
		Build: func(ctx context.Context, req *resolver.Request) (resolver.Resolution, error) {
			return Build(ctx, req)
		},
	})
}
