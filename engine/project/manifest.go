package project

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/resolver"
)

// Manifest is one parsed service manifest: the shared deployment context
// plus the component entries it declares. Defaults are keyed by component
// type and sit beneath every matching component's own config, above the
// platform default layers.
type Manifest struct {
	ServiceName         string                    `json:"serviceName"                   yaml:"serviceName"                   mapstructure:"serviceName"`
	Owner               string                    `json:"owner,omitempty"               yaml:"owner,omitempty"               mapstructure:"owner"`
	PlatformVersion     string                    `json:"platformVersion,omitempty"     yaml:"platformVersion,omitempty"     mapstructure:"platformVersion"`
	Environment         core.Environment          `json:"environment,omitempty"         yaml:"environment,omitempty"         mapstructure:"environment"`
	ComplianceFramework core.ComplianceFramework  `json:"complianceFramework,omitempty" yaml:"complianceFramework,omitempty" mapstructure:"complianceFramework"`
	Region              string                    `json:"region,omitempty"              yaml:"region,omitempty"              mapstructure:"region"`
	AccountID           string                    `json:"accountId,omitempty"           yaml:"accountId,omitempty"           mapstructure:"accountId"`
	Tags                map[string]string         `json:"tags,omitempty"                yaml:"tags,omitempty"                mapstructure:"tags"`
	Defaults            map[string]map[string]any `json:"defaults,omitempty"            yaml:"defaults,omitempty"            mapstructure:"defaults"`
	Components          []core.ComponentSpec      `json:"components"                    yaml:"components"                    mapstructure:"components"`
}

// Validate checks the manifest envelope: a valid context, a semver platform
// version when one is pinned, and component entries with unique names. The
// component configs themselves are validated during resolution.
func (m *Manifest) Validate() error {
	if err := m.Context().Validate(); err != nil {
		return err
	}
	if m.PlatformVersion != "" {
		if _, err := semver.NewVersion(m.PlatformVersion); err != nil {
			return fmt.Errorf("manifest platformVersion %q must be valid semver: %w", m.PlatformVersion, err)
		}
	}
	if len(m.Components) == 0 {
		return fmt.Errorf("manifest for %q declares no components", m.ServiceName)
	}
	seen := make(map[string]bool, len(m.Components))
	for i := range m.Components {
		spec := &m.Components[i]
		if err := spec.Validate(); err != nil {
			return err
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate component name %q in manifest for %q", spec.Name, m.ServiceName)
		}
		seen[spec.Name] = true
	}
	return nil
}

// Context builds the component context every spec in this manifest resolves
// against.
func (m *Manifest) Context() *core.ComponentContext {
	return &core.ComponentContext{
		ServiceName:         m.ServiceName,
		Owner:               m.Owner,
		Environment:         m.Environment,
		ComplianceFramework: m.ComplianceFramework,
		Region:              m.Region,
		AccountID:           m.AccountID,
		Tags:                m.Tags,
	}
}

// ApplyContext overlays non-zero override fields onto the manifest, used by
// the CLI for ad-hoc --context overrides on top of a loaded manifest.
func (m *Manifest) ApplyContext(override *core.ComponentContext) error {
	if override == nil {
		return nil
	}
	merged := m.Context()
	if err := merged.Merge(override); err != nil {
		return fmt.Errorf("failed to apply context override: %w", err)
	}
	m.ServiceName = merged.ServiceName
	m.Owner = merged.Owner
	m.Environment = merged.Environment
	m.ComplianceFramework = merged.ComplianceFramework
	m.Region = merged.Region
	m.AccountID = merged.AccountID
	m.Tags = merged.Tags
	return nil
}

// Spec returns the named component's spec with the type defaults applied.
func (m *Manifest) Spec(name string) (*core.ComponentSpec, error) {
	for i := range m.Components {
		if m.Components[i].Name == name {
			return m.specWithDefaults(&m.Components[i])
		}
	}
	return nil, fmt.Errorf("component %q not found in manifest for %q", name, m.ServiceName)
}

// Specs returns every component spec with type defaults applied, in
// manifest order.
func (m *Manifest) Specs() ([]*core.ComponentSpec, error) {
	out := make([]*core.ComponentSpec, 0, len(m.Components))
	for i := range m.Components {
		spec, err := m.specWithDefaults(&m.Components[i])
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

// Requests pairs every component spec with the manifest context and the
// given platform settings, ready for resolution.
func (m *Manifest) Requests(settings *platform.Settings) ([]*resolver.Request, error) {
	specs, err := m.Specs()
	if err != nil {
		return nil, err
	}
	out := make([]*resolver.Request, 0, len(specs))
	for _, spec := range specs {
		out = append(out, &resolver.Request{
			Context:  m.Context(),
			Spec:     spec,
			Settings: settings,
		})
	}
	return out, nil
}

func (m *Manifest) specWithDefaults(spec *core.ComponentSpec) (*core.ComponentSpec, error) {
	clone, err := spec.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone component spec %q: %w", spec.Name, err)
	}
	if defaults, ok := m.Defaults[spec.Type.String()]; ok {
		clone.Config = core.DeepMergeMaps(defaults, clone.Config)
	}
	return clone, nil
}
