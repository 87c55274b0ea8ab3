package core

import (
	"fmt"

	"dario.cat/mergo"
)

// ComponentSpec is one component entry as authored by a developer: a name,
// a type discriminator and a partial configuration. Config may be nil; every
// key it does carry overrides all default layers.
type ComponentSpec struct {
	Name   string         `json:"name"             yaml:"name"             mapstructure:"name"`
	Type   ComponentType  `json:"type"             yaml:"type"             mapstructure:"type"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty" mapstructure:"config"`
}

// Validate checks the spec envelope. The Config payload itself is validated
// later against the component schema.
func (s *ComponentSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("component spec: name is required")
	}
	if s.Type == "" {
		return fmt.Errorf("component spec %q: type is required", s.Name)
	}
	return nil
}

// Merge overlays other onto s. Struct fields follow override semantics; the
// Config maps are deep-merged so a manifest-level defaults block can sit
// beneath the authored override keys.
func (s *ComponentSpec) Merge(other any) error {
	otherSpec, ok := other.(*ComponentSpec)
	if !ok {
		return fmt.Errorf("failed to merge component spec: %v", other)
	}
	mergedConfig := DeepMergeMaps(s.Config, otherSpec.Config)
	if err := mergo.Merge(s, otherSpec, mergo.WithOverride); err != nil {
		return err
	}
	s.Config = mergedConfig
	return nil
}

// Clone returns a deep copy of the spec.
func (s *ComponentSpec) Clone() (*ComponentSpec, error) {
	if s == nil {
		return nil, nil
	}
	return DeepCopy(s)
}

// AsMap converts the spec into its generic map form.
func (s *ComponentSpec) AsMap() (map[string]any, error) {
	return AsMapDefault(s)
}

// FromMap populates the spec from generic data, as produced by a YAML or
// flag parse.
func (s *ComponentSpec) FromMap(data any) error {
	parsed, err := FromMapDefault[*ComponentSpec](data)
	if err != nil {
		return err
	}
	return s.Merge(parsed)
}
