package core

import (
	"fmt"
	"regexp"

	"dario.cat/mergo"
)

var serviceNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ComponentContext carries the service-level facts a resolution runs under.
// It is read-only for the duration of a build; builders never write back
// into it.
type ComponentContext struct {
	ServiceName         string              `json:"serviceName"                   yaml:"serviceName"                   mapstructure:"serviceName"`
	Owner               string              `json:"owner,omitempty"               yaml:"owner,omitempty"               mapstructure:"owner"`
	Environment         Environment         `json:"environment"                   yaml:"environment"                   mapstructure:"environment"`
	ComplianceFramework ComplianceFramework `json:"complianceFramework,omitempty" yaml:"complianceFramework,omitempty" mapstructure:"complianceFramework"`
	Region              string              `json:"region,omitempty"              yaml:"region,omitempty"              mapstructure:"region"`
	AccountID           string              `json:"accountId,omitempty"           yaml:"accountId,omitempty"           mapstructure:"accountId"`
	Tags                map[string]string   `json:"tags,omitempty"                yaml:"tags,omitempty"                mapstructure:"tags"`
}

// EffectiveComplianceFramework resolves the framework the compliance layer
// uses: an unset framework means the commercial baseline.
func (c *ComponentContext) EffectiveComplianceFramework() ComplianceFramework {
	if c.ComplianceFramework == "" {
		return ComplianceCommercial
	}
	return c.ComplianceFramework
}

// Validate checks the context fields that every component build depends on.
// Environment and framework values outside the known sets are deliberately
// not rejected here; they resolve to empty default layers and fail schema
// validation with the offending value in the message.
func (c *ComponentContext) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("component context: serviceName is required")
	}
	if !serviceNameRe.MatchString(c.ServiceName) {
		return fmt.Errorf("component context: serviceName %q must match %s", c.ServiceName, serviceNameRe.String())
	}
	if c.Environment == "" {
		return fmt.Errorf("component context: environment is required")
	}
	return nil
}

// Clone returns a deep copy of the context.
func (c *ComponentContext) Clone() (*ComponentContext, error) {
	if c == nil {
		return nil, nil
	}
	return DeepCopy(c)
}

// Merge overlays non-zero fields of other onto c. Used by the CLI to apply
// --context key=value overrides on top of a manifest-derived context.
func (c *ComponentContext) Merge(other *ComponentContext) error {
	if other == nil {
		return nil
	}
	return mergo.Merge(c, other, mergo.WithOverride)
}
