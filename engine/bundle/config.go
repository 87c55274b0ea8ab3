package bundle

import (
	"time"

	"github.com/gantryhq/gantry/engine/core"
)

// Config is the fully resolved deployment-bundle pipeline configuration.
// Downstream synthesis reads it; nothing mutates it after resolution.
type Config struct {
	Service             string                   `json:"service"                 yaml:"service"                 mapstructure:"service"                 validate:"required"`
	VersionTag          string                   `json:"versionTag"              yaml:"versionTag"              mapstructure:"versionTag"              validate:"required"`
	Environment         core.Environment         `json:"environment"             yaml:"environment"             mapstructure:"environment"             validate:"required"`
	ComplianceFramework core.ComplianceFramework `json:"complianceFramework"     yaml:"complianceFramework"     mapstructure:"complianceFramework"     validate:"required"`
	ArtifactoryHost     string                   `json:"artifactoryHost"         yaml:"artifactoryHost"         mapstructure:"artifactoryHost"         validate:"required"`
	OCIRepoBundles      string                   `json:"ociRepoBundles"          yaml:"ociRepoBundles"          mapstructure:"ociRepoBundles"          validate:"required"`
	OCIRepoImages       string                   `json:"ociRepoImages"           yaml:"ociRepoImages"           mapstructure:"ociRepoImages"           validate:"required"`
	FipsMode            bool                     `json:"fipsMode"                yaml:"fipsMode"                mapstructure:"fipsMode"`
	ScanTimeout         time.Duration            `json:"scanTimeout"             yaml:"scanTimeout"             mapstructure:"scanTimeout"`
	Signing             SigningConfig            `json:"signing"                 yaml:"signing"                 mapstructure:"signing"`
	Security            SecurityConfig           `json:"security"                yaml:"security"                mapstructure:"security"`
	Bundle              ArtifactConfig           `json:"bundle"                  yaml:"bundle"                  mapstructure:"bundle"`
}

// SigningConfig selects exactly one signing mode: keyless via the sigstore
// endpoints, or a KMS-held key.
type SigningConfig struct {
	Keyless   bool   `json:"keyless"             yaml:"keyless"             mapstructure:"keyless"`
	KMSKeyID  string `json:"kmsKeyId,omitempty"  yaml:"kmsKeyId,omitempty"  mapstructure:"kmsKeyId"`
	FulcioURL string `json:"fulcioUrl"           yaml:"fulcioUrl"           mapstructure:"fulcioUrl"  validate:"omitempty,url"`
	RekorURL  string `json:"rekorUrl"            yaml:"rekorUrl"            mapstructure:"rekorUrl"   validate:"omitempty,url"`
}

// SecurityConfig is the vulnerability-scan policy.
type SecurityConfig struct {
	FailOnCritical bool `json:"failOnCritical" yaml:"failOnCritical" mapstructure:"failOnCritical"`
	OnlyFixed      bool `json:"onlyFixed"      yaml:"onlyFixed"      mapstructure:"onlyFixed"`
	AddCpesIfNone  bool `json:"addCpesIfNone"  yaml:"addCpesIfNone"  mapstructure:"addCpesIfNone"`
}

// ArtifactConfig shapes the produced bundle artifact.
type ArtifactConfig struct {
	IncludeCdkOutput bool   `json:"includeCdkOutput" yaml:"includeCdkOutput" mapstructure:"includeCdkOutput"`
	IncludeSbom      bool   `json:"includeSbom"      yaml:"includeSbom"      mapstructure:"includeSbom"`
	Compression      string `json:"compression"      yaml:"compression"      mapstructure:"compression"`
	RetentionDays    int    `json:"retentionDays"    yaml:"retentionDays"    mapstructure:"retentionDays" validate:"omitempty,min=1"`
}
