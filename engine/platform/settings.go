package platform

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Settings are the process-wide platform values component builders draw
// their platform-default layer from. Site-specific registry coordinates
// carry no literals on purpose: when neither the environment nor the spec
// provides them, required-field validation is what reports them.
type Settings struct {
	// ArtifactoryHost is the OCI registry host bundles and images push to.
	ArtifactoryHost string `koanf:"artifactory_host"           env:"ARTIFACTORY_HOST"           json:"artifactoryHost"           validate:"omitempty,hostname_rfc1123"`
	// OCIRepoBundles is the repository path for deployment bundles.
	OCIRepoBundles string `koanf:"oci_repo_bundles"           env:"OCI_REPO_BUNDLES"           json:"ociRepoBundles"`
	// OCIRepoImages is the repository path for container images.
	OCIRepoImages string `koanf:"oci_repo_images"            env:"OCI_REPO_IMAGES"            json:"ociRepoImages"`

	CosignKeyless  bool   `koanf:"cosign_keyless"             env:"COSIGN_KEYLESS"             json:"cosignKeyless"`
	CosignKMSKeyID string `koanf:"cosign_kms_key_id"          env:"COSIGN_KMS_KEY_ID"          json:"cosignKmsKeyId"          validate:"omitempty,startswith=kms://"`
	FulcioURL      string `koanf:"fulcio_url"                 env:"FULCIO_URL"                 json:"fulcioUrl"               validate:"omitempty,url"`
	RekorURL       string `koanf:"rekor_url"                  env:"REKOR_URL"                  json:"rekorUrl"                validate:"omitempty,url"`

	SecurityFailOnCritical bool `koanf:"security_fail_on_critical"  env:"SECURITY_FAIL_ON_CRITICAL"  json:"securityFailOnCritical"`
	SecurityOnlyFixed      bool `koanf:"security_only_fixed"        env:"SECURITY_ONLY_FIXED"        json:"securityOnlyFixed"`
	SecurityAddCPEs        bool `koanf:"security_add_cpes"          env:"SECURITY_ADD_CPES"          json:"securityAddCpes"`

	sources map[string]Source
}

// Source records where a settings key came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceEnv     Source = "env"
)

// Default returns the documented fallback literals. Safe, public sigstore
// endpoints and conservative scanner posture; nothing site-specific.
func Default() *Settings {
	return &Settings{
		FulcioURL:              "https://fulcio.sigstore.dev",
		RekorURL:               "https://rekor.sigstore.dev",
		CosignKeyless:          true,
		SecurityFailOnCritical: true,
		SecurityOnlyFixed:      false,
		SecurityAddCPEs:        true,
	}
}

// Source reports where the koanf path's value came from.
func (s *Settings) Source(path string) (Source, bool) {
	src, ok := s.sources[path]
	return src, ok
}

// FromEnv reports whether the koanf path was overridden by an environment
// variable.
func (s *Settings) FromEnv(path string) bool {
	return s.sources[path] == SourceEnv
}

// Validate applies the struct tag rules; settings that fail here abort
// startup rather than producing bad platform layers later.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid platform settings: %w", err)
	}
	return nil
}
