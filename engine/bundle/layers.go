package bundle

import (
	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
)

// fallbackDefaults is the environment-independent safety net: keyless
// signing against the public sigstore endpoints and a conservative scan
// policy. Registry coordinates are deliberately absent; they must come from
// the platform, the manifest, or fail required-field validation.
func fallbackDefaults() map[string]any {
	return map[string]any{
		"fipsMode":    false,
		"scanTimeout": "5m",
		"signing": map[string]any{
			"keyless":   true,
			"fulcioUrl": "https://fulcio.sigstore.dev",
			"rekorUrl":  "https://rekor.sigstore.dev",
		},
		"security": map[string]any{
			"failOnCritical": true,
			"onlyFixed":      false,
			"addCpesIfNone":  true,
		},
		"bundle": map[string]any{
			"includeCdkOutput": true,
			"includeSbom":      true,
			"compression":      "gzip",
		},
	}
}

// platformDefaults contributes only keys an operator actually set through
// the documented environment variables, so provenance distinguishes platform
// values from hardcoded ones.
func platformDefaults(settings *platform.Settings) map[string]any {
	if settings == nil {
		return nil
	}
	out := map[string]any{}
	if settings.FromEnv("artifactory_host") {
		out["artifactoryHost"] = settings.ArtifactoryHost
	}
	if settings.FromEnv("oci_repo_bundles") {
		out["ociRepoBundles"] = settings.OCIRepoBundles
	}
	if settings.FromEnv("oci_repo_images") {
		out["ociRepoImages"] = settings.OCIRepoImages
	}
	signing := map[string]any{}
	if settings.FromEnv("cosign_keyless") {
		signing["keyless"] = settings.CosignKeyless
	}
	if settings.FromEnv("cosign_kms_key_id") {
		signing["kmsKeyId"] = settings.CosignKMSKeyID
	}
	if settings.FromEnv("fulcio_url") {
		signing["fulcioUrl"] = settings.FulcioURL
	}
	if settings.FromEnv("rekor_url") {
		signing["rekorUrl"] = settings.RekorURL
	}
	if len(signing) > 0 {
		out["signing"] = signing
	}
	security := map[string]any{}
	if settings.FromEnv("security_fail_on_critical") {
		security["failOnCritical"] = settings.SecurityFailOnCritical
	}
	if settings.FromEnv("security_only_fixed") {
		security["onlyFixed"] = settings.SecurityOnlyFixed
	}
	if settings.FromEnv("security_add_cpes") {
		security["addCpesIfNone"] = settings.SecurityAddCPEs
	}
	if len(security) > 0 {
		out["security"] = security
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// environmentDefaults keys signing posture by environment: keyless below
// prod, KMS-keyed in prod. Unknown environments contribute nothing.
func environmentDefaults(env core.Environment) map[string]any {
	switch env {
	case core.EnvDevelopment:
		return map[string]any{
			"signing": map[string]any{"keyless": true},
		}
	case core.EnvStaging:
		return map[string]any{
			"signing": map[string]any{"keyless": true},
		}
	case core.EnvProduction:
		return map[string]any{
			"signing": map[string]any{
				"keyless":  false,
				"kmsKeyId": "kms://alias/gantry-prod-signing",
			},
			"security": map[string]any{"failOnCritical": true},
		}
	}
	return nil
}

// complianceDefaults hardens by framework. Posture never weakens as the
// framework strengthens: fedramp-high is a superset of fedramp-moderate.
// The commercial baseline adds nothing so lower layers keep deciding.
func complianceDefaults(framework core.ComplianceFramework) map[string]any {
	switch framework {
	case core.ComplianceCommercial:
		return nil
	case core.ComplianceFedRAMPModerate:
		return map[string]any{
			"fipsMode": true,
			"signing": map[string]any{
				"keyless":  false,
				"kmsKeyId": "kms://alias/gantry-fedramp-moderate-signing",
			},
			"security": map[string]any{"onlyFixed": true},
			"bundle":   map[string]any{"retentionDays": 60},
		}
	case core.ComplianceFedRAMPHigh:
		return map[string]any{
			"fipsMode": true,
			"signing": map[string]any{
				"keyless":  false,
				"kmsKeyId": "kms://alias/gantry-fedramp-high-signing",
			},
			"security": map[string]any{
				"onlyFixed":      true,
				"failOnCritical": true,
			},
			"bundle": map[string]any{"retentionDays": 90},
		}
	case core.ComplianceISO27001:
		return map[string]any{
			"signing": map[string]any{
				"keyless":  false,
				"kmsKeyId": "kms://alias/gantry-iso27001-signing",
			},
			"security": map[string]any{
				"onlyFixed":      false,
				"failOnCritical": true,
			},
		}
	case core.ComplianceSOC2:
		return map[string]any{
			"signing": map[string]any{
				"keyless":  false,
				"kmsKeyId": "kms://alias/gantry-soc2-signing",
			},
			"security": map[string]any{
				"onlyFixed":      false,
				"failOnCritical": true,
			},
		}
	}
	return nil
}
