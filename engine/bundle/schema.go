package bundle

import "github.com/gantryhq/gantry/engine/schema"

// Doc is the deployment-bundle schema. Required fields are listed in the
// order violations should be reported; per-property defaults sit beneath
// every other layer.
func Doc() schema.Schema {
	return schema.Schema{
		"$id":                  "https://gantryhq.github.io/gantry/schemas/deployment-bundle.json",
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"service",
			"versionTag",
			"artifactoryHost",
			"ociRepoBundles",
			"ociRepoImages",
			"environment",
			"complianceFramework",
		},
		"properties": map[string]any{
			"service": map[string]any{
				"type":        "string",
				"pattern":     "^[a-z0-9-]+$",
				"description": "Service identifier the bundle is built for.",
			},
			"versionTag": map[string]any{
				"type":        "string",
				"pattern":     "^[a-zA-Z0-9._-]+$",
				"description": "Artifact version tag.",
			},
			"artifactoryHost": map[string]any{
				"type":        "string",
				"description": "OCI registry host, without scheme.",
			},
			"ociRepoBundles": map[string]any{
				"type":        "string",
				"description": "Repository for bundle artifacts. Derived from artifactoryHost when unset.",
			},
			"ociRepoImages": map[string]any{
				"type":        "string",
				"description": "Repository for container images. Derived from artifactoryHost when unset.",
			},
			"environment": map[string]any{
				"type": "string",
				"enum": []string{"dev", "staging", "prod"},
			},
			"complianceFramework": map[string]any{
				"type": "string",
				"enum": []string{"commercial", "fedramp-moderate", "fedramp-high", "iso27001", "soc2"},
			},
			"fipsMode": map[string]any{
				"type": "boolean",
			},
			"scanTimeout": map[string]any{
				"type":        "string",
				"pattern":     "^[0-9]+(ms|s|m|h)$",
				"description": "Upper bound for the vulnerability scan.",
			},
			"signing": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"keyless":   map[string]any{"type": "boolean"},
					"kmsKeyId":  map[string]any{"type": "string", "pattern": "^kms://.+"},
					"fulcioUrl": map[string]any{"type": "string"},
					"rekorUrl":  map[string]any{"type": "string"},
				},
			},
			"security": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"failOnCritical": map[string]any{"type": "boolean"},
					"onlyFixed":      map[string]any{"type": "boolean"},
					"addCpesIfNone":  map[string]any{"type": "boolean"},
				},
			},
			"bundle": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"includeCdkOutput": map[string]any{"type": "boolean"},
					"includeSbom":      map[string]any{"type": "boolean"},
					"compression": map[string]any{
						"type": "string",
						"enum": []string{"gzip", "zstd", "none"},
					},
					"retentionDays": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"default": 30,
					},
				},
			},
		},
	}
}
