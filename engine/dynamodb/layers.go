package dynamodb

import (
	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
)

// fallbackDefaults is the cheapest safe table: on-demand billing, AWS-managed
// encryption, recovery and monitoring features off.
func fallbackDefaults() map[string]any {
	return map[string]any{
		"billingMode": BillingPayPerRequest,
		"encryption": map[string]any{
			"type": EncryptionAWSManaged,
		},
		"pointInTimeRecovery": false,
		"backup":              map[string]any{"enabled": false},
		"monitoring": map[string]any{
			"enabled":             false,
			"contributorInsights": false,
		},
		"deletionProtection": false,
	}
}

// platformDefaults is empty: none of the documented platform variables
// shape table configuration.
func platformDefaults(_ *platform.Settings) map[string]any {
	return nil
}

func environmentDefaults(env core.Environment) map[string]any {
	switch env {
	case core.EnvDevelopment:
		return map[string]any{
			"billingMode": BillingPayPerRequest,
		}
	case core.EnvProduction:
		return map[string]any{
			"deletionProtection": true,
		}
	}
	return nil
}

// complianceDefaults hardens by framework: regulated frameworks force
// customer-managed encryption, point-in-time recovery, and monitoring.
// FedRAMP additionally moves the table to provisioned billing so capacity
// is an explicit, auditable number.
func complianceDefaults(framework core.ComplianceFramework) map[string]any {
	switch framework {
	case core.ComplianceCommercial:
		return nil
	case core.ComplianceFedRAMPModerate:
		return map[string]any{
			"encryption":          map[string]any{"type": EncryptionCustomerManaged},
			"pointInTimeRecovery": true,
			"monitoring": map[string]any{
				"enabled":             true,
				"contributorInsights": true,
			},
			"billingMode":   BillingProvisioned,
			"readCapacity":  5,
			"writeCapacity": 5,
		}
	case core.ComplianceFedRAMPHigh:
		return map[string]any{
			"encryption":          map[string]any{"type": EncryptionCustomerManaged},
			"pointInTimeRecovery": true,
			"monitoring": map[string]any{
				"enabled":             true,
				"contributorInsights": true,
			},
			"billingMode":   BillingProvisioned,
			"readCapacity":  5,
			"writeCapacity": 5,
			"backup": map[string]any{
				"enabled":       true,
				"retentionDays": 35,
			},
			"deletionProtection": true,
		}
	case core.ComplianceISO27001:
		return map[string]any{
			"encryption":          map[string]any{"type": EncryptionCustomerManaged},
			"pointInTimeRecovery": true,
			"monitoring":          map[string]any{"enabled": true},
			"backup": map[string]any{
				"enabled":       true,
				"retentionDays": 30,
			},
		}
	case core.ComplianceSOC2:
		return map[string]any{
			"encryption":          map[string]any{"type": EncryptionCustomerManaged},
			"pointInTimeRecovery": true,
			"monitoring":          map[string]any{"enabled": true},
		}
	}
	return nil
}
