package dynamodb

import "github.com/gantryhq/gantry/engine/schema"

func keyAttributeSchema(description string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"description":          description,
		"required":             []string{"name", "type"},
		"properties": map[string]any{
			"name": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"type": map[string]any{
				"type": "string",
				"enum": []string{"string", "number", "binary"},
			},
		},
	}
}

func secondaryIndexSchema(keyProperties map[string]any, requiredKeys []string) map[string]any {
	properties := map[string]any{
		"name": map[string]any{
			"type":    "string",
			"pattern": "^[a-zA-Z0-9_.-]{3,255}$",
		},
		"projectionType": map[string]any{
			"type":    "string",
			"enum":    []string{"ALL", "KEYS_ONLY", "INCLUDE"},
			"default": "ALL",
		},
		"nonKeyAttributes": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	}
	for name, prop := range keyProperties {
		properties[name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             append([]string{"name"}, requiredKeys...),
		"properties":           properties,
	}
}

// Doc is the DynamoDB table schema. Required fields are listed in the order
// violations should be reported; the table name and attribute definitions
// are usually derived during normalization rather than authored.
func Doc() schema.Schema {
	gsi := secondaryIndexSchema(map[string]any{
		"partitionKey":  keyAttributeSchema("Index partition key."),
		"sortKey":       keyAttributeSchema("Optional index sort key."),
		"readCapacity":  map[string]any{"type": "integer", "minimum": 1},
		"writeCapacity": map[string]any{"type": "integer", "minimum": 1},
	}, []string{"partitionKey"})
	lsi := secondaryIndexSchema(map[string]any{
		"sortKey": keyAttributeSchema("Alternative sort key under the table partition key."),
	}, []string{"sortKey"})

	return schema.Schema{
		"$id":                  "https://gantryhq.github.io/gantry/schemas/dynamodb-table.json",
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"tableName",
			"partitionKey",
			"billingMode",
			"environment",
			"complianceFramework",
		},
		"properties": map[string]any{
			"tableName": map[string]any{
				"type":        "string",
				"pattern":     "^[a-zA-Z0-9_.-]{3,255}$",
				"description": "Physical table name. Derived from the service and spec names when unset.",
			},
			"partitionKey": keyAttributeSchema("Table partition key."),
			"sortKey":      keyAttributeSchema("Optional table sort key."),
			"billingMode": map[string]any{
				"type": "string",
				"enum": []string{"pay-per-request", "provisioned"},
			},
			"readCapacity":  map[string]any{"type": "integer", "minimum": 1},
			"writeCapacity": map[string]any{"type": "integer", "minimum": 1},
			"autoscaling": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"enabled":     map[string]any{"type": "boolean", "default": false},
					"minCapacity": map[string]any{"type": "integer", "minimum": 1},
					"maxCapacity": map[string]any{"type": "integer", "minimum": 1},
					"targetUtilization": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 100,
						"default": 70,
					},
				},
			},
			"attributeDefinitions": map[string]any{
				"type":        "array",
				"items":       keyAttributeSchema("One key attribute referenced by the table or an index."),
				"description": "Derived from the declared keys when unset.",
			},
			"globalSecondaryIndexes": map[string]any{
				"type":     "array",
				"maxItems": 20,
				"items":    gsi,
			},
			"localSecondaryIndexes": map[string]any{
				"type":     "array",
				"maxItems": 5,
				"items":    lsi,
			},
			"ttl": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"enabled":       map[string]any{"type": "boolean", "default": false},
					"attributeName": map[string]any{"type": "string"},
				},
			},
			"encryption": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"type": map[string]any{
						"type": "string",
						"enum": []string{"aws-managed", "customer-managed"},
					},
					"kmsKeyArn": map[string]any{
						"type":    "string",
						"pattern": "^arn:aws:kms:",
					},
				},
			},
			"pointInTimeRecovery": map[string]any{"type": "boolean"},
			"backup": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"enabled": map[string]any{"type": "boolean"},
					"retentionDays": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"default": 30,
					},
				},
			},
			"monitoring": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"enabled":             map[string]any{"type": "boolean"},
					"contributorInsights": map[string]any{"type": "boolean"},
				},
			},
			"deletionProtection": map[string]any{"type": "boolean"},
			"environment": map[string]any{
				"type": "string",
				"enum": []string{"dev", "staging", "prod"},
			},
			"complianceFramework": map[string]any{
				"type": "string",
				"enum": []string{"commercial", "fedramp-moderate", "fedramp-high", "iso27001", "soc2"},
			},
		},
	}
}
