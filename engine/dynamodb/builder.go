package dynamodb

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/engine/resolver"
	"github.com/gantryhq/gantry/engine/schema"
)

var definition = schema.NewDefinition(Doc())

// component wires the table layer tables into the shared resolution driver.
type component struct{}

func (component) ComponentType() core.ComponentType {
	return core.ComponentDynamoDBTable
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

// Normalize injects the context discriminators, derives the table name from
// the service and spec names, fills index projection and throughput,
// expands autoscaling bounds, and seeds attribute definitions from the
// declared keys.
func (component) Normalize(req *resolver.Request, merged map[string]any) error {
	merged["environment"] = req.Context.Environment.String()
	merged["complianceFramework"] = req.Context.EffectiveComplianceFramework().String()
	if _, ok := merged["tableName"]; !ok {
		merged["tableName"] = slug.Make(req.Context.ServiceName + "-" + req.Spec.Name)
	}
	normalizeIndexes(merged)
	normalizeAutoscaling(merged)
	if _, ok := merged["attributeDefinitions"]; !ok {
		if defs := deriveAttributeDefinitions(merged); len(defs) > 0 {
			merged["attributeDefinitions"] = defs
		}
	}
	return nil
}

// normalizeIndexes rebuilds the index arrays with projection defaults
// applied and, under provisioned billing, table throughput inherited by
// indexes that declare none. Malformed entries pass through untouched so
// schema validation reports them.
func normalizeIndexes(merged map[string]any) {
	billing, _ := merged["billingMode"].(string)
	if indexes, ok := anySlice(merged["globalSecondaryIndexes"]); ok {
		out := make([]any, 0, len(indexes))
		for _, item := range indexes {
			index, isMap := item.(map[string]any)
			if !isMap {
				out = append(out, item)
				continue
			}
			next := cloneEntry(index)
			if _, ok := next["projectionType"]; !ok {
				next["projectionType"] = "ALL"
			}
			if billing == BillingProvisioned {
				inheritCapacity(next, merged, "readCapacity")
				inheritCapacity(next, merged, "writeCapacity")
			}
			out = append(out, next)
		}
		merged["globalSecondaryIndexes"] = out
	}
	if indexes, ok := anySlice(merged["localSecondaryIndexes"]); ok {
		out := make([]any, 0, len(indexes))
		for _, item := range indexes {
			index, isMap := item.(map[string]any)
			if !isMap {
				out = append(out, item)
				continue
			}
			next := cloneEntry(index)
			if _, ok := next["projectionType"]; !ok {
				next["projectionType"] = "ALL"
			}
			out = append(out, next)
		}
		merged["localSecondaryIndexes"] = out
	}
}

// normalizeAutoscaling fills unset bounds for an enabled autoscaling block:
// the floor is the provisioned read capacity, the ceiling ten times the
// floor.
func normalizeAutoscaling(merged map[string]any) {
	autoscaling, ok := merged["autoscaling"].(map[string]any)
	if !ok {
		return
	}
	if enabled, _ := autoscaling["enabled"].(bool); !enabled {
		return
	}
	if _, ok := autoscaling["minCapacity"]; !ok {
		if capacity, ok := intValue(merged["readCapacity"]); ok {
			autoscaling["minCapacity"] = capacity
		}
	}
	if _, ok := autoscaling["maxCapacity"]; !ok {
		if floor, ok := intValue(autoscaling["minCapacity"]); ok {
			autoscaling["maxCapacity"] = floor * 10
		}
	}
}

// deriveAttributeDefinitions collects the key attributes referenced by the
// table and its indexes, first reference wins on duplicate names.
func deriveAttributeDefinitions(merged map[string]any) []any {
	var defs []any
	seen := map[string]bool{}
	add := func(v any) {
		attr, ok := v.(map[string]any)
		if !ok {
			return
		}
		name, _ := attr["name"].(string)
		attrType, _ := attr["type"].(string)
		if name == "" || attrType == "" || seen[name] {
			return
		}
		seen[name] = true
		defs = append(defs, map[string]any{"name": name, "type": attrType})
	}
	add(merged["partitionKey"])
	add(merged["sortKey"])
	for _, key := range []string{"globalSecondaryIndexes", "localSecondaryIndexes"} {
		indexes, ok := anySlice(merged[key])
		if !ok {
			continue
		}
		for _, item := range indexes {
			if index, isMap := item.(map[string]any); isMap {
				add(index["partitionKey"])
				add(index["sortKey"])
			}
		}
	}
	return defs
}

func anySlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func cloneEntry(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func inheritCapacity(index, merged map[string]any, key string) {
	if _, ok := index[key]; ok {
		return
	}
	if v, ok := merged[key]; ok {
		index[key] = v
	}
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// ValidateResolved applies the cross-field rules the structural schema
// cannot express.
func (c component) ValidateResolved(ctx context.Context, req *resolver.Request, cfg *Config) error {
	if err := resolver.StructTagViolation(ctx, c.ComponentType(), req.Spec.Name, cfg); err != nil {
		return err
	}
	if err := validateBilling(c.ComponentType(), req.Spec.Name, cfg); err != nil {
		return err
	}
	if err := validateKeyAttributes(c.ComponentType(), req.Spec.Name, cfg); err != nil {
		return err
	}
	if err := validateIndexes(c.ComponentType(), req.Spec.Name, cfg); err != nil {
		return err
	}
	if cfg.TTL.Enabled && cfg.TTL.AttributeName == "" {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, c.ComponentType(), req.Spec.Name,
			"ttl", "TTL is enabled without an attributeName",
		)
	}
	if cfg.Encryption.KMSKeyArn != "" && cfg.Encryption.Type != EncryptionCustomerManaged {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, c.ComponentType(), req.Spec.Name,
			"encryption", "kmsKeyArn is only valid with customer-managed encryption",
		)
	}
	return nil
}

// validateBilling ties capacity and autoscaling to the billing mode.
// Capacities left behind by a lower layer after a billing-mode downgrade
// are tolerated; autoscaling is opt-in and must be consistent.
func validateBilling(componentType core.ComponentType, specName string, cfg *Config) error {
	if cfg.BillingMode == BillingProvisioned && (cfg.ReadCapacity == 0 || cfg.WriteCapacity == 0) {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, componentType, specName,
			"billingMode", "Provisioned billing mode requires explicit readCapacity and writeCapacity",
		)
	}
	if !cfg.Autoscaling.Enabled {
		return nil
	}
	if cfg.BillingMode != BillingProvisioned {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, componentType, specName,
			"autoscaling", "Autoscaling requires provisioned billing mode",
		)
	}
	if cfg.Autoscaling.MinCapacity > cfg.Autoscaling.MaxCapacity {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, componentType, specName,
			"autoscaling", fmt.Sprintf("minCapacity %d exceeds maxCapacity %d",
				cfg.Autoscaling.MinCapacity, cfg.Autoscaling.MaxCapacity),
		)
	}
	return nil
}

// validateKeyAttributes checks that every key reference is type-consistent
// and covered by the attribute definitions.
func validateKeyAttributes(componentType core.ComponentType, specName string, cfg *Config) error {
	referenced := map[string]string{}
	var conflict *resolver.ValidationError
	record := func(attr KeyAttribute) {
		if conflict != nil || attr.Name == "" {
			return
		}
		if prev, ok := referenced[attr.Name]; ok && prev != attr.Type {
			conflict = resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"attributeDefinitions",
				fmt.Sprintf("Attribute %q is declared as both %s and %s", attr.Name, prev, attr.Type),
			)
			return
		}
		referenced[attr.Name] = attr.Type
	}

	record(cfg.PartitionKey)
	if cfg.SortKey != nil {
		record(*cfg.SortKey)
	}
	for _, index := range cfg.GlobalSecondaryIndexes {
		record(index.PartitionKey)
		if index.SortKey != nil {
			record(*index.SortKey)
		}
	}
	for _, index := range cfg.LocalSecondaryIndexes {
		record(index.SortKey)
	}
	if conflict != nil {
		return conflict
	}

	defined := map[string]string{}
	for _, attr := range cfg.AttributeDefinitions {
		defined[attr.Name] = attr.Type
	}
	for name, attrType := range referenced {
		definedType, ok := defined[name]
		if !ok {
			return resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"attributeDefinitions",
				fmt.Sprintf("Key attribute %q is not listed in attributeDefinitions", name),
			)
		}
		if definedType != attrType {
			return resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"attributeDefinitions",
				fmt.Sprintf("Key attribute %q is defined as %s but used as %s", name, definedType, attrType),
			)
		}
	}
	return nil
}

// validateIndexes enforces the table-level index rules: unique names in the
// shared index namespace, sort-key precondition for local indexes, and
// non-key attributes for INCLUDE projections.
func validateIndexes(componentType core.ComponentType, specName string, cfg *Config) error {
	if len(cfg.LocalSecondaryIndexes) > 0 && cfg.SortKey == nil {
		return resolver.NewValidationError(
			resolver.KindCrossFieldInconsistency, componentType, specName,
			"localSecondaryIndexes", "Local secondary indexes require a table sort key",
		)
	}
	seen := map[string]bool{}
	checkName := func(name string) *resolver.ValidationError {
		if seen[name] {
			return resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"globalSecondaryIndexes", fmt.Sprintf("Duplicate index name %q", name),
			)
		}
		seen[name] = true
		return nil
	}
	for _, index := range cfg.GlobalSecondaryIndexes {
		if err := checkName(index.Name); err != nil {
			return err
		}
		if index.ProjectionType == "INCLUDE" && len(index.NonKeyAttributes) == 0 {
			return resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"globalSecondaryIndexes",
				fmt.Sprintf("Index %q uses INCLUDE projection without nonKeyAttributes", index.Name),
			)
		}
	}
	for _, index := range cfg.LocalSecondaryIndexes {
		if err := checkName(index.Name); err != nil {
			return err
		}
		if index.ProjectionType == "INCLUDE" && len(index.NonKeyAttributes) == 0 {
			return resolver.NewValidationError(
				resolver.KindCrossFieldInconsistency, componentType, specName,
				"localSecondaryIndexes",
				fmt.Sprintf("Index %q uses INCLUDE projection without nonKeyAttributes", index.Name),
			)
		}
	}
	return nil
}

// Build resolves one DynamoDB table spec.
func Build(ctx context.Context, req *resolver.Request) (*resolver.Resolved[Config], error) {
	return resolver.Build[Config](ctx, component{}, req)
}

// Register adds the DynamoDB table definition to a catalog.
func Register(r *registry.Registry) error {
	return r.Register(&registry.Definition{
		Type:        core.ComponentDynamoDBTable,
		Description: "DynamoDB table with compliance-driven data protection",
		Schema:      definition,
		Build: func(ctx context.Context, req *resolver.Request) (resolver.Resolution, error) {
			return Build(ctx, req)
		},
	})
}
