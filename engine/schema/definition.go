package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// Definition binds a component's schema document to the pieces the resolver
// needs from it: the compiled evaluator, the per-property defaults that form
// the lowest precedence layer, and the document-ordered required paths that
// make "first missing field" deterministic.
type Definition struct {
	doc Schema

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	defaults      map[string]any
	requiredPaths []string
}

// NewDefinition walks the document once for defaults and required paths.
// Compilation happens lazily on first evaluation.
func NewDefinition(doc Schema) *Definition {
	return &Definition{
		doc:           doc,
		defaults:      collectDefaults(map[string]any(doc)),
		requiredPaths: collectRequiredPaths(map[string]any(doc), ""),
	}
}

// Doc returns the schema document for export tooling.
func (d *Definition) Doc() Schema {
	return d.doc
}

// Defaults returns a fresh copy of the schema-declared default values,
// shaped as a partial ready for the merge fold.
func (d *Definition) Defaults() map[string]any {
	out := make(map[string]any, len(d.defaults))
	for k, v := range d.defaults {
		out[k] = copyJSONValue(v)
	}
	return out
}

// RequiredPaths returns the dotted required-field paths in document order:
// each level's required list first, parents before their children.
func (d *Definition) RequiredPaths() []string {
	out := make([]string, len(d.requiredPaths))
	copy(out, d.requiredPaths)
	return out
}

// FirstMissingRequired walks value against the required paths and returns
// the first absent one. A path under an absent optional parent is not a
// violation; an absent required parent reports the parent itself.
func (d *Definition) FirstMissingRequired(value map[string]any) (string, bool) {
	for _, path := range d.requiredPaths {
		if pathMissing(value, strings.Split(path, ".")) {
			return path, true
		}
	}
	return "", false
}

// Evaluate validates value against the compiled schema and returns sorted
// violation messages; empty means valid.
func (d *Definition) Evaluate(value any) ([]string, error) {
	d.compileOnce.Do(func() {
		d.compiled, d.compileErr = d.doc.Compile()
	})
	if d.compileErr != nil {
		return nil, fmt.Errorf("failed to compile component schema: %w", d.compileErr)
	}
	result := d.compiled.Validate(value)
	if result.Valid {
		return nil, nil
	}
	return EvaluationMessages(result), nil
}

// -----------------------------------------------------------------------------
// Document walking
// -----------------------------------------------------------------------------

func pathMissing(value map[string]any, parts []string) bool {
	cur := any(value)
	for i, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			// Wrong-typed ancestor is a schema violation, not a missing field.
			return false
		}
		v, exists := m[part]
		if !exists {
			if i < len(parts)-1 {
				// Absent intermediate: either required itself (its own path
				// appears earlier) or optional, which waives the children.
				return false
			}
			return true
		}
		cur = v
	}
	return false
}

func collectDefaults(doc map[string]any) map[string]any {
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]any)
	for name, raw := range props {
		sub, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if def, has := sub["default"]; has {
			out[name] = copyJSONValue(def)
			continue
		}
		if nested := collectDefaults(sub); len(nested) > 0 {
			out[name] = nested
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectRequiredPaths(doc map[string]any, prefix string) []string {
	props, _ := doc["properties"].(map[string]any)
	required := stringSlice(doc["required"])
	requiredSet := make(map[string]bool, len(required))

	var out []string
	for _, name := range required {
		requiredSet[name] = true
		path := joinPath(prefix, name)
		out = append(out, path)
		if sub, ok := props[name].(map[string]any); ok {
			out = append(out, collectRequiredPaths(sub, path)...)
		}
	}
	// Optional objects can still carry required children, enforced only when
	// the parent is present. Sorted so the path order stays deterministic.
	optional := make([]string, 0, len(props))
	for name := range props {
		if !requiredSet[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	for _, name := range optional {
		if sub, ok := props[name].(map[string]any); ok {
			out = append(out, collectRequiredPaths(sub, joinPath(prefix, name))...)
		}
	}
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// stringSlice accepts both authored []string literals and []any from a
// decoded document.
func stringSlice(v any) []string {
	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func copyJSONValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = copyJSONValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyJSONValue(item)
		}
		return out
	default:
		return v
	}
}
