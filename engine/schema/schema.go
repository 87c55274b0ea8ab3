package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kaptinlin/jsonschema"
)

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

// Schema is a JSON-schema document in generic map form. Component packages
// author these as Go literals; the registry serves them to tooling verbatim.
type Schema map[string]any

type Result = jsonschema.EvaluationResult

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// Compile turns the document into an evaluatable schema.
func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// Validate evaluates value against the schema and returns an error listing
// every violation, sorted for stable output.
func (s *Schema) Validate(_ context.Context, value any) (*Result, error) {
	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		return nil, nil
	}
	result := compiled.Validate(value)
	if result.Valid {
		return result, nil
	}
	return nil, fmt.Errorf("schema validation failed: %v", EvaluationMessages(result))
}

// EvaluationMessages flattens an evaluation result into sorted violation
// strings. The underlying library reports violations keyed by keyword, so
// sorting is what makes the output deterministic.
func EvaluationMessages(result *Result) []string {
	if result == nil || result.Valid {
		return nil
	}
	messages := make([]string, 0, len(result.Errors))
	for _, evalErr := range result.Errors {
		messages = append(messages, evalErr.Error())
	}
	sort.Strings(messages)
	return messages
}
