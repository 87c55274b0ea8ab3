package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/schema"
)

// ViolationKind classifies why a resolution was rejected.
type ViolationKind string

const (
	// KindSchemaViolation covers structural failures: wrong types, enum and
	// pattern mismatches, unknown keys.
	KindSchemaViolation ViolationKind = "SchemaViolation"
	// KindMissingRequiredField means a schema-required field survived no
	// layer.
	KindMissingRequiredField ViolationKind = "MissingRequiredField"
	// KindMutualExclusionViolation means two mutually exclusive options were
	// both set, or neither was.
	KindMutualExclusionViolation ViolationKind = "MutualExclusionViolation"
	// KindCrossFieldInconsistency means a field combination is invalid even
	// though each field is individually well formed.
	KindCrossFieldInconsistency ViolationKind = "CrossFieldInconsistency"
)

// ValidationError is the single error shape every rejected build returns.
// Resolution is fail-fast: the first violation found is the one reported.
type ValidationError struct {
	Kind      ViolationKind
	Component core.ComponentType
	SpecName  string
	Field     string
	Message   string
	Cause     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %q: %s at %s: %s", e.Component, e.SpecName, e.Kind, e.Field, msg)
	}
	return fmt.Sprintf("%s %q: %s: %s", e.Component, e.SpecName, e.Kind, msg)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError builds a ValidationError bound to the component and
// spec under resolution.
func NewValidationError(
	kind ViolationKind,
	component core.ComponentType,
	specName string,
	field string,
	message string,
) *ValidationError {
	return &ValidationError{
		Kind:      kind,
		Component: component,
		SpecName:  specName,
		Field:     field,
		Message:   message,
	}
}

// StructTagViolation runs the go-playground tag rules on a decoded config
// and converts the first failure into a SchemaViolation naming the field.
func StructTagViolation(ctx context.Context, component core.ComponentType, specName string, cfg any) error {
	err := schema.NewStructValidator(cfg).Validate(ctx)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &ValidationError{
			Kind:      KindSchemaViolation,
			Component: component,
			SpecName:  specName,
			Field:     first.Namespace(),
			Message:   fmt.Sprintf("failed %q constraint", first.Tag()),
			Cause:     err,
		}
	}
	return &ValidationError{
		Kind:      KindSchemaViolation,
		Component: component,
		SpecName:  specName,
		Cause:     err,
	}
}

// KindOf extracts the violation kind from err, unwrapping as needed.
func KindOf(err error) (ViolationKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given violation kind.
func IsKind(err error, kind ViolationKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
