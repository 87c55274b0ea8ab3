package schema

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Validator interface
// -----------------------------------------------------------------------------

type Validator interface {
	Validate(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// CompositeValidator
// -----------------------------------------------------------------------------

// CompositeValidator runs validators in order and stops at the first error.
type CompositeValidator struct {
	validators []Validator
}

func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{
		validators: validators,
	}
}

func (v *CompositeValidator) AddValidator(validator Validator) {
	v.validators = append(v.validators, validator)
}

func (v *CompositeValidator) Validate(ctx context.Context) error {
	for _, validator := range v.validators {
		if err := validator.Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// StructValidator
// -----------------------------------------------------------------------------

// StructValidator applies go-playground tag rules to a typed config.
type StructValidator struct {
	validate *validator.Validate
	value    any
}

func NewStructValidator(value any) *StructValidator {
	return &StructValidator{
		validate: validator.New(),
		value:    value,
	}
}

func (v *StructValidator) Validate(_ context.Context) error {
	return v.validate.Struct(v.value)
}

func (v *StructValidator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// -----------------------------------------------------------------------------
// DocValidator
// -----------------------------------------------------------------------------

// DocValidator evaluates a generic value against a compiled Definition.
type DocValidator struct {
	definition *Definition
	value      any
}

func NewDocValidator(definition *Definition, value any) *DocValidator {
	return &DocValidator{
		definition: definition,
		value:      value,
	}
}

func (v *DocValidator) Validate(_ context.Context) error {
	messages, err := v.definition.Evaluate(v.value)
	if err != nil {
		return err
	}
	if len(messages) > 0 {
		return fmt.Errorf("schema validation failed: %v", messages)
	}
	return nil
}
