package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errValidator struct {
	err   error
	calls *int
}

func (v *errValidator) Validate(_ context.Context) error {
	*v.calls++
	return v.err
}

func TestCompositeValidator(t *testing.T) {
	t.Run("Should stop at the first failing validator", func(t *testing.T) {
		calls := 0
		first := &errValidator{err: fmt.Errorf("first failure"), calls: &calls}
		second := &errValidator{calls: &calls}
		composite := NewCompositeValidator(first, second)
		err := composite.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first failure")
		assert.Equal(t, 1, calls)
	})
	t.Run("Should run every validator when all pass", func(t *testing.T) {
		calls := 0
		composite := NewCompositeValidator(&errValidator{calls: &calls}, &errValidator{calls: &calls})
		require.NoError(t, composite.Validate(context.Background()))
		assert.Equal(t, 2, calls)
	})
}

func TestStructValidator(t *testing.T) {
	type sample struct {
		Host string `validate:"required"`
		URL  string `validate:"omitempty,url"`
	}
	t.Run("Should pass for a valid struct", func(t *testing.T) {
		v := NewStructValidator(&sample{Host: "registry.internal", URL: "https://rekor.sigstore.dev"})
		assert.NoError(t, v.Validate(context.Background()))
	})
	t.Run("Should fail tag violations", func(t *testing.T) {
		v := NewStructValidator(&sample{URL: "not a url"})
		assert.Error(t, v.Validate(context.Background()))
	})
}

func TestDocValidator(t *testing.T) {
	t.Run("Should surface evaluation messages", func(t *testing.T) {
		def := NewDefinition(testDoc())
		v := NewDocValidator(def, map[string]any{"service": "checkout"})
		err := v.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})
}
