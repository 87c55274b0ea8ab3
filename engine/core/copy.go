package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v via github.com/mohae/deepcopy. Plain
// map[string]any values get a direct map copy so the concrete type survives
// the round trip.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	if src, ok := any(v).(map[string]any); ok {
		if src == nil {
			return zero, nil
		}
		copied, err := deepCopyMap(src)
		if err != nil {
			return zero, err
		}
		result, ok := any(copied).(T)
		if !ok {
			return zero, fmt.Errorf("failed to cast copied map to type %T", zero)
		}
		return result, nil
	}
	copied := deepcopy.Copy(v)
	result, ok := copied.(T)
	if !ok {
		return zero, fmt.Errorf("failed to cast copied value to type %T", zero)
	}
	return result, nil
}

// deepCopyMap returns a deep copy of the provided map[string]any.
func deepCopyMap(m map[string]any) (map[string]any, error) {
	copiedInterface := deepcopy.Copy(m)
	copied, ok := copiedInterface.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to copy map")
	}
	return copied, nil
}
