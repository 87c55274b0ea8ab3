package resolver

import (
	"sort"
	"strings"

	"github.com/gantryhq/gantry/engine/core"
)

// Resolution is the type-erased view of a resolved component, enough for
// output formatting and provenance display without knowing the config type.
type Resolution interface {
	Component() core.ComponentType
	Name() string
	Raw() map[string]any
	Provenance() map[string]Layer
	Source(path string) (Layer, bool)
	ProvenancePaths() []string
}

// Resolved carries the fully resolved configuration for one component spec:
// the typed config, the raw merged map it was decoded from, and the layer
// that won each flattened key. Instances are snapshots; accessors hand out
// copies so no caller can mutate what another received.
type Resolved[T any] struct {
	Config T

	component  core.ComponentType
	name       string
	raw        map[string]any
	provenance map[string]Layer
}

func (r *Resolved[T]) Component() core.ComponentType {
	return r.component
}

func (r *Resolved[T]) Name() string {
	return r.name
}

// Raw returns a deep copy of the merged, normalized, validated map.
func (r *Resolved[T]) Raw() map[string]any {
	copied, err := core.DeepCopy(r.raw)
	if err != nil {
		// The raw map came out of json-compatible folds; a copy failure here
		// would mean a non-copyable value slipped past validation.
		panic(err)
	}
	return copied
}

// Provenance returns a copy of the per-key winning layers.
func (r *Resolved[T]) Provenance() map[string]Layer {
	out := make(map[string]Layer, len(r.provenance))
	for k, v := range r.provenance {
		out[k] = v
	}
	return out
}

// Source reports which layer provided the value at the dotted path. For a
// path with no exact entry it falls back to the nearest recorded ancestor,
// which covers keys inside wholesale-replaced subtrees.
func (r *Resolved[T]) Source(path string) (Layer, bool) {
	if layer, ok := r.provenance[path]; ok {
		return layer, true
	}
	for {
		idx := strings.LastIndex(path, ".")
		if idx < 0 {
			return "", false
		}
		path = path[:idx]
		if layer, ok := r.provenance[path]; ok {
			return layer, true
		}
	}
}

// ProvenancePaths returns the recorded paths in sorted order, for stable
// --explain output.
func (r *Resolved[T]) ProvenancePaths() []string {
	paths := make([]string, 0, len(r.provenance))
	for path := range r.provenance {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
