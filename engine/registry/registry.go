package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/resolver"
	"github.com/gantryhq/gantry/engine/schema"
)

// BuildFunc resolves one spec of the definition's component type.
type BuildFunc func(ctx context.Context, req *resolver.Request) (resolver.Resolution, error)

// Definition is one catalog entry: a component type, its schema, and the
// builder that resolves specs of that type.
type Definition struct {
	Type        core.ComponentType
	Description string
	Schema      *schema.Definition
	Build       BuildFunc
}

func (d *Definition) validate() error {
	if d == nil {
		return fmt.Errorf("component definition is nil")
	}
	if d.Type == "" {
		return fmt.Errorf("component definition: type is required")
	}
	if d.Schema == nil {
		return fmt.Errorf("component definition %q: schema is required", d.Type)
	}
	if d.Build == nil {
		return fmt.Errorf("component definition %q: build func is required", d.Type)
	}
	return nil
}

// Registry is the catalog of registered component types. The CLI and schema
// export read it; component packages register into it at startup.
type Registry struct {
	mu    sync.RWMutex
	defs  map[core.ComponentType]*Definition
	order []core.ComponentType
}

func New() *Registry {
	return &Registry{
		defs: make(map[core.ComponentType]*Definition),
	}
}

// Register adds a definition; a duplicate type is a programming error and
// rejected.
func (r *Registry) Register(def *Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("component type %q already registered", def.Type)
	}
	r.defs[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

// Get returns the definition for a component type; unknown types list what
// is available so manifest typos are actionable.
func (r *Registry) Get(componentType core.ComponentType) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[componentType]
	if !ok {
		return nil, fmt.Errorf("unknown component type %q, known types: %s",
			componentType, strings.Join(r.knownLocked(), ", "))
	}
	return def, nil
}

// List returns definitions in registration order.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, componentType := range r.order {
		out = append(out, r.defs[componentType])
	}
	return out
}

// Known returns the registered type names sorted.
func (r *Registry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.knownLocked()
}

func (r *Registry) knownLocked() []string {
	known := make([]string, 0, len(r.defs))
	for componentType := range r.defs {
		known = append(known, componentType.String())
	}
	sort.Strings(known)
	return known
}
