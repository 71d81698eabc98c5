// Package components provides a name-indexed component loader. Applications
// register factories per component name and hand the registry to the router
// as its loader.
package components

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Factory builds one artifact (controller or template) for a matched
// component. It receives the instruction so factories can read params.
type Factory func(ctx context.Context, ins *domain.Instruction) (any, error)

// Registry maps component names to their factories. It satisfies
// ports.ComponentLoader.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]Factory
	templates   map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Factory),
		templates:   make(map[string]Factory),
	}
}

// Register adds the controller and template factories for a component.
// Either factory may be nil, in which case the component name itself is
// used as the artifact. Registering the same name again overwrites.
func (r *Registry) Register(name string, controller, template Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[name] = controller
	r.templates[name] = template
}

// Init builds the controller for the instruction's component.
// Returns an error if the component was never registered.
func (r *Registry) Init(ctx context.Context, ins *domain.Instruction) (any, error) {
	return r.build(ctx, ins, r.controllers)
}

// Load builds the template for the instruction's component.
func (r *Registry) Load(ctx context.Context, ins *domain.Instruction) (any, error) {
	return r.build(ctx, ins, r.templates)
}

func (r *Registry) build(ctx context.Context, ins *domain.Instruction, factories map[string]Factory) (any, error) {
	r.mu.RLock()
	fn, ok := factories[ins.Component]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("component not registered: %s", ins.Component)
	}
	if fn == nil {
		return ins.Component, nil
	}
	return fn(ctx, ins)
}
