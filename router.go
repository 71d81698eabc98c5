package espalier

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// ChildRouter returns the child router for name, creating it on first use
// with this router as parent and the same collaborators. Idempotent; an
// empty name resolves to the default slot.
func (r *Router) ChildRouter(name string) *Router {
	if name == "" {
		name = domain.DefaultViewportName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	child, ok := r.children[name]
	if !ok {
		child = &Router{
			name:     name,
			parent:   r,
			registry: r.registry,
			loader:   r.loader,
			hooks:    r.hooks,
			logger:   r.logger,
			ports:    make(map[string]ports.Viewport),
			children: make(map[string]*Router),
		}
		r.children[name] = child
	}
	return child
}

// RegisterViewport binds vp to the named slot, then renavigates to the
// last attempted URL so the new binding is synchronized. When the slot is
// already occupied the previous binding is replaced: a parent component
// that re-renders re-registers its slots after its own activation, so
// replacement is the behavior nested activation depends on.
//
// The renavigation is a no-op when this router has no navigation history
// or is currently mid-navigation.
func (r *Router) RegisterViewport(ctx context.Context, vp ports.Viewport, name string) error {
	if name == "" {
		name = domain.DefaultViewportName
	}

	r.mu.Lock()
	if _, occupied := r.ports[name]; occupied {
		r.logger.Debug("replacing viewport binding", "router", r.name, "viewport", name)
	}
	r.ports[name] = vp
	r.mu.Unlock()

	return r.Renavigate(ctx)
}

// Config forwards a route-table mapping to the registry under this
// router's name, then renavigates so the new table takes effect.
func (r *Router) Config(ctx context.Context, mapping map[string]any) error {
	if err := r.registry.Config(ctx, r.name, mapping); err != nil {
		return err
	}
	return r.Renavigate(ctx)
}

// Generate delegates URL generation to the registry. No router state is
// touched.
func (r *Router) Generate(ctx context.Context, name string, params map[string]string) (string, error) {
	return r.registry.Generate(ctx, name, params)
}

// Renavigate re-runs the last committed URL (falling back to the last
// attempted one) through the full lifecycle. It resolves immediately when
// the router is idle with no target, or when a navigation is already in
// flight; the in-flight attempt will deliver the state the late arrival
// needs.
func (r *Router) Renavigate(ctx context.Context) error {
	r.mu.Lock()
	target := r.previousURL
	if target == "" {
		target = r.lastAttempt
	}
	r.mu.Unlock()

	if target == "" || r.navigating.Load() {
		return nil
	}

	_, err := r.Navigate(ctx, target)
	return err
}
