package espalier

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Router is one node in the navigation hierarchy. It owns a set of named
// viewport bindings, a set of lazily created child routers, and the
// references to the shared collaborators. The root router is created with
// New; descendants are obtained through ChildRouter and live as long as
// their parent.
//
// Routers are pure coordination state, not view state: they are never
// destroyed during normal operation.
type Router struct {
	name     string
	parent   *Router
	registry ports.RouteRegistry
	loader   ports.ComponentLoader
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	mu       sync.Mutex
	ports    map[string]ports.Viewport
	children map[string]*Router

	// lastAttempt is the most recent requested URL, previousURL the most
	// recent successfully committed one. Both guarded by mu.
	lastAttempt string
	previousURL string

	navigating atomic.Bool
}

// Option defines a functional option for configuring the root Router.
type Option func(*Router)

// WithLogger sets a custom structured logger. Child routers inherit it.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Child routers inherit
// them, so hooks see navigations initiated anywhere in the tree.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// New creates the root router of an application session.
func New(registry ports.RouteRegistry, loader ports.ComponentLoader, opts ...Option) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("route registry is required")
	}
	if loader == nil {
		return nil, fmt.Errorf("component loader is required")
	}

	r := &Router{
		name:     domain.RootRouterName,
		registry: registry,
		loader:   loader,
		ports:    make(map[string]ports.Viewport),
		children: make(map[string]*Router),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return r, nil
}

// Name returns this router's viewport-slot identifier under its parent.
// The root router reports domain.RootRouterName.
func (r *Router) Name() string {
	return r.name
}

// IsRoot reports whether this router has no parent.
func (r *Router) IsRoot() bool {
	return r.parent == nil
}

// Navigating reports whether a navigation initiated at this router is
// currently in flight.
func (r *Router) Navigating() bool {
	return r.navigating.Load()
}

// PreviousURL returns the most recently committed URL, or "" when no
// navigation has succeeded yet.
func (r *Router) PreviousURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.previousURL
}

// LastNavigationAttempt returns the most recently requested URL, committed
// or not.
func (r *Router) LastNavigationAttempt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAttempt
}

// Registry returns the route registry shared by this router tree.
func (r *Router) Registry() ports.RouteRegistry {
	return r.registry
}

// Loader returns the component loader shared by this router tree.
func (r *Router) Loader() ports.ComponentLoader {
	return r.loader
}
