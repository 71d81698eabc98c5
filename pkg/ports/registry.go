package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// RouteRegistry resolves URLs into instruction trees and generates URLs
// from route names. Implementations must be deterministic for a given
// route table and URL.
type RouteRegistry interface {
	// Recognize resolves url into an instruction tree. It returns
	// (nil, nil) when no route matches; the engine maps that to
	// domain.ErrNoMatch. A non-nil error is a collaborator failure.
	//
	// The root of the returned tree is an anchor whose Viewports map the
	// initiating router's port names (see domain.Instruction).
	Recognize(ctx context.Context, url string) (*domain.Instruction, error)

	// Generate produces the URL for a named route, substituting params
	// into its pattern.
	Generate(ctx context.Context, name string, params map[string]string) (string, error)

	// Config merges a route-table mapping for the named router. The
	// mapping layout is adapter-specific; the reference adapters accept a
	// "routes" key holding a list of route definitions.
	Config(ctx context.Context, routerName string, mapping map[string]any) error
}

// Watchable is an optional capability of registries whose route table can
// change behind the engine's back (files, shared stores). The channel is
// signaled after the table has been reloaded, so a receiver can renavigate
// immediately.
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Suggester is an optional capability of registries that can propose the
// nearest known route for a URL that failed to match. Used for diagnostics
// only; never consulted on the navigation path.
type Suggester interface {
	Suggest(url string) (string, bool)
}
