/*
Package espalier drives navigation for a hierarchy of named view slots
("viewports") owned by a tree of routers. Given a target URL it determines
which component occupies each viewport at every level, runs a strict
multi-phase lifecycle over the affected subtree, and only then commits the
visual change.

The engine owns coordination, never rendering. Three collaborators are
supplied by the embedder behind the interfaces in pkg/ports:

  - RouteRegistry resolves URLs into instruction trees and generates URLs
    from route names.
  - ComponentLoader turns a component identifier into a controller and a
    rendering artifact.
  - Viewport renders (or clears) one named slot when the engine commits.

# Lifecycle

A call to Navigate runs, in order: a reentrancy guard, URL recognition,
synchronous materialization of the router subtree, a concurrent
can-deactivate gate over the previously committed tree, concurrent
controller init, a concurrent can-activate gate, concurrent template load,
and finally a parent-before-child activation pass. Any failure aborts the
whole attempt with a typed error from pkg/domain and leaves the previously
active state untouched: activation is the only phase allowed to mutate
externally visible view state.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/adapters/memory"
	)

	func main() {
		registry := memory.New()
		registry.Add("root",
			memory.Route{Path: "/", Component: "Home"},
			memory.Route{Path: "/users/:id", Component: "UserShell",
				Viewports: map[string]memory.Target{"detail": {Component: "UserDetail"}}},
		)

		router, err := espalier.New(registry, myLoader)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := router.RegisterViewport(ctx, myViewport, "default"); err != nil {
			log.Fatal(err)
		}

		canonical, err := router.Navigate(ctx, "/users/42")
		if err != nil {
			log.Fatal(err)
		}
		log.Println("now at", canonical)
	}

Routers form a lazily grown tree: ChildRouter returns the cached child for
a name, creating it on first use. Registering a viewport (or reconfiguring
the route table) triggers a renavigation to the last attempted URL, so
late-arriving viewports converge to the intended state without the caller
re-specifying it.
*/
package espalier
