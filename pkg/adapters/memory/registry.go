// Package memory provides the reference in-memory route registry. It
// matches literal and ":param" path segments, generates URLs from
// component names, and keeps one route table per router so child routers
// can be configured independently.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Route defines one entry in a router's route table.
type Route struct {
	// Path is the URL pattern, e.g. "/users/:id". Segments starting with
	// ':' capture a parameter. Routes configured for child routers may
	// leave Path empty; such entries only contribute Viewports to the
	// component's instruction.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Component occupies the matched slot.
	Component string `json:"component" yaml:"component" mapstructure:"component"`

	// Viewports names the child slots this component declares.
	Viewports map[string]Target `json:"viewports,omitempty" yaml:"viewports,omitempty" mapstructure:"viewports"`
}

// Target names the component occupying a child viewport, optionally with
// nested viewports of its own. In YAML a bare string is shorthand for a
// Target with just a component.
type Target struct {
	Component string            `json:"component" yaml:"component" mapstructure:"component"`
	Viewports map[string]Target `json:"viewports,omitempty" yaml:"viewports,omitempty" mapstructure:"viewports"`
}

// UnmarshalYAML accepts either a scalar component name or a full mapping.
func (t *Target) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		t.Component = name
		return nil
	}

	type raw Target
	var full raw
	if err := unmarshal(&full); err != nil {
		return err
	}
	*t = Target(full)
	return nil
}

// Registry implements ports.RouteRegistry over per-router route tables.
type Registry struct {
	mu     sync.RWMutex
	tables map[string][]Route
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tables: make(map[string][]Route)}
}

// NewFromTables creates a registry pre-populated with the given tables,
// keyed by router name.
func NewFromTables(tables map[string][]Route) *Registry {
	r := New()
	for name, routes := range tables {
		r.Add(name, routes...)
	}
	return r
}

// Add appends routes to the named router's table.
func (r *Registry) Add(routerName string, routes ...Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[routerName] = append(r.tables[routerName], routes...)
}

// Tables returns a deep-enough copy of the current route tables for
// inspection or replication. Viewports maps are shared; treat the result
// as read-only.
func (r *Registry) Tables() map[string][]Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]Route, len(r.tables))
	for name, routes := range r.tables {
		out[name] = append([]Route(nil), routes...)
	}
	return out
}

// Recognize resolves url against the root table. It returns (nil, nil)
// when no route matches.
func (r *Registry) Recognize(_ context.Context, url string) (*domain.Instruction, error) {
	path := Normalize(url)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.tables[domain.RootRouterName] {
		if route.Path == "" {
			continue
		}
		params, ok := match(route.Path, path)
		if !ok {
			continue
		}

		canonical, err := expand(route.Path, params)
		if err != nil {
			return nil, err
		}
		root := &domain.Instruction{
			CanonicalURL: canonical,
			Viewports: map[string]*domain.Instruction{
				domain.DefaultViewportName: r.instruct(route.Component, route.Viewports, params),
			},
		}
		return root, nil
	}
	return nil, nil
}

// instruct builds the instruction subtree for a component. Viewports
// declared inline on the route are merged with any contributed through the
// component's own table (path-less entries added via Config on a child
// router).
func (r *Registry) instruct(component string, viewports map[string]Target, params map[string]string) *domain.Instruction {
	ins := &domain.Instruction{
		Component: component,
		Params:    params,
		Viewports: make(map[string]*domain.Instruction),
	}
	for name, target := range viewports {
		ins.Viewports[name] = r.instruct(target.Component, target.Viewports, params)
	}
	for _, route := range r.tables[component] {
		if route.Path != "" {
			continue
		}
		for name, target := range route.Viewports {
			if _, taken := ins.Viewports[name]; taken {
				continue
			}
			ins.Viewports[name] = r.instruct(target.Component, target.Viewports, params)
		}
	}
	return ins
}

// Generate produces the URL for a component name by expanding its route
// pattern with params.
func (r *Registry) Generate(_ context.Context, name string, params map[string]string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, routes := range r.tables {
		for _, route := range routes {
			if route.Component != name || route.Path == "" {
				continue
			}
			return expand(route.Path, params)
		}
	}
	return "", fmt.Errorf("no route for component %q", name)
}

// Config merges a mapping of the form {"routes": [...]} into the named
// router's table.
func (r *Registry) Config(_ context.Context, routerName string, mapping map[string]any) error {
	routes, err := DecodeRoutes(mapping)
	if err != nil {
		return err
	}
	r.Add(routerName, routes...)
	return nil
}

// Normalize turns a requested URL into its canonical path form: query and
// fragment stripped, duplicate slashes collapsed, trailing slash trimmed
// (except for the root path itself).
func Normalize(url string) string {
	path := strings.TrimSpace(url)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// match compares a pattern against a normalized path, capturing ":param"
// segments. Literal segments must match exactly.
func match(pattern, path string) (map[string]string, bool) {
	want := segments(Normalize(pattern))
	have := segments(path)
	if len(want) != len(have) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = have[i]
			continue
		}
		if seg != have[i] {
			return nil, false
		}
	}
	return params, true
}

// expand substitutes params into a pattern, producing the canonical URL.
func expand(pattern string, params map[string]string) (string, error) {
	segs := segments(Normalize(pattern))
	for i, seg := range segs {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		value, ok := params[seg[1:]]
		if !ok || value == "" {
			return "", fmt.Errorf("missing parameter %q for pattern %q", seg[1:], pattern)
		}
		segs[i] = value
	}
	if len(segs) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(segs, "/"), nil
}

func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
