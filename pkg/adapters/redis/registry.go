// Package redis provides a route registry whose tables live in a shared
// Redis hash, so a fleet of embedders can be reconfigured centrally.
// Recognition always runs against a local snapshot; pub/sub invalidation
// (via the Watchable capability) keeps snapshots converging after a
// Config from any instance.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
)

// Registry implements ports.RouteRegistry backed by Redis.
type Registry struct {
	client *backend.Client
	prefix string

	mu       sync.RWMutex
	snapshot *memory.Registry
}

type Option func(*Registry)

// WithPrefix sets the key prefix for route tables.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// New creates a Redis registry with its own client. Call Load before the
// first navigation to populate the local snapshot.
func New(address, password string, db int, opts ...Option) *Registry {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis registry from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Registry {
	r := &Registry{
		client:   client,
		prefix:   "espalier:routes:",
		snapshot: memory.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) tablesKey() string {
	return r.prefix + "tables"
}

func (r *Registry) channel() string {
	return r.prefix + "changed"
}

// Load rebuilds the local snapshot from Redis.
func (r *Registry) Load(ctx context.Context) error {
	fields, err := r.client.HGetAll(ctx, r.tablesKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to load route tables: %w", err)
	}

	tables := make(map[string][]memory.Route, len(fields))
	for routerName, raw := range fields {
		var routes []memory.Route
		if err := json.Unmarshal([]byte(raw), &routes); err != nil {
			return fmt.Errorf("corrupt route table for router %q: %w", routerName, err)
		}
		tables[routerName] = routes
	}

	snapshot := memory.NewFromTables(tables)
	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()
	return nil
}

func (r *Registry) current() *memory.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Recognize resolves url against the local snapshot.
func (r *Registry) Recognize(ctx context.Context, url string) (*domain.Instruction, error) {
	return r.current().Recognize(ctx, url)
}

// Generate produces the URL for a component name from the local snapshot.
func (r *Registry) Generate(ctx context.Context, name string, params map[string]string) (string, error) {
	return r.current().Generate(ctx, name, params)
}

// Suggest proposes the nearest known route for a URL that failed to match.
func (r *Registry) Suggest(url string) (string, bool) {
	return r.current().Suggest(url)
}

// Config appends routes to the named router's shared table, publishes a
// change notification for other instances, and refreshes the local
// snapshot.
func (r *Registry) Config(ctx context.Context, routerName string, mapping map[string]any) error {
	routes, err := memory.DecodeRoutes(mapping)
	if err != nil {
		return err
	}

	existing := []memory.Route{}
	raw, err := r.client.HGet(ctx, r.tablesKey(), routerName).Result()
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			return fmt.Errorf("corrupt route table for router %q: %w", routerName, err)
		}
	case errors.Is(err, backend.Nil):
		// First table for this router.
	default:
		return fmt.Errorf("failed to read route table: %w", err)
	}

	merged, err := json.Marshal(append(existing, routes...))
	if err != nil {
		return fmt.Errorf("failed to marshal route table: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, r.tablesKey(), routerName, merged)
	pipe.Publish(ctx, r.channel(), routerName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store route table: %w", err)
	}

	return r.Load(ctx)
}

// Watch refreshes the local snapshot whenever any instance reconfigures a
// table, and signals the returned channel after each successful refresh.
// The subscription shuts down when ctx is canceled.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := r.client.Subscribe(ctx, r.channel())
	// Force the subscription to be established before returning, so a
	// Config immediately after Watch is never missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan struct{}, 1)
	messages := sub.Channel()
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				if err := r.Load(ctx); err != nil {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
