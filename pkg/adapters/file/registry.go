// Package file provides a route registry backed by a YAML file, with hot
// reload through the Watchable capability. The file maps router names to
// route tables:
//
//	routers:
//	  root:
//	    - path: /
//	      component: Home
//	    - path: /users/:id
//	      component: UserShell
//	      viewports:
//	        detail: UserDetail
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
)

// debounceWindow coalesces the bursts of write events editors produce for
// a single save.
const debounceWindow = 100 * time.Millisecond

// Registry implements ports.RouteRegistry from a YAML route-table file.
// Recognition is served from an in-memory snapshot; Reload (or a Watch
// signal) swaps the snapshot atomically.
type Registry struct {
	path string

	mu       sync.RWMutex
	snapshot *memory.Registry
}

type tableFile struct {
	Routers map[string][]memory.Route `yaml:"routers"`
}

// New loads the route-table file at path.
func New(path string) (*Registry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	r := &Registry{path: abs}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the absolute path of the backing file.
func (r *Registry) Path() string {
	return r.path
}

// Reload re-reads the backing file and replaces the snapshot. In-memory
// overlays applied through Config since the last load are discarded; the
// file is the source of truth.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read route table: %w", err)
	}

	var parsed tableFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse route table %s: %w", r.path, err)
	}
	if len(parsed.Routers) == 0 {
		return fmt.Errorf("route table %s defines no routers", r.path)
	}

	snapshot := memory.NewFromTables(parsed.Routers)

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

// Recognize resolves url against the current snapshot.
func (r *Registry) Recognize(ctx context.Context, url string) (*domain.Instruction, error) {
	return r.current().Recognize(ctx, url)
}

// Generate produces the URL for a component name.
func (r *Registry) Generate(ctx context.Context, name string, params map[string]string) (string, error) {
	return r.current().Generate(ctx, name, params)
}

// Config overlays routes onto the current snapshot. The overlay lives
// until the next Reload.
func (r *Registry) Config(ctx context.Context, routerName string, mapping map[string]any) error {
	return r.current().Config(ctx, routerName, mapping)
}

// Suggest proposes the nearest known route for a URL that failed to match.
func (r *Registry) Suggest(url string) (string, bool) {
	return r.current().Suggest(url)
}

// Tables returns the currently loaded route tables for inspection.
func (r *Registry) Tables() map[string][]memory.Route {
	return r.current().Tables()
}

// Watch reloads the registry whenever the backing file changes and signals
// the returned channel after each successful reload. The watcher shuts
// down when ctx is canceled.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(r.path), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(out)

		var debounce *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(r.path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				if debounce == nil {
					debounce = time.AfterFunc(debounceWindow, func() {
						select {
						case fire <- struct{}{}:
						default:
						}
					})
				} else {
					debounce.Reset(debounceWindow)
				}
			case <-fire:
				debounce = nil
				if err := r.Reload(); err != nil {
					// Keep serving the previous snapshot; a later write
					// will retry.
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}
