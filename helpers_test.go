package espalier_test

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
)

// activationLog records viewport activations in commit order, shared
// between all fake viewports of one test.
type activationLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *activationLog) record(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *activationLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// fakeViewport implements ports.Viewport and ports.DeactivationGuard.
type fakeViewport struct {
	name string
	log  *activationLog

	mu             sync.Mutex
	active         *domain.Instruction
	activations    int
	denyDeactivate bool
}

func newFakeViewport(name string, log *activationLog) *fakeViewport {
	return &fakeViewport{name: name, log: log}
}

func (v *fakeViewport) Activate(_ context.Context, ins *domain.Instruction) error {
	v.mu.Lock()
	v.active = ins
	v.activations++
	v.mu.Unlock()

	if v.log != nil {
		if ins == nil {
			v.log.record(v.name + ":<clear>")
		} else {
			v.log.record(v.name + ":" + ins.Component)
		}
	}
	return nil
}

func (v *fakeViewport) CanDeactivate(_ context.Context, _ *domain.Instruction) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.denyDeactivate, nil
}

func (v *fakeViewport) current() *domain.Instruction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

func (v *fakeViewport) activationCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activations
}

// fakeController is what recordingLoader hands back from Init.
type fakeController struct {
	component string
	deny      bool
}

func (c *fakeController) CanActivate(_ context.Context) (bool, error) {
	return !c.deny, nil
}

// recordingLoader implements ports.ComponentLoader and counts every call.
type recordingLoader struct {
	mu      sync.Mutex
	inits   []string
	loads   []string
	initErr error
	loadErr error

	// denyActivation lists components whose controllers refuse activation.
	denyActivation map[string]bool
}

func (l *recordingLoader) Init(_ context.Context, ins *domain.Instruction) (any, error) {
	l.mu.Lock()
	l.inits = append(l.inits, ins.Component)
	err := l.initErr
	deny := l.denyActivation[ins.Component]
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &fakeController{component: ins.Component, deny: deny}, nil
}

func (l *recordingLoader) Load(_ context.Context, ins *domain.Instruction) (any, error) {
	l.mu.Lock()
	l.loads = append(l.loads, ins.Component)
	err := l.loadErr
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return "template:" + ins.Component, nil
}

func (l *recordingLoader) initCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inits)
}

func (l *recordingLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.loads)
}

// blockingRegistry wraps a memory registry and parks Recognize for one
// chosen URL until released, so tests can hold a navigation in flight.
type blockingRegistry struct {
	*memory.Registry
	blockURL string
	entered  chan struct{}
	release  chan struct{}

	mu         sync.Mutex
	recognized int
}

func newBlockingRegistry(inner *memory.Registry, blockURL string) *blockingRegistry {
	return &blockingRegistry{
		Registry: inner,
		blockURL: blockURL,
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (r *blockingRegistry) Recognize(ctx context.Context, url string) (*domain.Instruction, error) {
	r.mu.Lock()
	r.recognized++
	r.mu.Unlock()

	if url == r.blockURL {
		close(r.entered)
		<-r.release
	}
	return r.Registry.Recognize(ctx, url)
}

func (r *blockingRegistry) recognizeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recognized
}

// usersTable is the standard fixture: / -> Home, /users/:id -> UserShell
// with a detail viewport holding UserDetail.
func usersTable() *memory.Registry {
	reg := memory.New()
	reg.Add(domain.RootRouterName,
		memory.Route{Path: "/", Component: "Home"},
		memory.Route{Path: "/users/:id", Component: "UserShell",
			Viewports: map[string]memory.Target{"detail": {Component: "UserDetail"}}},
	)
	return reg
}

func contains(entries []string, want string) bool {
	for _, e := range entries {
		if e == want {
			return true
		}
	}
	return false
}

func indexOf(entries []string, want string) int {
	for i, e := range entries {
		if e == want {
			return i
		}
	}
	return -1
}
