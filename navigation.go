package espalier

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// navigation is the state of one attempt. The instruction tree is fresh
// per attempt, so the router assignments made during materialization are
// kept here instead of on shared state.
type navigation struct {
	id   string
	url  string
	root *Router

	// routers maps each instruction to the router that will own its slot
	// once committed. Written only by materialize, before any asynchronous
	// phase starts.
	routers map[*domain.Instruction]*Router
}

// Navigate resolves url and runs the full lifecycle over this router's
// subtree. On success it returns the canonical URL of the committed tree.
// On failure it returns a *domain.NavigationError and guarantees that no
// externally visible view state was mutated.
//
// At most one navigation may be in flight per router: a reentrant call is
// rejected immediately with domain.ErrAlreadyNavigating before any
// collaborator is invoked. The guard is per-router, so independent child
// routers may navigate concurrently.
func (r *Router) Navigate(ctx context.Context, url string) (string, error) {
	if !r.navigating.CompareAndSwap(false, true) {
		return "", &domain.NavigationError{URL: url, Phase: domain.PhaseGuard, Err: domain.ErrAlreadyNavigating}
	}
	defer r.navigating.Store(false)

	r.mu.Lock()
	r.lastAttempt = url
	r.mu.Unlock()

	n := &navigation{
		id:      uuid.NewString(),
		url:     url,
		root:    r,
		routers: make(map[*domain.Instruction]*Router),
	}

	r.logger.Debug("navigation started", "router", r.name, "url", url, "attempt", n.id)
	r.emitNavigation(ctx, domain.EventNavigationStart, n, "", nil)

	canonical, err := n.run(ctx)
	if err != nil {
		r.logger.Warn("navigation failed", "router", r.name, "url", url, "attempt", n.id, "error", err)
		r.emitNavigation(ctx, domain.EventNavigationFailed, n, "", err)
		return "", err
	}

	r.mu.Lock()
	r.previousURL = canonical
	r.mu.Unlock()

	r.logger.Info("navigation committed", "router", r.name, "url", canonical, "attempt", n.id)
	r.emitNavigation(ctx, domain.EventNavigationComplete, n, canonical, nil)
	return canonical, nil
}

// run sequences the phases. Each phase is terminal on failure: later
// phases never start, and partial progress (controllers, templates) is
// discarded with the instruction tree.
func (n *navigation) run(ctx context.Context) (string, error) {
	ins, err := n.root.registry.Recognize(ctx, n.url)
	if err != nil {
		return "", n.fail(domain.PhaseRecognize, err)
	}
	if ins == nil {
		return "", n.fail(domain.PhaseRecognize, domain.ErrNoMatch)
	}

	n.materialize(ins, n.root)

	if err := n.canDeactivatePorts(ctx, n.root, ins); err != nil {
		return "", n.fail(domain.PhaseCanDeactivate, err)
	}
	if err := n.traverse(ctx, ins, n.initController); err != nil {
		return "", n.fail(domain.PhaseInit, err)
	}
	if err := n.traverse(ctx, ins, n.checkActivation); err != nil {
		return "", n.fail(domain.PhaseCanActivate, err)
	}
	if err := n.traverse(ctx, ins, n.loadTemplate); err != nil {
		return "", n.fail(domain.PhaseLoad, err)
	}
	if err := n.activatePorts(ctx, n.root, ins); err != nil {
		return "", n.fail(domain.PhaseActivate, err)
	}

	return ins.CanonicalURL, nil
}

func (n *navigation) fail(phase domain.Phase, err error) error {
	return &domain.NavigationError{URL: n.url, Phase: phase, Err: err}
}

// materialize walks the instruction tree top-down and resolves the router
// that will own each slot, creating child routers on demand. The walk is
// synchronous and visits every node exactly once, parent before children,
// before any asynchronous phase begins.
func (n *navigation) materialize(ins *domain.Instruction, router *Router) {
	n.routers[ins] = router
	for _, child := range ins.Viewports {
		n.materialize(child, router.ChildRouter(child.Component))
	}
}

// canDeactivatePorts asks every occupied port in the previously committed
// tree whether it permits deactivation. All ports of one router are asked
// concurrently, each receiving the instruction about to occupy its slot
// (nil when the incoming tree leaves it empty); once they settle the check
// recurses into every existing child router, whether or not the new tree
// reaches it. A single refusal fails the whole navigation before any
// controller is instantiated or any view torn down.
func (n *navigation) canDeactivatePorts(ctx context.Context, router *Router, ins *domain.Instruction) error {
	bound, children := router.snapshot()

	g, gctx := errgroup.WithContext(ctx)
	for name, vp := range bound {
		guard, ok := vp.(ports.DeactivationGuard)
		if !ok {
			continue
		}
		next := ins.Viewport(name)
		g.Go(func() error {
			allowed, err := guard.CanDeactivate(gctx, next)
			if err != nil {
				return err
			}
			if !allowed {
				return domain.ErrDeactivationDenied
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, child := range children {
		g.Go(func() error {
			return n.canDeactivatePorts(gctx, child, n.instructionFor(ins, child))
		})
	}
	return g.Wait()
}

// instructionFor finds the child instruction that materialized onto the
// given child router, or nil when the incoming tree does not reach it.
func (n *navigation) instructionFor(ins *domain.Instruction, child *Router) *domain.Instruction {
	if ins == nil {
		return nil
	}
	for _, ci := range ins.Viewports {
		if n.routers[ci] == child {
			return ci
		}
	}
	return nil
}

// instructionOp is one lifecycle operation applied to a slot instruction.
type instructionOp func(ctx context.Context, ins *domain.Instruction, viewportName string) error

// traverse runs op over every slot instruction in the tree, one breadth
// pass per level: all siblings of a level are started together and the
// whole level must settle before the walk descends. A failing level aborts
// without starting deeper ones.
func (n *navigation) traverse(ctx context.Context, ins *domain.Instruction, op instructionOp) error {
	if ins == nil || len(ins.Viewports) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, child := range ins.Viewports {
		g.Go(func() error {
			return op(gctx, child, name)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, child := range ins.Viewports {
		g.Go(func() error {
			return n.traverse(gctx, child, op)
		})
	}
	return g.Wait()
}

func (n *navigation) initController(ctx context.Context, ins *domain.Instruction, _ string) error {
	controller, err := n.root.loader.Init(ctx, ins)
	if err != nil {
		return err
	}
	ins.Controller = controller
	return nil
}

func (n *navigation) checkActivation(ctx context.Context, ins *domain.Instruction, _ string) error {
	guard, ok := ins.Controller.(ports.ActivationGuard)
	if !ok {
		return nil
	}
	allowed, err := guard.CanActivate(ctx)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrActivationDenied
	}
	return nil
}

func (n *navigation) loadTemplate(ctx context.Context, ins *domain.Instruction, _ string) error {
	template, err := n.root.loader.Load(ctx, ins)
	if err != nil {
		return err
	}
	ins.Template = template
	return nil
}

// activatePorts commits the new tree. It is the only phase permitted to
// mutate externally visible view state. A router's own ports are activated
// concurrently, each with its slot's instruction (nil clears the slot);
// only after they all settle does the walk descend, because child
// viewports are not guaranteed to exist until their parent's slot has been
// re-activated.
func (n *navigation) activatePorts(ctx context.Context, router *Router, ins *domain.Instruction) error {
	bound, _ := router.snapshot()

	g, gctx := errgroup.WithContext(ctx)
	for name, vp := range bound {
		child := ins.Viewport(name)
		g.Go(func() error {
			if err := vp.Activate(gctx, child); err != nil {
				return err
			}
			n.root.emitActivated(gctx, n, router, name, child)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, child := range ins.Viewports {
		owner := n.routers[child]
		g.Go(func() error {
			return n.activatePorts(gctx, owner, child)
		})
	}
	return g.Wait()
}

// snapshot copies the port and child maps so lifecycle calls never run
// under the router lock. Registering a viewport from inside an Activate
// call is legal and must not deadlock.
func (r *Router) snapshot() (map[string]ports.Viewport, map[string]*Router) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.ports), maps.Clone(r.children)
}

func (r *Router) emitNavigation(ctx context.Context, typ domain.EventType, n *navigation, canonical string, err error) {
	var hook func(context.Context, *domain.NavigationEvent)
	switch typ {
	case domain.EventNavigationStart:
		hook = r.hooks.OnNavigationStart
	case domain.EventNavigationComplete:
		hook = r.hooks.OnNavigationComplete
	case domain.EventNavigationFailed:
		hook = r.hooks.OnNavigationFailed
	}
	if hook == nil {
		return
	}

	event := &domain.NavigationEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			AttemptID: n.id,
		},
		Router:       r.name,
		URL:          n.url,
		CanonicalURL: canonical,
	}
	if err != nil {
		event.Error = err.Error()
	}
	hook(ctx, event)
}

func (r *Router) emitActivated(ctx context.Context, n *navigation, owner *Router, viewport string, ins *domain.Instruction) {
	if r.hooks.OnViewportActivated == nil {
		return
	}

	event := &domain.ViewportEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventViewportActivated,
			AttemptID: n.id,
		},
		Router:   owner.name,
		Viewport: viewport,
	}
	if ins == nil {
		event.Cleared = true
	} else {
		event.Component = ins.Component
	}
	r.hooks.OnViewportActivated(ctx, event)
}
