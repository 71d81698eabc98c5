package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Viewport is the consumer-supplied capability that renders a component
// into one named slot. The engine only ever calls it during the commit
// phase of a successful navigation.
type Viewport interface {
	// Activate renders the given instruction into the slot. A nil
	// instruction means "clear this slot".
	Activate(ctx context.Context, ins *domain.Instruction) error
}

// DeactivationGuard is an optional capability of a Viewport. A viewport
// without it always permits deactivation.
type DeactivationGuard interface {
	// CanDeactivate is asked before any teardown happens. The argument is
	// the instruction about to replace the slot's content, or nil when the
	// incoming tree leaves the slot empty.
	CanDeactivate(ctx context.Context, next *domain.Instruction) (bool, error)
}
