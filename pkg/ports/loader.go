package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// ComponentLoader turns a component identifier into runnable artifacts.
// Both methods may suspend (fetching, compiling); a failure of either
// aborts the whole navigation attempt.
type ComponentLoader interface {
	// Init produces the controller for an instruction. The returned value
	// is opaque to the engine except for the optional ActivationGuard
	// capability.
	Init(ctx context.Context, ins *domain.Instruction) (any, error)

	// Load produces the rendering artifact for an instruction. The engine
	// stores it on the instruction and hands it to the bound viewport
	// during activation.
	Load(ctx context.Context, ins *domain.Instruction) (any, error)
}

// ActivationGuard is an optional capability of a controller. A controller
// without it always permits activation.
type ActivationGuard interface {
	CanActivate(ctx context.Context) (bool, error)
}
