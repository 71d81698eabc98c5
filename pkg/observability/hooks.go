package observability

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Combine merges multiple lifecycle hook sets into one. Each callback
// fans out to every non-nil hook in registration order, so metrics,
// logging and application listeners can observe the same router without
// knowing about each other.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigationStart: func(ctx context.Context, e *domain.NavigationEvent) {
			for _, h := range hooks {
				if h.OnNavigationStart != nil {
					h.OnNavigationStart(ctx, e)
				}
			}
		},
		OnNavigationComplete: func(ctx context.Context, e *domain.NavigationEvent) {
			for _, h := range hooks {
				if h.OnNavigationComplete != nil {
					h.OnNavigationComplete(ctx, e)
				}
			}
		},
		OnNavigationFailed: func(ctx context.Context, e *domain.NavigationEvent) {
			for _, h := range hooks {
				if h.OnNavigationFailed != nil {
					h.OnNavigationFailed(ctx, e)
				}
			}
		},
		OnViewportActivated: func(ctx context.Context, e *domain.ViewportEvent) {
			for _, h := range hooks {
				if h.OnViewportActivated != nil {
					h.OnViewportActivated(ctx, e)
				}
			}
		},
	}
}
