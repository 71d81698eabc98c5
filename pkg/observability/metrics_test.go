package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/observability"
)

type nopViewport struct{}

func (nopViewport) Activate(context.Context, *domain.Instruction) error { return nil }

type nameLoader struct{}

func (nameLoader) Init(_ context.Context, ins *domain.Instruction) (any, error) {
	return ins.Component, nil
}

func (nameLoader) Load(_ context.Context, ins *domain.Instruction) (any, error) {
	return ins.Component, nil
}

func newMeteredRouter(t *testing.T, extra ...domain.LifecycleHooks) (*espalier.Router, *observability.Metrics) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	registry := memory.New()
	registry.Add(domain.RootRouterName,
		memory.Route{Path: "/", Component: "Home"},
		memory.Route{Path: "/users/:id", Component: "UserProfile"},
	)

	hooks := observability.Combine(append([]domain.LifecycleHooks{metrics.Hooks()}, extra...)...)
	router, err := espalier.New(registry, nameLoader{}, espalier.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, router.RegisterViewport(ctx, nopViewport{}, domain.DefaultViewportName))
	return router, metrics
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	router, metrics := newMeteredRouter(t)
	ctx := context.Background()

	_, err := router.Navigate(ctx, "/users/42")
	require.NoError(t, err)

	_, err = router.Navigate(ctx, "/missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NavigationCounter("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NavigationCounter("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActivationCounter(domain.DefaultViewportName)))
}

func TestCombine_FansOutToAllHooks(t *testing.T) {
	var first, second int
	router, _ := newMeteredRouter(t,
		domain.LifecycleHooks{
			OnNavigationComplete: func(context.Context, *domain.NavigationEvent) { first++ },
		},
		domain.LifecycleHooks{
			OnNavigationComplete: func(context.Context, *domain.NavigationEvent) { second++ },
		},
	)

	_, err := router.Navigate(context.Background(), "/")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
