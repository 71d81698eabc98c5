package components_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/components"
	"github.com/aretw0/espalier/pkg/domain"
)

type captureViewport struct {
	last *domain.Instruction
}

func (v *captureViewport) Activate(_ context.Context, ins *domain.Instruction) error {
	v.last = ins
	return nil
}

func TestRegistry_BuildsRegisteredComponents(t *testing.T) {
	loader := components.NewRegistry()
	loader.Register("UserProfile",
		func(_ context.Context, ins *domain.Instruction) (any, error) {
			return "controller-for-" + ins.Params["id"], nil
		},
		func(_ context.Context, ins *domain.Instruction) (any, error) {
			return "<profile id=" + ins.Params["id"] + ">", nil
		},
	)

	registry := memory.New()
	registry.Add(domain.RootRouterName,
		memory.Route{Path: "/users/:id", Component: "UserProfile"},
	)

	router, err := espalier.New(registry, loader)
	require.NoError(t, err)

	vp := &captureViewport{}
	ctx := context.Background()
	require.NoError(t, router.RegisterViewport(ctx, vp, domain.DefaultViewportName))

	_, err = router.Navigate(ctx, "/users/42")
	require.NoError(t, err)

	require.NotNil(t, vp.last)
	assert.Equal(t, "controller-for-42", vp.last.Controller)
	assert.Equal(t, "<profile id=42>", vp.last.Template)
}

func TestRegistry_NilFactoriesFallBackToName(t *testing.T) {
	loader := components.NewRegistry()
	loader.Register("Home", nil, nil)

	ins := &domain.Instruction{Component: "Home"}
	ctx := context.Background()

	controller, err := loader.Init(ctx, ins)
	require.NoError(t, err)
	assert.Equal(t, "Home", controller)

	template, err := loader.Load(ctx, ins)
	require.NoError(t, err)
	assert.Equal(t, "Home", template)
}

func TestRegistry_UnregisteredComponentFailsNavigation(t *testing.T) {
	loader := components.NewRegistry()

	registry := memory.New()
	registry.Add(domain.RootRouterName,
		memory.Route{Path: "/", Component: "Home"},
	)

	router, err := espalier.New(registry, loader)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, router.RegisterViewport(ctx, &captureViewport{}, domain.DefaultViewportName))

	_, err = router.Navigate(ctx, "/")
	require.Error(t, err)
	assert.ErrorContains(t, err, "component not registered: Home")

	var navErr *domain.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, domain.PhaseInit, navErr.Phase)
}
