// Package tests provides reusable contract suites that verify adapter
// implementations against the ports interfaces.
package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// RouteRegistryContract verifies that a registry implementation complies
// with ports.RouteRegistry. The factory must return an empty registry; the
// suite seeds it through Config, so configuration is exercised as part of
// the contract.
func RouteRegistryContract(t *testing.T, newRegistry func(t *testing.T) ports.RouteRegistry) {
	t.Helper()
	ctx := context.Background()

	seed := func(t *testing.T) ports.RouteRegistry {
		t.Helper()
		reg := newRegistry(t)
		err := reg.Config(ctx, domain.RootRouterName, map[string]any{
			"routes": []any{
				map[string]any{"path": "/", "component": "Home"},
				map[string]any{
					"path":      "/users/:id",
					"component": "UserShell",
					"viewports": map[string]any{"detail": "UserDetail"},
				},
			},
		})
		require.NoError(t, err, "Config should accept the seed table")
		return reg
	}

	t.Run("Recognize_Root", func(t *testing.T) {
		reg := seed(t)
		ins, err := reg.Recognize(ctx, "/")
		require.NoError(t, err)
		require.NotNil(t, ins, "seeded registry should match /")

		assert.Equal(t, "/", ins.CanonicalURL)
		home := ins.Viewport(domain.DefaultViewportName)
		require.NotNil(t, home, "anchor must target the default port")
		assert.Equal(t, "Home", home.Component)
		assert.Empty(t, home.Viewports)
	})

	t.Run("Recognize_Nested", func(t *testing.T) {
		reg := seed(t)
		ins, err := reg.Recognize(ctx, "/users/42")
		require.NoError(t, err)
		require.NotNil(t, ins)

		assert.Equal(t, "/users/42", ins.CanonicalURL)
		shell := ins.Viewport(domain.DefaultViewportName)
		require.NotNil(t, shell)
		assert.Equal(t, "UserShell", shell.Component)
		assert.Equal(t, "42", shell.Params["id"])

		detail := shell.Viewport("detail")
		require.NotNil(t, detail, "UserShell declares a detail viewport")
		assert.Equal(t, "UserDetail", detail.Component)
	})

	t.Run("Recognize_NoMatch", func(t *testing.T) {
		reg := seed(t)
		ins, err := reg.Recognize(ctx, "/definitely/not/there")
		require.NoError(t, err, "no match is not an error")
		assert.Nil(t, ins)
	})

	t.Run("Recognize_Deterministic", func(t *testing.T) {
		reg := seed(t)
		first, err := reg.Recognize(ctx, "/users/7")
		require.NoError(t, err)
		second, err := reg.Recognize(ctx, "/users/7")
		require.NoError(t, err)
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.CanonicalURL, second.CanonicalURL)
	})

	t.Run("Generate", func(t *testing.T) {
		reg := seed(t)
		url, err := reg.Generate(ctx, "UserShell", map[string]string{"id": "7"})
		require.NoError(t, err)
		assert.Equal(t, "/users/7", url)

		url, err = reg.Generate(ctx, "Home", nil)
		require.NoError(t, err)
		assert.Equal(t, "/", url)
	})

	t.Run("Generate_MissingParam", func(t *testing.T) {
		reg := seed(t)
		_, err := reg.Generate(ctx, "UserShell", nil)
		assert.Error(t, err, "pattern params must be supplied")
	})

	t.Run("Generate_UnknownRoute", func(t *testing.T) {
		reg := seed(t)
		_, err := reg.Generate(ctx, "Nowhere", nil)
		assert.Error(t, err)
	})

	t.Run("Config_Extends", func(t *testing.T) {
		reg := seed(t)
		err := reg.Config(ctx, domain.RootRouterName, map[string]any{
			"routes": []any{
				map[string]any{"path": "/about", "component": "About"},
			},
		})
		require.NoError(t, err)

		ins, err := reg.Recognize(ctx, "/about")
		require.NoError(t, err)
		require.NotNil(t, ins, "config should extend, not replace, the table")
		assert.Equal(t, "About", ins.Viewport(domain.DefaultViewportName).Component)
	})
}
