package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisAdapter "github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	contract "github.com/aretw0/espalier/pkg/ports/tests"
)

func newTestRegistry(t *testing.T) (*redisAdapter.Registry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg := redisAdapter.NewFromClient(client)
	require.NoError(t, reg.Load(context.Background()))
	return reg, mr
}

func TestRegistry_Contract(t *testing.T) {
	contract.RouteRegistryContract(t, func(t *testing.T) ports.RouteRegistry {
		reg, _ := newTestRegistry(t)
		return reg
	})
}

func TestRegistry_ConfigSharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	writer := redisAdapter.NewFromClient(client)
	reader := redisAdapter.NewFromClient(client)

	err := writer.Config(ctx, domain.RootRouterName, map[string]any{
		"routes": []any{map[string]any{"path": "/about", "component": "About"}},
	})
	require.NoError(t, err)

	// The reader instance sees nothing until it loads.
	ins, err := reader.Recognize(ctx, "/about")
	require.NoError(t, err)
	assert.Nil(t, ins)

	require.NoError(t, reader.Load(ctx))
	ins, err = reader.Recognize(ctx, "/about")
	require.NoError(t, err)
	require.NotNil(t, ins)
	assert.Equal(t, "About", ins.Viewport(domain.DefaultViewportName).Component)
}

func TestRegistry_WatchRefreshesOnConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	writer := redisAdapter.NewFromClient(client)
	watcher := redisAdapter.NewFromClient(client)

	changes, err := watcher.Watch(ctx)
	require.NoError(t, err)

	err = writer.Config(ctx, domain.RootRouterName, map[string]any{
		"routes": []any{map[string]any{"path": "/", "component": "Home"}},
	})
	require.NoError(t, err)

	select {
	case _, ok := <-changes:
		require.True(t, ok, "channel closed before signaling")
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after remote config")
	}

	ins, err := watcher.Recognize(ctx, "/")
	require.NoError(t, err)
	require.NotNil(t, ins, "watcher should have refreshed its snapshot")
}
