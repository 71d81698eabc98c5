package espalier_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := espalier.New(nil, &recordingLoader{}); err == nil {
		t.Error("expected error for nil registry")
	}
	if _, err := espalier.New(usersTable(), nil); err == nil {
		t.Error("expected error for nil loader")
	}
}

func TestChildRouter_CreatesOnceAndCaches(t *testing.T) {
	router, err := espalier.New(usersTable(), &recordingLoader{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first := router.ChildRouter("UserShell")
	second := router.ChildRouter("UserShell")
	if first != second {
		t.Error("ChildRouter should return the cached child")
	}
	if first.Name() != "UserShell" {
		t.Errorf("child name = %q, want UserShell", first.Name())
	}
	if first.IsRoot() {
		t.Error("child router reports itself as root")
	}
	if !router.IsRoot() {
		t.Error("root router lost its root flag")
	}

	if router.ChildRouter("") != router.ChildRouter(domain.DefaultViewportName) {
		t.Error("empty name should resolve to the default slot")
	}
}

func TestRegisterViewport_ReplacementRenavigatesOnce(t *testing.T) {
	ctx := context.Background()
	starts := 0
	hooks := domain.LifecycleHooks{
		OnNavigationStart: func(context.Context, *domain.NavigationEvent) { starts++ },
	}

	router, err := espalier.New(usersTable(), &recordingLoader{}, espalier.WithLifecycleHooks(hooks))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first := newFakeViewport("default", nil)
	if err := router.RegisterViewport(ctx, first, "default"); err != nil {
		t.Fatalf("RegisterViewport failed: %v", err)
	}
	if starts != 0 {
		t.Fatalf("registration without history navigated %d times", starts)
	}

	if _, err := router.Navigate(ctx, "/users/42"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	startsAfterNavigate := starts

	replacement := newFakeViewport("default-v2", nil)
	if err := router.RegisterViewport(ctx, replacement, "default"); err != nil {
		t.Fatalf("RegisterViewport failed: %v", err)
	}

	if got := starts - startsAfterNavigate; got != 1 {
		t.Errorf("replacement triggered %d renavigations, want exactly 1", got)
	}
	if active := replacement.current(); active == nil || active.Component != "UserShell" {
		t.Errorf("replacement binding holds %+v, want UserShell", active)
	}
	if first.activationCount() != 1 {
		t.Errorf("old binding activated %d times, want 1 (only the original commit)", first.activationCount())
	}
}

func TestConfig_ExtendsTableAndRenavigates(t *testing.T) {
	ctx := context.Background()
	port := newFakeViewport("default", nil)

	router, err := espalier.New(usersTable(), &recordingLoader{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = router.RegisterViewport(ctx, port, "default")

	if _, err := router.Navigate(ctx, "/"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	err = router.Config(ctx, map[string]any{
		"routes": []any{map[string]any{"path": "/about", "component": "About"}},
	})
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}

	// The config renavigated to the committed URL, then the new route is
	// reachable.
	if got := router.PreviousURL(); got != "/" {
		t.Errorf("PreviousURL = %q, want %q", got, "/")
	}
	canonical, err := router.Navigate(ctx, "/about")
	if err != nil {
		t.Fatalf("Navigate to configured route failed: %v", err)
	}
	if canonical != "/about" {
		t.Errorf("canonical = %q, want /about", canonical)
	}
	if active := port.current(); active == nil || active.Component != "About" {
		t.Errorf("port holds %+v, want About", active)
	}
}

func TestGenerate_DelegatesToRegistry(t *testing.T) {
	router, err := espalier.New(usersTable(), &recordingLoader{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	url, err := router.Generate(context.Background(), "UserShell", map[string]string{"id": "12"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if url != "/users/12" {
		t.Errorf("Generate = %q, want /users/12", url)
	}
	if got := router.LastNavigationAttempt(); got != "" {
		t.Errorf("Generate touched navigation state: lastAttempt = %q", got)
	}
}
