package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNavigationStart    EventType = "navigation_start"
	EventNavigationComplete EventType = "navigation_complete"
	EventNavigationFailed   EventType = "navigation_failed"
	EventViewportActivated  EventType = "viewport_activated"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	// AttemptID correlates every event of one navigation attempt.
	AttemptID string `json:"attempt_id"`
}

// NavigationEvent describes the start or outcome of a navigation attempt.
type NavigationEvent struct {
	EventBase
	Router       string `json:"router"`
	URL          string `json:"url"`
	CanonicalURL string `json:"canonical_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ViewportEvent describes the activation of a single viewport slot during
// the commit phase.
type ViewportEvent struct {
	EventBase
	Router    string `json:"router"`
	Viewport  string `json:"viewport"`
	Component string `json:"component,omitempty"`

	// Cleared is true when the slot was activated with no instruction,
	// meaning the viewport was asked to empty itself.
	Cleared bool `json:"cleared,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil callbacks
// are skipped. Hooks run synchronously on the navigation path, so they
// should be fast.
type LifecycleHooks struct {
	OnNavigationStart    func(context.Context, *NavigationEvent)
	OnNavigationComplete func(context.Context, *NavigationEvent)
	OnNavigationFailed   func(context.Context, *NavigationEvent)
	OnViewportActivated  func(context.Context, *ViewportEvent)
}
