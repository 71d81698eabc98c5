package domain

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when the route registry cannot resolve a URL.
var ErrNoMatch = errors.New("no route matched")

// ErrDeactivationDenied is returned when an active viewport refuses to
// yield its slot. The existing view is left untouched.
var ErrDeactivationDenied = errors.New("deactivation denied")

// ErrActivationDenied is returned when a newly initialized controller
// refuses activation. Controllers created for the attempt are discarded.
var ErrActivationDenied = errors.New("activation denied")

// ErrAlreadyNavigating is returned when Navigate is called on a router that
// already has a navigation in flight. It is a retry signal, not a fatal
// error: no collaborator was invoked and no state changed.
var ErrAlreadyNavigating = errors.New("navigation already in progress")

// Phase names the lifecycle stage a navigation failure occurred in.
type Phase string

const (
	PhaseGuard         Phase = "guard"
	PhaseRecognize     Phase = "recognize"
	PhaseCanDeactivate Phase = "can_deactivate"
	PhaseInit          Phase = "init"
	PhaseCanActivate   Phase = "can_activate"
	PhaseLoad          Phase = "load"
	PhaseActivate      Phase = "activate"
)

// NavigationError wraps any failure of a navigation attempt with the URL
// and the phase that rejected it. Use errors.Is with the sentinel errors
// above to distinguish gate denials from collaborator failures.
type NavigationError struct {
	URL   string
	Phase Phase
	Err   error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %q failed in %s phase: %v", e.URL, e.Phase, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
