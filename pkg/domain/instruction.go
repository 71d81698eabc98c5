package domain

// Standard names used across the router tree.
const (
	// RootRouterName is the sentinel name of the root router. It doubles as
	// the route-table key for top-level routes.
	RootRouterName = "root"

	// DefaultViewportName is used when a viewport or child router is
	// addressed without an explicit name.
	DefaultViewportName = "default"
)

// Instruction describes, for one viewport slot, which component occupies it
// and with which parameters. A navigation attempt operates on a fresh tree
// of instructions produced by the route registry; the tree is never shared
// between attempts.
//
// The root of a recognized tree is an anchor node: its Viewports map the
// port names of the router that initiated the navigation, and its Component
// is empty.
type Instruction struct {
	// Component identifies the component to activate in this slot.
	Component string `json:"component"`

	// Params holds the route parameters extracted from the URL.
	Params map[string]string `json:"params,omitempty"`

	// Viewports maps viewport names to child instructions. The set of keys
	// is fixed when the registry builds the tree and is never mutated by
	// the lifecycle.
	Viewports map[string]*Instruction `json:"viewports,omitempty"`

	// CanonicalURL is the normalized URL this instruction resolves to. Only
	// set on the root of the tree.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// Controller is produced by the component loader during the init phase.
	// It owns the component instance for the remainder of the attempt.
	Controller any `json:"-"`

	// Template is the opaque rendering artifact produced by the component
	// loader during the load phase and handed to the bound viewport.
	Template any `json:"-"`
}

// Viewport returns the child instruction for a named slot, or nil when the
// tree leaves that slot empty. Safe to call on a nil instruction.
func (i *Instruction) Viewport(name string) *Instruction {
	if i == nil {
		return nil
	}
	return i.Viewports[name]
}
