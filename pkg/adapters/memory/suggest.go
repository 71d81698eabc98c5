package memory

import (
	"github.com/agnivade/levenshtein"

	"github.com/aretw0/espalier/pkg/domain"
)

// suggestThreshold caps how far a candidate may be from the requested URL
// before a suggestion stops being useful.
const suggestThreshold = 4

// Suggest returns the route pattern nearest to a URL that failed to match,
// for "did you mean" diagnostics. It reports false when nothing is close
// enough.
func (r *Registry) Suggest(url string) (string, bool) {
	path := Normalize(url)

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	bestDistance := suggestThreshold + 1
	for _, route := range r.tables[domain.RootRouterName] {
		if route.Path == "" {
			continue
		}
		candidate := Normalize(route.Path)
		if d := levenshtein.ComputeDistance(path, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best, best != ""
}
