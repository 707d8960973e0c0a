package session

import (
	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// Views are the display-ready collections derived from session state.
// They are recomputed wholesale after every mutation rather than
// patched in place, so frontends can diff them by token.
type Views struct {
	Installed          []addon.Triplet
	FilteredInstalled  []addon.Triplet
	Search             []addon.Triplet
	Reconcile          []addon.Match
	ReconcileInstalled []service.SwapCandidate
}

// ComputeViews derives all collections from explicit snapshots. Pure;
// exposed for tests.
func ComputeViews(
	installed []addon.Addon,
	resolved map[addon.Token]addon.Addon,
	searchResults []addon.Addon,
	filterTokens map[addon.Token]struct{},
	filterActive bool,
	matches []addon.Match,
	swaps []service.SwapCandidate,
) Views {
	byToken := make(map[addon.Token]addon.Addon, len(installed))
	for _, a := range installed {
		byToken[a.Token()] = a
	}

	v := Views{
		Installed:          make([]addon.Triplet, 0, len(installed)),
		Reconcile:          matches,
		ReconcileInstalled: swaps,
	}

	for _, a := range installed {
		t := addon.Triplet{Reference: a, Resolved: a, Installed: true}
		if r, ok := resolved[a.Token()]; ok {
			t.Resolved = r
		}
		v.Installed = append(v.Installed, t)
		if filterActive {
			if _, ok := filterTokens[a.Token()]; ok {
				v.FilteredInstalled = append(v.FilteredInstalled, t)
			}
		}
	}

	for _, r := range searchResults {
		t := addon.Triplet{Reference: r, Resolved: r}
		if ref, ok := byToken[r.Token()]; ok {
			t.Reference = ref
			t.Installed = true
		}
		v.Search = append(v.Search, t)
	}

	return v
}

// recomputeLocked rebuilds the derived views. Callers must hold s.mu.
func (s *Session) recomputeLocked() {
	s.views = ComputeViews(
		s.installed,
		s.resolved,
		s.searchResults,
		s.filterTokens,
		s.filterActive,
		s.matches,
		s.swaps,
	)
}
