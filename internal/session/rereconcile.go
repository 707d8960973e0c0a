package session

import (
	"context"
	"fmt"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// ListSwapCandidates fetches alternative-source candidates for the
// installed add-ons and makes them the reconcile-installed view.
func (s *Session) ListSwapCandidates(ctx context.Context) ([]service.SwapCandidate, error) {
	cands, err := s.svc.GetReconcileInstalledCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch swap candidates: %w", err)
	}

	s.mu.Lock()
	s.swaps = cands
	s.activeView = ViewReconcileInstalled
	s.recomputeLocked()
	s.mu.Unlock()
	return cands, nil
}

// ApplySwaps switches the selected add-ons to their chosen alternative
// sources. selections aligns by index with the candidate list; nil
// keeps the current source. Only selections that differ from the
// installed add-on by identity count. Old entries are removed first,
// keeping their folders, then the replacements are installed, so a
// failure partway leaves nothing double-booked.
func (s *Session) ApplySwaps(ctx context.Context, selections []*addon.Addon) ([]addon.ModifyResult, error) {
	s.mu.Lock()
	var olds, news []addon.Addon
	for i, sel := range selections {
		if sel == nil || i >= len(s.swaps) {
			continue
		}
		if addon.Same(*sel, s.swaps[i].Installed) {
			continue
		}
		olds = append(olds, s.swaps[i].Installed)
		news = append(news, *sel)
	}
	s.mu.Unlock()

	if len(olds) == 0 {
		return nil, nil
	}

	if _, err := s.Modify(ctx, service.MethodRemove, olds, service.ModifyParams{KeepFolders: true}); err != nil {
		return nil, err
	}
	return s.Modify(ctx, service.MethodInstall, news, service.ModifyParams{ReplaceFolders: true})
}
