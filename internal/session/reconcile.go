package session

import (
	"context"
	"fmt"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// AdvanceReconcile queries candidate matches starting at the given
// stage. It settles on the first stage that yields any candidate, or
// on the terminal stage, and never revisits an earlier stage than its
// input. The settled stage's matches become the reconcile view.
func (s *Session) AdvanceReconcile(ctx context.Context, from addon.Stage) (addon.Stage, error) {
	stage := from
	for {
		matches, err := s.svc.Reconcile(ctx, stage)
		if err != nil {
			return stage, fmt.Errorf("reconcile at stage %s failed: %w", stage, err)
		}

		next, ok := stage.Next()
		if hasCandidates(matches) || !ok {
			s.setReconcileStage(stage, matches)
			s.log.Debug("Reconcile settled", "stage", stage, "groups", len(matches))
			return stage, nil
		}
		stage = next
	}
}

func hasCandidates(matches []addon.Match) bool {
	for _, m := range matches {
		if len(m.Matches) > 0 {
			return true
		}
	}
	return false
}

// setReconcileStage installs a stage's results and resets the per-group
// selections, so choices made at one stage never leak into the next.
func (s *Session) setReconcileStage(stage addon.Stage, matches []addon.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
	s.matches = matches
	s.selections = make([]*addon.Addon, len(matches))
	s.activeView = ViewReconcile
	s.recomputeLocked()
}

// ReconcileStage returns the stage currently presented.
func (s *Session) ReconcileStage() addon.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// ReconcileSelections returns the per-group selections; nil entries
// mean "skip this group".
func (s *Session) ReconcileSelections() []*addon.Addon {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*addon.Addon, len(s.selections))
	copy(out, s.selections)
	return out
}

// SelectReconcileCandidate records the user's pick for one folder
// group at the current stage. A nil pick skips the group.
func (s *Session) SelectReconcileCandidate(group int, pick *addon.Addon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group < 0 || group >= len(s.selections) {
		return
	}
	s.selections[group] = pick
}

// ResetReconcile returns the engine to the first stage with no
// results, e.g. after folders changed on disk.
func (s *Session) ResetReconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = addon.FirstStage
	s.matches = nil
	s.selections = nil
	s.recomputeLocked()
}

// InstallReconcileSelections installs the non-nil selections for the
// given stage, claiming folders from any previous owner. In manual
// mode the visible stage pointer then advances for the caller to
// re-query and review. In recursive mode the engine keeps going on its
// own: it queries each following stage, auto-picks every group's
// top-ranked candidate, installs, and stops when stages are exhausted.
func (s *Session) InstallReconcileSelections(ctx context.Context, stage addon.Stage, selections []*addon.Addon, recursive bool) ([]addon.ModifyResult, error) {
	var all []addon.ModifyResult

	if picks := collectPicks(selections); len(picks) > 0 {
		results, err := s.Modify(ctx, service.MethodInstall, picks, service.ModifyParams{ReplaceFolders: true})
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}

	if !recursive {
		if next, ok := stage.Next(); ok {
			s.mu.Lock()
			s.stage = next
			s.matches = nil
			s.selections = nil
			s.recomputeLocked()
			s.mu.Unlock()
		}
		return all, nil
	}

	// Unattended mode as an explicit loop: the settled stage strictly
	// increases, so this terminates after at most the stage count.
	for cur := stage; ; {
		next, ok := cur.Next()
		if !ok {
			break
		}

		settled, err := s.AdvanceReconcile(ctx, next)
		if err != nil {
			return all, err
		}

		s.mu.Lock()
		matches := s.matches
		s.mu.Unlock()

		if picks := topPicks(matches); len(picks) > 0 {
			results, err := s.Modify(ctx, service.MethodInstall, picks, service.ModifyParams{ReplaceFolders: true})
			if err != nil {
				return all, err
			}
			all = append(all, results...)
		}
		cur = settled
	}
	return all, nil
}

func collectPicks(selections []*addon.Addon) []addon.Addon {
	var picks []addon.Addon
	for _, sel := range selections {
		if sel != nil {
			picks = append(picks, *sel)
		}
	}
	return picks
}

// topPicks auto-selects each group's top-ranked candidate, skipping
// groups with none.
func topPicks(matches []addon.Match) []addon.Addon {
	var picks []addon.Addon
	for _, m := range matches {
		if len(m.Matches) > 0 {
			picks = append(picks, m.Matches[0])
		}
	}
	return picks
}
