package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// ErrNoAddons is returned when a modification is requested for an
// empty batch.
var ErrNoAddons = errors.New("no addons given")

// Modify runs one install/update/remove/pin batch against the service.
// Argument tokens are marked busy and download progress is polled for
// the duration of the call; both are torn down whether the call
// succeeds, fails per item, or the transport itself errors.
//
// Per-item failures do not abort the batch: they become alerts and the
// remaining results are still applied.
func (s *Session) Modify(ctx context.Context, method service.Method, addons []addon.Addon, params service.ModifyParams) ([]addon.ModifyResult, error) {
	if len(addons) == 0 {
		return nil, ErrNoAddons
	}

	defns := make([]addon.Defn, len(addons))
	tokens := make([]addon.Token, len(addons))
	for i, a := range addons {
		defns[i] = addon.DefnOf(a)
		tokens[i] = a.Token()
	}

	s.markBusy(tokens)
	pollCtx, cancel := context.WithCancel(ctx)
	pollDone := make(chan struct{})
	go s.pollProgress(pollCtx, pollDone)
	defer func() {
		cancel()
		<-pollDone
		s.clearBusy(tokens)
	}()

	s.log.Debug("Modifying addons", "method", method, "count", len(defns))

	results, err := s.svc.ModifyAddons(ctx, method, defns, params)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	s.applyResults(method, results)
	return results, nil
}

// applyResults merges a batch outcome into the installed collection:
// removes are deleted, existing entries are replaced in place, and new
// installs are prepended in reverse-result order so the batch ends up
// at the head in result order.
func (s *Session) applyResults(method service.Method, results []addon.ModifyResult) {
	var alerts []Alert
	var fresh []addon.Addon

	s.mu.Lock()
	for _, r := range results {
		if !r.OK() {
			alerts = append(alerts, Alert{
				Heading: fmt.Sprintf("%s failed: %s", method.Label(), displayName(r)),
				Message: r.Message,
			})
			continue
		}

		tok := r.Addon.Token()
		if method == service.MethodRemove {
			s.removeInstalledLocked(tok)
			delete(s.resolved, tok)
			continue
		}

		s.resolved[tok] = *r.Addon
		if i := s.indexOfLocked(tok); i >= 0 {
			s.installed[i] = *r.Addon
		} else {
			fresh = append(fresh, *r.Addon)
		}
	}

	for i := len(fresh) - 1; i >= 0; i-- {
		s.installed = append([]addon.Addon{fresh[i]}, s.installed...)
	}
	s.recomputeLocked()
	s.mu.Unlock()

	if len(alerts) > 0 {
		s.alerts.Push(alerts...)
	}
}

func displayName(r addon.ModifyResult) string {
	if r.Addon != nil && r.Addon.Name != "" {
		return r.Addon.Name
	}
	return string(r.Defn.Token())
}

// pollProgress republishes the service's download-progress reports as
// a token-keyed snapshot until its context is cancelled. The snapshot
// is cleared once the last poller stops.
func (s *Session) pollProgress(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	s.mu.Lock()
	s.pollers++
	s.mu.Unlock()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.pollers--
			if s.pollers == 0 {
				s.progress = make(map[addon.Token]float64)
			}
			s.mu.Unlock()
			return
		case <-ticker.C:
			reports, err := s.svc.GetDownloadProgress(ctx)
			if err != nil {
				s.log.Debug("Progress poll failed", "error", err)
				continue
			}
			snap := make(map[addon.Token]float64, len(reports))
			for _, r := range reports {
				snap[r.Defn.Token()] = r.Progress
			}
			s.mu.Lock()
			s.progress = snap
			s.mu.Unlock()
		}
	}
}

// Install resolves-and-installs definitions that are not yet known as
// addons, e.g. from a search pick or an alias.
func (s *Session) Install(ctx context.Context, defns []addon.Defn, replace bool) ([]addon.ModifyResult, error) {
	if len(defns) == 0 {
		return nil, ErrNoAddons
	}
	stand := make([]addon.Addon, len(defns))
	for i, d := range defns {
		// A minimal stand-in; the service keys results by defn.
		stand[i] = addon.Addon{Source: d.Source, ID: d.Alias, Options: d.Strategies}
	}
	return s.Modify(ctx, service.MethodInstall, stand, service.ModifyParams{ReplaceFolders: replace})
}

// Refresh re-resolves every installed add-on and records the latest
// service data for update detection. Per-item failures become alerts.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defns := make([]addon.Defn, len(s.installed))
	for i, a := range s.installed {
		defns[i] = addon.DefnOf(a)
	}
	s.mu.Unlock()

	if len(defns) == 0 {
		return nil
	}

	results, err := s.svc.Resolve(ctx, defns)
	if err != nil {
		return fmt.Errorf("resolve call failed: %w", err)
	}

	var alerts []Alert
	s.mu.Lock()
	for _, r := range results {
		if r.OK() {
			s.resolved[r.Addon.Token()] = *r.Addon
			continue
		}
		alerts = append(alerts, Alert{
			Heading: fmt.Sprintf("Refresh failed: %s", displayName(r)),
			Message: r.Message,
		})
	}
	s.recomputeLocked()
	s.mu.Unlock()

	if len(alerts) > 0 {
		s.alerts.Push(alerts...)
	}
	return nil
}

// UpdateAll refreshes and then updates every installed add-on whose
// resolved version differs from its reference version. A nil result
// with nil error means everything was already current.
func (s *Session) UpdateAll(ctx context.Context) ([]addon.ModifyResult, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var outdated []addon.Addon
	for _, a := range s.installed {
		if r, ok := s.resolved[a.Token()]; ok && r.Version != a.Version {
			outdated = append(outdated, a)
		}
	}
	s.mu.Unlock()

	if len(outdated) == 0 {
		s.log.Debug("All addons up to date")
		return nil, nil
	}
	return s.Modify(ctx, service.MethodUpdate, outdated, service.ModifyParams{})
}

// Pin pins the given add-ons to their installed versions, or lifts the
// pin when pinned is false. A strategy change requires a reinstall, so
// this goes through the service like any other modification.
func (s *Session) Pin(ctx context.Context, addons []addon.Addon, pinned bool) ([]addon.ModifyResult, error) {
	adjusted := make([]addon.Addon, len(addons))
	for i, a := range addons {
		if pinned {
			a.Options.VersionEq = a.Version
		} else {
			a.Options.VersionEq = ""
		}
		adjusted[i] = a
	}
	return s.Modify(ctx, service.MethodPin, adjusted, service.ModifyParams{})
}
