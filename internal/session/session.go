// Package session implements the per-profile orchestration core: the
// installed collection, busy tracking, alert log, search, the
// reconciliation protocols and the derived display views. All state
// mutation happens under one mutex; service calls are made outside it
// and their results are re-validated before being applied.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// View identifies which derived collection a frontend should render.
type View int

const (
	ViewInstalled View = iota
	ViewFilterInstalled
	ViewSearch
	ViewReconcile
	ViewReconcileInstalled
)

func (v View) String() string {
	switch v {
	case ViewFilterInstalled:
		return "filter-installed"
	case ViewSearch:
		return "search"
	case ViewReconcile:
		return "reconcile"
	case ViewReconcileInstalled:
		return "reconcile-installed"
	default:
		return "installed"
	}
}

// Session owns all mutable state for one profile. It is safe for
// concurrent use.
type Session struct {
	profile string
	svc     service.Service
	log     *log.Logger
	alerts  *AlertLog

	pollInterval time.Duration
	debounce     *Debouncer

	mu           sync.Mutex
	installed    []addon.Addon
	resolved     map[addon.Token]addon.Addon
	busy         map[addon.Token]struct{}
	progress     map[addon.Token]float64
	pollers      int
	knownSources map[string]bool
	activeView   View

	searchQuery   string
	searchFlight  int
	searchResults []addon.Addon
	filterTokens  map[addon.Token]struct{}
	filterActive  bool

	stage      addon.Stage
	matches    []addon.Match
	selections []*addon.Addon
	swaps      []service.SwapCandidate

	views Views
}

// New creates a session for the given profile. Call Load before use.
func New(profile string, svc service.Service, logger *log.Logger) *Session {
	return &Session{
		profile:      profile,
		svc:          svc,
		log:          logger,
		alerts:       NewAlertLog(),
		pollInterval: time.Second,
		debounce:     NewDebouncer(0),
		resolved:     make(map[addon.Token]addon.Addon),
		busy:         make(map[addon.Token]struct{}),
		progress:     make(map[addon.Token]float64),
		knownSources: make(map[string]bool),
		stage:        addon.FirstStage,
	}
}

// Load seeds the installed collection and the known-source set from
// the service.
func (s *Session) Load(ctx context.Context) error {
	installed, err := s.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list installed addons: %w", err)
	}

	sources, err := s.svc.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.installed = installed
	s.knownSources = make(map[string]bool, len(sources))
	for _, src := range sources {
		s.knownSources[src.Source] = true
	}
	s.recomputeLocked()
	s.log.Debug("Session loaded", "profile", s.profile,
		"installed", len(installed), "sources", len(sources))
	return nil
}

// Profile returns the profile name this session belongs to.
func (s *Session) Profile() string {
	return s.profile
}

// Alerts returns the session's alert log.
func (s *Session) Alerts() *AlertLog {
	return s.alerts
}

// Installed returns a copy of the installed collection.
func (s *Session) Installed() []addon.Addon {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]addon.Addon, len(s.installed))
	copy(out, s.installed)
	return out
}

// IsBusy reports whether an operation is in flight for the token.
func (s *Session) IsBusy(tok addon.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[tok]
	return ok
}

// Progress returns the latest download-progress snapshot, token to
// fraction in [0, 1].
func (s *Session) Progress() map[addon.Token]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[addon.Token]float64, len(s.progress))
	for k, v := range s.progress {
		out[k] = v
	}
	return out
}

// ActiveView returns the view a frontend should currently render.
func (s *Session) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeView
}

// Views returns the current derived collections.
func (s *Session) Views() Views {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views
}

func (s *Session) markBusy(tokens []addon.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range tokens {
		s.busy[tok] = struct{}{}
	}
}

func (s *Session) clearBusy(tokens []addon.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range tokens {
		delete(s.busy, tok)
	}
}

func (s *Session) indexOfLocked(tok addon.Token) int {
	for i, a := range s.installed {
		if a.Token() == tok {
			return i
		}
	}
	return -1
}

func (s *Session) removeInstalledLocked(tok addon.Token) {
	if i := s.indexOfLocked(tok); i >= 0 {
		s.installed = append(s.installed[:i], s.installed[i+1:]...)
	}
}
