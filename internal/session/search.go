package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// DefaultSearchLimit caps catalogue searches when the caller does not
// say otherwise.
const DefaultSearchLimit = 30

const defaultSearchDebounce = 350 * time.Millisecond

// SearchOptions narrows or redirects a search.
type SearchOptions struct {
	Limit     int
	Sources   []string
	StartDate *time.Time

	// ForceAlias resolves the whole query as an alias against the
	// wildcard source even without a known source prefix.
	ForceAlias bool

	// FilterInstalled turns results into a predicate over the
	// installed collection instead of a new result list.
	FilterInstalled bool
}

// Search runs either direct alias resolution or catalogue search plus
// bulk resolution. The query string is snapshotted on entry; after
// every service call the snapshot is compared against the current
// query, and a superseded call returns without touching visible state.
// Only genuinely stale calls are silent; transport errors are returned.
func (s *Session) Search(ctx context.Context, query string, opts SearchOptions) error {
	s.mu.Lock()
	s.searchQuery = query
	s.searchFlight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.searchFlight--
		s.mu.Unlock()
	}()

	terms := strings.TrimSpace(query)
	if terms == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.searchQuery != query {
			return nil
		}
		s.searchResults = nil
		s.filterTokens = nil
		s.filterActive = false
		s.activeView = ViewInstalled
		s.recomputeLocked()
		return nil
	}

	if source, alias, ok := s.parseAlias(terms, opts.ForceAlias); ok {
		return s.searchAlias(ctx, query, source, alias)
	}
	return s.searchCatalogue(ctx, query, terms, opts)
}

// SearchDebounced schedules a search after a short quiet period,
// superseding any previously scheduled one. onDone receives the
// outcome; it may be nil.
func (s *Session) SearchDebounced(ctx context.Context, query string, opts SearchOptions, onDone func(error)) {
	s.debounce.Trigger(func() {
		err := s.Search(ctx, query, opts)
		if onDone != nil {
			onDone(err)
		}
	})
}

// SearchInFlight reports whether any search invocation is still
// outstanding, for busy indicators.
func (s *Session) SearchInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchFlight > 0
}

// parseAlias detects "source:alias" queries. An unknown prefix only
// counts when alias mode is forced, in which case the whole query is
// resolved against the wildcard source.
func (s *Session) parseAlias(terms string, force bool) (source, alias string, ok bool) {
	if i := strings.Index(terms, ":"); i > 0 {
		src := terms[:i]
		rest := strings.TrimSpace(terms[i+1:])
		s.mu.Lock()
		known := s.knownSources[src]
		s.mu.Unlock()
		if known && rest != "" {
			return src, rest, true
		}
	}
	if force {
		return addon.WildcardSource, terms, true
	}
	return "", "", false
}

func (s *Session) searchAlias(ctx context.Context, query, source, alias string) error {
	results, err := s.svc.Resolve(ctx, []addon.Defn{{Source: source, Alias: alias}})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchQuery != query {
		s.log.Debug("Discarding stale alias result", "query", query)
		return nil
	}

	var found []addon.Addon
	for _, r := range results {
		if r.OK() {
			found = append(found, *r.Addon)
		} else {
			s.log.Debug("Alias did not resolve", "alias", alias, "message", r.Message)
		}
	}

	s.searchResults = found
	s.filterTokens = nil
	s.filterActive = false
	s.activeView = ViewSearch
	s.recomputeLocked()
	return nil
}

func (s *Session) searchCatalogue(ctx context.Context, query, terms string, opts SearchOptions) error {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	entries, err := s.svc.Search(ctx, terms, service.SearchParams{
		Limit:           limit,
		Sources:         opts.Sources,
		StartDate:       opts.StartDate,
		FilterInstalled: opts.FilterInstalled,
	})
	if err != nil {
		return err
	}

	if opts.FilterInstalled {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.searchQuery != query {
			s.log.Debug("Discarding stale filter result", "query", query)
			return nil
		}
		s.filterTokens = s.filterSetLocked(terms, entries)
		s.filterActive = true
		s.activeView = ViewFilterInstalled
		s.recomputeLocked()
		return nil
	}

	// Bail out before the resolve round trip when already superseded.
	s.mu.Lock()
	stale := s.searchQuery != query
	s.mu.Unlock()
	if stale {
		s.log.Debug("Discarding stale catalogue result", "query", query)
		return nil
	}

	defns := make([]addon.Defn, len(entries))
	for i, e := range entries {
		defns[i] = addon.Defn{Source: e.Source, Alias: e.ID}
	}

	var found []addon.Addon
	if len(defns) > 0 {
		results, err := s.svc.Resolve(ctx, defns)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.OK() {
				found = append(found, *r.Addon)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchQuery != query {
		s.log.Debug("Discarding stale resolved results", "query", query)
		return nil
	}
	s.searchResults = found
	s.filterTokens = nil
	s.filterActive = false
	s.activeView = ViewSearch
	s.recomputeLocked()
	return nil
}

// filterSetLocked combines catalogue hits with a local fuzzy match on
// installed names, since the catalogue can lag behind what is
// actually installed. Callers must hold s.mu.
func (s *Session) filterSetLocked(terms string, entries []addon.CatalogueEntry) map[addon.Token]struct{} {
	tokens := make(map[addon.Token]struct{}, len(entries))
	for _, e := range entries {
		tokens[e.Token()] = struct{}{}
	}

	names := make([]string, len(s.installed))
	for i, a := range s.installed {
		names[i] = a.Name
	}
	for _, m := range fuzzy.Find(terms, names) {
		tokens[s.installed[m.Index].Token()] = struct{}{}
	}
	return tokens
}

// Debouncer coalesces rapid triggers into one invocation after a
// quiet period. Each Trigger supersedes the previous one.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer; delay <= 0 uses the default.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = defaultSearchDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling any not-yet-fired schedule.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
