// Package profile maps profile names to live sessions. Each profile
// owns an independent session (installed collection, alert log, busy
// set); process-wide state is just this mapping.
package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/rmolin/wowpkg/internal/service"
	"github.com/rmolin/wowpkg/internal/session"
)

// ErrUnknownProfile is returned when operating on a profile that was
// never loaded.
var ErrUnknownProfile = errors.New("unknown profile")

// Factory builds the service client scoped to one profile.
type Factory func(name string) (service.Service, error)

// Registry owns the profile-to-session mapping and the active profile
// pointer.
type Registry struct {
	factory Factory
	logger  *log.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session
	active   string
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, logger *log.Logger) *Registry {
	return &Registry{
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*session.Session),
	}
}

// Load returns the session for the named profile, creating and seeding
// it on first use.
func (r *Registry) Load(ctx context.Context, name string) (*session.Session, error) {
	if fields := ValidateName(name, nil); len(fields) > 0 {
		return nil, fmt.Errorf("invalid profile name: %s", fields["name"])
	}

	r.mu.Lock()
	if s, ok := r.sessions[name]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	svc, err := r.factory(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create service for profile %q: %w", name, err)
	}

	s := session.New(name, svc, r.logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have raced us; keep the first one.
	if existing, ok := r.sessions[name]; ok {
		return existing, nil
	}
	r.sessions[name] = s
	if r.active == "" {
		r.active = name
	}
	r.logger.Debug("Profile loaded", "profile", name)
	return s, nil
}

// Get returns an already-loaded session.
func (r *Registry) Get(name string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[name]
	return s, ok
}

// Active returns the currently active session, if any.
func (r *Registry) Active() (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[r.active]
	return s, ok
}

// Switch makes the named profile active, loading it if necessary. The
// previous profile's session stays loaded but inactive; its alerts are
// no longer presented.
func (r *Registry) Switch(ctx context.Context, name string) (*session.Session, error) {
	s, err := r.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.active = name
	r.mu.Unlock()
	return s, nil
}

// Delete tears down the named profile's session. Its alert log and all
// other state die with it.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	s.Alerts().DismissAll()
	delete(r.sessions, name)
	if r.active == name {
		r.active = ""
	}
	r.logger.Debug("Profile deleted", "profile", name)
	return nil
}

// Names returns the loaded profile names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	return names
}

var profileNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*$`)

// ValidateName checks a proposed profile name and returns a field-keyed
// error set, empty when valid. exists reports whether a profile with
// that name is already taken; nil skips the duplicate check.
func ValidateName(name string, exists func(string) bool) map[string]string {
	fields := make(map[string]string)
	switch {
	case name == "":
		fields["name"] = "a profile name is required"
	case !profileNameRe.MatchString(name):
		fields["name"] = "profile names may only contain letters, digits, spaces, dots, dashes and underscores"
	case exists != nil && exists(name):
		fields["name"] = "a profile with that name already exists"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
