package profile

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
	"github.com/rmolin/wowpkg/internal/session"
)

type stubService struct{}

func (stubService) List(context.Context) ([]addon.Addon, error) { return nil, nil }
func (stubService) Resolve(context.Context, []addon.Defn) ([]addon.ModifyResult, error) {
	return nil, nil
}
func (stubService) Search(context.Context, string, service.SearchParams) ([]addon.CatalogueEntry, error) {
	return nil, nil
}
func (stubService) ModifyAddons(context.Context, service.Method, []addon.Defn, service.ModifyParams) ([]addon.ModifyResult, error) {
	return nil, nil
}
func (stubService) Reconcile(context.Context, addon.Stage) ([]addon.Match, error) { return nil, nil }
func (stubService) GetReconcileInstalledCandidates(context.Context) ([]service.SwapCandidate, error) {
	return nil, nil
}
func (stubService) GetDownloadProgress(context.Context) ([]service.DownloadProgress, error) {
	return nil, nil
}
func (stubService) GetChangelog(context.Context, string, string) (string, error) { return "", nil }
func (stubService) ListSources(context.Context) ([]addon.SourceMeta, error)      { return nil, nil }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	factory := func(name string) (service.Service, error) { return stubService{}, nil }
	return NewRegistry(factory, log.New(io.Discard))
}

func TestRegistryLoadIsIdempotent(t *testing.T) {
	r := newTestRegistry(t)

	first, err := r.Load(context.Background(), "default")
	require.NoError(t, err)
	second, err := r.Load(context.Background(), "default")
	require.NoError(t, err)
	assert.Same(t, first, second)

	active, ok := r.Active()
	require.True(t, ok)
	assert.Same(t, first, active)
}

func TestRegistryProfilesAreIndependent(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Load(context.Background(), "classic")
	require.NoError(t, err)
	b, err := r.Switch(context.Background(), "retail")
	require.NoError(t, err)

	a.Alerts().Push(session.Alert{Heading: "classic only"})
	assert.Equal(t, 1, a.Alerts().Len())
	assert.Zero(t, b.Alerts().Len(), "alerts must not leak across profiles")

	active, ok := r.Active()
	require.True(t, ok)
	assert.Same(t, b, active)
}

func TestRegistryDeleteTearsDownSession(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Load(context.Background(), "default")
	require.NoError(t, err)

	require.NoError(t, r.Delete("default"))
	_, ok := r.Get("default")
	assert.False(t, ok)
	_, ok = r.Active()
	assert.False(t, ok)

	assert.ErrorIs(t, r.Delete("default"), ErrUnknownProfile)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		taken bool
		field bool
	}{
		{"valid", "My Profile_1.2", false, false},
		{"empty", "", false, true},
		{"leading dash", "-x", false, true},
		{"slash", "a/b", false, true},
		{"duplicate", "default", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists := func(string) bool { return tt.taken }
			fields := ValidateName(tt.input, exists)
			if tt.field {
				require.Contains(t, fields, "name")
			} else {
				assert.Empty(t, fields)
			}
		})
	}
}
