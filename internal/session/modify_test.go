package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

func TestModifyRejectsEmptyBatch(t *testing.T) {
	s := newTestSession(&fakeService{})
	_, err := s.Modify(context.Background(), service.MethodInstall, nil, service.ModifyParams{})
	require.ErrorIs(t, err, ErrNoAddons)
}

func TestModifyInstallPrependsBatchInResultOrder(t *testing.T) {
	rest := mkAddon("wowi", "9", "Questie", "1.0")
	a := mkAddon("curse", "1", "AtlasLoot", "1.0")
	b := mkAddon("curse", "2", "BigWigs", "1.0")

	svc := &fakeService{
		modify: func(_ context.Context, _ service.Method, defns []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
			return []addon.ModifyResult{okResult(a), okResult(b)}, nil
		},
	}
	s := newTestSession(svc, rest)

	_, err := s.Modify(context.Background(), service.MethodInstall, []addon.Addon{a, b}, service.ModifyParams{})
	require.NoError(t, err)

	installed := s.Installed()
	require.Len(t, installed, 3)
	// The new batch sits at the head in result order, which keeps it
	// alphabetical among the newly added items.
	assert.Equal(t, "AtlasLoot", installed[0].Name)
	assert.Equal(t, "BigWigs", installed[1].Name)
	assert.Equal(t, rest.Name, installed[2].Name)
}

func TestModifyUpdateReplacesInPlace(t *testing.T) {
	old := mkAddon("curse", "1", "AtlasLoot", "1.0")
	updated := mkAddon("curse", "1", "AtlasLoot", "2.0")
	other := mkAddon("wowi", "2", "pfQuest", "3.1")

	svc := &fakeService{
		modify: func(_ context.Context, _ service.Method, _ []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
			return []addon.ModifyResult{okResult(updated)}, nil
		},
	}
	s := newTestSession(svc, other, old)

	_, err := s.Modify(context.Background(), service.MethodUpdate, []addon.Addon{old}, service.ModifyParams{})
	require.NoError(t, err)

	installed := s.Installed()
	require.Len(t, installed, 2)
	assert.Equal(t, other.Name, installed[0].Name)
	assert.Equal(t, "2.0", installed[1].Version)
}

func TestModifyRemoveDeletesWithoutAlert(t *testing.T) {
	x := mkAddon("curse", "1", "AtlasLoot", "1.0")

	svc := &fakeService{
		modify: func(_ context.Context, _ service.Method, _ []addon.Defn, p service.ModifyParams) ([]addon.ModifyResult, error) {
			if !p.KeepFolders {
				t.Fatal("expected KeepFolders to be forwarded")
			}
			return []addon.ModifyResult{okResult(x)}, nil
		},
	}
	s := newTestSession(svc, x)

	_, err := s.Modify(context.Background(), service.MethodRemove, []addon.Addon{x}, service.ModifyParams{KeepFolders: true})
	require.NoError(t, err)

	assert.Empty(t, s.Installed())
	assert.Zero(t, s.Alerts().Len())
}

func TestModifyFailuresBecomeAlertsAndRestApplies(t *testing.T) {
	good := mkAddon("curse", "1", "AtlasLoot", "1.0")
	bad := mkAddon("curse", "2", "BigWigs", "1.0")

	svc := &fakeService{
		modify: func(_ context.Context, _ service.Method, _ []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
			return []addon.ModifyResult{
				okResult(good),
				errResult(addon.DefnOf(bad), "no files compatible with flavour"),
			}, nil
		},
	}
	s := newTestSession(svc)

	_, err := s.Modify(context.Background(), service.MethodInstall, []addon.Addon{good, bad}, service.ModifyParams{})
	require.NoError(t, err)

	require.Len(t, s.Installed(), 1)
	require.Equal(t, 1, s.Alerts().Len())

	alert, ok := s.Alerts().Current()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(alert.Heading, "Install failed"), "heading: %q", alert.Heading)
	assert.Contains(t, alert.Heading, "curse:2")
	assert.Equal(t, "no files compatible with flavour", alert.Message)
}

func TestModifyBusyDuringCallAndClearedAfter(t *testing.T) {
	a := mkAddon("curse", "1", "AtlasLoot", "1.0")

	var s *Session
	svc := &fakeService{}
	svc.modify = func(_ context.Context, _ service.Method, _ []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
		if !s.IsBusy(a.Token()) {
			t.Error("token not busy while call is outstanding")
		}
		return []addon.ModifyResult{okResult(a)}, nil
	}
	s = newTestSession(svc)

	_, err := s.Modify(context.Background(), service.MethodInstall, []addon.Addon{a}, service.ModifyParams{})
	require.NoError(t, err)
	assert.False(t, s.IsBusy(a.Token()))
}

func TestModifyBusyClearedOnTransportError(t *testing.T) {
	a := mkAddon("curse", "1", "AtlasLoot", "1.0")
	boom := errors.New("connection refused")

	svc := &fakeService{
		modify: func(context.Context, service.Method, []addon.Defn, service.ModifyParams) ([]addon.ModifyResult, error) {
			return nil, boom
		},
	}
	s := newTestSession(svc)

	_, err := s.Modify(context.Background(), service.MethodInstall, []addon.Addon{a}, service.ModifyParams{})
	require.ErrorIs(t, err, boom)
	assert.False(t, s.IsBusy(a.Token()), "busy mark must clear on transport error")
}

func TestModifyPollsProgressAndStopsAfterSettle(t *testing.T) {
	a := mkAddon("curse", "1", "AtlasLoot", "1.0")
	polled := make(chan struct{}, 1)

	svc := &fakeService{
		progress: func(context.Context) ([]service.DownloadProgress, error) {
			select {
			case polled <- struct{}{}:
			default:
			}
			return []service.DownloadProgress{{Defn: addon.DefnOf(a), Progress: 0.5}}, nil
		},
	}
	svc.modify = func(ctx context.Context, _ service.Method, _ []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
		select {
		case <-polled:
		case <-time.After(2 * time.Second):
			t.Error("progress was never polled during the call")
		}
		return []addon.ModifyResult{okResult(a)}, nil
	}
	s := newTestSession(svc)

	_, err := s.Modify(context.Background(), service.MethodInstall, []addon.Addon{a}, service.ModifyParams{})
	require.NoError(t, err)

	assert.Empty(t, s.Progress(), "snapshot must be cleared once the call settles")
	s.mu.Lock()
	pollers := s.pollers
	s.mu.Unlock()
	assert.Zero(t, pollers, "no poll goroutine may outlive the call")
}

func TestUpdateAllUpdatesOnlyOutdated(t *testing.T) {
	stale := mkAddon("curse", "1", "AtlasLoot", "1.0")
	current := mkAddon("wowi", "2", "pfQuest", "3.1")
	freshened := mkAddon("curse", "1", "AtlasLoot", "2.0")

	var updated []addon.Defn
	svc := &fakeService{
		resolve: func(_ context.Context, defns []addon.Defn) ([]addon.ModifyResult, error) {
			out := make([]addon.ModifyResult, 0, len(defns))
			for _, d := range defns {
				if d.Token() == stale.Token() {
					out = append(out, okResult(freshened))
				} else {
					out = append(out, okResult(current))
				}
			}
			return out, nil
		},
		modify: func(_ context.Context, m service.Method, defns []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
			require.Equal(t, service.MethodUpdate, m)
			updated = defns
			return []addon.ModifyResult{okResult(freshened)}, nil
		},
	}
	s := newTestSession(svc, stale, current)

	_, err := s.UpdateAll(context.Background())
	require.NoError(t, err)

	require.Len(t, updated, 1)
	assert.Equal(t, stale.Token(), updated[0].Token())
	assert.Equal(t, "2.0", s.Installed()[0].Version)
}

func TestPinSetsVersionStrategy(t *testing.T) {
	a := mkAddon("curse", "1", "AtlasLoot", "1.4.2")

	var pinned []addon.Defn
	svc := &fakeService{
		modify: func(_ context.Context, m service.Method, defns []addon.Defn, _ service.ModifyParams) ([]addon.ModifyResult, error) {
			require.Equal(t, service.MethodPin, m)
			pinned = defns
			return []addon.ModifyResult{okResult(a)}, nil
		},
	}
	s := newTestSession(svc, a)

	_, err := s.Pin(context.Background(), []addon.Addon{a}, true)
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, "1.4.2", pinned[0].Strategies.VersionEq)

	_, err = s.Pin(context.Background(), []addon.Addon{a}, false)
	require.NoError(t, err)
	assert.Empty(t, pinned[0].Strategies.VersionEq)
}
