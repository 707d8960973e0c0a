package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

// fakeService implements service.Service with overridable behaviour
// per method. Unset methods return empty results.
type fakeService struct {
	list         func(ctx context.Context) ([]addon.Addon, error)
	resolve      func(ctx context.Context, defns []addon.Defn) ([]addon.ModifyResult, error)
	search       func(ctx context.Context, query string, p service.SearchParams) ([]addon.CatalogueEntry, error)
	modify       func(ctx context.Context, m service.Method, defns []addon.Defn, p service.ModifyParams) ([]addon.ModifyResult, error)
	reconcile    func(ctx context.Context, stage addon.Stage) ([]addon.Match, error)
	swapCands    func(ctx context.Context) ([]service.SwapCandidate, error)
	progress     func(ctx context.Context) ([]service.DownloadProgress, error)
	changelog    func(ctx context.Context, source, url string) (string, error)
	listSources  func(ctx context.Context) ([]addon.SourceMeta, error)
}

func (f *fakeService) List(ctx context.Context) ([]addon.Addon, error) {
	if f.list != nil {
		return f.list(ctx)
	}
	return nil, nil
}

func (f *fakeService) Resolve(ctx context.Context, defns []addon.Defn) ([]addon.ModifyResult, error) {
	if f.resolve != nil {
		return f.resolve(ctx, defns)
	}
	return nil, nil
}

func (f *fakeService) Search(ctx context.Context, query string, p service.SearchParams) ([]addon.CatalogueEntry, error) {
	if f.search != nil {
		return f.search(ctx, query, p)
	}
	return nil, nil
}

func (f *fakeService) ModifyAddons(ctx context.Context, m service.Method, defns []addon.Defn, p service.ModifyParams) ([]addon.ModifyResult, error) {
	if f.modify != nil {
		return f.modify(ctx, m, defns, p)
	}
	return nil, nil
}

func (f *fakeService) Reconcile(ctx context.Context, stage addon.Stage) ([]addon.Match, error) {
	if f.reconcile != nil {
		return f.reconcile(ctx, stage)
	}
	return nil, nil
}

func (f *fakeService) GetReconcileInstalledCandidates(ctx context.Context) ([]service.SwapCandidate, error) {
	if f.swapCands != nil {
		return f.swapCands(ctx)
	}
	return nil, nil
}

func (f *fakeService) GetDownloadProgress(ctx context.Context) ([]service.DownloadProgress, error) {
	if f.progress != nil {
		return f.progress(ctx)
	}
	return nil, nil
}

func (f *fakeService) GetChangelog(ctx context.Context, source, url string) (string, error) {
	if f.changelog != nil {
		return f.changelog(ctx, source, url)
	}
	return "", nil
}

func (f *fakeService) ListSources(ctx context.Context) ([]addon.SourceMeta, error) {
	if f.listSources != nil {
		return f.listSources(ctx)
	}
	return []addon.SourceMeta{{Source: "curse", Name: "CurseForge"}, {Source: "wowi", Name: "WoWInterface"}}, nil
}

// newTestSession builds a loaded session over the fake with a fast
// poll interval.
func newTestSession(svc *fakeService, installed ...addon.Addon) *Session {
	if svc.list == nil {
		svc.list = func(context.Context) ([]addon.Addon, error) { return installed, nil }
	}
	s := New("default", svc, log.New(io.Discard))
	s.pollInterval = 5 * time.Millisecond
	if err := s.Load(context.Background()); err != nil {
		panic(err)
	}
	return s
}

func mkAddon(source, id, name, version string) addon.Addon {
	return addon.Addon{Source: source, ID: id, Slug: name, Name: name, Version: version}
}

func okResult(a addon.Addon) addon.ModifyResult {
	cp := a
	return addon.ModifyResult{Defn: addon.DefnOf(a), Status: addon.StatusSuccess, Addon: &cp}
}

func errResult(d addon.Defn, msg string) addon.ModifyResult {
	return addon.ModifyResult{Defn: d, Status: addon.StatusError, Message: msg}
}
