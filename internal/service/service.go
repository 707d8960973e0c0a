package service

import (
	"context"
	"time"

	"github.com/rmolin/wowpkg/internal/addon"
)

// Method is a modification verb understood by the resolution service.
type Method string

const (
	MethodInstall Method = "install"
	MethodUpdate  Method = "update"
	MethodRemove  Method = "remove"
	MethodPin     Method = "pin"
)

// Label returns the human-readable form used in alerts and logs.
func (m Method) Label() string {
	switch m {
	case MethodInstall:
		return "Install"
	case MethodUpdate:
		return "Update"
	case MethodRemove:
		return "Remove"
	case MethodPin:
		return "Pin"
	default:
		return string(m)
	}
}

// ModifyParams carries per-call options for ModifyAddons.
type ModifyParams struct {
	// ReplaceFolders lets an install take over folders already
	// claimed by another add-on (used by reconciliation).
	ReplaceFolders bool `json:"replace_folders,omitempty"`
	// KeepFolders removes an add-on from the registry without
	// deleting its on-disk folders (used when switching sources).
	KeepFolders bool `json:"keep_folders,omitempty"`
}

// SearchParams narrows a catalogue search.
type SearchParams struct {
	Limit           int        `json:"limit"`
	Sources         []string   `json:"sources,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FilterInstalled bool       `json:"filter_installed,omitempty"`
}

// SwapCandidate pairs an installed add-on with same-identity
// candidates from other sources.
type SwapCandidate struct {
	Installed    addon.Addon   `json:"installed"`
	Alternatives []addon.Addon `json:"alternatives"`
}

// DownloadProgress reports how far along one in-flight download is.
type DownloadProgress struct {
	Defn     addon.Defn `json:"defn"`
	Progress float64    `json:"progress"` // 0..1
}

// Service is the remote resolution/installation collaborator. The
// orchestration core only ever talks to this interface; the transport
// behind it is an implementation detail.
type Service interface {
	// List returns the currently installed add-ons.
	List(ctx context.Context) ([]addon.Addon, error)

	// Resolve refreshes the given definitions without installing,
	// one result per input.
	Resolve(ctx context.Context, defns []addon.Defn) ([]addon.ModifyResult, error)

	// Search queries the catalogue for pre-resolution entries.
	Search(ctx context.Context, query string, params SearchParams) ([]addon.CatalogueEntry, error)

	// ModifyAddons installs, updates, removes or pins, one result
	// per input definition.
	ModifyAddons(ctx context.Context, method Method, defns []addon.Defn, params ModifyParams) ([]addon.ModifyResult, error)

	// Reconcile returns candidate matches for unreconciled folder
	// groups at the given stage.
	Reconcile(ctx context.Context, stage addon.Stage) ([]addon.Match, error)

	// GetReconcileInstalledCandidates returns alternative-source
	// candidates for already-installed add-ons.
	GetReconcileInstalledCandidates(ctx context.Context) ([]SwapCandidate, error)

	// GetDownloadProgress reports progress for in-flight downloads.
	GetDownloadProgress(ctx context.Context) ([]DownloadProgress, error)

	// GetChangelog fetches the changelog payload behind an add-on's
	// changelog URL.
	GetChangelog(ctx context.Context, source, changelogURL string) (string, error)

	// ListSources enumerates the sources the service can resolve
	// against.
	ListSources(ctx context.Context) ([]addon.SourceMeta, error)
}
