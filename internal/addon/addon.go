package addon

import "time"

// Addon is a fully resolved add-on as returned by the resolution service.
// It is a snapshot at resolution time and is never mutated.
type Addon struct {
	Source         string          `json:"source"`
	ID             string          `json:"id"`
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Version        string          `json:"version"`
	DatePublished  time.Time       `json:"date_published"`
	Description    string          `json:"description,omitempty"`
	URL            string          `json:"url,omitempty"`
	Folders        []Folder        `json:"folders,omitempty"`
	Options        StrategySet     `json:"options"`
	LoggedVersions []LoggedVersion `json:"logged_versions,omitempty"`
	ChangelogURL   string          `json:"changelog_url,omitempty"`
}

// Folder is an on-disk folder claimed by an installed add-on.
type Folder struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// LoggedVersion records a version that was installed at some point.
type LoggedVersion struct {
	Version     string    `json:"version"`
	InstallTime time.Time `json:"install_time"`
}

// Defn identifies an add-on to resolve, independent of whether it is
// installed. Alias may be a slug, a numeric id, or a URL fragment the
// source understands.
type Defn struct {
	Source     string      `json:"source"`
	Alias      string      `json:"alias"`
	Strategies StrategySet `json:"strategies"`
}

// StrategySet holds installation policy modifiers. Zero values mean
// "use the source default".
type StrategySet struct {
	AnyFlavour     bool   `json:"any_flavour,omitempty"`
	AnyReleaseType bool   `json:"any_release_type,omitempty"`
	VersionEq      string `json:"version_eq,omitempty"`
}

// DefnOf converts a resolved add-on back into a request, keyed by its
// service-assigned id so the derived token stays stable.
func DefnOf(a Addon) Defn {
	return Defn{
		Source:     a.Source,
		Alias:      a.ID,
		Strategies: a.Options,
	}
}

// Triplet is the display-ready identity of an add-on: the reference
// (installed snapshot, or the add-on itself when not installed), the
// latest resolved data, and the membership flag for the installed set.
type Triplet struct {
	Reference Addon
	Resolved  Addon
	Installed bool
}

// HasUpdate reports whether the resolved version differs from the
// reference version.
func (t Triplet) HasUpdate() bool {
	return t.Installed && t.Resolved.Version != "" && t.Resolved.Version != t.Reference.Version
}

// CatalogueEntry is a lightweight pre-resolution search hit. It must be
// resolved into a full Addon before anything can be installed from it.
type CatalogueEntry struct {
	Source        string    `json:"source"`
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	DownloadCount int       `json:"download_count,omitempty"`
	LastUpdated   time.Time `json:"last_updated,omitempty"`
}

// SourceMeta describes a source known to the resolution service.
type SourceMeta struct {
	Source          string   `json:"source"`
	Name            string   `json:"name"`
	Strategies      []string `json:"strategies,omitempty"`
	ChangelogFormat string   `json:"changelog_format,omitempty"`
}

// WildcardSource resolves an alias against whichever source claims it.
const WildcardSource = "*"
