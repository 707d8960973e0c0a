// Package scan inspects the profile's add-ons directory for folders
// the daemon has no claim on, collecting whatever local metadata can
// help a reconciliation pass: .toc declarations and, for folders that
// are git clones, the origin remote URL.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	git "github.com/go-git/go-git/v5"
)

// FolderInfo is what could be learnt about one unregistered folder.
type FolderInfo struct {
	Name      string
	Title     string
	Version   string
	Interface string
	SourceID  string
	RemoteURL string
}

// Scanner walks one add-ons directory.
type Scanner struct {
	addonsDir string
	logger    *log.Logger
}

// New creates a scanner over the given add-ons directory.
func New(addonsDir string, logger *log.Logger) *Scanner {
	return &Scanner{addonsDir: addonsDir, logger: logger}
}

// Unregistered returns metadata for every folder not present in the
// claimed set, sorted by name. A missing add-ons directory yields an
// empty result rather than an error.
func (s *Scanner) Unregistered(claimed map[string]bool) ([]FolderInfo, error) {
	entries, err := os.ReadDir(s.addonsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read addons directory: %w", err)
	}

	var folders []FolderInfo
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || claimed[name] {
			continue
		}
		folders = append(folders, s.inspect(name))
	}

	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
	return folders, nil
}

func (s *Scanner) inspect(name string) FolderInfo {
	dir := filepath.Join(s.addonsDir, name)
	info := FolderInfo{Name: name}

	if tocPath, err := findTOC(dir); err == nil {
		if toc, err := parseTOC(tocPath); err == nil {
			info.Title = toc.Title
			info.Version = toc.Version
			info.Interface = toc.Interface
			info.SourceID = toc.SourceID
		} else {
			s.logger.Debug("Failed to parse .toc", "folder", name, "error", err)
		}
	}

	if url, err := remoteURL(dir); err == nil {
		info.RemoteURL = url
	}
	return info
}

// remoteURL returns the origin remote of a folder that happens to be a
// git clone; most folders are not and that is fine.
func remoteURL(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", err
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", err
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", git.ErrRemoteNotFound
	}
	return urls[0], nil
}
