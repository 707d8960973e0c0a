package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// wowColorCodeRe matches WoW colour escape sequences like |cffRRGGBB
// and |r that addon authors embed in .toc titles.
var wowColorCodeRe = regexp.MustCompile(`\|c[0-9a-fA-F]{8}|\|r`)

func stripColorCodes(s string) string {
	return wowColorCodeRe.ReplaceAllString(s, "")
}

// TOCInfo is the metadata declared in a folder's .toc file.
type TOCInfo struct {
	Title     string
	Version   string
	Interface string
	SourceID  string
}

// parseTOC extracts the ## metadata lines from a .toc file. Projects
// exported by packagers often carry an X-Website or X-Curse-Project-ID
// line which gives reconciliation a direct identifier.
func parseTOC(tocPath string) (*TOCInfo, error) {
	file, err := os.Open(tocPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	info := &TOCInfo{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "##") {
			continue
		}

		parts := strings.SplitN(strings.TrimSpace(strings.TrimPrefix(line, "##")), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch strings.ToLower(key) {
		case "title":
			info.Title = stripColorCodes(value)
		case "version":
			info.Version = value
		case "interface":
			info.Interface = value
		case "x-curse-project-id", "x-wowi-id":
			if info.SourceID == "" {
				info.SourceID = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// findTOC locates the .toc file inside a folder; by convention it is
// named after the folder itself.
func findTOC(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".toc") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", os.ErrNotExist
}
