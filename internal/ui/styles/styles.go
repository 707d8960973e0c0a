// Package styles holds the shared lipgloss palette and text styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#7D56F4") // Purple
	Success = lipgloss.Color("#50FA7B") // Green
	Warning = lipgloss.Color("#FFB86C") // Orange
	Error   = lipgloss.Color("#FF5555") // Red
	Muted   = lipgloss.Color("#6272A4") // Muted blue-gray
	Text    = lipgloss.Color("#F8F8F2") // Light text
)

var (
	// Title style for headers
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	// Subtitle style
	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NormalText = lipgloss.NewStyle().
			Foreground(Text)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	// Selected item in lists
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Spinner style
	Spinner = lipgloss.NewStyle().
		Foreground(Primary)
)

// FormatInstalledBadge renders the [installed] marker for search and
// reconcile listings.
func FormatInstalledBadge() string {
	return SuccessText.Render("[installed]")
}

// FormatPinnedBadge renders the marker for version-pinned add-ons.
func FormatPinnedBadge() string {
	return WarningText.Render("[pinned]")
}
