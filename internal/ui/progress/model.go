// Package progress renders a live view of one modification batch: a
// spinner while the service call is outstanding and a download bar per
// add-on fed by the session's progress snapshots.
package progress

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

// Messages the driving command sends into the model.
type (
	// SnapshotMsg is the latest token-to-fraction progress snapshot.
	SnapshotMsg map[addon.Token]float64

	// DoneMsg signals the batch settled.
	DoneMsg struct {
		Results []addon.ModifyResult
		Err     error
	}
)

// Model is the bubbletea model for a modification batch.
type Model struct {
	title   string
	tokens  []addon.Token
	spinner spinner.Model
	bar     progress.Model

	fractions map[addon.Token]float64
	results   []addon.ModifyResult
	done      bool
	err       error
	width     int
}

// NewModel creates a progress model for the given batch tokens.
func NewModel(title string, tokens []addon.Token) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return Model{
		title:     title,
		tokens:    tokens,
		spinner:   s,
		bar:       bar,
		fractions: make(map[addon.Token]float64),
		width:     80,
	}
}

// Err returns the transport error the batch settled with, if any.
func (m Model) Err() error {
	return m.err
}

// Results returns the per-item outcomes once done.
func (m Model) Results() []addon.ModifyResult {
	return m.results
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = minInt(msg.Width-30, 40)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SnapshotMsg:
		for tok, frac := range msg {
			m.fractions[tok] = frac
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.results = msg.Results
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)
	b.WriteString(title.Render(m.title))
	b.WriteString("\n\n")

	tokens := append([]addon.Token{}, m.tokens...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	for _, tok := range tokens {
		frac, polled := m.fractions[tok]
		switch {
		case m.done:
			b.WriteString("  " + styles.SuccessText.Render("done") + " ")
		case polled:
			b.WriteString(fmt.Sprintf("  %s %3.0f%% ", m.bar.ViewAs(frac), frac*100))
		default:
			b.WriteString("  " + m.spinner.View() + " ")
		}
		b.WriteString(styles.NormalText.Render(string(tok)))
		b.WriteString("\n")
	}

	if m.done && m.err != nil {
		b.WriteString("\n" + styles.ErrorText.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
