// Package picker is an interactive catalogue search: a text input
// driving debounced searches against the session, with results in a
// selectable list.
package picker

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/session"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

// Sink forwards messages into a running program. Search completions
// land on goroutines the program doesn't own, so the send function is
// bound after tea.NewProgram and guarded until then.
type Sink struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewSink() *Sink {
	return &Sink{}
}

// Bind attaches the program's Send. Messages posted earlier are dropped.
func (s *Sink) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// Post delivers msg to the program, if one is bound.
func (s *Sink) Post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

type resultsMsg struct {
	err error
}

// item adapts a triplet to the bubbles list.
type item struct {
	t addon.Triplet
}

func (i item) Title() string {
	name := i.t.Resolved.Name
	if name == "" {
		name = i.t.Resolved.Slug
	}
	if i.t.Installed {
		return name + " " + styles.FormatInstalledBadge()
	}
	return name
}

func (i item) Description() string {
	desc := i.t.Resolved.Description
	if desc == "" {
		desc = i.t.Resolved.URL
	}
	if v := i.t.Resolved.Version; v != "" {
		return fmt.Sprintf("%s  %s", v, desc)
	}
	return desc
}

func (i item) FilterValue() string {
	return i.t.Resolved.Name
}

// Model is the bubbletea model for the picker.
type Model struct {
	sess *session.Session
	sink *Sink
	opts session.SearchOptions

	input textinput.Model
	list  list.Model

	chosen *addon.Triplet
	err    error
	quit   bool
}

// NewModel creates a picker over the given session. The sink must be
// bound to the program before input arrives.
func NewModel(sess *session.Session, opts session.SearchOptions, sink *Sink) Model {
	ti := textinput.New()
	ti.Placeholder = "search add-ons (source:id for a direct lookup)"
	ti.Prompt = "> "
	ti.PromptStyle = styles.Spinner
	ti.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = styles.Selected
	delegate.Styles.SelectedDesc = styles.MutedText

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{
		sess:  sess,
		sink:  sink,
		opts:  opts,
		input: ti,
		list:  l,
	}
}

// Chosen returns the selected result, or nil when the picker was
// dismissed without a choice.
func (m Model) Chosen() *addon.Triplet {
	return m.chosen
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.WindowSize())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				t := it.t
				m.chosen = &t
			}
			m.quit = true
			return m, tea.Quit
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.sess.SearchDebounced(context.Background(), m.input.Value(), m.opts, func(err error) {
				m.sink.Post(resultsMsg{err: err})
			})
		}
		return m, cmd

	case resultsMsg:
		m.err = msg.err
		m.list.SetItems(m.currentItems())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// currentItems mirrors whichever collection the session says is
// active, so filter-installed mode narrows rather than replaces.
func (m Model) currentItems() []list.Item {
	views := m.sess.Views()
	var triplets []addon.Triplet
	switch m.sess.ActiveView() {
	case session.ViewFilterInstalled:
		triplets = views.FilteredInstalled
	case session.ViewSearch:
		triplets = views.Search
	default:
		triplets = views.Installed
	}

	items := make([]list.Item, 0, len(triplets))
	for _, t := range triplets {
		items = append(items, item{t: t})
	}
	return items
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	var status string
	switch {
	case m.err != nil:
		status = styles.ErrorText.Render(m.err.Error())
	case m.sess.SearchInFlight():
		status = styles.MutedText.Render("searching...")
	default:
		status = styles.MutedText.Render(fmt.Sprintf("%d results", len(m.list.Items())))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		status,
		m.list.View(),
	)
}
