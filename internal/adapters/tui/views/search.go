package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"storyforge/internal/adapters/tui/styles"
	"storyforge/internal/ports"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open story"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// SearchModel is an incremental keyword search over the story index.
type SearchModel struct {
	ViewState
	index ports.StoryIndex

	input  textinput.Model
	hits   []ports.IndexHit
	cursor int
}

// NewSearchModel creates a new search view model
func NewSearchModel(index ports.StoryIndex) *SearchModel {
	input := textinput.New()
	input.Placeholder = "keyword..."
	return &SearchModel{
		index: index,
		input: input,
	}
}

// Reset clears the query and results and focuses the input.
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.hits = nil
	m.cursor = 0
	m.ClearMessage()
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < len(m.hits)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Open):
			if m.cursor < len(m.hits) {
				storyID := m.hits[m.cursor].StoryID
				return m, func() tea.Msg {
					return SwitchToDetailMsg{StoryID: storyID}
				}
			}
			return m, nil
		}

		// Every other key refines the query.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.runQuery()
		return m, cmd
	}

	return m, nil
}

func (m *SearchModel) runQuery() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.hits = nil
		m.cursor = 0
		return
	}

	hits, err := m.index.Search(query)
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.hits = hits
	if m.cursor >= len(m.hits) {
		m.cursor = 0
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search Stories"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(styles.ErrorMsg.Render(m.Message))
		b.WriteString("\n\n")
	}

	if len(m.hits) == 0 && strings.TrimSpace(m.input.Value()) != "" {
		b.WriteString(styles.MutedText.Render("No results."))
		b.WriteString("\n")
	}
	for i, hit := range m.hits {
		title := hit.Title
		if i == m.cursor {
			title = styles.NodeSelected.Render(title)
		}
		b.WriteString(fmt.Sprintf("  %s\n", title))
		if hit.MatchedText != "" {
			b.WriteString("    " + styles.MutedText.Render(hit.MatchedText) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s",
		styles.HelpKey.Render("↑/↓"), styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"), styles.HelpDesc.Render("open"),
		styles.HelpKey.Render("esc"), styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}
