package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"storyforge/internal/adapters/tui/styles"
	"storyforge/internal/application"
	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
)

// DetailKeyMap defines key bindings for the story detail view
type DetailKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Checkout key.Binding
	Copy     key.Binding
	Back     key.Binding
}

var DetailKeys = DetailKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous version"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next version"),
	),
	Checkout: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "restore version"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy content"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// DetailModel shows one story's content and version history.
type DetailModel struct {
	ViewState
	store *application.Store

	storyID  string
	versions []commands.VersionInfo
	cursor   int
}

// NewDetailModel creates a new story detail model
func NewDetailModel(store *application.Store) *DetailModel {
	return &DetailModel{store: store}
}

// SetStory points the view at a story and reloads its version list.
func (m *DetailModel) SetStory(storyID string) {
	m.storyID = storyID
	m.cursor = 0
	m.ClearMessage()
	m.reload()
}

func (m *DetailModel) reload() {
	infos, err := commands.NewListVersionsCommand(m.store, m.storyID).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		m.versions = nil
		return
	}
	m.versions = infos
	// Land the cursor on the current version.
	for i, info := range infos {
		if info.Current {
			m.cursor = i
			break
		}
	}
}

// Init initializes the detail view
func (m *DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DetailKeys.Back):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, DetailKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Down):
			if m.cursor < len(m.versions)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Checkout):
			if info := m.selectedVersion(); info != nil && !info.Current {
				m.store.RestoreVersion(m.storyID, info.Version.ID)
				m.reload()
				m.SetMessage("Restored version", false)
			}
			return m, nil

		case key.Matches(msg, DetailKeys.Copy):
			return m, m.copyStory()
		}
	}

	return m, nil
}

func (m *DetailModel) selectedVersion() *commands.VersionInfo {
	if m.cursor >= 0 && m.cursor < len(m.versions) {
		return &m.versions[m.cursor]
	}
	return nil
}

func (m *DetailModel) copyStory() tea.Cmd {
	return func() tea.Msg {
		story, ok := m.store.State().Stories[m.storyID]
		if !ok {
			return errMsg{fmt.Errorf("story %s: %w", m.storyID, application.ErrNotFound)}
		}

		text := fmt.Sprintf("# %s\n\n## Description\n%s\n\n## Acceptance Criteria\n%s\n",
			story.Title, story.Description, story.AcceptanceCriteria)
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{fmt.Errorf("clipboard write failed: %w", err)}
		}
		return successMsg{"Copied story to clipboard"}
	}
}

// View renders the detail view
func (m *DetailModel) View() string {
	story, ok := m.store.State().Stories[m.storyID]
	if !ok {
		return styles.App.Render(styles.ErrorMsg.Render("Story not found"))
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(story.Title))
	b.WriteString("\n")
	if story.Done {
		b.WriteString(styles.Success.Render("done"))
		b.WriteString("\n")
	}
	if story.Deleted {
		b.WriteString(styles.ErrorMsg.Render("deleted"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Description"))
	b.WriteString("\n")
	b.WriteString(story.Description)
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Acceptance Criteria"))
	b.WriteString("\n")
	b.WriteString(story.AcceptanceCriteria)
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Versions"))
	b.WriteString("\n")
	for i, info := range m.versions {
		b.WriteString(m.renderVersion(info, i == m.cursor))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("j/k"), styles.HelpDesc.Render("versions"),
		styles.HelpKey.Render("enter"), styles.HelpDesc.Render("restore"),
		styles.HelpKey.Render("c"), styles.HelpDesc.Render("copy"),
		styles.HelpKey.Render("esc"), styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}

func (m *DetailModel) renderVersion(info commands.VersionInfo, selected bool) string {
	label := info.Version.ChangeTitle
	if label == "" {
		label = info.Version.Title
	}

	line := fmt.Sprintf("%s  %s", info.Version.Timestamp.Format("2006-01-02 15:04"), label)
	if info.Version.Author == domain.AuthorAI {
		line += "  " + styles.VersionAuthorAI.Render("(ai)")
	}
	if info.Current {
		line = styles.VersionCurrent.Render("● ") + line
	} else {
		line = "  " + line
	}

	if selected {
		return styles.NodeSelected.Render("  " + line)
	}
	return "  " + line
}
