package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"storyforge/internal/adapters/tui/styles"
	"storyforge/internal/application"
	"storyforge/internal/application/commands"
)

// ProjectsKeyMap defines key bindings for the project switcher
type ProjectsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	New    key.Binding
	Cancel key.Binding
}

var ProjectsKeys = ProjectsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "switch"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new project"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// ProjectsModel lists projects and switches the current one. Pressing "n"
// flips it into a small inline form for a new project.
type ProjectsModel struct {
	ViewState
	store *application.Store

	infos    []commands.ProjectInfo
	cursor   int
	creating bool
	form     *InputForm
}

// NewProjectsModel creates a new project switcher model
func NewProjectsModel(store *application.Store) *ProjectsModel {
	return &ProjectsModel{
		store: store,
		form: NewInputForm(
			NewInputField("Name", "My product", 100),
			NewInputField("Description", "What this project is about", 0),
		),
	}
}

// Reload refreshes the project list.
func (m *ProjectsModel) Reload() {
	m.infos, _ = commands.NewListProjectsCommand(m.store).Execute(context.Background())
	m.creating = false
	m.cursor = 0
	m.ClearMessage()
	for i, info := range m.infos {
		if info.Current {
			m.cursor = i
			break
		}
	}
}

// Init initializes the project switcher
func (m *ProjectsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the project switcher
func (m *ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.creating {
			return m.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, ProjectsKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, ProjectsKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, ProjectsKeys.Down):
			if m.cursor < len(m.infos)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, ProjectsKeys.Select):
			if m.cursor < len(m.infos) {
				m.store.SetCurrentProject(m.infos[m.cursor].Project.ID)
				return m, func() tea.Msg {
					return SwitchToBrowserMsg{}
				}
			}
			return m, nil

		case key.Matches(msg, ProjectsKeys.New):
			m.creating = true
			m.form.Reset()
			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m *ProjectsModel) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.creating = false
		return m, nil

	case key.Matches(msg, m.form.Keys.Submit):
		cmd := commands.NewAddProjectCommand(m.store, m.form.Value(0), m.form.Value(1))
		if _, err := cmd.Execute(context.Background()); err != nil {
			m.SetMessage(err.Error(), true)
			return m, nil
		}
		return m, func() tea.Msg {
			return SwitchToBrowserMsg{}
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// View renders the project switcher
func (m *ProjectsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Projects"))
	b.WriteString("\n\n")

	if m.creating {
		for i := range m.form.Fields {
			b.WriteString(m.form.RenderField(i))
			b.WriteString("\n\n")
		}
		if m.Message != "" {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
			b.WriteString("\n\n")
		}
		b.WriteString(m.form.RenderHelp("create"))
		return styles.App.Render(b.String())
	}

	if len(m.infos) == 0 {
		b.WriteString(styles.MutedText.Render("No projects yet. Press 'n' to create one."))
		b.WriteString("\n")
	}
	for i, info := range m.infos {
		marker := "  "
		if info.Current {
			marker = styles.VersionCurrent.Render("● ")
		}
		line := info.Project.Name
		if i == m.cursor {
			line = styles.NodeSelected.Render(line)
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", marker, line))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("j/k"), styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"), styles.HelpDesc.Render("switch"),
		styles.HelpKey.Render("n"), styles.HelpDesc.Render("new"),
		styles.HelpKey.Render("esc"), styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}
