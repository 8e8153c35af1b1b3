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
	"storyforge/internal/domain"
)

// CreateModel is the model for the create view (stories and folders).
type CreateModel struct {
	ViewState
	store *application.Store

	parentNode *domain.TreeNode
	kind       domain.NodeKind

	storyForm  *InputForm
	folderForm *InputForm
}

// NewCreateModel creates a new create view model
func NewCreateModel(store *application.Store) *CreateModel {
	return &CreateModel{
		store: store,
		storyForm: NewInputForm(
			NewInputField("Title", "As a user I want to ...", 200),
			NewInputField("Description", "Why and for whom", 0),
			NewInputField("Acceptance Criteria", "Given / when / then", 0),
		),
		folderForm: NewInputForm(
			NewInputField("Name", "Sprint 12", 100),
		),
	}
}

// SetTarget sets the parent node and the kind of entity to create.
func (m *CreateModel) SetTarget(parent *domain.TreeNode, kind domain.NodeKind) {
	m.parentNode = parent
	m.kind = kind
	m.ClearMessage()
	m.form().Reset()
}

func (m *CreateModel) form() *InputForm {
	if m.kind == domain.NodeFolder {
		return m.folderForm
	}
	return m.storyForm
}

// parentFolderID resolves the folder new entities land in. A project node
// stands for its root folder.
func (m *CreateModel) parentFolderID() string {
	if m.parentNode == nil {
		return ""
	}
	if m.parentNode.Kind == domain.NodeProject {
		if project, ok := m.store.State().Projects[m.parentNode.ID]; ok {
			return project.RootFolderID
		}
		return ""
	}
	return m.parentNode.ID
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form().Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		form := m.form()
		switch {
		case key.Matches(msg, form.Keys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, form.Keys.Submit):
			return m, m.create()
		}

		handled, cmd := form.Update(msg)
		if handled {
			return m, cmd
		}
		return m, cmd
	}

	return m, nil
}

func (m *CreateModel) create() tea.Cmd {
	return func() tea.Msg {
		folderID := m.parentFolderID()

		if m.kind == domain.NodeFolder {
			cmd := commands.NewAddFolderCommand(m.store, folderID, m.folderForm.Value(0))
			result, err := cmd.Execute(context.Background())
			if err != nil {
				return CreateErrMsg{Err: err}
			}
			return CreateSuccessMsg{Message: result.Message}
		}

		cmd := commands.NewAddStoryCommand(m.store, folderID,
			m.storyForm.Value(0), m.storyForm.Value(1), m.storyForm.Value(2))
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return CreateErrMsg{Err: err}
		}
		return CreateSuccessMsg{Message: result.Message}
	}
}

// CreateSuccessMsg indicates successful creation
type CreateSuccessMsg struct {
	Message string
}

// CreateErrMsg indicates an error during creation
type CreateErrMsg struct {
	Err error
}

// View renders the create view
func (m *CreateModel) View() string {
	var b strings.Builder

	title := "New Story"
	if m.kind == domain.NodeFolder {
		title = "New Folder"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	if m.parentNode != nil {
		b.WriteString(styles.InputLabel.Render("In:"))
		b.WriteString(fmt.Sprintf(" %s\n\n", m.parentNode.Name))
	}

	form := m.form()
	for i := range form.Fields {
		b.WriteString(form.RenderField(i))
		b.WriteString("\n\n")
	}

	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(form.RenderHelp("create"))

	return styles.App.Render(b.String())
}
