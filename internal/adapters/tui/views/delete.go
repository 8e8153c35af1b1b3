package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storyforge/internal/adapters/tui/styles"
	"storyforge/internal/application"
	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	store *application.Store
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(store *application.Store) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		store:             store,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			func() tea.Msg { return m.doDelete() },
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.TargetNode == nil {
		return DeleteErrMsg{Err: fmt.Errorf("no target selected")}
	}

	var err error
	switch m.TargetNode.Kind {
	case domain.NodeStory:
		err = commands.NewDeleteStoryCommand(m.store, m.TargetNode.ID).Execute(context.Background())
	case domain.NodeFolder:
		err = commands.NewDeleteFolderCommand(m.store, m.TargetNode.ID).Execute(context.Background())
	default:
		err = fmt.Errorf("can only delete stories or folders")
	}
	if err != nil {
		return DeleteErrMsg{Err: err}
	}

	return DeleteSuccessMsg{
		Message: fmt.Sprintf("Deleted %s", m.TargetNode.Name),
	}
}

// DeleteSuccessMsg indicates successful deletion
type DeleteSuccessMsg struct {
	Message string
}

// DeleteErrMsg indicates an error during deletion
type DeleteErrMsg struct {
	Err error
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Delete Confirmation"))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedText.Render("Deleted entries go to the trash and can be restored with 'u'."))
	b.WriteString("\n\n")

	b.WriteString(RenderTargetInfo(m.TargetNode, "Delete"))
	b.WriteString("\n\n")

	if m.TargetNode != nil && m.TargetNode.Kind == domain.NodeFolder {
		b.WriteString(styles.MutedText.Render("  All folders and stories inside will be deleted with it."))
		b.WriteString("\n\n")
	}

	b.WriteString(RenderConfirmPrompt("Are you sure?"))

	return styles.App.Render(b.String())
}
