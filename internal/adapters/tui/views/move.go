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

// MoveKeyMap defines key bindings for the move view
type MoveKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var MoveKeys = MoveKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "move here"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// folderChoice is one selectable destination folder.
type folderChoice struct {
	id    string
	label string
	depth int
}

// MoveModel lets the user pick a destination folder for a story or folder.
type MoveModel struct {
	ViewState
	store *application.Store

	sourceNode *domain.TreeNode
	choices    []folderChoice
	cursor     int
}

// NewMoveModel creates a new move view model
func NewMoveModel(store *application.Store) *MoveModel {
	return &MoveModel{store: store}
}

// SetSource sets the node being moved and rebuilds the destination list.
func (m *MoveModel) SetSource(node *domain.TreeNode) {
	m.sourceNode = node
	m.cursor = 0
	m.ClearMessage()
	m.loadChoices()
}

// loadChoices collects the current project's folders, skipping deleted ones
// and, for folder moves, the source's own subtree.
func (m *MoveModel) loadChoices() {
	m.choices = nil

	state := m.store.State()
	project, ok := state.Projects[state.CurrentProjectID]
	if !ok {
		return
	}
	root, ok := state.Folders[project.RootFolderID]
	if !ok {
		return
	}

	m.appendChoice(state, root, project.Name+" (root)", 0)
}

func (m *MoveModel) appendChoice(state *domain.State, folder *domain.Folder, label string, depth int) {
	if folder.Deleted {
		return
	}
	if m.sourceNode != nil && m.sourceNode.Kind == domain.NodeFolder &&
		state.IsAncestorFolder(m.sourceNode.ID, folder.ID) {
		return
	}

	m.choices = append(m.choices, folderChoice{id: folder.ID, label: label, depth: depth})
	for _, childID := range folder.Children {
		if child, ok := state.Folders[childID]; ok {
			m.appendChoice(state, child, child.Name, depth+1)
		}
	}
}

// Init initializes the move view
func (m *MoveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the move view
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, MoveKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, MoveKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, MoveKeys.Down):
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, MoveKeys.Submit):
			return m, m.move()
		}
	}

	return m, nil
}

func (m *MoveModel) move() tea.Cmd {
	return func() tea.Msg {
		if m.sourceNode == nil || m.cursor >= len(m.choices) {
			return MoveErrMsg{Err: fmt.Errorf("no destination selected")}
		}
		destID := m.choices[m.cursor].id

		var err error
		switch m.sourceNode.Kind {
		case domain.NodeStory:
			err = commands.NewMoveStoryCommand(m.store, m.sourceNode.ID, destID).Execute(context.Background())
		case domain.NodeFolder:
			err = commands.NewMoveFolderCommand(m.store, m.sourceNode.ID, destID).Execute(context.Background())
		default:
			err = fmt.Errorf("can only move stories or folders")
		}
		if err != nil {
			return MoveErrMsg{Err: err}
		}

		return MoveSuccessMsg{Message: fmt.Sprintf("Moved %s", m.sourceNode.Name)}
	}
}

// MoveSuccessMsg indicates successful move
type MoveSuccessMsg struct {
	Message string
}

// MoveErrMsg indicates an error during move
type MoveErrMsg struct {
	Err error
}

// View renders the move view
func (m *MoveModel) View() string {
	var b strings.Builder

	title := "Move Story"
	if m.sourceNode != nil && m.sourceNode.Kind == domain.NodeFolder {
		title = "Move Folder"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	if m.sourceNode != nil {
		b.WriteString(styles.InputLabel.Render("Moving:"))
		b.WriteString(fmt.Sprintf(" %s\n\n", m.sourceNode.Name))
	}

	b.WriteString(styles.InputLabel.Render("Destination:"))
	b.WriteString("\n")
	for i, choice := range m.choices {
		line := strings.Repeat("  ", choice.depth) + choice.label
		if i == m.cursor {
			line = styles.NodeSelected.Render(line)
		} else {
			line = styles.NodeFolder.Render(line)
		}
		b.WriteString("  " + line + "\n")
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
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s",
		styles.HelpKey.Render("j/k"), styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"), styles.HelpDesc.Render("move here"),
		styles.HelpKey.Render("esc"), styles.HelpDesc.Render("cancel"),
	))

	return styles.App.Render(b.String())
}
