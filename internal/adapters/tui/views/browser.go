package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storyforge/internal/adapters/tui/styles"
	"storyforge/internal/application"
	"storyforge/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	NewStory  key.Binding
	NewFolder key.Binding
	Move      key.Binding
	Delete    key.Binding
	Restore   key.Binding
	Done      key.Binding
	Trash     key.Binding
	Project   key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open/toggle"),
	),
	NewStory: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new story"),
	),
	NewFolder: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "new folder"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Restore: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "restore"),
	),
	Done: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "toggle done"),
	),
	Trash: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "show deleted"),
	),
	Project: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "switch project"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	store *application.Store

	root        *domain.TreeNode
	flatNodes   []*domain.TreeNode
	cursor      int
	collapsed   map[string]bool
	showDeleted bool
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(store *application.Store) *BrowserModel {
	return &BrowserModel{
		store:     store,
		collapsed: make(map[string]bool),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	state := m.store.State()
	if state.CurrentProjectID == "" {
		return errMsg{application.ErrNoProject}
	}
	root := state.BuildProjectTree(state.CurrentProjectID, m.showDeleted)
	if root == nil {
		return errMsg{fmt.Errorf("project %s: %w", state.CurrentProjectID, application.ErrNotFound)}
	}
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.applyCollapsed(m.root)
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, m.loadTree

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.flatNodes)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil {
				if node.Kind != domain.NodeStory && node.IsExpanded {
					node.Collapse()
					m.collapsed[node.ID] = true
					m.refreshFlatNodes()
				} else if node.Parent != nil {
					for i, n := range m.flatNodes {
						if n == node.Parent {
							m.cursor = i
							break
						}
					}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right):
			if node := m.selectedNode(); node != nil && node.Kind != domain.NodeStory {
				node.Expand()
				delete(m.collapsed, node.ID)
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil {
				if node.Kind == domain.NodeStory {
					return m, func() tea.Msg {
						return SwitchToDetailMsg{StoryID: node.ID}
					}
				}
				node.Toggle()
				if node.IsExpanded {
					delete(m.collapsed, node.ID)
				} else {
					m.collapsed[node.ID] = true
				}
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.NewStory):
			if node := m.selectedNode(); node != nil {
				return m, func() tea.Msg {
					return SwitchToCreateMsg{ParentNode: folderOf(node), Kind: domain.NodeStory}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.NewFolder):
			if node := m.selectedNode(); node != nil {
				return m, func() tea.Msg {
					return SwitchToCreateMsg{ParentNode: folderOf(node), Kind: domain.NodeFolder}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Move):
			if node := m.selectedNode(); node != nil && node.Kind != domain.NodeProject {
				return m, func() tea.Msg {
					return SwitchToMoveMsg{SourceNode: node}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Delete):
			if node := m.selectedNode(); node != nil && node.Kind != domain.NodeProject {
				return m, func() tea.Msg {
					return SwitchToDeleteMsg{TargetNode: node}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Restore):
			if node := m.selectedNode(); node != nil && node.Deleted {
				return m, m.restoreNode(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Done):
			if node := m.selectedNode(); node != nil && node.Kind == domain.NodeStory {
				m.store.ToggleStoryDone(node.ID)
				return m, m.loadTree
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Trash):
			m.showDeleted = !m.showDeleted
			return m, m.loadTree

		case key.Matches(msg, BrowserKeys.Project):
			return m, func() tea.Msg {
				return SwitchToProjectsMsg{}
			}

		case key.Matches(msg, BrowserKeys.Search):
			return m, func() tea.Msg {
				return SwitchToSearchMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

// folderOf resolves the folder a new child should land in: the node itself
// when it is a folder or project root, otherwise the story's parent folder.
func folderOf(node *domain.TreeNode) *domain.TreeNode {
	if node.Kind == domain.NodeStory && node.Parent != nil {
		return node.Parent
	}
	return node
}

func (m *BrowserModel) restoreNode(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		switch node.Kind {
		case domain.NodeStory:
			m.store.RestoreStory(node.ID)
		case domain.NodeFolder:
			m.store.RestoreFolder(node.ID)
		default:
			return nil
		}
		return successMsg{fmt.Sprintf("Restored %s", node.Name)}
	}
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

// applyCollapsed re-applies remembered collapse state after a rebuild.
// Folders are expanded by default.
func (m *BrowserModel) applyCollapsed(node *domain.TreeNode) {
	if node == nil {
		return
	}
	node.IsExpanded = !m.collapsed[node.ID]
	for _, child := range node.Children {
		m.applyCollapsed(child)
	}
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		if m.Message != "" {
			return styles.App.Render(styles.ErrorMsg.Render(m.Message))
		}
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("StoryForge"))
	b.WriteString("\n")
	subtitle := m.root.Name
	if m.showDeleted {
		subtitle += "  (showing deleted)"
	}
	b.WriteString(styles.Subtitle.Render(subtitle))
	b.WriteString("\n\n")

	for i, node := range m.flatNodes {
		b.WriteString(m.renderNode(node, i == m.cursor))
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
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	depth := node.Depth()
	indent := strings.Repeat("  ", depth)

	var prefix string
	switch {
	case node.Kind == domain.NodeStory:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	text := node.Name
	if node.Kind == domain.NodeStory {
		check := "[ ] "
		if node.Done {
			check = "[x] "
		}
		text = check + text
	}

	var style lipgloss.Style
	switch {
	case node.Deleted:
		style = styles.NodeDeleted
	case node.Kind == domain.NodeProject:
		style = styles.NodeProject
	case node.Kind == domain.NodeFolder:
		style = styles.NodeFolder
	case node.Done:
		style = styles.NodeDone
	default:
		style = styles.NodeStory
	}

	styledText := style.Render(text)
	if selected {
		styledText = styles.NodeSelected.Render(text)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *BrowserModel) renderHelpLine() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "navigate"},
		{"enter", "open"},
		{"n", "story"},
		{"f", "folder"},
		{"m", "move"},
		{"d", "delete"},
		{"/", "search"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}

// Reload rebuilds the tree from the current snapshot
func (m *BrowserModel) Reload() tea.Cmd {
	return m.loadTree
}

// Messages for view switching
type SwitchToCreateMsg struct {
	ParentNode *domain.TreeNode
	Kind       domain.NodeKind
}

type SwitchToMoveMsg struct {
	SourceNode *domain.TreeNode
}

type SwitchToDeleteMsg struct {
	TargetNode *domain.TreeNode
}

type SwitchToDetailMsg struct {
	StoryID string
}

type SwitchToProjectsMsg struct{}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
