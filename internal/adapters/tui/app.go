// Package tui is the interactive terminal frontend: a tree browser over the
// current project with story detail, create/move/delete flows and search.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"storyforge/internal/adapters/tui/views"
	"storyforge/internal/application"
	"storyforge/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewDetail
	ViewCreate
	ViewMove
	ViewDelete
	ViewProjects
	ViewSearch
	ViewHelp
)

// App is the main TUI application model
type App struct {
	store *application.Store
	index ports.StoryIndex

	state    ViewState
	browser  *views.BrowserModel
	detail   *views.DetailModel
	create   *views.CreateModel
	move     *views.MoveModel
	delete   *views.DeleteModel
	projects *views.ProjectsModel
	search   *views.SearchModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(store *application.Store, index ports.StoryIndex) *App {
	return &App{
		store:    store,
		index:    index,
		state:    ViewBrowser,
		browser:  views.NewBrowserModel(store),
		detail:   views.NewDetailModel(store),
		create:   views.NewCreateModel(store),
		move:     views.NewMoveModel(store),
		delete:   views.NewDeleteModel(store),
		projects: views.NewProjectsModel(store),
		search:   views.NewSearchModel(index),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.detail.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.projects.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToDetailMsg:
		a.state = ViewDetail
		a.detail.SetStory(msg.StoryID)
		return a, a.detail.Init()

	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.SetTarget(msg.ParentNode, msg.Kind)
		return a, a.create.Init()

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetSource(msg.SourceNode)
		return a, a.move.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.TargetNode)
		return a, a.delete.Init()

	case views.SwitchToProjectsMsg:
		a.state = ViewProjects
		a.projects.Reload()
		return a, a.projects.Init()

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Reload()

	// Flow completion messages
	case views.CreateSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload()

	case views.CreateErrMsg:
		a.create.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.MoveSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload()

	case views.MoveErrMsg:
		a.move.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.DeleteSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload()

	case views.DeleteErrMsg:
		a.delete.SetMessage(msg.Err.Error(), true)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewProjects:
		_, cmd = a.projects.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDetail:
		return a.detail.View()
	case ViewCreate:
		return a.create.View()
	case ViewMove:
		return a.move.View()
	case ViewDelete:
		return a.delete.View()
	case ViewProjects:
		return a.projects.View()
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
