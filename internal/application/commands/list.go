package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
)

// ProjectInfo is one entry in the project listing.
type ProjectInfo struct {
	Project *domain.Project
	Current bool
}

// ListProjectsCommand lists projects sorted by name.
type ListProjectsCommand struct {
	store *application.Store
}

// NewListProjectsCommand creates a new ListProjectsCommand.
func NewListProjectsCommand(store *application.Store) *ListProjectsCommand {
	return &ListProjectsCommand{store: store}
}

// Execute runs the list projects command.
func (c *ListProjectsCommand) Execute(ctx context.Context) ([]ProjectInfo, error) {
	state := c.store.State()
	ids := state.SortProjects()

	infos := make([]ProjectInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, ProjectInfo{
			Project: state.Projects[id],
			Current: id == state.CurrentProjectID,
		})
	}
	return infos, nil
}

// TreeCommand builds the folder/story tree of a project. An empty ProjectID
// targets the current project.
type TreeCommand struct {
	store          *application.Store
	ProjectID      string
	IncludeDeleted bool
}

// NewTreeCommand creates a new TreeCommand.
func NewTreeCommand(store *application.Store, projectID string, includeDeleted bool) *TreeCommand {
	return &TreeCommand{store: store, ProjectID: projectID, IncludeDeleted: includeDeleted}
}

// Execute runs the tree command.
func (c *TreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	state := c.store.State()

	projectID := c.ProjectID
	if projectID == "" {
		projectID = state.CurrentProjectID
	}
	if projectID == "" {
		return nil, application.ErrNoProject
	}
	if _, ok := state.Projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, application.ErrNotFound)
	}

	return state.BuildProjectTree(projectID, c.IncludeDeleted), nil
}
