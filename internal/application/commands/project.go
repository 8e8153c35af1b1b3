// Package commands contains the command objects shared by the CLI, TUI and
// MCP adapters. Each command validates its input against the current
// snapshot, then applies the mutation through the store. Validation failures
// are reported here; the store itself stays silent about unknown ids.
package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
)

// AddProjectResult contains the result of creating a project.
type AddProjectResult struct {
	ProjectID string
	Message   string
}

// AddProjectCommand creates a project with its root folder and makes it
// current.
type AddProjectCommand struct {
	store       *application.Store
	Name        string
	Description string
}

// NewAddProjectCommand creates a new AddProjectCommand.
func NewAddProjectCommand(store *application.Store, name, description string) *AddProjectCommand {
	return &AddProjectCommand{
		store:       store,
		Name:        name,
		Description: description,
	}
}

// Validate checks if the create operation is valid.
func (c *AddProjectCommand) Validate() error {
	return application.ValidateRequired("name", c.Name)
}

// Execute runs the add project command.
func (c *AddProjectCommand) Execute(ctx context.Context) (*AddProjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := c.store.AddProject(c.Name, c.Description)
	return &AddProjectResult{
		ProjectID: id,
		Message:   fmt.Sprintf("Created project: %s", c.Name),
	}, nil
}

// UseProjectCommand switches the current project.
type UseProjectCommand struct {
	store     *application.Store
	ProjectID string
}

// NewUseProjectCommand creates a new UseProjectCommand.
func NewUseProjectCommand(store *application.Store, projectID string) *UseProjectCommand {
	return &UseProjectCommand{store: store, ProjectID: projectID}
}

// Validate checks if the switch is valid.
func (c *UseProjectCommand) Validate() error {
	if err := application.ValidateRequired("projectID", c.ProjectID); err != nil {
		return err
	}
	if _, ok := c.store.State().Projects[c.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", c.ProjectID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the use project command.
func (c *UseProjectCommand) Execute(ctx context.Context) (*domain.Project, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.store.SetCurrentProject(c.ProjectID)
	return c.store.State().Projects[c.ProjectID], nil
}

// UpdateProjectCommand patches one or more project fields.
type UpdateProjectCommand struct {
	store     *application.Store
	ProjectID string
	Update    application.ProjectUpdate
}

// NewUpdateProjectCommand creates a new UpdateProjectCommand.
func NewUpdateProjectCommand(store *application.Store, projectID string, update application.ProjectUpdate) *UpdateProjectCommand {
	return &UpdateProjectCommand{store: store, ProjectID: projectID, Update: update}
}

// Validate checks if the update is valid.
func (c *UpdateProjectCommand) Validate() error {
	if err := application.ValidateRequired("projectID", c.ProjectID); err != nil {
		return err
	}
	if _, ok := c.store.State().Projects[c.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", c.ProjectID, application.ErrNotFound)
	}
	if c.Update.Name != nil && *c.Update.Name == "" {
		return &application.ValidationError{Field: "name", Message: "name cannot be cleared"}
	}
	return nil
}

// Execute runs the update project command.
func (c *UpdateProjectCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.UpdateProject(c.ProjectID, c.Update)
	return nil
}

// DeleteProjectCommand removes a project entity. Folders and stories that
// belonged to it remain in the snapshot as orphans; only a project-scoped
// purge would remove them.
type DeleteProjectCommand struct {
	store     *application.Store
	ProjectID string
}

// NewDeleteProjectCommand creates a new DeleteProjectCommand.
func NewDeleteProjectCommand(store *application.Store, projectID string) *DeleteProjectCommand {
	return &DeleteProjectCommand{store: store, ProjectID: projectID}
}

// Validate checks if the delete is valid.
func (c *DeleteProjectCommand) Validate() error {
	if err := application.ValidateRequired("projectID", c.ProjectID); err != nil {
		return err
	}
	if _, ok := c.store.State().Projects[c.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", c.ProjectID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the delete project command.
func (c *DeleteProjectCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.DeleteProject(c.ProjectID)
	return nil
}
