package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
)

// AddFolderResult contains the result of creating a folder.
type AddFolderResult struct {
	FolderID string
	Message  string
}

// AddFolderCommand creates a folder under an existing parent folder.
type AddFolderCommand struct {
	store    *application.Store
	ParentID string
	Name     string
}

// NewAddFolderCommand creates a new AddFolderCommand.
func NewAddFolderCommand(store *application.Store, parentID, name string) *AddFolderCommand {
	return &AddFolderCommand{store: store, ParentID: parentID, Name: name}
}

// Validate checks if the create operation is valid.
func (c *AddFolderCommand) Validate() error {
	if err := application.ValidateRequired("parentID", c.ParentID); err != nil {
		return err
	}
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if _, ok := c.store.State().Folders[c.ParentID]; !ok {
		return fmt.Errorf("folder %s: %w", c.ParentID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the add folder command.
func (c *AddFolderCommand) Execute(ctx context.Context) (*AddFolderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	parent := c.store.State().Folders[c.ParentID]
	id := c.store.AddFolder("", c.ParentID, c.Name, parent.ProjectID)
	return &AddFolderResult{
		FolderID: id,
		Message:  fmt.Sprintf("Created folder: %s", c.Name),
	}, nil
}

// RenameFolderCommand renames a folder.
type RenameFolderCommand struct {
	store    *application.Store
	FolderID string
	Name     string
}

// NewRenameFolderCommand creates a new RenameFolderCommand.
func NewRenameFolderCommand(store *application.Store, folderID, name string) *RenameFolderCommand {
	return &RenameFolderCommand{store: store, FolderID: folderID, Name: name}
}

// Validate checks if the rename is valid.
func (c *RenameFolderCommand) Validate() error {
	if err := application.ValidateRequired("folderID", c.FolderID); err != nil {
		return err
	}
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if _, ok := c.store.State().Folders[c.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", c.FolderID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the rename folder command.
func (c *RenameFolderCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.RenameFolder(c.FolderID, c.Name)
	return nil
}
