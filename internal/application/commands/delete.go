package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
)

// DeleteStoryCommand soft-deletes a story.
type DeleteStoryCommand struct {
	store   *application.Store
	StoryID string
}

// NewDeleteStoryCommand creates a new DeleteStoryCommand.
func NewDeleteStoryCommand(store *application.Store, storyID string) *DeleteStoryCommand {
	return &DeleteStoryCommand{store: store, StoryID: storyID}
}

// Validate checks if the delete is valid.
func (c *DeleteStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the delete story command.
func (c *DeleteStoryCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.DeleteStory(c.StoryID)
	return nil
}

// DeleteFolderCommand soft-deletes a folder and everything under it.
type DeleteFolderCommand struct {
	store    *application.Store
	FolderID string
}

// NewDeleteFolderCommand creates a new DeleteFolderCommand.
func NewDeleteFolderCommand(store *application.Store, folderID string) *DeleteFolderCommand {
	return &DeleteFolderCommand{store: store, FolderID: folderID}
}

// Validate checks if the delete is valid.
func (c *DeleteFolderCommand) Validate() error {
	if err := application.ValidateRequired("folderID", c.FolderID); err != nil {
		return err
	}

	state := c.store.State()
	folder, ok := state.Folders[c.FolderID]
	if !ok {
		return fmt.Errorf("folder %s: %w", c.FolderID, application.ErrNotFound)
	}
	if folder.ParentID == "" {
		return &application.ValidationError{
			Field:   "folderID",
			Message: "cannot delete a project's root folder",
		}
	}
	return nil
}

// Execute runs the delete folder command.
func (c *DeleteFolderCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.DeleteFolder(c.FolderID)
	return nil
}

// RestoreStoryCommand clears a story's deleted flag, resurrecting deleted
// ancestor folders so the story is reachable again.
type RestoreStoryCommand struct {
	store   *application.Store
	StoryID string
}

// NewRestoreStoryCommand creates a new RestoreStoryCommand.
func NewRestoreStoryCommand(store *application.Store, storyID string) *RestoreStoryCommand {
	return &RestoreStoryCommand{store: store, StoryID: storyID}
}

// Validate checks if the restore is valid.
func (c *RestoreStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the restore story command.
func (c *RestoreStoryCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.RestoreStory(c.StoryID)
	return nil
}

// RestoreFolderCommand clears the deleted flags of a folder, its ancestors
// and its whole subtree.
type RestoreFolderCommand struct {
	store    *application.Store
	FolderID string
}

// NewRestoreFolderCommand creates a new RestoreFolderCommand.
func NewRestoreFolderCommand(store *application.Store, folderID string) *RestoreFolderCommand {
	return &RestoreFolderCommand{store: store, FolderID: folderID}
}

// Validate checks if the restore is valid.
func (c *RestoreFolderCommand) Validate() error {
	if err := application.ValidateRequired("folderID", c.FolderID); err != nil {
		return err
	}
	if _, ok := c.store.State().Folders[c.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", c.FolderID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the restore folder command.
func (c *RestoreFolderCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.RestoreFolder(c.FolderID)
	return nil
}

// PurgeStoryCommand permanently removes a story and its whole version tree.
type PurgeStoryCommand struct {
	store   *application.Store
	StoryID string
}

// NewPurgeStoryCommand creates a new PurgeStoryCommand.
func NewPurgeStoryCommand(store *application.Store, storyID string) *PurgeStoryCommand {
	return &PurgeStoryCommand{store: store, StoryID: storyID}
}

// Validate checks if the purge is valid.
func (c *PurgeStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the purge story command.
func (c *PurgeStoryCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.PermanentlyDeleteStory(c.StoryID)
	return nil
}
