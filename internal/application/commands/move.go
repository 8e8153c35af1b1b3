package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
)

// MoveStoryCommand reparents a story into another folder.
type MoveStoryCommand struct {
	store   *application.Store
	StoryID string
	DestID  string
}

// NewMoveStoryCommand creates a new MoveStoryCommand.
func NewMoveStoryCommand(store *application.Store, storyID, destID string) *MoveStoryCommand {
	return &MoveStoryCommand{store: store, StoryID: storyID, DestID: destID}
}

// Validate checks if the move is valid.
func (c *MoveStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if err := application.ValidateRequired("destID", c.DestID); err != nil {
		return err
	}

	state := c.store.State()
	if _, ok := state.Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	if _, ok := state.Folders[c.DestID]; !ok {
		return fmt.Errorf("folder %s: %w", c.DestID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the move story command.
func (c *MoveStoryCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.MoveStory(c.StoryID, c.DestID)
	return nil
}

// MoveFolderCommand reparents a folder. Moving a folder into itself or into
// one of its descendants is rejected.
type MoveFolderCommand struct {
	store    *application.Store
	FolderID string
	DestID   string
}

// NewMoveFolderCommand creates a new MoveFolderCommand.
func NewMoveFolderCommand(store *application.Store, folderID, destID string) *MoveFolderCommand {
	return &MoveFolderCommand{store: store, FolderID: folderID, DestID: destID}
}

// Validate checks if the move is valid.
func (c *MoveFolderCommand) Validate() error {
	if err := application.ValidateRequired("folderID", c.FolderID); err != nil {
		return err
	}
	if err := application.ValidateRequired("destID", c.DestID); err != nil {
		return err
	}

	state := c.store.State()
	if _, ok := state.Folders[c.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", c.FolderID, application.ErrNotFound)
	}
	if _, ok := state.Folders[c.DestID]; !ok {
		return fmt.Errorf("folder %s: %w", c.DestID, application.ErrNotFound)
	}
	if state.IsAncestorFolder(c.FolderID, c.DestID) {
		return &application.MoveError{
			SourceID: c.FolderID,
			DestID:   c.DestID,
			Reason:   "destination is inside the folder being moved",
		}
	}
	return nil
}

// Execute runs the move folder command.
func (c *MoveFolderCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.MoveFolder(c.FolderID, c.DestID)
	return nil
}
