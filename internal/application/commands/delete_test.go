package commands

import (
	"context"
	"errors"
	"testing"

	"storyforge/internal/application"
)

func TestDeleteFolderCommandRejectsRootFolder(t *testing.T) {
	store, _, rootID, folderID, _ := fixture(t)

	err := NewDeleteFolderCommand(store, rootID).Execute(context.Background())
	var verr *application.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for root folder, got %v", err)
	}

	if err := NewDeleteFolderCommand(store, folderID).Execute(context.Background()); err != nil {
		t.Fatalf("deleting a regular folder should work, got %v", err)
	}
	if !store.State().Folders[folderID].Deleted {
		t.Error("folder should be soft-deleted")
	}
}

func TestDeleteAndRestoreStoryCommands(t *testing.T) {
	store, _, _, folderID, storyID := fixture(t)

	if err := NewDeleteStoryCommand(store, storyID).Execute(context.Background()); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !store.State().Stories[storyID].Deleted {
		t.Fatal("story should be soft-deleted")
	}

	// Deleting the parent folder and then restoring the story must bring
	// the folder chain back too.
	if err := NewDeleteFolderCommand(store, folderID).Execute(context.Background()); err != nil {
		t.Fatalf("folder delete error = %v", err)
	}
	if err := NewRestoreStoryCommand(store, storyID).Execute(context.Background()); err != nil {
		t.Fatalf("restore error = %v", err)
	}

	state := store.State()
	if state.Stories[storyID].Deleted {
		t.Error("story should be restored")
	}
	if state.Folders[folderID].Deleted {
		t.Error("parent folder should be restored with the story")
	}
}

func TestPurgeStoryCommand(t *testing.T) {
	store, _, _, _, storyID := fixture(t)

	if err := NewPurgeStoryCommand(store, storyID).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, ok := store.State().Stories[storyID]; ok {
		t.Error("purged story should be gone from the snapshot")
	}

	err := NewPurgeStoryCommand(store, storyID).Execute(context.Background())
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("second purge should report ErrNotFound, got %v", err)
	}
}
