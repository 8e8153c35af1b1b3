package commands

import (
	"context"
	"errors"
	"testing"

	"storyforge/internal/application"
)

func TestMoveFolderCommand_Validate(t *testing.T) {
	store, projectID, rootID, folderID, _ := fixture(t)
	childID := store.AddFolder("", folderID, "Sprint 1", projectID)

	tests := []struct {
		name     string
		folderID string
		destID   string
		wantErr  error
	}{
		{
			name:     "valid move",
			folderID: childID,
			destID:   rootID,
		},
		{
			name:     "move into own descendant",
			folderID: folderID,
			destID:   childID,
			wantErr:  application.ErrInvalidMove,
		},
		{
			name:     "move into itself",
			folderID: folderID,
			destID:   folderID,
			wantErr:  application.ErrInvalidMove,
		},
		{
			name:     "unknown destination",
			folderID: folderID,
			destID:   "missing",
			wantErr:  application.ErrNotFound,
		},
		{
			name:     "unknown source",
			folderID: "missing",
			destID:   rootID,
			wantErr:  application.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMoveFolderCommand(store, tt.folderID, tt.destID).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMoveStoryCommand(t *testing.T) {
	store, _, rootID, _, storyID := fixture(t)

	if err := NewMoveStoryCommand(store, storyID, rootID).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := store.State().Stories[storyID].ParentID; got != rootID {
		t.Errorf("story parent = %q, want %q", got, rootID)
	}

	err := NewMoveStoryCommand(store, storyID, "missing").Execute(context.Background())
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
