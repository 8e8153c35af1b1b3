package commands

import (
	"context"
	"errors"
	"testing"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

func TestSplitStoryCommandCreatesSiblings(t *testing.T) {
	store, _, _, folderID, storyID := fixture(t)
	assistant := &fakeAssistant{
		splits: []domain.StoryContent{
			{Title: "Login form", Description: "d1", AcceptanceCriteria: "a1"},
			{Title: "Session handling", Description: "d2", AcceptanceCriteria: "a2"},
		},
	}

	result, err := NewSplitStoryCommand(store, assistant, storyID, "", nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.StoryIDs) != 2 {
		t.Fatalf("expected 2 created stories, got %d", len(result.StoryIDs))
	}

	state := store.State()
	for _, id := range result.StoryIDs {
		story := state.Stories[id]
		if story == nil {
			t.Fatalf("created story %s missing from snapshot", id)
		}
		if story.ParentID != folderID {
			t.Errorf("split story should land next to the original, got parent %q", story.ParentID)
		}
	}
	if state.Stories[storyID].Deleted {
		t.Error("the original story should survive a split")
	}
}

func TestSplitStoryCommandDryRun(t *testing.T) {
	store, _, _, _, storyID := fixture(t)
	assistant := &fakeAssistant{
		splits: []domain.StoryContent{{Title: "Login form"}},
	}

	cmd := NewSplitStoryCommand(store, assistant, storyID, "", nil)
	cmd.DryRun = true
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.StoryIDs) != 0 {
		t.Errorf("dry run should create nothing, got %v", result.StoryIDs)
	}
	if len(result.Stories) != 1 {
		t.Errorf("dry run should still return the suggestion, got %+v", result.Stories)
	}
}

func TestSplitStoryCommandEmptyReply(t *testing.T) {
	store, _, _, _, storyID := fixture(t)
	assistant := &fakeAssistant{}

	_, err := NewSplitStoryCommand(store, assistant, storyID, "", nil).Execute(context.Background())
	var aerr *application.AssistantError
	if !errors.As(err, &aerr) {
		t.Errorf("expected AssistantError on empty reply, got %v", err)
	}
}

func TestImproveStoryCommandReturnsSuggestionWithoutCommitting(t *testing.T) {
	store, _, _, _, storyID := fixture(t)
	assistant := &fakeAssistant{
		improved: domain.StoryContent{Title: "Login", Description: "Sharper", AcceptanceCriteria: "It works"},
	}

	result, err := NewImproveStoryCommand(store, assistant, storyID, ports.RewriteSelection{}, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Suggested.Description != "Sharper" {
		t.Errorf("unexpected suggestion: %+v", result.Suggested)
	}

	story := store.State().Stories[storyID]
	if len(story.Versions) != 1 {
		t.Errorf("improve must not commit a version, got %d versions", len(story.Versions))
	}
}

func TestChatCommandRequiresKnownStories(t *testing.T) {
	store, _, _, _, storyID := fixture(t)
	assistant := &fakeAssistant{chatReply: "answer"}

	_, err := NewChatCommand(store, assistant, []string{"missing"}, []ports.ChatMessage{{Role: "user", Content: "hi"}}, nil).Execute(context.Background())
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var chunks []string
	reply, err := NewChatCommand(store, assistant, []string{storyID}, []ports.ChatMessage{{Role: "user", Content: "hi"}},
		func(chunk string) { chunks = append(chunks, chunk) }).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if reply != "answer" || len(chunks) != 1 {
		t.Errorf("reply = %q chunks = %v", reply, chunks)
	}
}
