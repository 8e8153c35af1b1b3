package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// SplitStoryResult contains the stories created by a split. The original
// story is kept; callers delete it separately if they want a replacement
// rather than an addition.
type SplitStoryResult struct {
	StoryIDs []string
	Stories  []domain.StoryContent
	Message  string
}

// SplitStoryCommand asks the assistant to decompose a story and creates the
// resulting stories in the same folder.
type SplitStoryCommand struct {
	store        *application.Store
	assistant    ports.Assistant
	StoryID      string
	Instructions string
	Answers      []ports.QA

	// DryRun skips creating the stories; the suggestion is only returned.
	DryRun bool
}

// NewSplitStoryCommand creates a new SplitStoryCommand.
func NewSplitStoryCommand(store *application.Store, assistant ports.Assistant, storyID, instructions string, answers []ports.QA) *SplitStoryCommand {
	return &SplitStoryCommand{
		store:        store,
		assistant:    assistant,
		StoryID:      storyID,
		Instructions: instructions,
		Answers:      answers,
	}
}

// Validate checks if the split run is valid.
func (c *SplitStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the split story command.
func (c *SplitStoryCommand) Execute(ctx context.Context) (*SplitStoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	state := c.store.State()
	story := state.Stories[c.StoryID]

	suggestions, err := c.assistant.SplitStory(ctx, story, state.Settings, projectOf(state, story), c.Instructions, c.Answers)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, &application.AssistantError{
			Operation: "split story",
			Err:       fmt.Errorf("the model returned no usable stories"),
		}
	}

	result := &SplitStoryResult{
		Stories: suggestions,
		Message: fmt.Sprintf("Split into %d stories", len(suggestions)),
	}
	if c.DryRun {
		return result, nil
	}

	for _, content := range suggestions {
		id := c.store.AddStory(story.ParentID, content.Title, content.Description, content.AcceptanceCriteria)
		if id != "" {
			result.StoryIDs = append(result.StoryIDs, id)
		}
	}
	return result, nil
}
