package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// projectOf resolves the project owning a story by walking its folder chain.
// Returns nil when the chain is broken; AI prompts then simply omit the
// project sections.
func projectOf(state *domain.State, story *domain.Story) *domain.Project {
	folder, ok := state.Folders[story.ParentID]
	if !ok {
		return nil
	}
	return state.Projects[folder.ProjectID]
}

// ImproveStoryResult contains an AI rewrite suggestion. The suggestion is
// not committed; callers decide whether to save it as a new version.
type ImproveStoryResult struct {
	Original  domain.StoryContent
	Suggested domain.StoryContent
}

// ImproveStoryCommand asks the assistant to rewrite the selected fields of
// a story.
type ImproveStoryCommand struct {
	store     *application.Store
	assistant ports.Assistant
	StoryID   string
	Selection ports.RewriteSelection
	Answers   []ports.QA
}

// NewImproveStoryCommand creates a new ImproveStoryCommand.
func NewImproveStoryCommand(store *application.Store, assistant ports.Assistant, storyID string, selection ports.RewriteSelection, answers []ports.QA) *ImproveStoryCommand {
	return &ImproveStoryCommand{
		store:     store,
		assistant: assistant,
		StoryID:   storyID,
		Selection: selection,
		Answers:   answers,
	}
}

// Validate checks if the improve run is valid.
func (c *ImproveStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the improve story command.
func (c *ImproveStoryCommand) Execute(ctx context.Context) (*ImproveStoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	state := c.store.State()
	story := state.Stories[c.StoryID]

	suggested, err := c.assistant.ImproveStory(ctx, story, state.Settings, projectOf(state, story), c.Answers, c.Selection)
	if err != nil {
		return nil, err
	}

	return &ImproveStoryResult{
		Original:  story.Content(),
		Suggested: suggested,
	}, nil
}

// QuestionsCommand asks the assistant for clarifying questions ahead of an
// improve or split run.
type QuestionsCommand struct {
	store     *application.Store
	assistant ports.Assistant
	StoryID   string
	Purpose   ports.QuestionPurpose
}

// NewQuestionsCommand creates a new QuestionsCommand.
func NewQuestionsCommand(store *application.Store, assistant ports.Assistant, storyID string, purpose ports.QuestionPurpose) *QuestionsCommand {
	return &QuestionsCommand{
		store:     store,
		assistant: assistant,
		StoryID:   storyID,
		Purpose:   purpose,
	}
}

// Validate checks if the questions run is valid.
func (c *QuestionsCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the questions command.
func (c *QuestionsCommand) Execute(ctx context.Context) ([]ports.Question, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	state := c.store.State()
	story := state.Stories[c.StoryID]

	return c.assistant.GenerateClarifyingQuestions(ctx, story, state.Settings, projectOf(state, story), c.Purpose)
}
