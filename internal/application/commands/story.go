package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// AddStoryResult contains the result of creating a story.
type AddStoryResult struct {
	StoryID string
	Message string
}

// AddStoryCommand creates a story with its initial version.
type AddStoryCommand struct {
	store              *application.Store
	FolderID           string
	Title              string
	Description        string
	AcceptanceCriteria string
}

// NewAddStoryCommand creates a new AddStoryCommand.
func NewAddStoryCommand(store *application.Store, folderID, title, description, acceptanceCriteria string) *AddStoryCommand {
	return &AddStoryCommand{
		store:              store,
		FolderID:           folderID,
		Title:              title,
		Description:        description,
		AcceptanceCriteria: acceptanceCriteria,
	}
}

// Validate checks if the create operation is valid.
func (c *AddStoryCommand) Validate() error {
	if err := application.ValidateRequired("folderID", c.FolderID); err != nil {
		return err
	}
	if err := application.ValidateRequired("title", c.Title); err != nil {
		return err
	}
	if _, ok := c.store.State().Folders[c.FolderID]; !ok {
		return fmt.Errorf("folder %s: %w", c.FolderID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the add story command.
func (c *AddStoryCommand) Execute(ctx context.Context) (*AddStoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := c.store.AddStory(c.FolderID, c.Title, c.Description, c.AcceptanceCriteria)
	return &AddStoryResult{
		StoryID: id,
		Message: fmt.Sprintf("Created story: %s", c.Title),
	}, nil
}

// SaveStoryResult contains the result of saving story content.
type SaveStoryResult struct {
	VersionID string
	Message   string
}

// SaveStoryCommand saves new story content as a version. When an assistant
// is configured, the new version's change label is filled in afterwards;
// that enrichment is best-effort and never fails the save.
type SaveStoryCommand struct {
	store     *application.Store
	assistant ports.Assistant
	StoryID   string
	Content   domain.StoryContent
	Author    domain.Author
}

// NewSaveStoryCommand creates a new SaveStoryCommand. assistant may be nil.
func NewSaveStoryCommand(store *application.Store, assistant ports.Assistant, storyID string, content domain.StoryContent, author domain.Author) *SaveStoryCommand {
	return &SaveStoryCommand{
		store:     store,
		assistant: assistant,
		StoryID:   storyID,
		Content:   content,
		Author:    author,
	}
}

// Validate checks if the save is valid.
func (c *SaveStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if err := application.ValidateRequired("title", c.Content.Title); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the save story command.
func (c *SaveStoryCommand) Execute(ctx context.Context) (*SaveStoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	versionID := c.store.SaveStory(c.StoryID, c.Content, c.Author)
	if versionID == "" {
		return &SaveStoryResult{Message: "No changes to save"}, nil
	}

	c.backfillChangeSummary(ctx, versionID)

	return &SaveStoryResult{
		VersionID: versionID,
		Message:   "Saved new version",
	}, nil
}

// backfillChangeSummary asks the assistant what changed between the new
// version and its parent, and patches the label onto the version. Every
// failure path is a silent skip.
func (c *SaveStoryCommand) backfillChangeSummary(ctx context.Context, versionID string) {
	if c.assistant == nil {
		return
	}

	state := c.store.State()
	story, ok := state.Stories[c.StoryID]
	if !ok {
		return
	}
	newVersion, ok := story.Versions[versionID]
	if !ok {
		return
	}
	oldVersion, ok := story.Versions[newVersion.ParentID]
	if !ok {
		return
	}

	summary := c.assistant.GenerateVersionChangeDescription(ctx, oldVersion, newVersion, state.Settings)
	if summary == nil {
		return
	}
	c.store.UpdateVersion(c.StoryID, versionID, summary.Title, summary.Description)
}

// DuplicateStoryCommand copies a story into the same folder with a fresh
// version tree.
type DuplicateStoryCommand struct {
	store   *application.Store
	StoryID string
}

// NewDuplicateStoryCommand creates a new DuplicateStoryCommand.
func NewDuplicateStoryCommand(store *application.Store, storyID string) *DuplicateStoryCommand {
	return &DuplicateStoryCommand{store: store, StoryID: storyID}
}

// Validate checks if the duplicate is valid.
func (c *DuplicateStoryCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the duplicate story command.
func (c *DuplicateStoryCommand) Execute(ctx context.Context) (*AddStoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := c.store.DuplicateStory(c.StoryID)
	story, ok := c.store.State().Stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return &AddStoryResult{
		StoryID: id,
		Message: fmt.Sprintf("Created story: %s", story.Title),
	}, nil
}

// ToggleDoneCommand flips a story's done flag.
type ToggleDoneCommand struct {
	store   *application.Store
	StoryID string
}

// NewToggleDoneCommand creates a new ToggleDoneCommand.
func NewToggleDoneCommand(store *application.Store, storyID string) *ToggleDoneCommand {
	return &ToggleDoneCommand{store: store, StoryID: storyID}
}

// Validate checks if the toggle is valid.
func (c *ToggleDoneCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the toggle done command and reports the new flag value.
func (c *ToggleDoneCommand) Execute(ctx context.Context) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	c.store.ToggleStoryDone(c.StoryID)
	return c.store.State().Stories[c.StoryID].Done, nil
}
