package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// ChatCommand streams an assistant answer about one or more stories. Chunks
// are forwarded to OnChunk as they arrive; the full reply is returned at
// the end.
type ChatCommand struct {
	store     *application.Store
	assistant ports.Assistant
	StoryIDs  []string
	Messages  []ports.ChatMessage
	OnChunk   func(string)
}

// NewChatCommand creates a new ChatCommand.
func NewChatCommand(store *application.Store, assistant ports.Assistant, storyIDs []string, messages []ports.ChatMessage, onChunk func(string)) *ChatCommand {
	return &ChatCommand{
		store:     store,
		assistant: assistant,
		StoryIDs:  storyIDs,
		Messages:  messages,
		OnChunk:   onChunk,
	}
}

// Validate checks if the chat is valid.
func (c *ChatCommand) Validate() error {
	if len(c.StoryIDs) == 0 {
		return &application.ValidationError{Field: "storyIDs", Message: "at least one story is required"}
	}
	if len(c.Messages) == 0 {
		return &application.ValidationError{Field: "messages", Message: "at least one message is required"}
	}

	state := c.store.State()
	for _, id := range c.StoryIDs {
		if _, ok := state.Stories[id]; !ok {
			return fmt.Errorf("story %s: %w", id, application.ErrNotFound)
		}
	}
	return nil
}

// Execute runs the chat command.
func (c *ChatCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	state := c.store.State()
	stories := make([]*domain.Story, 0, len(c.StoryIDs))
	for _, id := range c.StoryIDs {
		stories = append(stories, state.Stories[id])
	}

	// All selected stories share one project context; the first story's
	// project wins when they disagree.
	project := projectOf(state, stories[0])

	return c.assistant.ChatWithStories(ctx, stories, c.Messages, state.Settings, project, c.OnChunk)
}
