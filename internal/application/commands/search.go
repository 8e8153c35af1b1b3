package commands

import (
	"context"
	"fmt"

	"storyforge/internal/application"
	"storyforge/internal/ports"
)

// SearchCommand runs a keyword search over the story index.
type SearchCommand struct {
	index ports.StoryIndex
	Query string
}

// NewSearchCommand creates a new SearchCommand.
func NewSearchCommand(index ports.StoryIndex, query string) *SearchCommand {
	return &SearchCommand{index: index, Query: query}
}

// Validate checks if the search is valid.
func (c *SearchCommand) Validate() error {
	return application.ValidateRequired("query", c.Query)
}

// Execute runs the search command.
func (c *SearchCommand) Execute(ctx context.Context) ([]ports.IndexHit, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hits, err := c.index.Search(c.Query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return hits, nil
}
