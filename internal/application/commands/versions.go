package commands

import (
	"context"
	"fmt"
	"sort"

	"storyforge/internal/application"
	"storyforge/internal/domain"
)

// VersionInfo is one entry in a story's version history.
type VersionInfo struct {
	Version domain.Version
	Current bool
}

// ListVersionsCommand lists a story's versions, oldest first.
type ListVersionsCommand struct {
	store   *application.Store
	StoryID string
}

// NewListVersionsCommand creates a new ListVersionsCommand.
func NewListVersionsCommand(store *application.Store, storyID string) *ListVersionsCommand {
	return &ListVersionsCommand{store: store, StoryID: storyID}
}

// Validate checks if the listing is valid.
func (c *ListVersionsCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if _, ok := c.store.State().Stories[c.StoryID]; !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the list versions command.
func (c *ListVersionsCommand) Execute(ctx context.Context) ([]VersionInfo, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	story := c.store.State().Stories[c.StoryID]
	infos := make([]VersionInfo, 0, len(story.Versions))
	for _, version := range story.Versions {
		infos = append(infos, VersionInfo{
			Version: version,
			Current: version.ID == story.CurrentVersionID,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i].Version, infos[j].Version
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})
	return infos, nil
}

// CheckoutVersionCommand rewinds a story's current-version pointer to an
// existing version. No new version is created; saving afterwards branches
// from the restored point.
type CheckoutVersionCommand struct {
	store     *application.Store
	StoryID   string
	VersionID string
}

// NewCheckoutVersionCommand creates a new CheckoutVersionCommand.
func NewCheckoutVersionCommand(store *application.Store, storyID, versionID string) *CheckoutVersionCommand {
	return &CheckoutVersionCommand{store: store, StoryID: storyID, VersionID: versionID}
}

// Validate checks if the checkout is valid.
func (c *CheckoutVersionCommand) Validate() error {
	if err := application.ValidateRequired("storyID", c.StoryID); err != nil {
		return err
	}
	if err := application.ValidateRequired("versionID", c.VersionID); err != nil {
		return err
	}

	story, ok := c.store.State().Stories[c.StoryID]
	if !ok {
		return fmt.Errorf("story %s: %w", c.StoryID, application.ErrNotFound)
	}
	if _, ok := story.Versions[c.VersionID]; !ok {
		return fmt.Errorf("version %s: %w", c.VersionID, application.ErrNotFound)
	}
	return nil
}

// Execute runs the checkout version command.
func (c *CheckoutVersionCommand) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.store.RestoreVersion(c.StoryID, c.VersionID)
	return nil
}
