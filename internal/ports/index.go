package ports

import "storyforge/internal/domain"

// IndexHit is one search index match.
type IndexHit struct {
	StoryID     string
	ProjectID   string
	Title       string
	MatchedText string
	Deleted     bool
}

// StoryIndex provides keyword search over stories. The index is derived
// state: it is rebuilt from snapshots and holds no authority of its own.
type StoryIndex interface {
	Open(dataDir string) error
	Close() error

	// Sync replaces the indexed rows with the stories in the snapshot.
	Sync(state *domain.State) error

	// Search returns stories whose title, description or acceptance
	// criteria contain the query, case-insensitively. Soft-deleted stories
	// are excluded.
	Search(query string) ([]IndexHit, error)
}
