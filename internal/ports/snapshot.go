package ports

import "storyforge/internal/domain"

// SnapshotStore persists the whole application state as one record.
// Load returns nil (not an error) when no snapshot has been written yet.
type SnapshotStore interface {
	Load() (*domain.State, error)
	Save(state *domain.State) error
	Clear() error
	Close() error
}
