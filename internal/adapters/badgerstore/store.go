// Package badgerstore persists the whole application state as a single
// serialized record in a local Badger database.
package badgerstore

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// stateKey is the one namespaced key the snapshot lives under.
const stateKey = "storyforge/state"

// Store implements ports.SnapshotStore on Badger.
type Store struct {
	db     *badger.DB
	dbPath string
}

var _ ports.SnapshotStore = (*Store)(nil)

// Open opens (or creates) the snapshot database in dirPath.
func Open(dirPath string) (*Store, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	return &Store{db: db, dbPath: dirPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the persisted snapshot. Returns (nil, nil) when no snapshot has
// ever been written.
func (s *Store) Load() (*domain.State, error) {
	var state *domain.State

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(stateKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			state = &domain.State{}
			return json.Unmarshal(val, state)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if state != nil {
		state.Normalize()
	}
	return state, nil
}

// Save replaces the persisted snapshot with the given state.
func (s *Store) Save(state *domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(stateKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot.
func (s *Store) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(stateKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
