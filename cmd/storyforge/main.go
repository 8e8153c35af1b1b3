package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storyforge/internal/adapters/badgerstore"
	"storyforge/internal/adapters/sqliteindex"
	"storyforge/internal/adapters/tui"
	"storyforge/internal/application"
	"storyforge/internal/config"
	"storyforge/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	snapshots, err := badgerstore.Open(config.SnapshotDir())
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer snapshots.Close()

	state, err := snapshots.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if state == nil {
		state = domain.NewState()
	}
	state.Settings = config.ApplyEnvOverrides(state.Settings)

	// The alternate screen owns stdout and stderr, so logging is silenced
	// while the TUI runs.
	store := application.NewStore(state, snapshots, zap.NewNop())

	index := sqliteindex.NewIndex()
	if err := index.Open(config.DataDir()); err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()
	if err := index.Sync(store.State()); err != nil {
		return fmt.Errorf("sync search index: %w", err)
	}
	store.Subscribe(func(snapshot *domain.State) {
		index.Sync(snapshot)
	})

	app := tui.NewApp(store, index)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return store.Flush()
}
