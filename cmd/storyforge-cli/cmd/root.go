package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storyforge/internal/adapters/badgerstore"
	"storyforge/internal/adapters/openai"
	"storyforge/internal/adapters/sqliteindex"
	"storyforge/internal/application"
	"storyforge/internal/config"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

var (
	dataDir string

	store     *application.Store
	snapshots ports.SnapshotStore
	index     ports.StoryIndex
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storyforge-cli",
	Short: "CLI for managing user stories",
	Long: `storyforge-cli is a command-line interface for StoryForge: projects,
folders, stories and their version history, plus AI-assisted rewriting,
splitting and chat.

All data lives in a local snapshot under the data directory; nothing
leaves the machine except AI provider calls.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return initStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeStore()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DataDir(), "data directory")
}

func initStore() error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	var err error
	logger, err = cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}

	snapshots, err = badgerstore.Open(filepath.Join(dataDir, "state"))
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	state, err := snapshots.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if state == nil {
		state = domain.NewState()
	}
	state.Settings = config.ApplyEnvOverrides(state.Settings)

	store = application.NewStore(state, snapshots, logger)
	return nil
}

// openIndex lazily opens the search index, synced to the current snapshot.
// Only the search command pays the cost.
func openIndex() (ports.StoryIndex, error) {
	if index != nil {
		return index, nil
	}
	idx := sqliteindex.NewIndex()
	if err := idx.Open(dataDir); err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	if err := idx.Sync(store.State()); err != nil {
		idx.Close()
		return nil, fmt.Errorf("sync search index: %w", err)
	}
	index = idx
	return index, nil
}

func closeStore() error {
	if index != nil {
		index.Close()
		index = nil
	}
	if store != nil {
		if err := store.Flush(); err != nil {
			return fmt.Errorf("flush snapshot: %w", err)
		}
		store = nil
	}
	if snapshots != nil {
		snapshots.Close()
		snapshots = nil
	}
	return nil
}

// getStore returns the initialized store
func getStore() *application.Store {
	return store
}

// getAssistant returns the AI gateway used by improve/split/questions/chat.
func getAssistant() ports.Assistant {
	return openai.NewAssistant(openai.WithLogger(logger))
}
