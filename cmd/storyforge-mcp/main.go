package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"storyforge/internal/adapters/badgerstore"
	mcpadapter "storyforge/internal/adapters/mcp"
	"storyforge/internal/adapters/sqliteindex"
	"storyforge/internal/application"
	"storyforge/internal/config"
	"storyforge/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("storyforge-mcp: %v", err)
	}
}

func run() error {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		logger = zap.NewNop()
	}
	defer logger.Sync()

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

	store := application.NewStore(state, snapshots, logger)

	index := sqliteindex.NewIndex()
	if err := index.Open(config.DataDir()); err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()
	if err := index.Sync(store.State()); err != nil {
		return fmt.Errorf("sync search index: %w", err)
	}
	store.Subscribe(func(snapshot *domain.State) {
		if err := index.Sync(snapshot); err != nil {
			logger.Warn("index sync failed", zap.Error(err))
		}
	})

	mcpServer := server.NewMCPServer(
		"storyforge-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, index)
	mcpadapter.RegisterWriteTools(mcpServer, store)

	if err := server.ServeStdio(mcpServer); err != nil {
		return err
	}
	return store.Flush()
}
