package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"storyforge/internal/application"
	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
)

// RegisterWriteTools adds all mutating story tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, store *application.Store) {
	s.AddTool(addStoryTool(), addStoryHandler(store))
	s.AddTool(saveStoryTool(), saveStoryHandler(store))
	s.AddTool(moveStoryTool(), moveStoryHandler(store))
	s.AddTool(deleteStoryTool(), deleteStoryHandler(store))
	s.AddTool(restoreStoryTool(), restoreStoryHandler(store))
	s.AddTool(addFolderTool(), addFolderHandler(store))
}

// --- add_story ---

func addStoryTool() mcp.Tool {
	return mcp.NewTool("add_story",
		mcp.WithDescription("Create a story in a folder. The story starts with a single root version."),
		mcp.WithString("folder_id",
			mcp.Description("Folder to create the story in"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Story title"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Story description"),
		),
		mcp.WithString("acceptance_criteria",
			mcp.Description("Acceptance criteria"),
		),
	)
}

func addStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddStoryCommand(store,
			req.GetString("folder_id", ""),
			req.GetString("title", ""),
			req.GetString("description", ""),
			req.GetString("acceptance_criteria", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + " (" + result.StoryID + ")"), nil
	}
}

// --- save_story ---

func saveStoryTool() mcp.Tool {
	return mcp.NewTool("save_story",
		mcp.WithDescription("Save new content for a story as a version. Saving unchanged content is a no-op."),
		mcp.WithString("story_id",
			mcp.Description("Story id"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("acceptance_criteria",
			mcp.Description("New acceptance criteria"),
		),
	)
}

func saveStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content := domain.StoryContent{
			Title:              req.GetString("title", ""),
			Description:        req.GetString("description", ""),
			AcceptanceCriteria: req.GetString("acceptance_criteria", ""),
		}
		cmd := commands.NewSaveStoryCommand(store, nil, req.GetString("story_id", ""), content, domain.AuthorAI)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move_story ---

func moveStoryTool() mcp.Tool {
	return mcp.NewTool("move_story",
		mcp.WithDescription("Move a story into another folder."),
		mcp.WithString("story_id",
			mcp.Description("Story to move"),
			mcp.Required(),
		),
		mcp.WithString("destination_id",
			mcp.Description("Destination folder id"),
			mcp.Required(),
		),
	)
}

func moveStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMoveStoryCommand(store,
			req.GetString("story_id", ""),
			req.GetString("destination_id", ""),
		)
		if err := cmd.Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Moved story."), nil
	}
}

// --- delete_story ---

func deleteStoryTool() mcp.Tool {
	return mcp.NewTool("delete_story",
		mcp.WithDescription("Soft-delete a story. Deleted stories can be restored until they are purged."),
		mcp.WithString("story_id",
			mcp.Description("Story id"),
			mcp.Required(),
		),
	)
}

func deleteStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDeleteStoryCommand(store, req.GetString("story_id", ""))
		if err := cmd.Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Deleted story."), nil
	}
}

// --- restore_story ---

func restoreStoryTool() mcp.Tool {
	return mcp.NewTool("restore_story",
		mcp.WithDescription("Restore a soft-deleted story, resurrecting deleted parent folders so it is reachable again."),
		mcp.WithString("story_id",
			mcp.Description("Story id"),
			mcp.Required(),
		),
	)
}

func restoreStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRestoreStoryCommand(store, req.GetString("story_id", ""))
		if err := cmd.Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Restored story."), nil
	}
}

// --- add_folder ---

func addFolderTool() mcp.Tool {
	return mcp.NewTool("add_folder",
		mcp.WithDescription("Create a folder under an existing folder."),
		mcp.WithString("parent_id",
			mcp.Description("Parent folder id"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Folder name"),
			mcp.Required(),
		),
	)
}

func addFolderHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddFolderCommand(store,
			req.GetString("parent_id", ""),
			req.GetString("name", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + " (" + result.FolderID + ")"), nil
	}
}
