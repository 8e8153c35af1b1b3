// Package mcp exposes the story collection to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"storyforge/internal/application"
	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// RegisterReadTools adds all read-only story tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store *application.Store, index ports.StoryIndex) {
	s.AddTool(listTool(), listHandler(store))
	s.AddTool(treeTool(), treeHandler(store))
	s.AddTool(showStoryTool(), showStoryHandler(store))
	s.AddTool(listVersionsTool(), listVersionsHandler(store))
	s.AddTool(searchTool(), searchHandler(index))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List projects. Each line shows the project id and name; the current project is marked with an asterisk."),
	)
}

func listHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos, err := commands.NewListProjectsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(infos) == 0 {
			return mcp.NewToolResultText("No projects."), nil
		}

		var sb strings.Builder
		for _, info := range infos {
			marker := " "
			if info.Current {
				marker = "*"
			}
			fmt.Fprintf(&sb, "%s %s  %s\n", marker, info.Project.ID, info.Project.Name)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display a project's folder/story tree. Targets the current project when project_id is omitted."),
		mcp.WithString("project_id",
			mcp.Description("Project id to render. Omit for the current project."),
		),
		mcp.WithBoolean("include_deleted",
			mcp.Description("Include soft-deleted folders and stories."),
		),
	)
}

func treeHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectID := req.GetString("project_id", "")
		includeDeleted := req.GetBool("include_deleted", false)

		root, err := commands.NewTreeCommand(store, projectID, includeDeleted).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	label := node.Name
	if node.Kind == domain.NodeStory {
		if node.Done {
			label = "[x] " + label
		} else {
			label = "[ ] " + label
		}
	}
	if node.Deleted {
		label += " (deleted)"
	}
	fmt.Fprintf(sb, "%s%s  %s\n", prefix, node.ID, label)
	for _, child := range node.Children {
		renderTree(sb, child, prefix+"  ")
	}
}

// --- show_story ---

func showStoryTool() mcp.Tool {
	return mcp.NewTool("show_story",
		mcp.WithDescription("Show a story's current content: title, description and acceptance criteria."),
		mcp.WithString("story_id",
			mcp.Description("Story id"),
			mcp.Required(),
		),
	)
}

func showStoryHandler(store *application.Store) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("story_id", "")
		story, ok := store.State().Stories[id]
		if !ok {
			return toolError(fmt.Errorf("story %s: %w", id, application.ErrNotFound))
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s\n\n", story.Title)
		if story.Deleted {
			sb.WriteString("(deleted)\n\n")
		}
		fmt.Fprintf(&sb, "## Description\n%s\n\n", story.Description)
		fmt.Fprintf(&sb, "## Acceptance Criteria\n%s\n", story.AcceptanceCriteria)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_versions ---

func listVersionsTool() mcp.Tool {
	return mcp.NewTool("list_versions",
		mcp.WithDescription("List a story's saved versions, oldest first. The current version is marked with an asterisk."),
		mcp.WithString("story_id",
			mcp.Description("Story id"),
			mcp.Required(),
		),
	)
}

func listVersionsHandler(store *application.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos, err := commands.NewListVersionsCommand(store, req.GetString("story_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, info := range infos {
			marker := " "
			if info.Current {
				marker = "*"
			}
			label := info.Version.ChangeTitle
			if label == "" {
				label = info.Version.Title
			}
			fmt.Fprintf(&sb, "%s %s  %s  %s  (%s)\n",
				marker,
				info.Version.ID,
				info.Version.Timestamp.Format("2006-01-02 15:04"),
				label,
				info.Version.Author,
			)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search stories by keyword across title, description and acceptance criteria."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchHandler(index ports.StoryIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hits, err := commands.NewSearchCommand(index, req.GetString("query", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(hits) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, hit := range hits {
			fmt.Fprintf(&sb, "%s  %s  %s\n", hit.StoryID, hit.Title, hit.MatchedText)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
