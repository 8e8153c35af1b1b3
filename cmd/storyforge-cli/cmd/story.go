package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application"
	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
)

var (
	storyDescription string
	storyCriteria    string
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Manage stories",
}

var storyAddCmd = &cobra.Command{
	Use:   "add <folder-id> <title>",
	Short: "Create a story in a folder",
	Long: `Create a story in a folder. The initial content becomes version 1.

Examples:
  storyforge-cli story add <folder-id> "Login page"
  storyforge-cli story add <folder-id> "Login page" -d "As a user..." -a "Given..."`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := commands.NewAddStoryCommand(getStore(), args[0], args[1], storyDescription, storyCriteria)
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", result.Message, result.StoryID)
		return nil
	},
}

var storyShowCmd = &cobra.Command{
	Use:   "show <story-id>",
	Short: "Print a story's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		story, ok := getStore().State().Stories[args[0]]
		if !ok {
			return fmt.Errorf("story %s: %w", args[0], application.ErrNotFound)
		}

		printContent(story.Content())
		if story.Done {
			fmt.Println("\nStatus: done")
		}
		if story.Deleted {
			fmt.Println("\nStatus: in trash")
		}
		return nil
	},
}

var storySaveCmd = &cobra.Command{
	Use:   "save <story-id> <title>",
	Short: "Save new story content as a version",
	Long: `Save new story content as a version. Identical content is a no-op.
When an AI provider is configured, the version gets a generated
change summary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := domain.StoryContent{
			Title:              args[1],
			Description:        storyDescription,
			AcceptanceCriteria: storyCriteria,
		}
		saveCmd := commands.NewSaveStoryCommand(getStore(), getAssistant(), args[0], content, domain.AuthorUser)
		result, err := saveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var storyDuplicateCmd = &cobra.Command{
	Use:   "duplicate <story-id>",
	Short: "Copy a story into the same folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dupCmd := commands.NewDuplicateStoryCommand(getStore(), args[0])
		result, err := dupCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", result.Message, result.StoryID)
		return nil
	},
}

var storyDoneCmd = &cobra.Command{
	Use:   "done <story-id>",
	Short: "Toggle a story's done flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doneCmd := commands.NewToggleDoneCommand(getStore(), args[0])
		done, err := doneCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		if done {
			fmt.Println("Marked done")
		} else {
			fmt.Println("Marked not done")
		}
		return nil
	},
}

func printContent(content domain.StoryContent) {
	fmt.Printf("# %s\n", content.Title)
	if content.Description != "" {
		fmt.Printf("\n## Description\n%s\n", content.Description)
	}
	if content.AcceptanceCriteria != "" {
		fmt.Printf("\n## Acceptance Criteria\n%s\n", content.AcceptanceCriteria)
	}
}

func init() {
	rootCmd.AddCommand(storyCmd)
	storyCmd.AddCommand(storyAddCmd)
	storyCmd.AddCommand(storyShowCmd)
	storyCmd.AddCommand(storySaveCmd)
	storyCmd.AddCommand(storyDuplicateCmd)
	storyCmd.AddCommand(storyDoneCmd)

	for _, c := range []*cobra.Command{storyAddCmd, storySaveCmd} {
		c.Flags().StringVarP(&storyDescription, "description", "d", "", "story description")
		c.Flags().StringVarP(&storyCriteria, "criteria", "a", "", "acceptance criteria")
	}
}
