package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application"
	"storyforge/internal/application/commands"
)

var purgeFlag bool

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Move a story or folder to the trash",
	Long: `Move a story or folder to the trash. Deleting a folder cascades to its
subtree. Trashed entries stay restorable until purged.

Examples:
  storyforge-cli rm <story-id>
  storyforge-cli rm <story-id> --purge`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := getStore().State()
		ctx := context.Background()

		switch {
		case state.Stories[args[0]] != nil:
			if purgeFlag {
				if err := commands.NewPurgeStoryCommand(getStore(), args[0]).Execute(ctx); err != nil {
					return err
				}
				fmt.Println("Story permanently deleted")
				return nil
			}
			if err := commands.NewDeleteStoryCommand(getStore(), args[0]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Story moved to trash")

		case state.Folders[args[0]] != nil:
			if purgeFlag {
				return fmt.Errorf("only stories can be purged")
			}
			if err := commands.NewDeleteFolderCommand(getStore(), args[0]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Folder moved to trash")

		default:
			return fmt.Errorf("%s: %w", args[0], application.ErrNotFound)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a story or folder from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := getStore().State()
		ctx := context.Background()

		switch {
		case state.Stories[args[0]] != nil:
			if err := commands.NewRestoreStoryCommand(getStore(), args[0]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Story restored")

		case state.Folders[args[0]] != nil:
			if err := commands.NewRestoreFolderCommand(getStore(), args[0]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Folder restored")

		default:
			return fmt.Errorf("%s: %w", args[0], application.ErrNotFound)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(restoreCmd)
	rmCmd.Flags().BoolVar(&purgeFlag, "purge", false, "delete permanently instead of trashing")
}
