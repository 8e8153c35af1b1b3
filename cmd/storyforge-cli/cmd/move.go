package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application"
	"storyforge/internal/application/commands"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <dest-folder-id>",
	Short: "Move a story or folder into another folder",
	Long: `Move a story or folder into another folder. Moving a folder into its
own subtree is rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := getStore().State()
		ctx := context.Background()

		switch {
		case state.Stories[args[0]] != nil:
			if err := commands.NewMoveStoryCommand(getStore(), args[0], args[1]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Story moved")

		case state.Folders[args[0]] != nil:
			if err := commands.NewMoveFolderCommand(getStore(), args[0], args[1]).Execute(ctx); err != nil {
				return err
			}
			fmt.Println("Folder moved")

		default:
			return fmt.Errorf("%s: %w", args[0], application.ErrNotFound)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
