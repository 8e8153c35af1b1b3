package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add <parent-folder-id> <name>",
	Short: "Create a folder under an existing folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := commands.NewAddFolderCommand(getStore(), args[0], args[1])
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", result.Message, result.FolderID)
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <folder-id> <name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		renameCmd := commands.NewRenameFolderCommand(getStore(), args[0], args[1])
		if err := renameCmd.Execute(context.Background()); err != nil {
			return err
		}
		fmt.Println("Folder renamed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderRenameCmd)
}
