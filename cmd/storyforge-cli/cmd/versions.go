package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <story-id>",
	Short: "List a story's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewListVersionsCommand(getStore(), args[0])
		versions, err := listCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for _, v := range versions {
			marker := "  "
			if v.Current {
				marker = "* "
			}
			label := v.Version.ChangeTitle
			if label == "" {
				label = v.Version.Title
			}
			fmt.Printf("%s%s  %s  %s (%s)\n",
				marker,
				v.Version.ID,
				v.Version.Timestamp.Format("2006-01-02 15:04"),
				label,
				v.Version.Author,
			)
		}
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <story-id> <version-id>",
	Short: "Restore a story to an earlier version",
	Long: `Restore a story to an earlier version. The story's content is set to
the version's content; history is never rewritten.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coCmd := commands.NewCheckoutVersionCommand(getStore(), args[0], args[1])
		if err := coCmd.Execute(context.Background()); err != nil {
			return err
		}
		fmt.Println("Version restored")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(checkoutCmd)
}
