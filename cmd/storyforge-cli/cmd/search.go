package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stories by keyword",
	Long: `Search stories whose title, description or acceptance criteria contain
the query, case-insensitively. Trashed stories never match.

Examples:
  storyforge-cli search login
  storyforge-cli search "payment flow"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := openIndex()
		if err != nil {
			return err
		}

		searchCmd := commands.NewSearchCommand(idx, args[0])
		hits, err := searchCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		if len(hits) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, h := range hits {
			fmt.Printf("%s  %s\n", h.StoryID, h.Title)
			if h.MatchedText != "" {
				fmt.Printf("    %s\n", h.MatchedText)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
