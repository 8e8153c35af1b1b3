package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
)

var (
	treeProjectID   string
	treeShowDeleted bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display a project's folder and story tree",
	Long: `Display a project's folder and story tree. Defaults to the current
project.

Examples:
  storyforge-cli tree
  storyforge-cli tree --project <project-id> --deleted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buildCmd := commands.NewTreeCommand(getStore(), treeProjectID, treeShowDeleted)
		root, err := buildCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		printTree(root, 0)
		return nil
	},
}

func printTree(node *domain.TreeNode, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	label := node.Name
	if node.Kind == domain.NodeStory {
		check := "[ ] "
		if node.Done {
			check = "[x] "
		}
		label = check + label
	}
	if node.Deleted {
		label += " (deleted)"
	}
	fmt.Printf("%s%s  %s\n", indent, label, node.ID)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVar(&treeProjectID, "project", "", "project id (defaults to current)")
	treeCmd.Flags().BoolVar(&treeShowDeleted, "deleted", false, "include trashed entries")
}
