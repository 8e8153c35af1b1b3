package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name> [description]",
	Short: "Create a new project and make it current",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}

		addCmd := commands.NewAddProjectCommand(getStore(), args[0], description)
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", result.Message, result.ProjectID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewListProjectsCommand(getStore())
		projects, err := listCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for _, p := range projects {
			marker := "  "
			if p.Current {
				marker = "* "
			}
			fmt.Printf("%s%s  %s\n", marker, p.Project.ID, p.Project.Name)
		}
		return nil
	},
}

var projectUseCmd = &cobra.Command{
	Use:   "use <project-id>",
	Short: "Switch the current project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useCmd := commands.NewUseProjectCommand(getStore(), args[0])
		project, err := useCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Now using %s\n", project.Name)
		return nil
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <project-id>",
	Short: "Delete a project",
	Long: `Delete a project. Its folders and stories are left in place but become
unreachable; use export to recover their content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rmCmd := commands.NewDeleteProjectCommand(getStore(), args[0])
		if err := rmCmd.Execute(context.Background()); err != nil {
			return err
		}
		fmt.Println("Project deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectRmCmd)
}
