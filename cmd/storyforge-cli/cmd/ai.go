package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyforge/internal/application/commands"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

var (
	improveTitle    bool
	improveDesc     bool
	improveCriteria bool
	improveApply    bool
	aiAnswers       []string

	splitInstructions string
	splitDryRun       bool

	questionsPurpose string

	chatMessage string
)

// parseAnswers splits repeated "question=answer" flags into QA pairs.
func parseAnswers(raw []string) []ports.QA {
	var qa []ports.QA
	for _, r := range raw {
		q, a, ok := strings.Cut(r, "=")
		if !ok {
			continue
		}
		qa = append(qa, ports.QA{Question: strings.TrimSpace(q), Answer: strings.TrimSpace(a)})
	}
	return qa
}

var improveCmd = &cobra.Command{
	Use:   "improve <story-id>",
	Short: "Ask the AI to rewrite a story",
	Long: `Ask the AI to rewrite a story. Without field flags every field is
rewritten; with flags only the selected fields change. The suggestion
is printed; pass --apply to save it as a new version.

Examples:
  storyforge-cli improve <story-id>
  storyforge-cli improve <story-id> --title
  storyforge-cli improve <story-id> --apply --answer "Who is the user?=An admin"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selection := ports.RewriteSelection{
			Title:              improveTitle,
			Description:        improveDesc,
			AcceptanceCriteria: improveCriteria,
		}

		assistant := getAssistant()
		improveCmd := commands.NewImproveStoryCommand(getStore(), assistant, args[0], selection, parseAnswers(aiAnswers))
		result, err := improveCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		printContent(result.Suggested)

		if !improveApply {
			return nil
		}
		saveCmd := commands.NewSaveStoryCommand(getStore(), assistant, args[0], result.Suggested, domain.AuthorAI)
		saved, err := saveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", saved.Message)
		return nil
	},
}

var splitCmd = &cobra.Command{
	Use:   "split <story-id>",
	Short: "Ask the AI to split a story into smaller ones",
	Long: `Ask the AI to split a story into smaller ones. The new stories are
created next to the original, which is kept. Pass --dry-run to only
print the suggestions.

Examples:
  storyforge-cli split <story-id>
  storyforge-cli split <story-id> -i "split by user role" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		splitCmd := commands.NewSplitStoryCommand(getStore(), getAssistant(), args[0], splitInstructions, parseAnswers(aiAnswers))
		splitCmd.DryRun = splitDryRun
		result, err := splitCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for i, s := range result.Stories {
			if i > 0 {
				fmt.Println()
			}
			printContent(s)
		}
		if result.Message != "" {
			fmt.Printf("\n%s\n", result.Message)
		}
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions <story-id>",
	Short: "Generate clarifying questions for a story",
	Long: `Generate clarifying questions ahead of an improve or split run.
Answer them via improve/split --answer "question=answer".

Examples:
  storyforge-cli questions <story-id>
  storyforge-cli questions <story-id> --for split`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose := ports.QuestionPurpose(questionsPurpose)
		if purpose != ports.QuestionsForImprove && purpose != ports.QuestionsForSplit {
			return fmt.Errorf("invalid purpose %q (expected improve or split)", questionsPurpose)
		}

		qCmd := commands.NewQuestionsCommand(getStore(), getAssistant(), args[0], purpose)
		questions, err := qCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for _, q := range questions {
			fmt.Printf("- %s\n", q.Text)
			for _, opt := range q.Options {
				fmt.Printf("    - %s\n", opt)
			}
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <story-id>... -m <message>",
	Short: "Chat with the AI about one or more stories",
	Long: `Chat with the AI about one or more stories. The reply streams to
stdout as it arrives.

Examples:
  storyforge-cli chat <story-id> -m "What is missing from this story?"
  storyforge-cli chat <id1> <id2> -m "Do these overlap?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(chatMessage) == "" {
			return fmt.Errorf("a message is required (-m)")
		}

		messages := []ports.ChatMessage{{Role: "user", Content: chatMessage}}
		chatCmd := commands.NewChatCommand(getStore(), getAssistant(), args, messages, func(chunk string) {
			fmt.Print(chunk)
		})
		if _, err := chatCmd.Execute(context.Background()); err != nil {
			return err
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(improveCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(chatCmd)

	improveCmd.Flags().BoolVar(&improveTitle, "title", false, "rewrite the title")
	improveCmd.Flags().BoolVar(&improveDesc, "description", false, "rewrite the description")
	improveCmd.Flags().BoolVar(&improveCriteria, "criteria", false, "rewrite the acceptance criteria")
	improveCmd.Flags().BoolVar(&improveApply, "apply", false, "save the suggestion as a new version")
	improveCmd.Flags().StringArrayVar(&aiAnswers, "answer", nil, `answered clarifying question ("question=answer")`)

	splitCmd.Flags().StringVarP(&splitInstructions, "instructions", "i", "", "how to split the story")
	splitCmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "print suggestions without creating stories")
	splitCmd.Flags().StringArrayVar(&aiAnswers, "answer", nil, `answered clarifying question ("question=answer")`)

	questionsCmd.Flags().StringVar(&questionsPurpose, "for", "improve", "question purpose: improve or split")

	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "message to send")
}
