package openai

import (
	"fmt"
	"strings"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// selectedFields lists the JSON keys an improve run is allowed to return.
func selectedFields(selection ports.RewriteSelection) []string {
	if selection.All() {
		return []string{"title", "description", "acceptanceCriteria"}
	}
	var fields []string
	if selection.Title {
		fields = append(fields, "title")
	}
	if selection.Description {
		fields = append(fields, "description")
	}
	if selection.AcceptanceCriteria {
		fields = append(fields, "acceptanceCriteria")
	}
	return fields
}

func buildImproveSystemPrompt(selection ports.RewriteSelection) string {
	fields := selectedFields(selection)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}

	return fmt.Sprintf(`You are an experienced product owner refining user stories.

Rewrite the requested fields of the story so they are clear, specific and testable.
Keep the user's intent; do not invent requirements that were never implied.

Return ONLY a JSON object with exactly these keys: %s.
Every value must be a plain string (markdown allowed inside strings).
No markdown fences, no commentary outside the JSON object.`, strings.Join(quoted, ", "))
}

func buildImproveUserPrompt(story *domain.Story, project *domain.Project, qa []ports.QA) string {
	var b strings.Builder

	b.WriteString("## Story\n")
	fmt.Fprintf(&b, "Title: %s\n\n", story.Title)
	fmt.Fprintf(&b, "Description:\n%s\n\n", story.Description)
	fmt.Fprintf(&b, "Acceptance Criteria:\n%s\n", story.AcceptanceCriteria)

	writeQASection(&b, qa)
	writeProjectSections(&b, project)

	return b.String()
}

func buildQuestionsSystemPrompt(purpose ports.QuestionPurpose) string {
	goal := "improve and sharpen this story"
	if purpose == ports.QuestionsForSplit {
		goal = "split this story into smaller independent stories"
	}

	return fmt.Sprintf(`You are an experienced product owner preparing to %s.

Ask 3-5 clarifying questions whose answers would most change the outcome.

Return ONLY a JSON object of the form:
{"questions": [{"id": "q1", "question": "...", "type": "text"}]}

"type" must be one of "text", "single_select" or "multi_select".
For the select types include an "options" array of strings.`, goal)
}

func buildQuestionsUserPrompt(story *domain.Story, project *domain.Project) string {
	var b strings.Builder

	b.WriteString("## Story\n")
	fmt.Fprintf(&b, "Title: %s\n\n", story.Title)
	fmt.Fprintf(&b, "Description:\n%s\n\n", story.Description)
	fmt.Fprintf(&b, "Acceptance Criteria:\n%s\n", story.AcceptanceCriteria)

	writeProjectSections(&b, project)

	return b.String()
}

const changeSummarySystemPrompt = `You summarize edits to user stories.

Compare the old and new revision and describe what changed in one short label.

Return ONLY a JSON object: {"title": "<at most 8 words>", "description": "<one or two sentences>"}.`

func buildChangeSummaryUserPrompt(oldVersion, newVersion domain.Version) string {
	var b strings.Builder

	b.WriteString("## Old revision\n")
	fmt.Fprintf(&b, "Title: %s\n\nDescription:\n%s\n\nAcceptance Criteria:\n%s\n\n",
		oldVersion.Title, oldVersion.Description, oldVersion.AcceptanceCriteria)

	b.WriteString("## New revision\n")
	fmt.Fprintf(&b, "Title: %s\n\nDescription:\n%s\n\nAcceptance Criteria:\n%s\n",
		newVersion.Title, newVersion.Description, newVersion.AcceptanceCriteria)

	return b.String()
}

const splitSystemPrompt = `You are an experienced product owner splitting a user story.

Decompose the story into 2-6 smaller stories that are each independently
valuable and testable. Together they must cover the original story; do not
add scope that was never implied.

Return ONLY a JSON object of the form:
{"stories": [{"title": "...", "description": "...", "acceptanceCriteria": "..."}]}

Every value must be a plain string.`

func buildSplitUserPrompt(story *domain.Story, project *domain.Project, instructions string, qa []ports.QA) string {
	var b strings.Builder

	b.WriteString("## Story to split\n")
	fmt.Fprintf(&b, "Title: %s\n\n", story.Title)
	fmt.Fprintf(&b, "Description:\n%s\n\n", story.Description)
	fmt.Fprintf(&b, "Acceptance Criteria:\n%s\n", story.AcceptanceCriteria)

	if strings.TrimSpace(instructions) != "" {
		b.WriteString("\n## Splitting instructions\n")
		b.WriteString(instructions)
		b.WriteString("\n")
	}

	writeQASection(&b, qa)
	writeProjectSections(&b, project)

	return b.String()
}

// buildChatSystemPrompt assembles the system prompt for a multi-story chat.
// Project context and instructions appear under their own labeled sections,
// and only when set.
func buildChatSystemPrompt(stories []*domain.Story, project *domain.Project) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant answering questions about the user stories below.\n")
	b.WriteString("Ground every answer in the stories; say so when they don't contain the answer.\n")

	for _, story := range stories {
		if story == nil {
			continue
		}
		fmt.Fprintf(&b, "\n### Story: %s\n", story.Title)
		fmt.Fprintf(&b, "Description:\n%s\n\n", story.Description)
		fmt.Fprintf(&b, "Acceptance Criteria:\n%s\n", story.AcceptanceCriteria)
	}

	writeProjectSections(&b, project)

	return b.String()
}

// writeProjectSections appends the project's context and system prompt, each
// under a distinct labeled section and only when present.
func writeProjectSections(b *strings.Builder, project *domain.Project) {
	if project == nil {
		return
	}
	if strings.TrimSpace(project.Context) != "" {
		b.WriteString("\nProject Context:\n")
		b.WriteString(project.Context)
		b.WriteString("\n")
	}
	if strings.TrimSpace(project.SystemPrompt) != "" {
		b.WriteString("\nAdditional Project Instructions:\n")
		b.WriteString(project.SystemPrompt)
		b.WriteString("\n")
	}
}

// writeQASection appends answered clarifying questions.
func writeQASection(b *strings.Builder, qa []ports.QA) {
	if len(qa) == 0 {
		return
	}
	b.WriteString("\n## Clarifying answers\n")
	for _, item := range qa {
		fmt.Fprintf(b, "Q: %s\nA: %s\n", item.Question, item.Answer)
	}
}
