package openai

import (
	"strings"
	"testing"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

func TestBuildChatSystemPromptIncludesProjectSections(t *testing.T) {
	story := &domain.Story{Title: "Login", Description: "desc", AcceptanceCriteria: "AC"}
	project := &domain.Project{
		Name:         "Shop",
		Context:      "B2B storefront for wholesale buyers",
		SystemPrompt: "Always write stories in Gherkin",
	}

	prompt := buildChatSystemPrompt([]*domain.Story{story}, project)

	if !strings.Contains(prompt, "Project Context:") {
		t.Error("prompt should carry a Project Context section")
	}
	if !strings.Contains(prompt, "B2B storefront for wholesale buyers") {
		t.Error("prompt should carry the project context body")
	}
	if !strings.Contains(prompt, "Additional Project Instructions:") {
		t.Error("prompt should carry an instructions section")
	}
	if !strings.Contains(prompt, "Always write stories in Gherkin") {
		t.Error("prompt should carry the instructions body")
	}
	if !strings.Contains(prompt, "### Story: Login") {
		t.Error("prompt should list the story")
	}
}

func TestBuildChatSystemPromptOmitsEmptyProjectSections(t *testing.T) {
	story := &domain.Story{Title: "Login"}

	tests := []struct {
		name    string
		project *domain.Project
	}{
		{name: "nil project", project: nil},
		{name: "empty fields", project: &domain.Project{Name: "Shop"}},
		{name: "whitespace only", project: &domain.Project{Context: "  \n", SystemPrompt: "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildChatSystemPrompt([]*domain.Story{story}, tt.project)
			if strings.Contains(prompt, "Project Context:") {
				t.Error("prompt should not carry a Project Context section")
			}
			if strings.Contains(prompt, "Additional Project Instructions:") {
				t.Error("prompt should not carry an instructions section")
			}
		})
	}
}

func TestBuildImproveSystemPromptNamesSelectedFields(t *testing.T) {
	tests := []struct {
		name      string
		selection ports.RewriteSelection
		want      []string
		exclude   []string
	}{
		{
			name:      "title only",
			selection: ports.RewriteSelection{Title: true},
			want:      []string{`"title"`},
			exclude:   []string{`"description"`, `"acceptanceCriteria"`},
		},
		{
			name:      "zero value means all fields",
			selection: ports.RewriteSelection{},
			want:      []string{`"title"`, `"description"`, `"acceptanceCriteria"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildImproveSystemPrompt(tt.selection)
			for _, want := range tt.want {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt should name %s", want)
				}
			}
			for _, excl := range tt.exclude {
				if strings.Contains(prompt, excl) {
					t.Errorf("prompt should not name %s", excl)
				}
			}
		})
	}
}

func TestBuildImproveUserPromptIncludesAnswers(t *testing.T) {
	story := &domain.Story{Title: "Login", Description: "desc", AcceptanceCriteria: "AC"}
	qa := []ports.QA{{Question: "Which users?", Answer: "Admins only"}}

	prompt := buildImproveUserPrompt(story, nil, qa)

	if !strings.Contains(prompt, "Q: Which users?") || !strings.Contains(prompt, "A: Admins only") {
		t.Errorf("prompt should carry the answered questions, got:\n%s", prompt)
	}
}

func TestBuildSplitUserPromptIncludesInstructions(t *testing.T) {
	story := &domain.Story{Title: "Checkout"}

	with := buildSplitUserPrompt(story, nil, "split by payment method", nil)
	if !strings.Contains(with, "## Splitting instructions") || !strings.Contains(with, "split by payment method") {
		t.Errorf("prompt should carry the instructions, got:\n%s", with)
	}

	without := buildSplitUserPrompt(story, nil, "   ", nil)
	if strings.Contains(without, "## Splitting instructions") {
		t.Error("blank instructions should not produce a section")
	}
}
