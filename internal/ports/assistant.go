package ports

import (
	"context"

	"storyforge/internal/domain"
)

// AnswerType is the answer shape a clarifying question expects.
type AnswerType string

const (
	AnswerText         AnswerType = "text"
	AnswerSingleSelect AnswerType = "single_select"
	AnswerMultiSelect  AnswerType = "multi_select"
)

// Question is a clarifying question generated before an improve or split run.
type Question struct {
	ID      string     `json:"id"`
	Text    string     `json:"question"`
	Type    AnswerType `json:"type"`
	Options []string   `json:"options,omitempty"`
}

// QuestionPurpose selects the flavor of clarifying questions requested.
type QuestionPurpose string

const (
	QuestionsForImprove QuestionPurpose = "improve"
	QuestionsForSplit   QuestionPurpose = "split"
)

// QA pairs an answered clarifying question with the user's answer.
type QA struct {
	Question string
	Answer   string
}

// RewriteSelection restricts which story fields an improve run may rewrite.
// The zero value selects every field.
type RewriteSelection struct {
	Title              bool
	Description        bool
	AcceptanceCriteria bool
}

// All reports whether the selection covers every field (including the zero
// value, which by convention means "rewrite everything").
func (r RewriteSelection) All() bool {
	if r.Title && r.Description && r.AcceptanceCriteria {
		return true
	}
	return !r.Title && !r.Description && !r.AcceptanceCriteria
}

// TitleOnly reports whether exactly the title is selected.
func (r RewriteSelection) TitleOnly() bool {
	return r.Title && !r.Description && !r.AcceptanceCriteria
}

// ChangeSummary is a short AI-generated "what changed" label for a version.
type ChangeSummary struct {
	Title       string
	Description string
}

// ChatMessage is one turn of a multi-story chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Assistant is the AI gateway: prompt construction, the remote
// chat-completion call, and normalization of the reply into the shapes the
// rest of the application expects.
type Assistant interface {
	// ImproveStory rewrites the selected fields of a story. Only the
	// selected fields differ in the returned content; unselected fields are
	// carried over from the original story.
	ImproveStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, qa []QA, selection RewriteSelection) (domain.StoryContent, error)

	// GenerateClarifyingQuestions asks for 3-5 questions to sharpen an
	// improve or split run. Returns an empty slice when the reply carries no
	// recognizable question list.
	GenerateClarifyingQuestions(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, purpose QuestionPurpose) ([]Question, error)

	// GenerateVersionChangeDescription is best-effort: it returns nil (and
	// no error surfaced to the caller's flow) when the key is missing or the
	// request fails, since the save it annotates has already happened.
	GenerateVersionChangeDescription(ctx context.Context, oldVersion, newVersion domain.Version, settings domain.Settings) *ChangeSummary

	// SplitStory decomposes one story into several smaller ones.
	SplitStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, instructions string, qa []QA) ([]domain.StoryContent, error)

	// ChatWithStories streams an answer about a set of stories. Each chunk
	// is forwarded to onChunk in arrival order; the full reply is returned
	// once the stream ends.
	ChatWithStories(ctx context.Context, stories []*domain.Story, messages []ChatMessage, settings domain.Settings, project *domain.Project, onChunk func(string)) (string, error)
}
