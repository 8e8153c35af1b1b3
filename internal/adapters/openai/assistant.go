package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

const (
	defaultLargeModel = "gpt-4o"
	defaultSmallModel = "gpt-4o-mini"
)

// Assistant implements ports.Assistant against an OpenAI-style endpoint.
// Credentials and model choices come from the settings passed to each call,
// so a settings change takes effect on the next request.
type Assistant struct {
	httpClient *http.Client
	logger     *zap.Logger
}

var _ ports.Assistant = (*Assistant)(nil)

// Option configures the Assistant
type Option func(*Assistant)

// WithHTTPClient overrides the HTTP client (used by tests).
func WithHTTPClient(c *http.Client) Option {
	return func(a *Assistant) {
		a.httpClient = c
	}
}

// WithLogger sets the logger for best-effort failures.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// NewAssistant creates a new assistant gateway.
func NewAssistant(opts ...Option) *Assistant {
	a := &Assistant{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// clientFor builds a request client from the active provider settings.
// A missing API key is rejected here, before any network traffic.
func (a *Assistant) clientFor(settings domain.Settings) (*client, domain.ProviderConfig, error) {
	cfg := settings.Active()
	if cfg.APIKey == "" {
		return nil, cfg, application.ErrNoAPIKey
	}
	return newClient(cfg.APIKey, cfg.BaseURL, a.httpClient), cfg, nil
}

func largeModel(cfg domain.ProviderConfig) string {
	if cfg.LargeModel != "" {
		return cfg.LargeModel
	}
	return defaultLargeModel
}

func smallModel(cfg domain.ProviderConfig) string {
	if cfg.SmallModel != "" {
		return cfg.SmallModel
	}
	return defaultSmallModel
}

// ImproveStory rewrites the selected fields of a story and merges them into
// a copy of the original content. A title-only rewrite goes to the small
// model; anything heavier uses the large one.
func (a *Assistant) ImproveStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, qa []ports.QA, selection ports.RewriteSelection) (domain.StoryContent, error) {
	c, cfg, err := a.clientFor(settings)
	if err != nil {
		return domain.StoryContent{}, err
	}

	model := largeModel(cfg)
	if selection.TitleOnly() {
		model = smallModel(cfg)
	}

	reply, err := c.complete(ctx,
		model,
		buildImproveSystemPrompt(selection),
		buildImproveUserPrompt(story, project, qa),
		true,
	)
	if err != nil {
		return domain.StoryContent{}, &application.AssistantError{Operation: "improve story", Err: err}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(extractJSON(reply)), &fields); err != nil {
		return domain.StoryContent{}, &application.AssistantError{
			Operation: "improve story",
			Err:       fmt.Errorf("unexpected response shape: %w", err),
		}
	}

	// Merge only the requested fields; unselected fields always carry the
	// original content, whatever the model returned.
	out := story.Content()
	if selection.All() || selection.Title {
		if v, ok := fields["title"]; ok {
			out.Title = coerceToString(v)
		}
	}
	if selection.All() || selection.Description {
		if v, ok := fields["description"]; ok {
			out.Description = coerceToString(v)
		}
	}
	if selection.All() || selection.AcceptanceCriteria {
		if v, ok := fields["acceptanceCriteria"]; ok {
			out.AcceptanceCriteria = coerceToString(v)
		}
	}
	return out, nil
}

// GenerateClarifyingQuestions asks for 3-5 questions ahead of an improve or
// split run. An unrecognizable reply shape yields an empty list, not an
// error.
func (a *Assistant) GenerateClarifyingQuestions(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, purpose ports.QuestionPurpose) ([]ports.Question, error) {
	c, cfg, err := a.clientFor(settings)
	if err != nil {
		return nil, err
	}

	reply, err := c.complete(ctx,
		largeModel(cfg),
		buildQuestionsSystemPrompt(purpose),
		buildQuestionsUserPrompt(story, project),
		true,
	)
	if err != nil {
		return nil, &application.AssistantError{Operation: "generate questions", Err: err}
	}

	return normalizeQuestions(reply), nil
}

// GenerateVersionChangeDescription is a non-critical enrichment performed
// after the authoritative save: every failure is logged and swallowed.
func (a *Assistant) GenerateVersionChangeDescription(ctx context.Context, oldVersion, newVersion domain.Version, settings domain.Settings) *ports.ChangeSummary {
	c, cfg, err := a.clientFor(settings)
	if err != nil {
		a.logger.Warn("change summary skipped", zap.Error(err))
		return nil
	}

	reply, err := c.complete(ctx,
		smallModel(cfg),
		changeSummarySystemPrompt,
		buildChangeSummaryUserPrompt(oldVersion, newVersion),
		true,
	)
	if err != nil {
		a.logger.Warn("change summary failed", zap.Error(err))
		return nil
	}

	var shape struct {
		Title       any `json:"title"`
		Description any `json:"description"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &shape); err != nil {
		a.logger.Warn("change summary unparseable", zap.Error(err))
		return nil
	}

	summary := &ports.ChangeSummary{
		Title:       coerceToString(shape.Title),
		Description: coerceToString(shape.Description),
	}
	if summary.Title == "" && summary.Description == "" {
		return nil
	}
	return summary
}

// SplitStory decomposes one story into several smaller ones.
func (a *Assistant) SplitStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, instructions string, qa []ports.QA) ([]domain.StoryContent, error) {
	c, cfg, err := a.clientFor(settings)
	if err != nil {
		return nil, err
	}

	reply, err := c.complete(ctx,
		largeModel(cfg),
		splitSystemPrompt,
		buildSplitUserPrompt(story, project, instructions, qa),
		true,
	)
	if err != nil {
		return nil, &application.AssistantError{Operation: "split story", Err: err}
	}

	return normalizeStories(reply), nil
}

// ChatWithStories streams an answer about a set of stories, forwarding each
// chunk to onChunk in arrival order.
func (a *Assistant) ChatWithStories(ctx context.Context, stories []*domain.Story, messages []ports.ChatMessage, settings domain.Settings, project *domain.Project, onChunk func(string)) (string, error) {
	c, cfg, err := a.clientFor(settings)
	if err != nil {
		return "", err
	}

	wire := make([]chatMessage, 0, len(messages)+1)
	wire = append(wire, chatMessage{
		Role:    "system",
		Content: buildChatSystemPrompt(stories, project),
	})
	for _, msg := range messages {
		wire = append(wire, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	reply, err := c.stream(ctx, largeModel(cfg), wire, onChunk)
	if err != nil {
		return reply, &application.AssistantError{Operation: "chat", Err: err}
	}
	return reply, nil
}
