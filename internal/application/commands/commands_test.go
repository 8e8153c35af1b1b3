package commands

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// fixture builds a store with one project, one child folder and one story.
func fixture(t *testing.T) (store *application.Store, projectID, rootID, folderID, storyID string) {
	t.Helper()
	store = application.NewStore(nil, nil, zap.NewNop())

	projectID = store.AddProject("Shop", "storefront")
	rootID = store.State().Projects[projectID].RootFolderID
	folderID = store.AddFolder("", rootID, "Backlog", projectID)
	storyID = store.AddStory(folderID, "Login", "As a user", "It works")
	return store, projectID, rootID, folderID, storyID
}

// fakeAssistant implements ports.Assistant with canned replies.
type fakeAssistant struct {
	improved  domain.StoryContent
	questions []ports.Question
	summary   *ports.ChangeSummary
	splits    []domain.StoryContent
	chatReply string
	err       error

	summaryCalls int
}

func (f *fakeAssistant) ImproveStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, qa []ports.QA, selection ports.RewriteSelection) (domain.StoryContent, error) {
	return f.improved, f.err
}

func (f *fakeAssistant) GenerateClarifyingQuestions(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, purpose ports.QuestionPurpose) ([]ports.Question, error) {
	return f.questions, f.err
}

func (f *fakeAssistant) GenerateVersionChangeDescription(ctx context.Context, oldVersion, newVersion domain.Version, settings domain.Settings) *ports.ChangeSummary {
	f.summaryCalls++
	return f.summary
}

func (f *fakeAssistant) SplitStory(ctx context.Context, story *domain.Story, settings domain.Settings, project *domain.Project, instructions string, qa []ports.QA) ([]domain.StoryContent, error) {
	return f.splits, f.err
}

func (f *fakeAssistant) ChatWithStories(ctx context.Context, stories []*domain.Story, messages []ports.ChatMessage, settings domain.Settings, project *domain.Project, onChunk func(string)) (string, error) {
	if onChunk != nil {
		onChunk(f.chatReply)
	}
	return f.chatReply, f.err
}
