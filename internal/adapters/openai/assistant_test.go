package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyforge/internal/application"
	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// fakeProvider returns an httptest server that answers every chat-completion
// call with content, and records the model of the last request.
func fakeProvider(t *testing.T, content string, lastModel *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if lastModel != nil {
			*lastModel = req.Model
		}
		fmt.Fprintf(w, `{"choices": [{"message": {"content": %q}}]}`, content)
	}))
	t.Cleanup(server.Close)
	return server
}

func settingsFor(server *httptest.Server) domain.Settings {
	return domain.Settings{
		Provider: "openai",
		Providers: map[string]domain.ProviderConfig{
			"openai": {
				APIKey:     "test-key",
				BaseURL:    server.URL,
				LargeModel: "large-model",
				SmallModel: "small-model",
			},
		},
	}
}

func testStory() *domain.Story {
	return &domain.Story{
		Title:              "Login",
		Description:        "As a user I want to log in",
		AcceptanceCriteria: "Given valid credentials",
	}
}

func TestImproveStoryRequiresAPIKey(t *testing.T) {
	assistant := NewAssistant()

	_, err := assistant.ImproveStory(context.Background(), testStory(), domain.Settings{}, nil, nil, ports.RewriteSelection{})
	if !errors.Is(err, application.ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestImproveStoryMergesOnlySelectedFields(t *testing.T) {
	reply := `{"title": "Better title", "description": "Better description", "acceptanceCriteria": "Better AC"}`
	server := fakeProvider(t, reply, nil)
	assistant := NewAssistant()

	got, err := assistant.ImproveStory(context.Background(), testStory(), settingsFor(server), nil, nil,
		ports.RewriteSelection{Description: true})
	if err != nil {
		t.Fatalf("ImproveStory() error = %v", err)
	}

	if got.Title != "Login" {
		t.Errorf("unselected title should survive, got %q", got.Title)
	}
	if got.Description != "Better description" {
		t.Errorf("selected description should be replaced, got %q", got.Description)
	}
	if got.AcceptanceCriteria != "Given valid credentials" {
		t.Errorf("unselected criteria should survive, got %q", got.AcceptanceCriteria)
	}
}

func TestImproveStoryModelSelection(t *testing.T) {
	tests := []struct {
		name      string
		selection ports.RewriteSelection
		wantModel string
	}{
		{name: "title only uses small model", selection: ports.RewriteSelection{Title: true}, wantModel: "small-model"},
		{name: "full rewrite uses large model", selection: ports.RewriteSelection{}, wantModel: "large-model"},
		{name: "title plus description uses large model", selection: ports.RewriteSelection{Title: true, Description: true}, wantModel: "large-model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotModel string
			server := fakeProvider(t, `{"title": "T", "description": "D", "acceptanceCriteria": "A"}`, &gotModel)
			assistant := NewAssistant()

			if _, err := assistant.ImproveStory(context.Background(), testStory(), settingsFor(server), nil, nil, tt.selection); err != nil {
				t.Fatalf("ImproveStory() error = %v", err)
			}
			if gotModel != tt.wantModel {
				t.Errorf("model = %q, want %q", gotModel, tt.wantModel)
			}
		})
	}
}

func TestImproveStorySurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key"}}`)
	}))
	defer server.Close()

	assistant := NewAssistant()
	_, err := assistant.ImproveStory(context.Background(), testStory(), settingsFor(server), nil, nil, ports.RewriteSelection{})
	if err == nil {
		t.Fatal("expected error from 401 response")
	}

	var aerr *application.AssistantError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AssistantError, got %T", err)
	}
}

func TestGenerateClarifyingQuestions(t *testing.T) {
	reply := `{"questions": [{"id": "q1", "question": "What is in scope?", "type": "text"}]}`
	server := fakeProvider(t, reply, nil)
	assistant := NewAssistant()

	got, err := assistant.GenerateClarifyingQuestions(context.Background(), testStory(), settingsFor(server), nil, ports.QuestionsForImprove)
	if err != nil {
		t.Fatalf("GenerateClarifyingQuestions() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "What is in scope?" {
		t.Errorf("unexpected questions: %+v", got)
	}
}

func TestGenerateVersionChangeDescriptionBestEffort(t *testing.T) {
	oldV := domain.Version{Title: "Login"}
	newV := domain.Version{Title: "Login with MFA"}

	t.Run("returns summary on success", func(t *testing.T) {
		var gotModel string
		server := fakeProvider(t, `{"title": "Added MFA", "description": "The story now requires a second factor."}`, &gotModel)
		assistant := NewAssistant()

		got := assistant.GenerateVersionChangeDescription(context.Background(), oldV, newV, settingsFor(server))
		if got == nil || got.Title != "Added MFA" {
			t.Fatalf("unexpected summary: %+v", got)
		}
		if gotModel != "small-model" {
			t.Errorf("change summaries should use the small model, got %q", gotModel)
		}
	})

	t.Run("nil on missing key", func(t *testing.T) {
		assistant := NewAssistant()
		if got := assistant.GenerateVersionChangeDescription(context.Background(), oldV, newV, domain.Settings{}); got != nil {
			t.Errorf("expected nil summary, got %+v", got)
		}
	})

	t.Run("nil on garbage reply", func(t *testing.T) {
		server := fakeProvider(t, "no json here", nil)
		assistant := NewAssistant()
		if got := assistant.GenerateVersionChangeDescription(context.Background(), oldV, newV, settingsFor(server)); got != nil {
			t.Errorf("expected nil summary, got %+v", got)
		}
	})
}

func TestSplitStory(t *testing.T) {
	reply := `{"stories": [
		{"title": "Login form", "description": "d1", "acceptanceCriteria": "a1"},
		{"title": "Session handling", "description": "d2", "acceptanceCriteria": "a2"}
	]}`
	server := fakeProvider(t, reply, nil)
	assistant := NewAssistant()

	got, err := assistant.SplitStory(context.Background(), testStory(), settingsFor(server), nil, "", nil)
	if err != nil {
		t.Fatalf("SplitStory() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Login form" || got[1].Title != "Session handling" {
		t.Errorf("unexpected split result: %+v", got)
	}
}

func TestChatWithStoriesStreams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\": [{\"delta\": {\"content\": \"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\": [{\"delta\": {\"content\": \"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	assistant := NewAssistant()
	var chunks []string
	got, err := assistant.ChatWithStories(context.Background(),
		[]*domain.Story{testStory()},
		[]ports.ChatMessage{{Role: "user", Content: "Summarize"}},
		settingsFor(server), nil,
		func(chunk string) { chunks = append(chunks, chunk) })
	if err != nil {
		t.Fatalf("ChatWithStories() error = %v", err)
	}
	if got != "Hello" {
		t.Errorf("accumulated reply = %q, want %q", got, "Hello")
	}
	if len(chunks) != 2 || chunks[0] != "Hel" || chunks[1] != "lo" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}
