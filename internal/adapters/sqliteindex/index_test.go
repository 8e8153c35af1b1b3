package sqliteindex

import (
	"testing"

	"storyforge/internal/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex()
	if err := idx.Open(t.TempDir()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexedState() *domain.State {
	state := domain.NewState()
	state.Folders["root"] = &domain.Folder{ID: "root", Name: "Backlog", ProjectID: "p1"}
	state.Stories["s1"] = &domain.Story{
		ID:                 "s1",
		ParentID:           "root",
		Title:              "Login page",
		Description:        "As a user I want to authenticate",
		AcceptanceCriteria: "Session cookie is set",
	}
	state.Stories["s2"] = &domain.Story{
		ID:       "s2",
		ParentID: "root",
		Title:    "Deleted login audit",
		Deleted:  true,
	}
	state.Stories["s3"] = &domain.Story{
		ID:       "s3",
		ParentID: "root",
		Title:    "Checkout",
	}
	return state
}

func TestSearchMatchesAllContentFields(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Sync(indexedState()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "title", query: "login page", want: "s1"},
		{name: "description", query: "AUTHENTICATE", want: "s1"},
		{name: "acceptance criteria", query: "session cookie", want: "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := idx.Search(tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(hits) != 1 || hits[0].StoryID != tt.want {
				t.Errorf("Search(%q) = %+v, want single hit %s", tt.query, hits, tt.want)
			}
			if hits[0].ProjectID != "p1" {
				t.Errorf("hit should resolve the owning project, got %q", hits[0].ProjectID)
			}
			if hits[0].MatchedText == "" {
				t.Error("hit should carry a matched excerpt")
			}
		})
	}
}

func TestSearchExcludesDeletedStories(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Sync(indexedState()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	hits, err := idx.Search("audit")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("deleted stories should not match, got %+v", hits)
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Sync(indexedState()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	hits, err := idx.Search("   ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("blank query should match nothing, got %+v", hits)
	}
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	idx := openTestIndex(t)

	state := domain.NewState()
	state.Folders["root"] = &domain.Folder{ID: "root", ProjectID: "p1"}
	state.Stories["s1"] = &domain.Story{ID: "s1", ParentID: "root", Title: "Discount of 100%"}
	state.Stories["s2"] = &domain.Story{ID: "s2", ParentID: "root", Title: "Plain story"}
	if err := idx.Sync(state); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	hits, err := idx.Search("100%")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].StoryID != "s1" {
		t.Errorf("literal %% should only match s1, got %+v", hits)
	}
}

func TestSyncReplacesPriorRows(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Sync(indexedState()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	replacement := domain.NewState()
	replacement.Folders["root"] = &domain.Folder{ID: "root", ProjectID: "p2"}
	replacement.Stories["s9"] = &domain.Story{ID: "s9", ParentID: "root", Title: "Fresh story"}
	if err := idx.Sync(replacement); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if hits, _ := idx.Search("login"); len(hits) != 0 {
		t.Errorf("stale rows should be gone, got %+v", hits)
	}
	hits, err := idx.Search("fresh")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].StoryID != "s9" {
		t.Errorf("expected the replacement story, got %+v", hits)
	}
}
