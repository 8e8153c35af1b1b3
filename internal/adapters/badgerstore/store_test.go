package badgerstore

import (
	"testing"

	"storyforge/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadBeforeFirstSaveReturnsNil(t *testing.T) {
	store := openTestStore(t)

	state, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state != nil {
		t.Errorf("expected nil state before first save, got %+v", state)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	state := domain.NewState()
	state.Projects["p1"] = &domain.Project{ID: "p1", Name: "P", RootFolderID: "f1"}
	state.Folders["f1"] = &domain.Folder{ID: "f1", Name: "P", ProjectID: "p1", Stories: []string{"s1"}}
	state.Stories["s1"] = &domain.Story{
		ID:       "s1",
		ParentID: "f1",
		Title:    "Login",
		Versions: map[string]domain.Version{
			"v1": {ID: "v1", Title: "Login", Author: domain.AuthorUser},
		},
		CurrentVersionID: "v1",
	}
	state.UnsavedStories["s1"] = true
	state.CurrentProjectID = "p1"

	if err := store.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("load returned nil after save")
	}
	if loaded.CurrentProjectID != "p1" {
		t.Errorf("currentProjectId = %q, want p1", loaded.CurrentProjectID)
	}
	story := loaded.Stories["s1"]
	if story == nil {
		t.Fatal("story lost in round trip")
	}
	if story.CurrentVersionID != "v1" || len(story.Versions) != 1 {
		t.Errorf("version tree lost: current=%q versions=%d", story.CurrentVersionID, len(story.Versions))
	}
	if !loaded.UnsavedStories["s1"] {
		t.Error("unsaved flag lost in round trip")
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	store := openTestStore(t)

	first := domain.NewState()
	first.CurrentProjectID = "old"
	if err := store.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := domain.NewState()
	second.CurrentProjectID = "new"
	if err := store.Save(second); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentProjectID != "new" {
		t.Errorf("currentProjectId = %q, want the latest snapshot", loaded.CurrentProjectID)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	if err := store.Save(domain.NewState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	state, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state != nil {
		t.Error("expected nil state after clear")
	}
}
