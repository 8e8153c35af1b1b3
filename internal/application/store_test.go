package application

import (
	"slices"
	"sync"
	"testing"
	"time"

	"storyforge/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(domain.NewState(), nil, nil)
}

// fixture builds a store with one project and one story and returns
// (store, projectID, rootFolderID, storyID).
func fixture(t *testing.T) (*Store, string, string, string) {
	t.Helper()
	s := newTestStore(t)
	projectID := s.AddProject("P", "test project")
	rootID := s.State().Projects[projectID].RootFolderID
	storyID := s.AddStory(rootID, "Login", "desc", "AC")
	if storyID == "" {
		t.Fatal("AddStory returned empty id")
	}
	return s, projectID, rootID, storyID
}

func TestAddProjectCreatesRootFolder(t *testing.T) {
	s := newTestStore(t)
	projectID := s.AddProject("P", "d")

	state := s.State()
	project, ok := state.Projects[projectID]
	if !ok {
		t.Fatal("project not created")
	}
	root, ok := state.Folders[project.RootFolderID]
	if !ok {
		t.Fatal("root folder missing: a project must never be observable without it")
	}
	if root.ProjectID != projectID {
		t.Errorf("root folder project = %q, want %q", root.ProjectID, projectID)
	}
	if state.CurrentProjectID != projectID {
		t.Errorf("current project = %q, want %q", state.CurrentProjectID, projectID)
	}
}

func TestAddStoryCreatesInitialVersion(t *testing.T) {
	s, _, rootID, storyID := fixture(t)

	story := s.State().Stories[storyID]
	if story == nil {
		t.Fatal("story not created")
	}
	if len(story.Versions) != 1 {
		t.Fatalf("versions = %d, want 1", len(story.Versions))
	}
	version, ok := story.Versions[story.CurrentVersionID]
	if !ok {
		t.Fatal("currentVersionId does not resolve")
	}
	if version.Author != domain.AuthorUser {
		t.Errorf("author = %q, want %q", version.Author, domain.AuthorUser)
	}
	if version.ParentID != "" {
		t.Errorf("root version parent = %q, want empty", version.ParentID)
	}
	if !slices.Contains(s.State().Folders[rootID].Stories, storyID) {
		t.Error("story not attached to folder")
	}
}

func TestSaveStoryAppendsVersion(t *testing.T) {
	s, _, _, storyID := fixture(t)
	priorCurrent := s.State().Stories[storyID].CurrentVersionID

	content := domain.StoryContent{Title: "Login v2", Description: "desc2", AcceptanceCriteria: "AC2"}
	versionID := s.SaveStory(storyID, content, domain.AuthorUser)
	if versionID == "" {
		t.Fatal("SaveStory returned no version id for changed content")
	}

	story := s.State().Stories[storyID]
	if len(story.Versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(story.Versions))
	}
	version := story.Versions[versionID]
	if version.ParentID != priorCurrent {
		t.Errorf("new version parent = %q, want prior current %q", version.ParentID, priorCurrent)
	}
	if story.CurrentVersionID != versionID {
		t.Errorf("current = %q, want %q", story.CurrentVersionID, versionID)
	}
	if !story.Content().Equal(content) {
		t.Errorf("denormalized fields %+v not synced to %+v", story.Content(), content)
	}
}

func TestSaveStoryIdempotent(t *testing.T) {
	s, _, _, storyID := fixture(t)

	content := domain.StoryContent{Title: "Login v2", Description: "desc2", AcceptanceCriteria: "AC2"}
	first := s.SaveStory(storyID, content, domain.AuthorUser)
	if first == "" {
		t.Fatal("first save should create a version")
	}

	s.SetStoryUnsaved(storyID, true)
	s.SetDraft(storyID, content, first)

	second := s.SaveStory(storyID, content, domain.AuthorUser)
	if second != "" {
		t.Errorf("second save with identical content returned %q, want empty", second)
	}

	state := s.State()
	if len(state.Stories[storyID].Versions) != 2 {
		t.Errorf("versions = %d, want 2 (no-op save must not create a version)", len(state.Stories[storyID].Versions))
	}
	if state.UnsavedStories[storyID] {
		t.Error("no-op save must clear the unsaved flag")
	}
	if state.Drafts[storyID] != nil {
		t.Error("no-op save must clear the draft")
	}
}

func TestSaveStoryMigratesLegacyStory(t *testing.T) {
	s, _, _, storyID := fixture(t)

	// Rebuild the story as it would look before the version system existed.
	legacy := s.State().Clone()
	story := legacy.Stories[storyID]
	story.Versions = nil
	story.CurrentVersionID = ""
	s = NewStore(legacy, nil, nil)

	versionID := s.SaveStory(storyID, domain.StoryContent{Title: "New", Description: "n", AcceptanceCriteria: "a"}, domain.AuthorUser)
	if versionID == "" {
		t.Fatal("save on legacy story returned no version id")
	}

	saved := s.State().Stories[storyID]
	if len(saved.Versions) != 2 {
		t.Fatalf("versions = %d, want 2 (synthesized root + new version)", len(saved.Versions))
	}
	newVersion := saved.Versions[versionID]
	root, ok := saved.Versions[newVersion.ParentID]
	if !ok {
		t.Fatal("new version's parent (synthesized root) missing")
	}
	if root.Title != "Login" {
		t.Errorf("synthesized root title = %q, want the pre-migration content %q", root.Title, "Login")
	}
	if !root.Timestamp.Equal(saved.CreatedAt) {
		t.Error("synthesized root must be stamped with the story's createdAt")
	}
}

func TestRestoreVersionRewindsWithoutBranching(t *testing.T) {
	s, _, _, storyID := fixture(t)
	original := s.State().Stories[storyID].CurrentVersionID
	s.SaveStory(storyID, domain.StoryContent{Title: "v2", Description: "d2", AcceptanceCriteria: "a2"}, domain.AuthorUser)
	countBefore := len(s.State().Stories[storyID].Versions)

	s.RestoreVersion(storyID, original)

	story := s.State().Stories[storyID]
	if story.CurrentVersionID != original {
		t.Errorf("current = %q, want %q", story.CurrentVersionID, original)
	}
	if len(story.Versions) != countBefore {
		t.Errorf("versions = %d, want %d (restore must not add a node)", len(story.Versions), countBefore)
	}
	if story.Title != "Login" {
		t.Errorf("title = %q, want restored content %q", story.Title, "Login")
	}
}

func TestUpdateVersionPatchesChangeMetadataOnly(t *testing.T) {
	s, _, _, storyID := fixture(t)
	versionID := s.SaveStory(storyID, domain.StoryContent{Title: "v2", Description: "d", AcceptanceCriteria: "a"}, domain.AuthorAI)

	s.UpdateVersion(storyID, versionID, "Tightened title", "Rewrote the title for clarity")

	version := s.State().Stories[storyID].Versions[versionID]
	if version.ChangeTitle != "Tightened title" {
		t.Errorf("changeTitle = %q", version.ChangeTitle)
	}
	if version.Title != "v2" {
		t.Errorf("content title mutated to %q; versions are immutable apart from change metadata", version.Title)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	s, projectID, rootID, _ := fixture(t)
	a := s.AddFolder("", rootID, "A", projectID)
	b := s.AddFolder("", a, "B", projectID)
	sibling := s.AddFolder("", rootID, "Sibling", projectID)
	inA := s.AddStory(a, "in A", "", "")
	inB := s.AddStory(b, "in B", "", "")
	inSibling := s.AddStory(sibling, "in sibling", "", "")

	s.DeleteFolder(a)

	state := s.State()
	for _, id := range []string{a, b} {
		if !state.Folders[id].Deleted {
			t.Errorf("folder %q not deleted", state.Folders[id].Name)
		}
	}
	for _, id := range []string{inA, inB} {
		if !state.Stories[id].Deleted {
			t.Errorf("story %q not deleted", state.Stories[id].Title)
		}
	}
	if state.Folders[sibling].Deleted || state.Stories[inSibling].Deleted {
		t.Error("delete leaked outside the subtree")
	}
	// Soft delete leaves container arrays untouched.
	if !slices.Contains(state.Folders[rootID].Children, a) {
		t.Error("soft-deleted folder removed from parent children")
	}
}

func TestMoveFolderRejectsCycles(t *testing.T) {
	s, projectID, rootID, _ := fixture(t)
	a := s.AddFolder("", rootID, "A", projectID)
	b := s.AddFolder("", a, "B", projectID)

	tests := []struct {
		name   string
		src    string
		dst    string
	}{
		{"into own child", a, b},
		{"into itself", a, a},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.State()
			s.MoveFolder(tt.src, tt.dst)
			after := s.State()
			if after != before {
				t.Error("cycle-creating move must leave the snapshot unchanged")
			}
			if after.Folders[a].ParentID != rootID {
				t.Errorf("folder A parent = %q, want %q", after.Folders[a].ParentID, rootID)
			}
		})
	}
}

func TestMoveFolderReparents(t *testing.T) {
	s, projectID, rootID, _ := fixture(t)
	a := s.AddFolder("", rootID, "A", projectID)
	b := s.AddFolder("", rootID, "B", projectID)

	s.MoveFolder(b, a)

	state := s.State()
	if state.Folders[b].ParentID != a {
		t.Errorf("parent = %q, want %q", state.Folders[b].ParentID, a)
	}
	if slices.Contains(state.Folders[rootID].Children, b) {
		t.Error("folder still listed under old parent")
	}
	if !slices.Contains(state.Folders[a].Children, b) {
		t.Error("folder missing from new parent")
	}
}

func TestMoveStory(t *testing.T) {
	s, projectID, rootID, storyID := fixture(t)
	dest := s.AddFolder("", rootID, "Dest", projectID)

	s.MoveStory(storyID, dest)

	state := s.State()
	if state.Stories[storyID].ParentID != dest {
		t.Errorf("story parent = %q, want %q", state.Stories[storyID].ParentID, dest)
	}
	if slices.Contains(state.Folders[rootID].Stories, storyID) {
		t.Error("story still listed under old folder")
	}
	if !slices.Contains(state.Folders[dest].Stories, storyID) {
		t.Error("story missing from new folder")
	}
}

func TestRestoreStoryResurrectsAncestorFolders(t *testing.T) {
	s, projectID, rootID, _ := fixture(t)
	a := s.AddFolder("", rootID, "A", projectID)
	b := s.AddFolder("", a, "B", projectID)
	storyID := s.AddStory(b, "Buried", "", "")

	s.DeleteFolder(a)
	s.RestoreStory(storyID)

	state := s.State()
	if state.Stories[storyID].Deleted {
		t.Error("story still deleted")
	}
	for _, id := range []string{a, b} {
		if state.Folders[id].Deleted {
			t.Errorf("ancestor folder %q still deleted; restored story would be unreachable", state.Folders[id].Name)
		}
	}
}

func TestPermanentlyDeleteStory(t *testing.T) {
	s, _, rootID, storyID := fixture(t)
	s.SetDraft(storyID, domain.StoryContent{Title: "edit"}, "")
	s.SetStoryUnsaved(storyID, true)

	s.PermanentlyDeleteStory(storyID)

	state := s.State()
	if _, ok := state.Stories[storyID]; ok {
		t.Error("story record still present")
	}
	if slices.Contains(state.Folders[rootID].Stories, storyID) {
		t.Error("story id not scrubbed from parent folder")
	}
	if state.Drafts[storyID] != nil || state.UnsavedStories[storyID] {
		t.Error("edit state not scrubbed")
	}
}

func TestDuplicateStory(t *testing.T) {
	s, _, rootID, storyID := fixture(t)
	s.SaveStory(storyID, domain.StoryContent{Title: "Login", Description: "d2", AcceptanceCriteria: "a2"}, domain.AuthorUser)

	dupID := s.DuplicateStory(storyID)
	if dupID == "" {
		t.Fatal("DuplicateStory returned empty id")
	}

	state := s.State()
	dup := state.Stories[dupID]
	if dup.Title != "Login (duplicate)" {
		t.Errorf("title = %q, want %q", dup.Title, "Login (duplicate)")
	}
	if dup.ParentID != rootID {
		t.Errorf("parent = %q, want same folder %q", dup.ParentID, rootID)
	}
	if len(dup.Versions) != 1 {
		t.Errorf("versions = %d, want 1 (history is not copied)", len(dup.Versions))
	}
}

func TestSetStoryUnsavedSkipsRedundantUpdates(t *testing.T) {
	s, _, _, storyID := fixture(t)

	notifications := 0
	unsubscribe := s.Subscribe(func(*domain.State) { notifications++ })
	defer unsubscribe()

	s.SetStoryUnsaved(storyID, true)
	s.SetStoryUnsaved(storyID, true)
	s.SetStoryUnsaved(storyID, false)
	s.SetStoryUnsaved(storyID, false)

	if notifications != 2 {
		t.Errorf("notifications = %d, want 2 (redundant flag writes must not propagate)", notifications)
	}
	if s.State().UnsavedStories[storyID] {
		t.Error("flag should be cleared")
	}
}

func TestMutatorsIgnoreUnknownIDs(t *testing.T) {
	s, _, _, _ := fixture(t)
	before := s.State()

	s.MoveStory("nope", "nowhere")
	s.MoveFolder("nope", "nowhere")
	s.DeleteFolder("nope")
	s.DeleteStory("nope")
	s.RestoreStory("nope")
	s.PermanentlyDeleteStory("nope")
	s.RestoreVersion("nope", "v")
	s.UpdateVersion("nope", "v", "", "")
	s.SetCurrentProject("nope")
	s.DeleteProject("nope")
	if s.SaveStory("nope", domain.StoryContent{Title: "x"}, domain.AuthorUser) != "" {
		t.Error("SaveStory on unknown story should return empty id")
	}
	if s.DuplicateStory("nope") != "" {
		t.Error("DuplicateStory on unknown story should return empty id")
	}

	if s.State() != before {
		t.Error("mutators with unresolved ids must leave the snapshot unchanged")
	}
}

func TestAddFolderWithUnknownParentIsUnattached(t *testing.T) {
	s, projectID, _, _ := fixture(t)

	id := s.AddFolder("", "missing-parent", "Loose", projectID)

	folder := s.State().Folders[id]
	if folder == nil {
		t.Fatal("folder not created")
	}
	if folder.ParentID != "missing-parent" {
		t.Errorf("parent id = %q, want recorded as given", folder.ParentID)
	}
}

func TestDeleteProjectLeavesOrphans(t *testing.T) {
	s, projectID, rootID, storyID := fixture(t)

	s.DeleteProject(projectID)

	state := s.State()
	if _, ok := state.Projects[projectID]; ok {
		t.Error("project record still present")
	}
	if _, ok := state.Folders[rootID]; !ok {
		t.Error("folders should remain as orphans after project deletion")
	}
	if _, ok := state.Stories[storyID]; !ok {
		t.Error("stories should remain as orphans after project deletion")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, projectID, _, storyID := fixture(t)
	s.SaveStory(storyID, domain.StoryContent{Title: "v2", Description: "d", AcceptanceCriteria: "a"}, domain.AuthorAI)

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	restored := newTestStore(t)
	if err := restored.ImportJSON(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	state := restored.State()
	if _, ok := state.Projects[projectID]; !ok {
		t.Error("project lost in round trip")
	}
	story := state.Stories[storyID]
	if story == nil {
		t.Fatal("story lost in round trip")
	}
	if len(story.Versions) != 2 {
		t.Errorf("versions = %d, want 2", len(story.Versions))
	}
	if story.Title != "v2" {
		t.Errorf("title = %q, want %q", story.Title, "v2")
	}
}

func TestImportJSONRejectsGarbage(t *testing.T) {
	s := newTestStore(t)
	if err := s.ImportJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed input")
	}
	if err := s.ImportJSON([]byte(`{"version":"1.0"}`)); err == nil {
		t.Error("expected error for envelope without state")
	}
}

// recordingSnapshotStore captures every Save for inspection.
type recordingSnapshotStore struct {
	mu    sync.Mutex
	saves []*domain.State
}

func (r *recordingSnapshotStore) Load() (*domain.State, error) { return nil, nil }

func (r *recordingSnapshotStore) Save(state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, state)
	return nil
}

func (r *recordingSnapshotStore) Clear() error { return nil }
func (r *recordingSnapshotStore) Close() error { return nil }

func (r *recordingSnapshotStore) lastSave() *domain.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func TestPersistWritesLatestSnapshot(t *testing.T) {
	rec := &recordingSnapshotStore{}
	s := NewStore(domain.NewState(), rec, nil)

	projectID := s.AddProject("first", "d")
	renamed := "second"
	s.UpdateProject(projectID, ProjectUpdate{Name: &renamed})

	// Flush serializes with the background writers; once it returns, the
	// persisted snapshot must reflect the rename no matter how the
	// goroutines were scheduled.
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	last := rec.lastSave()
	if last == nil {
		t.Fatal("nothing persisted")
	}
	if got := last.Projects[projectID].Name; got != "second" {
		t.Fatalf("persisted project name = %q, want %q", got, "second")
	}

	// Writers still in flight re-read the current state, so a stale
	// snapshot can never land after a newer one.
	time.Sleep(20 * time.Millisecond)
	if got := rec.lastSave().Projects[projectID].Name; got != "second" {
		t.Errorf("late writer persisted stale name %q", got)
	}
}

func TestSaveStoryMigrationSurvivesIdenticalSave(t *testing.T) {
	s, _, _, storyID := fixture(t)

	legacy := s.State().Clone()
	story := legacy.Stories[storyID]
	story.Versions = nil
	story.CurrentVersionID = ""
	s = NewStore(legacy, nil, nil)

	// Saving content identical to the story's live fields appends no
	// version, but the synthesized root must still be committed.
	content := domain.StoryContent{Title: "Login", Description: "desc", AcceptanceCriteria: "AC"}
	if versionID := s.SaveStory(storyID, content, domain.AuthorUser); versionID != "" {
		t.Fatalf("identical save returned version %q, want empty", versionID)
	}

	saved := s.State().Stories[storyID]
	if saved.CurrentVersionID == "" {
		t.Fatal("migration lost: currentVersionId still empty after save")
	}
	root, ok := saved.Versions[saved.CurrentVersionID]
	if !ok {
		t.Fatal("migration lost: synthesized root version missing")
	}
	if root.Title != "Login" {
		t.Errorf("root title = %q, want %q", root.Title, "Login")
	}
	if len(saved.Versions) != 1 {
		t.Errorf("versions = %d, want 1 (no new version on identical save)", len(saved.Versions))
	}
}

func TestSaveStoryStampsVersionWithClock(t *testing.T) {
	fixed := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = orig }()

	s, _, _, storyID := fixture(t)
	versionID := s.SaveStory(storyID, domain.StoryContent{Title: "v2", Description: "d", AcceptanceCriteria: "a"}, domain.AuthorUser)
	if versionID == "" {
		t.Fatal("save returned no version id")
	}
	if got := s.State().Stories[storyID].Versions[versionID].Timestamp; !got.Equal(fixed) {
		t.Errorf("version timestamp = %v, want %v", got, fixed)
	}
}
