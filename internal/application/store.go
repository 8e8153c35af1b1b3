package application

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"storyforge/internal/domain"
	"storyforge/internal/ports"
)

// timeNow returns current time (allows for mock in tests)
var timeNow = time.Now

// Subscriber receives the next snapshot after every installed mutation.
type Subscriber func(*domain.State)

// Store owns the current state snapshot and every named mutation over it.
//
// Mutations follow one pattern: clone the current snapshot, apply the change
// to the clone, install the clone as the next snapshot, then persist and
// notify. A mutation that resolves no entities installs nothing, so malformed
// references are silently inert rather than errors — callers validate their
// input before calling, the store only guards its invariants.
type Store struct {
	mu        sync.Mutex
	state     *domain.State
	seq       uint64
	snapshots ports.SnapshotStore
	logger    *zap.Logger

	subMu   sync.Mutex
	nextSub int
	subs    map[int]Subscriber

	persistMu    sync.Mutex
	persistedSeq uint64 // guarded by persistMu
}

// NewStore creates a store over an initial snapshot. snapshots may be nil
// (no persistence, used by tests); logger may be nil.
func NewStore(initial *domain.State, snapshots ports.SnapshotStore, logger *zap.Logger) *Store {
	if initial == nil {
		initial = domain.NewState()
	}
	initial.Normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:     initial,
		snapshots: snapshots,
		logger:    logger,
		subs:      make(map[int]Subscriber),
	}
}

// State returns the current snapshot. Snapshots are treated as immutable
// once published; callers must not write through the returned pointer.
func (s *Store) State() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a subscriber and returns its cancel function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate runs fn against a clone of the current snapshot. If fn reports a
// change, the clone becomes the next snapshot, persistence is kicked off in
// the background, and subscribers are notified.
func (s *Store) mutate(fn func(next *domain.State) bool) {
	s.mu.Lock()
	next := s.state.Clone()
	if !fn(next) {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.seq++
	s.mu.Unlock()

	s.persist()
	s.notify(next)
}

func (s *Store) notify(snapshot *domain.State) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

// persist kicks off a background write. The writer re-reads the latest
// snapshot under the write lock rather than capturing the mutation's own,
// so out-of-order goroutine scheduling can never persist an older snapshot
// over a newer one; a writer whose work was already done by a later
// mutation skips the save. The in-memory state is authoritative for the
// session; persistence lags by at most one write.
func (s *Store) persist() {
	if s.snapshots == nil {
		return
	}
	go func() {
		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		s.mu.Lock()
		snapshot, seq := s.state, s.seq
		s.mu.Unlock()

		if seq == s.persistedSeq {
			return
		}
		if err := s.snapshots.Save(snapshot); err != nil {
			s.logger.Warn("snapshot save failed", zap.Error(err))
			return
		}
		s.persistedSeq = seq
	}()
}

// Flush writes the current snapshot synchronously. Short-lived processes
// call it before exit so the last mutation is not lost to the background
// writer.
func (s *Store) Flush() error {
	if s.snapshots == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	snapshot, seq := s.state, s.seq
	s.mu.Unlock()

	if seq == s.persistedSeq {
		return nil
	}
	if err := s.snapshots.Save(snapshot); err != nil {
		return err
	}
	s.persistedSeq = seq
	return nil
}

// --- projects ---

// AddProject creates a project together with its root folder and makes it
// current. A project is never observable without its root folder.
func (s *Store) AddProject(name, description string) string {
	projectID := domain.NewID()
	rootID := domain.NewID()
	s.mutate(func(next *domain.State) bool {
		next.Folders[rootID] = &domain.Folder{
			ID:        rootID,
			Name:      name,
			ProjectID: projectID,
		}
		next.Projects[projectID] = &domain.Project{
			ID:           projectID,
			Name:         name,
			Description:  description,
			CreatedAt:    timeNow(),
			RootFolderID: rootID,
		}
		next.CurrentProjectID = projectID
		return true
	})
	return projectID
}

// ProjectUpdate carries the patchable project fields; nil fields are left
// untouched.
type ProjectUpdate struct {
	Name         *string
	Description  *string
	Context      *string
	SystemPrompt *string
}

// UpdateProject patches a project's metadata and AI settings.
func (s *Store) UpdateProject(id string, update ProjectUpdate) {
	s.mutate(func(next *domain.State) bool {
		project, ok := next.Projects[id]
		if !ok {
			return false
		}
		if update.Name != nil {
			project.Name = *update.Name
		}
		if update.Description != nil {
			project.Description = *update.Description
		}
		if update.Context != nil {
			project.Context = *update.Context
		}
		if update.SystemPrompt != nil {
			project.SystemPrompt = *update.SystemPrompt
		}
		return true
	})
}

// DeleteProject removes the project record. Its folders and stories stay in
// the maps, orphaned but unreachable through any project; they remain
// exportable, which leaves room for a later recovery feature.
func (s *Store) DeleteProject(id string) {
	s.mutate(func(next *domain.State) bool {
		if _, ok := next.Projects[id]; !ok {
			return false
		}
		delete(next.Projects, id)
		if next.CurrentProjectID == id {
			next.CurrentProjectID = ""
			for _, pid := range next.SortProjects() {
				next.CurrentProjectID = pid
				break
			}
		}
		return true
	})
}

// SetCurrentProject switches the active project.
func (s *Store) SetCurrentProject(id string) {
	s.mutate(func(next *domain.State) bool {
		if _, ok := next.Projects[id]; !ok {
			return false
		}
		if next.CurrentProjectID == id {
			return false
		}
		next.CurrentProjectID = id
		return true
	})
}

// --- folders ---

// AddFolder creates a folder. If id is empty a fresh one is generated. When
// parentID resolves to an existing folder the new id is appended to its
// children; otherwise the folder exists unattached (the root folder case).
// ProjectID is recorded as given, without checking it resolves.
func (s *Store) AddFolder(id, parentID, name, projectID string) string {
	if id == "" {
		id = domain.NewID()
	}
	s.mutate(func(next *domain.State) bool {
		next.Folders[id] = &domain.Folder{
			ID:        id,
			ParentID:  parentID,
			Name:      name,
			ProjectID: projectID,
		}
		if parent, ok := next.Folders[parentID]; ok {
			parent.Children = append(parent.Children, id)
		}
		return true
	})
	return id
}

// RenameFolder sets a folder's name.
func (s *Store) RenameFolder(id, name string) {
	s.mutate(func(next *domain.State) bool {
		folder, ok := next.Folders[id]
		if !ok || folder.Name == name {
			return false
		}
		folder.Name = name
		return true
	})
}

// MoveFolder reparents a folder. Moves that would make a folder its own
// ancestor are rejected by leaving the state unchanged; the caller sees the
// same silence as any other unresolved reference.
func (s *Store) MoveFolder(folderID, newParentID string) {
	s.mutate(func(next *domain.State) bool {
		folder, ok := next.Folders[folderID]
		if !ok {
			return false
		}
		newParent, ok := next.Folders[newParentID]
		if !ok {
			return false
		}
		if next.IsAncestorFolder(folderID, newParentID) {
			return false
		}
		if oldParent, ok := next.Folders[folder.ParentID]; ok {
			oldParent.Children = domain.RemoveID(oldParent.Children, folderID)
		}
		newParent.Children = append(newParent.Children, folderID)
		folder.ParentID = newParentID
		return true
	})
}

// MoveStory reparents a story into another folder.
func (s *Store) MoveStory(storyID, newParentID string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[storyID]
		if !ok {
			return false
		}
		newParent, ok := next.Folders[newParentID]
		if !ok {
			return false
		}
		if oldParent, ok := next.Folders[story.ParentID]; ok {
			oldParent.Stories = domain.RemoveID(oldParent.Stories, storyID)
		}
		newParent.Stories = append(newParent.Stories, storyID)
		story.ParentID = newParentID
		return true
	})
}

// DeleteFolder soft-deletes a folder and every descendant folder and story.
// Nothing is removed from any children/stories array; visibility is
// controlled solely by the Deleted flag.
func (s *Store) DeleteFolder(folderID string) {
	s.mutate(func(next *domain.State) bool {
		folder, ok := next.Folders[folderID]
		if !ok {
			return false
		}
		folder.Deleted = true
		for _, fid := range next.DescendantFolders(folderID) {
			next.Folders[fid].Deleted = true
		}
		for _, sid := range next.SubtreeStories(folderID) {
			next.Stories[sid].Deleted = true
		}
		return true
	})
}

// RestoreFolder clears the Deleted flag on a folder, on its deleted
// ancestors (so it becomes reachable again) and on its entire subtree.
func (s *Store) RestoreFolder(folderID string) {
	s.mutate(func(next *domain.State) bool {
		folder, ok := next.Folders[folderID]
		if !ok {
			return false
		}
		folder.Deleted = false
		for _, fid := range next.AncestorFolders(folderID) {
			next.Folders[fid].Deleted = false
		}
		for _, fid := range next.DescendantFolders(folderID) {
			next.Folders[fid].Deleted = false
		}
		for _, sid := range next.SubtreeStories(folderID) {
			next.Stories[sid].Deleted = false
		}
		return true
	})
}

// --- stories ---

// AddStory creates a story in a folder with a single root version authored
// by the user. Returns the new story id, or "" when the folder is unknown.
func (s *Store) AddStory(folderID, title, description, acceptanceCriteria string) string {
	storyID := domain.NewID()
	versionID := domain.NewID()
	created := ""
	s.mutate(func(next *domain.State) bool {
		folder, ok := next.Folders[folderID]
		if !ok {
			return false
		}
		now := timeNow()
		next.Stories[storyID] = &domain.Story{
			ID:                 storyID,
			ParentID:           folderID,
			Title:              title,
			Description:        description,
			AcceptanceCriteria: acceptanceCriteria,
			CreatedAt:          now,
			Versions: map[string]domain.Version{
				versionID: {
					ID:                 versionID,
					Timestamp:          now,
					Title:              title,
					Description:        description,
					AcceptanceCriteria: acceptanceCriteria,
					Author:             domain.AuthorUser,
				},
			},
			CurrentVersionID: versionID,
		}
		folder.Stories = append(folder.Stories, storyID)
		created = storyID
		return true
	})
	return created
}

// SaveStory is the central write path. Identical content is an idempotent
// save: the unsaved flag and draft are cleared but no version is created.
// Otherwise a new version is appended whose parent is the prior current
// version, the current pointer advances, and the story's denormalized fields
// are synced. Returns the new version id, or "" on a no-op or unknown story.
func (s *Store) SaveStory(id string, content domain.StoryContent, author domain.Author) string {
	if author == "" {
		author = domain.AuthorUser
	}
	newVersionID := ""
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}

		// Stories that predate the version system get a root version
		// synthesized from their current fields on first save. The
		// migration must commit even when the save itself is a no-op.
		migrated := false
		if story.CurrentVersionID == "" && len(story.Versions) == 0 {
			migrated = true
			rootID := domain.NewID()
			story.Versions = map[string]domain.Version{
				rootID: {
					ID:                 rootID,
					Timestamp:          story.CreatedAt,
					Title:              story.Title,
					Description:        story.Description,
					AcceptanceCriteria: story.AcceptanceCriteria,
					Author:             domain.AuthorUser,
				},
			}
			story.CurrentVersionID = rootID
		}

		if current, ok := story.Versions[story.CurrentVersionID]; ok && content.Equal(current.Content()) {
			changed := migrated || next.UnsavedStories[id] || next.Drafts[id] != nil
			delete(next.UnsavedStories, id)
			delete(next.Drafts, id)
			return changed
		}

		versionID := domain.NewID()
		story.Versions[versionID] = domain.Version{
			ID:                 versionID,
			ParentID:           story.CurrentVersionID,
			Timestamp:          timeNow(),
			Title:              content.Title,
			Description:        content.Description,
			AcceptanceCriteria: content.AcceptanceCriteria,
			Author:             author,
		}
		story.CurrentVersionID = versionID
		story.Title = content.Title
		story.Description = content.Description
		story.AcceptanceCriteria = content.AcceptanceCriteria
		delete(next.UnsavedStories, id)
		delete(next.Drafts, id)
		newVersionID = versionID
		return true
	})
	return newVersionID
}

// RestoreVersion rewinds the current pointer to an existing version and
// copies its content onto the story's live fields. No version is created.
func (s *Store) RestoreVersion(storyID, versionID string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[storyID]
		if !ok {
			return false
		}
		version, ok := story.Versions[versionID]
		if !ok {
			return false
		}
		story.CurrentVersionID = versionID
		story.Title = version.Title
		story.Description = version.Description
		story.AcceptanceCriteria = version.AcceptanceCriteria
		delete(next.UnsavedStories, storyID)
		delete(next.Drafts, storyID)
		return true
	})
}

// UpdateVersion patches a version's change metadata. Content fields are
// immutable; this exists so an AI-generated change summary can be backfilled
// after the save it describes has completed.
func (s *Store) UpdateVersion(storyID, versionID, changeTitle, changeDescription string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[storyID]
		if !ok {
			return false
		}
		version, ok := story.Versions[versionID]
		if !ok {
			return false
		}
		version.ChangeTitle = changeTitle
		version.ChangeDescription = changeDescription
		story.Versions[versionID] = version
		return true
	})
}

// DeleteStory soft-deletes a story and discards its draft.
func (s *Store) DeleteStory(id string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}
		story.Deleted = true
		delete(next.Drafts, id)
		return true
	})
}

// RestoreStory clears the Deleted flag on a story and on every deleted
// ancestor folder, so the restored story is reachable again.
func (s *Store) RestoreStory(id string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}
		story.Deleted = false
		if parent, ok := next.Folders[story.ParentID]; ok {
			parent.Deleted = false
			for _, fid := range next.AncestorFolders(story.ParentID) {
				next.Folders[fid].Deleted = false
			}
		}
		return true
	})
}

// PermanentlyDeleteStory removes the story entity outright and scrubs its id
// from the parent folder. Irreversible.
func (s *Store) PermanentlyDeleteStory(id string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}
		if parent, ok := next.Folders[story.ParentID]; ok {
			parent.Stories = domain.RemoveID(parent.Stories, id)
		}
		delete(next.Stories, id)
		delete(next.Drafts, id)
		delete(next.UnsavedStories, id)
		return true
	})
}

// DuplicateStory creates a new story next to the original with the same
// content, a " (duplicate)" title suffix and a fresh single-version tree.
// Version history is not copied. Returns the new story id, or "".
func (s *Store) DuplicateStory(id string) string {
	newID := domain.NewID()
	versionID := domain.NewID()
	created := ""
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}
		now := timeNow()
		title := story.Title + " (duplicate)"
		next.Stories[newID] = &domain.Story{
			ID:                 newID,
			ParentID:           story.ParentID,
			Title:              title,
			Description:        story.Description,
			AcceptanceCriteria: story.AcceptanceCriteria,
			CreatedAt:          now,
			Versions: map[string]domain.Version{
				versionID: {
					ID:                 versionID,
					Timestamp:          now,
					Title:              title,
					Description:        story.Description,
					AcceptanceCriteria: story.AcceptanceCriteria,
					Author:             domain.AuthorUser,
				},
			},
			CurrentVersionID: versionID,
		}
		if parent, ok := next.Folders[story.ParentID]; ok {
			parent.Stories = append(parent.Stories, newID)
		}
		created = newID
		return true
	})
	return created
}

// ToggleStoryDone flips a story's done marker.
func (s *Store) ToggleStoryDone(id string) {
	s.mutate(func(next *domain.State) bool {
		story, ok := next.Stories[id]
		if !ok {
			return false
		}
		story.Done = !story.Done
		return true
	})
}

// --- edit state ---

// SetStoryUnsaved maintains the derived unsaved-flag map. Setting a flag to
// its current value installs nothing, so redundant propagation is avoided.
func (s *Store) SetStoryUnsaved(id string, unsaved bool) {
	s.mutate(func(next *domain.State) bool {
		if _, ok := next.Stories[id]; !ok {
			return false
		}
		if next.UnsavedStories[id] == unsaved {
			return false
		}
		if unsaved {
			next.UnsavedStories[id] = true
		} else {
			delete(next.UnsavedStories, id)
		}
		return true
	})
}

// SetDraft records in-flight edits for a story against a base version.
func (s *Store) SetDraft(storyID string, content domain.StoryContent, baseVersionID string) {
	s.mutate(func(next *domain.State) bool {
		if _, ok := next.Stories[storyID]; !ok {
			return false
		}
		next.Drafts[storyID] = &domain.Draft{
			Content:       content,
			Timestamp:     timeNow(),
			BaseVersionID: baseVersionID,
		}
		return true
	})
}

// ClearDraft discards a story's draft.
func (s *Store) ClearDraft(storyID string) {
	s.mutate(func(next *domain.State) bool {
		if _, ok := next.Drafts[storyID]; !ok {
			return false
		}
		delete(next.Drafts, storyID)
		return true
	})
}

// --- settings ---

// UpdateSettings replaces the user configuration.
func (s *Store) UpdateSettings(settings domain.Settings) {
	s.mutate(func(next *domain.State) bool {
		next.Settings = settings
		return true
	})
}

// --- export / import ---

// ExportData is the envelope written by Export and read by Import.
type ExportData struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Version    string        `json:"version"`
	State      *domain.State `json:"state"`
}

const exportFormatVersion = "1.0"

// ExportJSON serializes the full state, including orphaned and soft-deleted
// entities, into a portable envelope.
func (s *Store) ExportJSON() ([]byte, error) {
	export := ExportData{
		ExportedAt: timeNow(),
		Version:    exportFormatVersion,
		State:      s.State(),
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// ImportJSON replaces the entire state with a previously exported envelope.
func (s *Store) ImportJSON(data []byte) error {
	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}
	if export.State == nil {
		return fmt.Errorf("export contains no state")
	}
	export.State.Normalize()
	s.mutate(func(next *domain.State) bool {
		*next = *export.State.Clone()
		return true
	})
	return nil
}
