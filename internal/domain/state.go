package domain

import (
	"slices"

	"github.com/google/uuid"
)

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// State is the normalized application state: flat maps keyed by id, with
// parent/child links as id references. Consumers treat dangling ids as
// invisible rather than as corruption.
type State struct {
	Projects         map[string]*Project `json:"projects"`
	Folders          map[string]*Folder  `json:"folders"`
	Stories          map[string]*Story   `json:"stories"`
	Drafts           map[string]*Draft   `json:"drafts"`
	UnsavedStories   map[string]bool     `json:"unsavedStories"`
	Settings         Settings            `json:"settings"`
	CurrentProjectID string              `json:"currentProjectId,omitempty"`
}

// NewState returns an empty state with all maps allocated.
func NewState() *State {
	return &State{
		Projects:       make(map[string]*Project),
		Folders:        make(map[string]*Folder),
		Stories:        make(map[string]*Story),
		Drafts:         make(map[string]*Draft),
		UnsavedStories: make(map[string]bool),
	}
}

// Normalize allocates any maps left nil by deserialization.
func (s *State) Normalize() {
	if s.Projects == nil {
		s.Projects = make(map[string]*Project)
	}
	if s.Folders == nil {
		s.Folders = make(map[string]*Folder)
	}
	if s.Stories == nil {
		s.Stories = make(map[string]*Story)
	}
	if s.Drafts == nil {
		s.Drafts = make(map[string]*Draft)
	}
	if s.UnsavedStories == nil {
		s.UnsavedStories = make(map[string]bool)
	}
}

// Clone returns a deep copy of the state. Mutations operate on a clone and
// install it as the next snapshot, so published snapshots are never written to.
func (s *State) Clone() *State {
	next := &State{
		Projects:         make(map[string]*Project, len(s.Projects)),
		Folders:          make(map[string]*Folder, len(s.Folders)),
		Stories:          make(map[string]*Story, len(s.Stories)),
		Drafts:           make(map[string]*Draft, len(s.Drafts)),
		UnsavedStories:   make(map[string]bool, len(s.UnsavedStories)),
		Settings:         s.Settings.clone(),
		CurrentProjectID: s.CurrentProjectID,
	}
	for id, p := range s.Projects {
		cp := *p
		next.Projects[id] = &cp
	}
	for id, f := range s.Folders {
		cf := *f
		cf.Children = slices.Clone(f.Children)
		cf.Stories = slices.Clone(f.Stories)
		next.Folders[id] = &cf
	}
	for id, st := range s.Stories {
		cs := *st
		cs.Versions = make(map[string]Version, len(st.Versions))
		for vid, v := range st.Versions {
			cs.Versions[vid] = v
		}
		next.Stories[id] = &cs
	}
	for id, d := range s.Drafts {
		cd := *d
		next.Drafts[id] = &cd
	}
	for id, unsaved := range s.UnsavedStories {
		next.UnsavedStories[id] = unsaved
	}
	return next
}

func (s Settings) clone() Settings {
	out := Settings{Provider: s.Provider}
	if s.Providers != nil {
		out.Providers = make(map[string]ProviderConfig, len(s.Providers))
		for name, cfg := range s.Providers {
			out.Providers[name] = cfg
		}
	}
	return out
}

// DescendantFolders returns the ids of every folder transitively contained in
// the folder, not including the folder itself. Dangling child ids are skipped.
func (s *State) DescendantFolders(folderID string) []string {
	var out []string
	folder, ok := s.Folders[folderID]
	if !ok {
		return out
	}
	for _, childID := range folder.Children {
		if _, ok := s.Folders[childID]; !ok {
			continue
		}
		out = append(out, childID)
		out = append(out, s.DescendantFolders(childID)...)
	}
	return out
}

// SubtreeStories returns the ids of every story held by the folder or any of
// its descendant folders.
func (s *State) SubtreeStories(folderID string) []string {
	var out []string
	folderIDs := append([]string{folderID}, s.DescendantFolders(folderID)...)
	for _, fid := range folderIDs {
		folder, ok := s.Folders[fid]
		if !ok {
			continue
		}
		for _, storyID := range folder.Stories {
			if _, ok := s.Stories[storyID]; ok {
				out = append(out, storyID)
			}
		}
	}
	return out
}

// AncestorFolders returns the chain of folder ids from the folder's parent up
// to the root. The walk stops at the first unresolvable parent.
func (s *State) AncestorFolders(folderID string) []string {
	var out []string
	folder, ok := s.Folders[folderID]
	if !ok {
		return out
	}
	seen := map[string]bool{folderID: true}
	parentID := folder.ParentID
	for parentID != "" && !seen[parentID] {
		parent, ok := s.Folders[parentID]
		if !ok {
			break
		}
		out = append(out, parentID)
		seen[parentID] = true
		parentID = parent.ParentID
	}
	return out
}

// IsAncestorFolder reports whether folderID appears on the ancestor chain of
// otherID, or the two are the same folder. Used to reject folder moves that
// would create a cycle.
func (s *State) IsAncestorFolder(folderID, otherID string) bool {
	if folderID == otherID {
		return true
	}
	return slices.Contains(s.AncestorFolders(otherID), folderID)
}

// ProjectFolders returns the ids of all folders belonging to a project.
func (s *State) ProjectFolders(projectID string) []string {
	var out []string
	for id, f := range s.Folders {
		if f.ProjectID == projectID {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// RemoveID removes every occurrence of id from ids, preserving order.
func RemoveID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
