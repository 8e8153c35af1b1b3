package domain

import "time"

// Author identifies who produced a story version.
type Author string

const (
	AuthorUser Author = "user"
	AuthorAI   Author = "ai"
)

// Project is a top-level container with its own settings and one root folder.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	RootFolderID string    `json:"rootFolderId"`

	// Context and SystemPrompt are fed into AI prompts for every story
	// in the project.
	Context      string `json:"context,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// Folder is a named tree node holding child folders and stories.
// Children and Stories hold ids, never embedded entities.
type Folder struct {
	ID        string   `json:"id"`
	ParentID  string   `json:"parentId,omitempty"` // empty for a project's root folder
	Name      string   `json:"name"`
	ProjectID string   `json:"projectId"`
	Children  []string `json:"children"`
	Stories   []string `json:"stories"`
	Deleted   bool     `json:"deleted,omitempty"`
}

// Story is a unit of work backed by a version tree. Title, Description and
// AcceptanceCriteria are denormalized copies of the current version's content;
// every mutator keeps them in sync.
type Story struct {
	ID                 string             `json:"id"`
	ParentID           string             `json:"parentId"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	AcceptanceCriteria string             `json:"acceptanceCriteria"`
	CreatedAt          time.Time          `json:"createdAt"`
	Versions           map[string]Version `json:"versions"`
	CurrentVersionID   string             `json:"currentVersionId,omitempty"`
	Done               bool               `json:"isDone,omitempty"`
	Deleted            bool               `json:"deleted,omitempty"`
}

// Version is an immutable snapshot of a story's content. Versions form a tree
// via ParentID, rooted at the version whose ParentID is empty.
type Version struct {
	ID                 string    `json:"id"`
	ParentID           string    `json:"parentId,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	AcceptanceCriteria string    `json:"acceptanceCriteria"`
	Author             Author    `json:"author"`
	ChangeTitle        string    `json:"changeTitle,omitempty"`
	ChangeDescription  string    `json:"changeDescription,omitempty"`
}

// StoryContent is the editable content of a story, detached from identity.
type StoryContent struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	AcceptanceCriteria string `json:"acceptanceCriteria"`
}

// Equal reports whether two contents match field for field.
func (c StoryContent) Equal(other StoryContent) bool {
	return c.Title == other.Title &&
		c.Description == other.Description &&
		c.AcceptanceCriteria == other.AcceptanceCriteria
}

// Content returns the story's denormalized content.
func (s *Story) Content() StoryContent {
	return StoryContent{
		Title:              s.Title,
		Description:        s.Description,
		AcceptanceCriteria: s.AcceptanceCriteria,
	}
}

// Content returns the version's content.
func (v Version) Content() StoryContent {
	return StoryContent{
		Title:              v.Title,
		Description:        v.Description,
		AcceptanceCriteria: v.AcceptanceCriteria,
	}
}

// Draft is an unsaved edit buffer suspended against a specific base version.
// At most one draft exists per story.
type Draft struct {
	Content       StoryContent `json:"content"`
	Timestamp     time.Time    `json:"timestamp"`
	BaseVersionID string       `json:"baseVersionId,omitempty"`
}

// ProviderConfig holds the credentials and model choices for one AI provider.
type ProviderConfig struct {
	APIKey     string `json:"apiKey,omitempty"`
	BaseURL    string `json:"baseUrl,omitempty"`
	LargeModel string `json:"largeModel,omitempty"`
	SmallModel string `json:"smallModel,omitempty"`
}

// Settings is the user configuration consumed by the AI gateway.
type Settings struct {
	Provider  string                    `json:"provider,omitempty"`
	Providers map[string]ProviderConfig `json:"providers,omitempty"`
}

// Active returns the configuration of the selected provider.
func (s Settings) Active() ProviderConfig {
	if s.Providers == nil {
		return ProviderConfig{}
	}
	return s.Providers[s.Provider]
}
