package views

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"storyforge/internal/application"
	"storyforge/internal/domain"
)

func seedBrowserStore(t *testing.T) (*application.Store, string) {
	t.Helper()
	store := application.NewStore(nil, nil, zap.NewNop())
	projectID := store.AddProject("Shop", "")
	store.SetCurrentProject(projectID)
	project := store.State().Projects[projectID]
	folderID := store.AddFolder("", project.RootFolderID, "Backlog", projectID)
	store.AddStory(folderID, "Login", "", "")
	return store, folderID
}

func TestFolderOf(t *testing.T) {
	folder := &domain.TreeNode{Kind: domain.NodeFolder, ID: "f1", Name: "Backlog"}
	story := &domain.TreeNode{Kind: domain.NodeStory, ID: "s1", Name: "Login", Parent: folder}
	project := &domain.TreeNode{Kind: domain.NodeProject, ID: "p1", Name: "Shop"}

	if got := folderOf(story); got != folder {
		t.Errorf("story should resolve to its parent folder, got %v", got)
	}
	if got := folderOf(folder); got != folder {
		t.Errorf("folder should resolve to itself, got %v", got)
	}
	if got := folderOf(project); got != project {
		t.Errorf("project should resolve to itself, got %v", got)
	}
}

func TestBrowserCollapseStateSurvivesReload(t *testing.T) {
	store, folderID := seedBrowserStore(t)

	m := NewBrowserModel(store)
	msg := m.loadTree()
	loaded, ok := msg.(treeLoadedMsg)
	if !ok {
		t.Fatalf("expected treeLoadedMsg, got %T", msg)
	}
	m.Update(loaded)

	before := len(m.flatNodes)
	if before < 3 {
		t.Fatalf("expected project, folder and story visible, got %d nodes", before)
	}

	// Collapse the folder, then rebuild the tree from the snapshot.
	var folderNode *domain.TreeNode
	for _, n := range m.flatNodes {
		if n.ID == folderID {
			folderNode = n
			break
		}
	}
	if folderNode == nil {
		t.Fatal("folder not found in flattened tree")
	}
	folderNode.Collapse()
	m.collapsed[folderID] = true
	m.refreshFlatNodes()

	if len(m.flatNodes) != before-1 {
		t.Fatalf("expected story hidden after collapse, got %d nodes", len(m.flatNodes))
	}

	msg = m.loadTree()
	m.Update(msg.(treeLoadedMsg))

	if len(m.flatNodes) != before-1 {
		t.Errorf("collapse state lost after reload: got %d nodes, want %d", len(m.flatNodes), before-1)
	}
}

func TestBrowserLoadTreeWithoutProject(t *testing.T) {
	store := application.NewStore(nil, nil, zap.NewNop())
	m := NewBrowserModel(store)

	msg := m.loadTree()
	em, ok := msg.(errMsg)
	if !ok {
		t.Fatalf("expected errMsg, got %T", msg)
	}
	if em.err == nil {
		t.Fatal("expected an error for missing current project")
	}
}

func TestRenderNodeMarksStoryState(t *testing.T) {
	m := NewBrowserModel(nil)

	open := &domain.TreeNode{Kind: domain.NodeStory, Name: "Login"}
	done := &domain.TreeNode{Kind: domain.NodeStory, Name: "Checkout", Done: true}

	if got := m.renderNode(open, false); !strings.Contains(got, "[ ] Login") {
		t.Errorf("open story should render an empty checkbox, got %q", got)
	}
	if got := m.renderNode(done, false); !strings.Contains(got, "[x] Checkout") {
		t.Errorf("done story should render a checked checkbox, got %q", got)
	}
}
