package domain

import (
	"sort"
	"strings"
)

// NodeKind discriminates tree node types.
type NodeKind int

const (
	NodeUnknown NodeKind = iota
	NodeProject
	NodeFolder
	NodeStory
)

// String returns a human-readable name for the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeProject:
		return "project"
	case NodeFolder:
		return "folder"
	case NodeStory:
		return "story"
	default:
		return "unknown"
	}
}

// TreeNode represents a node in the project tree for navigation.
type TreeNode struct {
	Kind       NodeKind
	ID         string
	Name       string
	Done       bool
	Deleted    bool
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// Flatten returns all visible nodes in the tree (for list rendering).
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree.
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node.
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand marks the node expanded.
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse marks the node collapsed.
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// BuildProjectTree assembles the navigable tree for a project, rooted at the
// project node. Soft-deleted folders and stories are skipped unless
// includeDeleted is set. Dangling child ids are skipped.
func (s *State) BuildProjectTree(projectID string, includeDeleted bool) *TreeNode {
	project, ok := s.Projects[projectID]
	if !ok {
		return nil
	}
	root := &TreeNode{
		Kind:       NodeProject,
		ID:         project.ID,
		Name:       project.Name,
		IsExpanded: true,
	}
	if folder, ok := s.Folders[project.RootFolderID]; ok {
		s.appendFolderChildren(root, folder, includeDeleted)
	}
	return root
}

func (s *State) appendFolderChildren(parent *TreeNode, folder *Folder, includeDeleted bool) {
	for _, childID := range folder.Children {
		child, ok := s.Folders[childID]
		if !ok || (child.Deleted && !includeDeleted) {
			continue
		}
		node := &TreeNode{
			Kind:    NodeFolder,
			ID:      child.ID,
			Name:    child.Name,
			Deleted: child.Deleted,
			Parent:  parent,
		}
		s.appendFolderChildren(node, child, includeDeleted)
		parent.Children = append(parent.Children, node)
	}
	for _, storyID := range folder.Stories {
		story, ok := s.Stories[storyID]
		if !ok || (story.Deleted && !includeDeleted) {
			continue
		}
		parent.Children = append(parent.Children, &TreeNode{
			Kind:    NodeStory,
			ID:      story.ID,
			Name:    story.Title,
			Done:    story.Done,
			Deleted: story.Deleted,
			Parent:  parent,
		})
	}
}

// SortProjects returns project ids ordered by name, then id for stability.
func (s *State) SortProjects() []string {
	ids := make([]string, 0, len(s.Projects))
	for id := range s.Projects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.Projects[ids[i]], s.Projects[ids[j]]
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return ids[i] < ids[j]
	})
	return ids
}
