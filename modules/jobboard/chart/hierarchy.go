package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/wingtrack/wingtrack/modules/jobboard/domain/assignment"
)

// CyclicHierarchyError reports a reporting loop, such as two roles naming
// each other as parent.
type CyclicHierarchyError struct {
	RoleName string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("cyclic reporting structure involving role %q", e.RoleName)
}

// Node is one derived hierarchy entry. Rebuilt on every layout pass, never
// persisted.
type Node struct {
	ID       uuid.UUID
	RoleName string
	Level    int
	Parent   *uuid.UUID
	Children []uuid.UUID
}

type EdgeType string

const (
	EdgeReportsTo EdgeType = "reports_to"
	EdgeAssistant EdgeType = "assistant"
)

type Edge struct {
	Source uuid.UUID
	Target uuid.UUID
	Type   EdgeType
}

// Hierarchy is the forest implied by the reports-to links of an assignment
// snapshot. Warnings carry dropped edges whose target role name matched
// nothing; those are logged, not fatal.
type Hierarchy struct {
	Nodes    map[uuid.UUID]*Node
	RootIDs  []uuid.UUID
	Edges    []Edge
	Warnings []string
}

// CommandPath renders the chain of command above id, root first, joined
// with " / ". Unknown ids yield an empty string.
func (h *Hierarchy) CommandPath(id uuid.UUID) string {
	node, ok := h.Nodes[id]
	if !ok {
		return ""
	}
	parts := []string{node.RoleName}
	for node.Parent != nil {
		parent, ok := h.Nodes[*node.Parent]
		if !ok {
			break
		}
		parts = append([]string{parent.RoleName}, parts...)
		node = parent
	}
	return strings.Join(parts, " / ")
}

// BuildHierarchy reconstructs the reporting forest. Roles are joined by role
// name; an assignment whose reports-to target matches no role becomes a root
// with a warning. A reporting cycle fails with CyclicHierarchyError instead
// of recursing forever.
func BuildHierarchy(assignments []*assignment.Assignment) (*Hierarchy, error) {
	h := &Hierarchy{Nodes: map[uuid.UUID]*Node{}}

	byRole := map[string]*assignment.Assignment{}
	childrenOf := map[string][]*assignment.Assignment{}
	for _, a := range assignments {
		h.Nodes[a.ID] = &Node{ID: a.ID, RoleName: a.RoleName}
		if _, dup := byRole[a.RoleName]; !dup {
			byRole[a.RoleName] = a
		}
	}
	for _, a := range assignments {
		if a.HasParent() {
			childrenOf[a.ReportsTo] = append(childrenOf[a.ReportsTo], a)
		}
	}
	for role := range childrenOf {
		sort.Slice(childrenOf[role], func(i, j int) bool {
			return childrenOf[role][i].RoleName < childrenOf[role][j].RoleName
		})
	}

	var roots []*assignment.Assignment
	for _, a := range assignments {
		if !a.HasParent() {
			roots = append(roots, a)
			continue
		}
		if _, ok := byRole[a.ReportsTo]; !ok {
			h.Warnings = append(h.Warnings, fmt.Sprintf("role %q reports to unknown role %q, edge dropped", a.RoleName, a.ReportsTo))
			roots = append(roots, a)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].RoleName < roots[j].RoleName })

	visited := map[uuid.UUID]bool{}
	var descend func(a *assignment.Assignment, level int, onPath map[uuid.UUID]bool) error
	descend = func(a *assignment.Assignment, level int, onPath map[uuid.UUID]bool) error {
		if onPath[a.ID] {
			return &CyclicHierarchyError{RoleName: a.RoleName}
		}
		if visited[a.ID] {
			return nil
		}
		visited[a.ID] = true
		onPath[a.ID] = true
		h.Nodes[a.ID].Level = level
		for _, child := range childrenOf[a.RoleName] {
			// The name index resolves to one role; a child naming a
			// duplicated role still hangs off the first occurrence.
			if byRole[child.ReportsTo] != a {
				continue
			}
			parentID := a.ID
			h.Nodes[child.ID].Parent = &parentID
			h.Nodes[a.ID].Children = append(h.Nodes[a.ID].Children, child.ID)
			h.Edges = append(h.Edges, Edge{Source: a.ID, Target: child.ID, Type: EdgeReportsTo})
			if err := descend(child, level+1, onPath); err != nil {
				return err
			}
		}
		delete(onPath, a.ID)
		return nil
	}

	for _, root := range roots {
		h.RootIDs = append(h.RootIDs, root.ID)
		if err := descend(root, 0, map[uuid.UUID]bool{}); err != nil {
			return nil, err
		}
	}

	// A cycle with no entry point never gets visited from a root. Surface it
	// instead of silently dropping the whole loop from the chart.
	for _, a := range assignments {
		if !visited[a.ID] {
			return nil, &CyclicHierarchyError{RoleName: a.RoleName}
		}
	}

	for _, a := range assignments {
		if !a.IsAssistant() {
			continue
		}
		target, ok := byRole[a.Assistant]
		if !ok {
			h.Warnings = append(h.Warnings, fmt.Sprintf("role %q assists unknown role %q, edge dropped", a.RoleName, a.Assistant))
			continue
		}
		h.Edges = append(h.Edges, Edge{Source: target.ID, Target: a.ID, Type: EdgeAssistant})
	}

	return h, nil
}
