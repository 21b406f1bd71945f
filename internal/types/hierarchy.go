package types

import (
	"sort"
	"strings"
)

// Artifacts form a strict tree encoded in their IDs: "A" is an initiative,
// "A.1" a milestone under it, "A.1.2" an issue under that. No parent/child
// pointers are stored; everything below derives structure from the ID alone.

// ValidID reports whether id is a well-formed dotted-path artifact ID:
// non-empty dot-separated segments with no leading or trailing dot.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for _, seg := range strings.Split(id, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// Depth returns the zero-based depth encoded in the ID: 0 for "A",
// 1 for "A.1", 2 for "A.1.2".
func Depth(id string) int {
	if id == "" {
		return 0
	}
	return strings.Count(id, ".")
}

// ParentID returns the ID with its last segment removed, or "" for a root.
func ParentID(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx < 0 {
		return ""
	}
	return id[:idx]
}

// Ancestors returns every dot-prefix of id, nearest parent first.
// For "A.1.2" it returns ["A.1", "A"].
func Ancestors(id string) []string {
	var out []string
	for p := ParentID(id); p != ""; p = ParentID(p) {
		out = append(out, p)
	}
	return out
}

// IsDirectChild reports whether childID sits exactly one segment below
// parentID ("A.1.2" under "A.1", but not under "A").
func IsDirectChild(childID, parentID string) bool {
	return ParentID(childID) == parentID && parentID != ""
}

// IsDescendant reports whether childID sits anywhere below parentID.
func IsDescendant(childID, parentID string) bool {
	return parentID != "" && strings.HasPrefix(childID, parentID+".")
}

// ChildIndex maps a parent ID to the sorted IDs of its direct children.
type ChildIndex map[string][]string

// BuildChildIndex indexes parent-to-children edges for a set of artifact
// IDs in one pass. Full-tree analysis builds this once per call instead of
// re-scanning all IDs on every parent lookup.
func BuildChildIndex(artifacts map[string]*Artifact) ChildIndex {
	idx := make(ChildIndex, len(artifacts))
	for id := range artifacts {
		if parent := ParentID(id); parent != "" {
			idx[parent] = append(idx[parent], id)
		}
	}
	for parent := range idx {
		sort.Strings(idx[parent])
	}
	return idx
}

// Children returns the direct child IDs of parent, or nil.
func (x ChildIndex) Children(parent string) []string {
	return x[parent]
}

// TypeForDepth returns the artifact type encoded by an ID's segment count.
// Depths beyond 2 stay issues; the tree does not nest further in practice.
func TypeForDepth(id string) ArtifactType {
	switch Depth(id) {
	case 0:
		return TypeInitiative
	case 1:
		return TypeMilestone
	default:
		return TypeIssue
	}
}
