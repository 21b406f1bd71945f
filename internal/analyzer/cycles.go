package analyzer

import (
	"sort"

	"github.com/kodebaseai/kodebase/internal/types"
)

// DetectCycles returns the IDs of artifacts participating in a circular
// dependency: following blocked_by edges from the artifact eventually
// revisits it. Edges pointing outside the map are dead ends, not cycles.
func DetectCycles(artifacts map[string]*types.Artifact) []string {
	var cyclic []string
	for id := range artifacts {
		if reachesSelf(id, artifacts) {
			cyclic = append(cyclic, id)
		}
	}
	sort.Strings(cyclic)
	return cyclic
}

// reachesSelf walks blocked_by edges depth-first from start.
func reachesSelf(start string, artifacts map[string]*types.Artifact) bool {
	visited := make(map[string]bool)
	stack := append([]string(nil), artifacts[start].BlockedBy()...)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == start {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		if a, ok := artifacts[id]; ok {
			stack = append(stack, a.BlockedBy()...)
		}
	}
	return false
}
