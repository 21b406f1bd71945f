// Package analyzer answers "what happens if artifact X completes now":
// which blocked work opens up, which parents auto-complete, and what the
// whole tree recommends working on next. Everything here is advisory:
// data-quality problems accumulate as soft errors instead of aborting.
package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/types"
)

// UnblockedArtifact is an artifact whose last outstanding blocker just
// (hypothetically) completed.
type UnblockedArtifact struct {
	ID       string      `json:"id"`
	NewState types.State `json:"new_state"`
}

// ParentCascade records an ancestor that would auto-complete.
type ParentCascade struct {
	ID     string              `json:"id"`
	Result types.CascadeResult `json:"result"`
}

// CompletionCascadeResult is the full advisory outcome of completing one
// artifact.
type CompletionCascadeResult struct {
	ArtifactID           string              `json:"artifact_id"`
	Unblocked            []UnblockedArtifact `json:"unblocked,omitempty"`
	AutoCompletedParents []ParentCascade     `json:"auto_completed_parents,omitempty"`
	SecondaryUnblocked   []UnblockedArtifact `json:"secondary_unblocked,omitempty"`
	// NotTraversed lists auto-completed parents whose own ancestry was
	// deliberately not re-analyzed; analysis looks one hop past direct
	// and parent effects, so 4+ level hierarchies may cascade further
	// than reported here.
	NotTraversed []string      `json:"not_traversed,omitempty"`
	Errors       []string      `json:"errors,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// BlockedInfo annotates a blocked artifact with its blockers' states.
type BlockedInfo struct {
	ID       string                 `json:"id"`
	Blockers map[string]types.State `json:"blockers"`
}

// Recommendations groups artifacts by what can happen to them next.
type Recommendations struct {
	ReadyToStart []string      `json:"ready_to_start"`
	CanComplete  []string      `json:"can_complete"`
	Blocked      []BlockedInfo `json:"blocked"`
}

// FullCascadeAnalysis bundles cycle detection, recommendations, and a
// completion analysis for every artifact in the tree.
type FullCascadeAnalysis struct {
	TotalArtifacts       int                                 `json:"total_artifacts"`
	CircularDependencies []string                            `json:"circular_dependencies,omitempty"`
	Recommendations      Recommendations                     `json:"recommendations"`
	Completions          map[string]*CompletionCascadeResult `json:"completions,omitempty"`
	Elapsed              time.Duration                       `json:"elapsed"`
}

// AnalyzeCompletionCascade simulates completing the given artifact. A
// missing ID is a soft error, not a failure: analysis must tolerate
// incomplete maps.
func AnalyzeCompletionCascade(id string, artifacts map[string]*types.Artifact) *CompletionCascadeResult {
	start := time.Now()
	result := &CompletionCascadeResult{ArtifactID: id}
	defer func() { result.Elapsed = time.Since(start) }()

	if _, ok := artifacts[id]; !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("artifact %q not found", id))
		return result
	}

	index := types.BuildChildIndex(artifacts)
	hypothetical := map[string]bool{id: true}

	// Direct unblocking: artifacts for which id was the last outstanding
	// blocker become ready.
	result.Unblocked = unblockedBy(id, artifacts, hypothetical)

	// Parent cascades up the dotted ancestry. Each ancestor is judged on
	// its own children with only the original artifact hypothetically
	// completed; an auto-completing parent lands in in_review, which never
	// completes its own parent, so deeper levels cannot fire from here.
	for _, ancestor := range types.Ancestors(id) {
		parent, ok := artifacts[ancestor]
		if !ok {
			continue
		}

		parentState, err := cascade.CurrentState(parent)
		if err != nil {
			parentState = types.StateDraft
		}

		decision := cascade.ShouldCascadeStates(
			childStates(index.Children(ancestor), artifacts, hypothetical), parentState)
		if !decision.ShouldCascade || decision.NewState != types.StateInReview {
			continue
		}

		result.AutoCompletedParents = append(result.AutoCompletedParents,
			ParentCascade{ID: ancestor, Result: decision})

		// One level of propagation past the original artifact: would this
		// parent's completion unblock anything else?
		withParent := map[string]bool{id: true, ancestor: true}
		result.SecondaryUnblocked = append(result.SecondaryUnblocked,
			unblockedBy(ancestor, artifacts, withParent)...)

		if len(types.Ancestors(ancestor)) > 0 {
			result.NotTraversed = append(result.NotTraversed, ancestor)
		}
	}

	return result
}

// unblockedBy finds artifacts whose blocked_by includes cid and whose only
// outstanding blocker is cid itself. Blockers already completed, for real
// or in the hypothetical set, are excluded; an artifact with any other
// outstanding blocker stays put and is not reported. Blockers missing from
// the map count as outstanding, since nothing proves them done.
func unblockedBy(cid string, artifacts map[string]*types.Artifact, hypothetical map[string]bool) []UnblockedArtifact {
	var unblocked []UnblockedArtifact
	for aid, a := range artifacts {
		if !containsID(a.BlockedBy(), cid) {
			continue
		}

		state, err := cascade.CurrentState(a)
		if err != nil {
			state = types.StateDraft
		}
		if state != types.StateBlocked && state != types.StateDraft {
			continue
		}

		var outstanding []string
		for _, blocker := range a.BlockedBy() {
			if blocker != cid && hypothetical[blocker] {
				continue
			}
			if b, ok := artifacts[blocker]; ok {
				if bs, err := cascade.CurrentState(b); err == nil && bs == types.StateCompleted {
					continue
				}
			}
			outstanding = append(outstanding, blocker)
		}

		if len(outstanding) == 1 && outstanding[0] == cid {
			unblocked = append(unblocked, UnblockedArtifact{ID: aid, NewState: types.StateReady})
		}
	}

	sort.Slice(unblocked, func(i, j int) bool { return unblocked[i].ID < unblocked[j].ID })
	return unblocked
}

func childStates(childIDs []string, artifacts map[string]*types.Artifact, hypothetical map[string]bool) []types.State {
	states := make([]types.State, 0, len(childIDs))
	for _, cid := range childIDs {
		if hypothetical[cid] {
			states = append(states, types.StateCompleted)
			continue
		}
		child, ok := artifacts[cid]
		if !ok {
			continue
		}
		state, err := cascade.CurrentState(child)
		if err != nil {
			state = types.StateDraft
		}
		states = append(states, state)
	}
	return states
}

// CompletionRecommendations surveys the tree: what is ready to start,
// what is in progress with every child done, and what is blocked on whom.
func CompletionRecommendations(artifacts map[string]*types.Artifact) Recommendations {
	index := types.BuildChildIndex(artifacts)
	rec := Recommendations{}

	for id, a := range artifacts {
		state, err := cascade.CurrentState(a)
		if err != nil {
			continue
		}

		switch state {
		case types.StateReady:
			rec.ReadyToStart = append(rec.ReadyToStart, id)

		case types.StateInProgress:
			decision := cascade.ShouldCascadeStates(
				childStates(index.Children(id), artifacts, nil), state)
			if decision.ShouldCascade && decision.NewState == types.StateInReview {
				rec.CanComplete = append(rec.CanComplete, id)
			}

		case types.StateBlocked:
			info := BlockedInfo{ID: id, Blockers: make(map[string]types.State)}
			for _, blocker := range a.BlockedBy() {
				if b, ok := artifacts[blocker]; ok {
					if bs, err := cascade.CurrentState(b); err == nil {
						info.Blockers[blocker] = bs
						continue
					}
					info.Blockers[blocker] = types.StateDraft
				} else {
					info.Blockers[blocker] = ""
				}
			}
			rec.Blocked = append(rec.Blocked, info)
		}
	}

	sort.Strings(rec.ReadyToStart)
	sort.Strings(rec.CanComplete)
	sort.Slice(rec.Blocked, func(i, j int) bool { return rec.Blocked[i].ID < rec.Blocked[j].ID })
	return rec
}

// AnalyzeFullCascade runs cycle detection, recommendations, and a
// completion analysis for every artifact. An empty map yields a
// zero-value result with no errors.
func AnalyzeFullCascade(artifacts map[string]*types.Artifact) *FullCascadeAnalysis {
	start := time.Now()

	analysis := &FullCascadeAnalysis{
		TotalArtifacts:       len(artifacts),
		CircularDependencies: DetectCycles(artifacts),
		Recommendations:      CompletionRecommendations(artifacts),
	}

	if len(artifacts) > 0 {
		analysis.Completions = make(map[string]*CompletionCascadeResult, len(artifacts))
		for id := range artifacts {
			analysis.Completions[id] = AnalyzeCompletionCascade(id, artifacts)
		}
	}

	analysis.Elapsed = time.Since(start)
	return analysis
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
