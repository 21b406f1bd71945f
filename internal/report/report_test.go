package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kodebaseai/kodebase/internal/analyzer"
	"github.com/kodebaseai/kodebase/internal/hygiene"
	"github.com/kodebaseai/kodebase/internal/types"
)

func artifactAt(id string, states ...types.State) *types.Artifact {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := &types.Artifact{ID: id, Type: types.TypeForDepth(id), Title: "work " + id}
	for i, s := range states {
		a.Metadata.Events = append(a.Metadata.Events, types.Event{
			State:     s,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Actor:     "Ada (ada@example.com)",
			Trigger:   types.TriggerManual,
		})
	}
	return a
}

func TestStatusGlyphCoversEveryState(t *testing.T) {
	for _, s := range []types.State{
		types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview,
		types.StateCompleted, types.StateBlocked, types.StateCancelled, types.StateArchived,
	} {
		assert.NotEqual(t, "?", StatusGlyph(s), "state %s has no glyph", s)
	}
	assert.Equal(t, "?", StatusGlyph(types.State("bogus")))
}

func TestArtifactLine(t *testing.T) {
	line := ArtifactLine(artifactAt("A.1", types.StateDraft, types.StateReady))
	assert.Contains(t, line, "A.1")
	assert.Contains(t, line, "work A.1")
	assert.Contains(t, line, "ready")
}

func TestCleanupRendering(t *testing.T) {
	clean := Cleanup("A", hygiene.CleanupReport{Summary: []string{"event log already clean"}})
	assert.Contains(t, clean, "event log already clean")

	dirty := Cleanup("A", hygiene.CleanupReport{
		Changed:    true,
		Summary:    []string{"removed 1 duplicate event(s)"},
		Duplicates: []hygiene.DuplicatePair{{KeptIndex: 1, RemovedIndex: 2, Rule: "earlier event kept"}},
	})
	assert.Contains(t, dirty, "removed 1 duplicate event(s)")
	assert.Contains(t, dirty, "kept event 1, removed event 2")
}

func TestViolationsRendering(t *testing.T) {
	assert.Contains(t, Violations("A", nil), "event log is valid")

	out := Violations("A", []hygiene.Violation{
		{Index: 1, Message: "event 1 (ready) has no trigger", Fix: `set trigger to "manual"`},
	})
	assert.Contains(t, out, "1 violation(s)")
	assert.Contains(t, out, "has no trigger")
	assert.Contains(t, out, "fix: set trigger")
}

func TestCompletionCascadeRendering(t *testing.T) {
	empty := CompletionCascade(&analyzer.CompletionCascadeResult{ArtifactID: "A.1"})
	assert.Contains(t, empty, "no downstream effects")

	out := CompletionCascade(&analyzer.CompletionCascadeResult{
		ArtifactID: "A.1",
		Unblocked:  []analyzer.UnblockedArtifact{{ID: "A.2", NewState: types.StateReady}},
		AutoCompletedParents: []analyzer.ParentCascade{{
			ID:     "A",
			Result: types.CascadeResult{ShouldCascade: true, NewState: types.StateInReview, Reason: "All children completed"},
		}},
		NotTraversed: []string{"A"},
	})
	assert.Contains(t, out, "A.2 becomes ready")
	assert.Contains(t, out, "A cascades to in_review")
	assert.Contains(t, out, "not analyzed")
}

func TestRecommendRendering(t *testing.T) {
	out := Recommend(analyzer.Recommendations{
		ReadyToStart: []string{"A.1"},
		Blocked: []analyzer.BlockedInfo{{
			ID:       "A.2",
			Blockers: map[string]types.State{"A.1": types.StateInProgress, "Z": ""},
		}},
	})
	assert.Contains(t, out, "A.1")
	assert.Contains(t, out, "A.2 waiting on A.1 (in_progress), Z (missing)")
	assert.Contains(t, out, "Can complete")
}

func TestTreeRendering(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A":   artifactAt("A", types.StateDraft),
		"A.1": artifactAt("A.1", types.StateDraft, types.StateReady),
		"A.2": artifactAt("A.2", types.StateDraft),
	}
	artifacts["A.2"].Metadata.Relationships.BlockedBy = []string{"A.1"}

	out := Tree(artifacts)
	assert.Contains(t, out, "work A")
	assert.Contains(t, out, TreeBranch)
	assert.Contains(t, out, TreeLast)

	// Children are ordered, so A.1 renders before A.2.
	assert.Less(t, strings.Index(out, "A.1"), strings.Index(out, "A.2"))
}
