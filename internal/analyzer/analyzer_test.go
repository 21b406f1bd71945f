package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodebaseai/kodebase/internal/types"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var statePaths = map[types.State][]types.State{
	types.StateDraft:      {types.StateDraft},
	types.StateReady:      {types.StateDraft, types.StateReady},
	types.StateInProgress: {types.StateDraft, types.StateReady, types.StateInProgress},
	types.StateInReview:   {types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview},
	types.StateCompleted:  {types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview, types.StateCompleted},
	types.StateBlocked:    {types.StateDraft, types.StateBlocked},
	types.StateCancelled:  {types.StateDraft, types.StateCancelled},
}

func artifact(id string, state types.State, blockedBy ...string) *types.Artifact {
	a := &types.Artifact{
		ID:    id,
		Type:  types.TypeForDepth(id),
		Title: "artifact " + id,
	}
	a.Metadata.Relationships.BlockedBy = blockedBy
	for i, s := range statePaths[state] {
		meta := map[string]string(nil)
		if s == types.StateBlocked {
			meta = map[string]string{types.MetaReason: "blocked in test"}
		}
		a.Metadata.Events = append(a.Metadata.Events, types.Event{
			State:     s,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Actor:     "alice (alice@example.com)",
			Trigger:   types.TriggerManual,
			Metadata:  meta,
		})
	}
	return a
}

func TestAnalyzeCompletionCascadeMissingArtifact(t *testing.T) {
	result := AnalyzeCompletionCascade("X.9", map[string]*types.Artifact{})

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not found")
	assert.Empty(t, result.Unblocked)
	assert.Empty(t, result.AutoCompletedParents)
}

func TestDirectUnblockingLastBlocker(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A.1.1": artifact("A.1.1", types.StateInReview),
		"A.1.2": artifact("A.1.2", types.StateBlocked, "A.1.1"),
	}

	result := AnalyzeCompletionCascade("A.1.1", artifacts)

	require.Len(t, result.Unblocked, 1)
	assert.Equal(t, "A.1.2", result.Unblocked[0].ID)
	assert.Equal(t, types.StateReady, result.Unblocked[0].NewState)
}

func TestLastBlockerRuleTwoBlockers(t *testing.T) {
	// A.2 is blocked by both X and Y; completing X alone leaves Y
	// outstanding, so A.2 is not reported as unblocked.
	artifacts := map[string]*types.Artifact{
		"X":   artifact("X", types.StateInProgress),
		"Y":   artifact("Y", types.StateInProgress),
		"A":   artifact("A", types.StateInProgress),
		"A.2": artifact("A.2", types.StateBlocked, "X", "Y"),
	}

	result := AnalyzeCompletionCascade("X", artifacts)
	assert.Empty(t, result.Unblocked)

	// Once Y is already completed, completing X is the last blocker.
	artifacts["Y"] = artifact("Y", types.StateCompleted)
	result = AnalyzeCompletionCascade("X", artifacts)
	require.Len(t, result.Unblocked, 1)
	assert.Equal(t, "A.2", result.Unblocked[0].ID)
}

func TestUnblockingOnlyAffectsBlockedOrDraft(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"X":   artifact("X", types.StateInReview),
		"B":   artifact("B", types.StateInProgress, "X"),
		"C":   artifact("C", types.StateDraft, "X"),
	}

	result := AnalyzeCompletionCascade("X", artifacts)

	require.Len(t, result.Unblocked, 1)
	assert.Equal(t, "C", result.Unblocked[0].ID, "in_progress artifacts are past unblocking")
}

func TestParentCascades(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A":     artifact("A", types.StateInProgress),
		"A.1":   artifact("A.1", types.StateInProgress),
		"A.1.1": artifact("A.1.1", types.StateCompleted),
		"A.1.2": artifact("A.1.2", types.StateInReview),
	}

	result := AnalyzeCompletionCascade("A.1.2", artifacts)

	require.Len(t, result.AutoCompletedParents, 1)
	pc := result.AutoCompletedParents[0]
	assert.Equal(t, "A.1", pc.ID)
	assert.Equal(t, types.StateInReview, pc.Result.NewState)
	assert.Contains(t, pc.Result.Reason, "All children completed")

	// A.1 would only reach in_review, not completed, so A itself must not
	// be reported; but A.1's skipped ancestry is flagged.
	assert.Equal(t, []string{"A.1"}, result.NotTraversed)
}

func TestParentCascadeIgnoresCancelledChildren(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A.1":   artifact("A.1", types.StateInProgress),
		"A.1.1": artifact("A.1.1", types.StateInReview),
		"A.1.2": artifact("A.1.2", types.StateCancelled),
	}

	result := AnalyzeCompletionCascade("A.1.1", artifacts)

	require.Len(t, result.AutoCompletedParents, 1)
	assert.Equal(t, "A.1", result.AutoCompletedParents[0].ID)
}

func TestSecondaryUnblocking(t *testing.T) {
	// Completing A.1.1 auto-completes A.1; B waits on A.1 alone, so the
	// parent's completion would unblock it one hop out.
	artifacts := map[string]*types.Artifact{
		"A.1":   artifact("A.1", types.StateInProgress),
		"A.1.1": artifact("A.1.1", types.StateInReview),
		"B":     artifact("B", types.StateBlocked, "A.1"),
	}

	result := AnalyzeCompletionCascade("A.1.1", artifacts)

	require.Len(t, result.AutoCompletedParents, 1)
	require.Len(t, result.SecondaryUnblocked, 1)
	assert.Equal(t, "B", result.SecondaryUnblocked[0].ID)
	assert.Equal(t, types.StateReady, result.SecondaryUnblocked[0].NewState)
}

func TestCompletionRecommendations(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A":     artifact("A", types.StateInProgress),
		"A.1":   artifact("A.1", types.StateInProgress),
		"A.1.1": artifact("A.1.1", types.StateCompleted),
		"A.1.2": artifact("A.1.2", types.StateCompleted),
		"A.2":   artifact("A.2", types.StateReady),
		"A.3":   artifact("A.3", types.StateBlocked, "A.2"),
	}

	rec := CompletionRecommendations(artifacts)

	assert.Equal(t, []string{"A.2"}, rec.ReadyToStart)
	assert.Equal(t, []string{"A.1"}, rec.CanComplete, "all of A.1's children are completed")
	require.Len(t, rec.Blocked, 1)
	assert.Equal(t, "A.3", rec.Blocked[0].ID)
	assert.Equal(t, types.StateReady, rec.Blocked[0].Blockers["A.2"])
}

func TestRecommendationsInProgressWithoutChildren(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A": artifact("A", types.StateInProgress),
	}
	rec := CompletionRecommendations(artifacts)
	assert.Empty(t, rec.CanComplete, "no active children means no completion cascade")
}

func TestDetectCycles(t *testing.T) {
	t.Run("mutual blocking", func(t *testing.T) {
		a := artifact("A", types.StateInProgress, "B")
		b := artifact("B", types.StateInProgress, "A")
		a.Metadata.Relationships.Blocks = []string{"B"}
		b.Metadata.Relationships.Blocks = []string{"A"}

		cyclic := DetectCycles(map[string]*types.Artifact{"A": a, "B": b})
		assert.Equal(t, []string{"A", "B"}, cyclic)
	})

	t.Run("chain of four has no cycle", func(t *testing.T) {
		artifacts := map[string]*types.Artifact{
			"A": artifact("A", types.StateInProgress),
			"B": artifact("B", types.StateDraft, "A"),
			"C": artifact("C", types.StateDraft, "B"),
			"D": artifact("D", types.StateDraft, "C"),
		}
		assert.Empty(t, DetectCycles(artifacts))
	})

	t.Run("edge to missing artifact is a dead end", func(t *testing.T) {
		artifacts := map[string]*types.Artifact{
			"A": artifact("A", types.StateDraft, "ghost"),
		}
		assert.Empty(t, DetectCycles(artifacts))
	})
}

func TestAnalyzeFullCascadeEmptyMap(t *testing.T) {
	analysis := AnalyzeFullCascade(map[string]*types.Artifact{})

	assert.Equal(t, 0, analysis.TotalArtifacts)
	assert.Empty(t, analysis.CircularDependencies)
	assert.Empty(t, analysis.Recommendations.ReadyToStart)
	assert.Empty(t, analysis.Recommendations.CanComplete)
	assert.Empty(t, analysis.Recommendations.Blocked)
	assert.Empty(t, analysis.Completions)
}

func TestAnalyzeFullCascade(t *testing.T) {
	artifacts := map[string]*types.Artifact{
		"A":     artifact("A", types.StateInProgress),
		"A.1":   artifact("A.1", types.StateInProgress),
		"A.1.1": artifact("A.1.1", types.StateInReview),
		"A.1.2": artifact("A.1.2", types.StateBlocked, "A.1.1"),
	}

	analysis := AnalyzeFullCascade(artifacts)

	assert.Equal(t, 4, analysis.TotalArtifacts)
	assert.Empty(t, analysis.CircularDependencies)
	require.Contains(t, analysis.Completions, "A.1.1")

	fromReview := analysis.Completions["A.1.1"]
	require.Len(t, fromReview.Unblocked, 1)
	assert.Equal(t, "A.1.2", fromReview.Unblocked[0].ID)
	assert.GreaterOrEqual(t, analysis.Elapsed, time.Duration(0))
}
