package statemachine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodebaseai/kodebase/internal/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		typ  types.ArtifactType
		from types.State
		to   types.State
		want bool
	}{
		{"draft to ready", types.TypeIssue, types.StateDraft, types.StateReady, true},
		{"ready to in_progress", types.TypeIssue, types.StateReady, types.StateInProgress, true},
		{"in_review back to in_progress", types.TypeIssue, types.StateInReview, types.StateInProgress, true},
		{"in_review to completed", types.TypeMilestone, types.StateInReview, types.StateCompleted, true},
		{"cancelled reactivation", types.TypeIssue, types.StateCancelled, types.StateDraft, true},
		{"cancelled to archived", types.TypeIssue, types.StateCancelled, types.StateArchived, true},
		{"draft cannot skip to completed", types.TypeIssue, types.StateDraft, types.StateCompleted, false},
		{"completed is terminal", types.TypeIssue, types.StateCompleted, types.StateArchived, false},
		{"archived is terminal", types.TypeInitiative, types.StateArchived, types.StateDraft, false},
		{"only cancelled reactivates", types.TypeIssue, types.StateBlocked, types.StateDraft, false},
		{"unknown type", types.ArtifactType("epic"), types.StateDraft, types.StateReady, false},
		{"unknown state", types.TypeIssue, types.State("open"), types.StateReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.typ, tt.from, tt.to))
		})
	}
}

func TestValidTransitions(t *testing.T) {
	next := ValidTransitions(types.TypeIssue, types.StateCancelled)
	assert.ElementsMatch(t, []types.State{types.StateDraft, types.StateArchived}, next)

	assert.Empty(t, ValidTransitions(types.TypeIssue, types.StateCompleted), "terminal state")
	assert.Empty(t, ValidTransitions(types.TypeIssue, types.State("open")), "unknown state")
	assert.Empty(t, ValidTransitions(types.ArtifactType("epic"), types.StateDraft), "unknown type")
}

func TestValidTransitionsReturnsCopy(t *testing.T) {
	next := ValidTransitions(types.TypeIssue, types.StateDraft)
	require.NotEmpty(t, next)
	next[0] = types.StateArchived
	assert.NotContains(t, ValidTransitions(types.TypeIssue, types.StateDraft), types.StateArchived)
}

func TestCurrentState(t *testing.T) {
	events := eventLog(types.StateDraft, types.StateReady, types.StateInProgress)

	state, err := CurrentState(events)
	require.NoError(t, err)
	assert.Equal(t, types.StateInProgress, state)

	_, err = CurrentState(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestValidateEventOrder(t *testing.T) {
	t.Run("valid log", func(t *testing.T) {
		events := eventLog(types.StateDraft, types.StateReady, types.StateInProgress, types.StateInReview, types.StateCompleted)
		assert.NoError(t, ValidateEventOrder(events, types.TypeIssue))
	})

	t.Run("empty log", func(t *testing.T) {
		err := ValidateEventOrder(nil, types.TypeIssue)
		assert.ErrorIs(t, err, ErrEmptyLog)
	})

	t.Run("first event not draft", func(t *testing.T) {
		events := eventLog(types.StateReady, types.StateInProgress)
		err := ValidateEventOrder(events, types.TypeIssue)
		assert.ErrorIs(t, err, ErrInvalidFirstEvent)
	})

	t.Run("timestamp regression", func(t *testing.T) {
		events := eventLog(types.StateDraft, types.StateReady)
		events[1].Timestamp = events[0].Timestamp.Add(-time.Minute)
		err := ValidateEventOrder(events, types.TypeIssue)
		assert.ErrorIs(t, err, ErrOutOfOrder)

		var terr *TransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, 1, terr.Index)
	})

	t.Run("equal timestamps allowed", func(t *testing.T) {
		events := eventLog(types.StateDraft, types.StateReady)
		events[1].Timestamp = events[0].Timestamp
		assert.NoError(t, ValidateEventOrder(events, types.TypeIssue))
	})

	t.Run("illegal adjacent pair", func(t *testing.T) {
		events := eventLog(types.StateDraft, types.StateCompleted)
		err := ValidateEventOrder(events, types.TypeIssue)
		assert.ErrorIs(t, err, ErrIllegalTransition)

		var terr *TransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, types.StateDraft, terr.From)
		assert.Equal(t, types.StateCompleted, terr.To)
	})

	t.Run("fail fast reports first violation", func(t *testing.T) {
		// Both an out-of-order timestamp at index 1 and an illegal
		// transition at index 2; only the earlier one surfaces.
		events := eventLog(types.StateDraft, types.StateReady, types.StateCompleted)
		events[1].Timestamp = events[0].Timestamp.Add(-time.Second)
		err := ValidateEventOrder(events, types.TypeIssue)
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})
}

// eventLog builds a log with one-minute spacing between events.
func eventLog(states ...types.State) []types.Event {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := make([]types.Event, len(states))
	for i, s := range states {
		events[i] = types.Event{
			State:     s,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Actor:     "alice (alice@example.com)",
			Trigger:   types.TriggerManual,
		}
	}
	return events
}
