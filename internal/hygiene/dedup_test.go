package hygiene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodebaseai/kodebase/internal/types"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ev(state types.State, offset time.Duration, actor string) types.Event {
	return types.Event{
		State:     state,
		Timestamp: base.Add(offset),
		Actor:     actor,
		Trigger:   types.TriggerManual,
	}
}

func TestDeduplicateCleanLogRoundTrip(t *testing.T) {
	events := []types.Event{
		ev(types.StateDraft, 0, "alice"),
		ev(types.StateReady, time.Hour, "alice"),
		ev(types.StateInProgress, 2*time.Hour, "alice"),
	}

	cleaned, pairs := Deduplicate(events, DefaultConfig())

	assert.Empty(t, pairs)
	assert.Equal(t, events, cleaned, "clean log must come back identical")
}

func TestDeduplicateWithinTolerance(t *testing.T) {
	events := []types.Event{
		ev(types.StateDraft, 0, "alice"),
		ev(types.StateReady, time.Hour, "alice"),
		ev(types.StateReady, time.Hour+30*time.Second, "alice"),
	}

	cleaned, pairs := Deduplicate(events, DefaultConfig())

	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].KeptIndex)
	assert.Equal(t, 2, pairs[0].RemovedIndex)
	require.Len(t, cleaned, 2)
	assert.Equal(t, base.Add(time.Hour), cleaned[1].Timestamp)
}

func TestDeduplicateOutsideToleranceUntouched(t *testing.T) {
	events := []types.Event{
		ev(types.StateDraft, 0, "alice"),
		ev(types.StateReady, time.Hour, "alice"),
		ev(types.StateReady, time.Hour+5*time.Minute, "alice"),
	}

	_, pairs := Deduplicate(events, DefaultConfig())
	assert.Empty(t, pairs, "5 minutes apart exceeds the 60s tolerance")
}

func TestDeduplicateDifferentActorsNotDuplicates(t *testing.T) {
	events := []types.Event{
		ev(types.StateReady, 0, "alice"),
		ev(types.StateReady, 10*time.Second, "bob"),
	}
	_, pairs := Deduplicate(events, DefaultConfig())
	assert.Empty(t, pairs)
}

func TestTieBreakManualCorrectionWins(t *testing.T) {
	correction := ev(types.StateReady, time.Hour+20*time.Second, "alice")
	correction.Trigger = "manual_correction"
	events := []types.Event{
		ev(types.StateReady, time.Hour, "alice"),
		correction,
	}

	cleaned, pairs := Deduplicate(events, DefaultConfig())

	require.Len(t, pairs, 1)
	assert.Equal(t, "manual correction preserved", pairs[0].Rule)
	assert.Equal(t, 1, pairs[0].KeptIndex, "correction survives even though it is later")
	require.Len(t, cleaned, 1)
	assert.Equal(t, "manual_correction", cleaned[0].Trigger)
}

func TestTieBreakNearTiePolicy(t *testing.T) {
	events := []types.Event{
		ev(types.StateReady, 0, "alice"),
		ev(types.StateReady, 500*time.Millisecond, "alice"),
	}

	t.Run("keep first by default", func(t *testing.T) {
		cleaned, pairs := Deduplicate(events, DefaultConfig())
		require.Len(t, pairs, 1)
		assert.Equal(t, 0, pairs[0].KeptIndex)
		require.Len(t, cleaned, 1)
		assert.Equal(t, base, cleaned[0].Timestamp)
	})

	t.Run("keep last when configured", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Policy = KeepLast
		cleaned, pairs := Deduplicate(events, cfg)
		require.Len(t, pairs, 1)
		assert.Equal(t, 1, pairs[0].KeptIndex)
		require.Len(t, cleaned, 1)
		assert.Equal(t, base.Add(500*time.Millisecond), cleaned[0].Timestamp)
	})
}

func TestTieBreakEarlierWinsBeyondNearTie(t *testing.T) {
	events := []types.Event{
		ev(types.StateReady, 30*time.Second, "alice"),
		ev(types.StateReady, 0, "alice"),
	}

	cleaned, pairs := Deduplicate(events, DefaultConfig())

	require.Len(t, pairs, 1)
	assert.Equal(t, "earlier event kept", pairs[0].Rule)
	assert.Equal(t, 1, pairs[0].KeptIndex, "index 1 holds the earlier timestamp")
	require.Len(t, cleaned, 1)
	assert.Equal(t, base, cleaned[0].Timestamp)
}

func TestRemovalIndicesAppliedHighToLow(t *testing.T) {
	// Two separate duplicate pairs; removing the lower index first would
	// shift the higher one onto the wrong event.
	events := []types.Event{
		ev(types.StateDraft, 0, "alice"),
		ev(types.StateDraft, 10*time.Second, "alice"),
		ev(types.StateReady, time.Hour, "alice"),
		ev(types.StateReady, time.Hour+10*time.Second, "alice"),
		ev(types.StateInProgress, 2*time.Hour, "alice"),
	}

	cleaned, pairs := Deduplicate(events, DefaultConfig())

	assert.Len(t, pairs, 2)
	require.Len(t, cleaned, 3)
	assert.Equal(t, types.StateDraft, cleaned[0].State)
	assert.Equal(t, types.StateReady, cleaned[1].State)
	assert.Equal(t, types.StateInProgress, cleaned[2].State)
	assert.Equal(t, base, cleaned[0].Timestamp)
	assert.Equal(t, base.Add(time.Hour), cleaned[1].Timestamp)
}
