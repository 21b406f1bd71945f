// Package statemachine defines the per-artifact-type transition table and
// validates single transitions and whole event logs against it.
package statemachine

import "github.com/kodebaseai/kodebase/internal/types"

// lifecycle is the shared transition shape. All three artifact types use
// it today; the table stays keyed by type so they can diverge later
// without changing the lookup contract.
//
// completed and archived are terminal. cancelled is the only state that
// can go back to draft (reactivation) or forward to archived.
var lifecycle = map[types.State][]types.State{
	types.StateDraft:      {types.StateReady, types.StateBlocked, types.StateCancelled},
	types.StateReady:      {types.StateInProgress, types.StateBlocked, types.StateCancelled},
	types.StateInProgress: {types.StateInReview, types.StateBlocked, types.StateCancelled},
	types.StateInReview:   {types.StateCompleted, types.StateInProgress, types.StateBlocked, types.StateCancelled},
	types.StateBlocked:    {types.StateReady, types.StateInProgress, types.StateCancelled},
	types.StateCancelled:  {types.StateDraft, types.StateArchived},
	types.StateCompleted:  {},
	types.StateArchived:   {},
}

var transitions = map[types.ArtifactType]map[types.State][]types.State{
	types.TypeInitiative: lifecycle,
	types.TypeMilestone:  lifecycle,
	types.TypeIssue:      lifecycle,
}

// CanTransition reports whether the table permits from -> to for the given
// artifact type. Unknown types or states permit nothing.
func CanTransition(typ types.ArtifactType, from, to types.State) bool {
	table, ok := transitions[typ]
	if !ok {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidTransitions returns the states reachable from the given state.
// Empty for unknown types, unknown states, and terminal states.
func ValidTransitions(typ types.ArtifactType, from types.State) []types.State {
	table, ok := transitions[typ]
	if !ok {
		return nil
	}
	next := table[from]
	if len(next) == 0 {
		return nil
	}
	out := make([]types.State, len(next))
	copy(out, next)
	return out
}

// InitialState is the state every artifact log must open with.
const InitialState = types.StateDraft
