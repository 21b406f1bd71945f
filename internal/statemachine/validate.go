package statemachine

import "github.com/kodebaseai/kodebase/internal/types"

// CurrentState returns the state of the last event in the log.
func CurrentState(events []types.Event) (types.State, error) {
	if len(events) == 0 {
		return "", &TransitionError{Kind: ErrEmptyLog}
	}
	return events[len(events)-1].State, nil
}

// ValidateEventOrder checks a whole event log against the transition table
// and fails fast on the first violation: the log must be non-empty, open
// with draft, carry non-decreasing timestamps, and every adjacent state
// pair must be a legal transition for the artifact type.
//
// This is the hard gate used before trusting a log. The hygiene package
// has an advisory variant that collects every violation instead.
func ValidateEventOrder(events []types.Event, typ types.ArtifactType) error {
	if len(events) == 0 {
		return &TransitionError{Kind: ErrEmptyLog, Type: typ}
	}

	if first := events[0].State; first != InitialState {
		return transitionErrf(ErrInvalidFirstEvent, typ, 0, "", first,
			"log opens with %q", first)
	}

	for i := 1; i < len(events); i++ {
		prev, curr := events[i-1], events[i]

		if curr.Timestamp.Before(prev.Timestamp) {
			return transitionErrf(ErrOutOfOrder, typ, i, prev.State, curr.State,
				"event %d at %s precedes event %d at %s",
				i, curr.Timestamp.Format(timeLayout), i-1, prev.Timestamp.Format(timeLayout))
		}

		if !CanTransition(typ, prev.State, curr.State) {
			return transitionErrf(ErrIllegalTransition, typ, i, prev.State, curr.State,
				"%s -> %s is not permitted for %s", prev.State, curr.State, typ)
		}
	}

	return nil
}

// timeLayout matches the timestamp format the artifact files use.
const timeLayout = "2006-01-02T15:04:05Z07:00"
