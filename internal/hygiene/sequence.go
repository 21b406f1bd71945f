package hygiene

import (
	"fmt"

	"github.com/kodebaseai/kodebase/internal/statemachine"
	"github.com/kodebaseai/kodebase/internal/types"
)

// Violation is one advisory finding from sequence validation: where it
// is, what kind it is, and a suggested remediation. Unlike the hard
// validator, nothing here ever throws; callers decide whether a list of
// violations blocks or merely warns.
type Violation struct {
	Index   int    `json:"index"`
	Kind    error  `json:"-"`
	Message string `json:"message"`
	Fix     string `json:"fix"`
}

// ValidateSequence re-runs every check the hard validator makes, plus a
// missing-trigger check, but collects all violations instead of stopping
// at the first.
func ValidateSequence(events []types.Event, typ types.ArtifactType) []Violation {
	if len(events) == 0 {
		return []Violation{{
			Index:   0,
			Kind:    statemachine.ErrEmptyLog,
			Message: "event log is empty",
			Fix:     "record an initial draft event for the artifact",
		}}
	}

	var violations []Violation

	if first := events[0].State; first != statemachine.InitialState {
		violations = append(violations, Violation{
			Index:   0,
			Kind:    statemachine.ErrInvalidFirstEvent,
			Message: fmt.Sprintf("log opens with %q instead of %q", first, statemachine.InitialState),
			Fix:     "run auto-fix to sort the log and relocate the draft event to the front",
		})
	}

	for i, ev := range events {
		if ev.Trigger == "" {
			violations = append(violations, Violation{
				Index:   i,
				Kind:    statemachine.ErrMissingTrigger,
				Message: fmt.Sprintf("event %d (%s) has no trigger", i, ev.State),
				Fix:     fmt.Sprintf("set trigger to %q or the action that caused the change", types.TriggerManual),
			})
		}

		if i == 0 {
			continue
		}
		prev := events[i-1]

		if ev.Timestamp.Before(prev.Timestamp) {
			violations = append(violations, Violation{
				Index:   i,
				Kind:    statemachine.ErrOutOfOrder,
				Message: fmt.Sprintf("event %d (%s) is timestamped before event %d (%s)", i, ev.State, i-1, prev.State),
				Fix:     "run auto-fix to sort events chronologically",
			})
		}

		if !statemachine.CanTransition(typ, prev.State, ev.State) {
			violations = append(violations, Violation{
				Index:   i,
				Kind:    statemachine.ErrIllegalTransition,
				Message: fmt.Sprintf("%s -> %s is not a legal %s transition", prev.State, ev.State, typ),
				Fix:     fmt.Sprintf("insert the intermediate transition(s) or remove event %d", i),
			})
		}
	}

	return violations
}
