package cascade

import (
	"time"

	"github.com/kodebaseai/kodebase/internal/statemachine"
	"github.com/kodebaseai/kodebase/internal/types"
)

// PerformTransition validates and appends a state-change event to the
// artifact's log. This is the hard-validation path: the first violation
// aborts and nothing is appended. It is also the only kernel call that
// mutates its argument; the caller lends the artifact exclusively for the
// duration of the call.
//
// The blocked state additionally requires a reason in the event metadata,
// enforced here and nowhere else.
func PerformTransition(a *types.Artifact, to types.State, actor, trigger string, metadata map[string]string) (types.Event, error) {
	from, err := CurrentState(a)
	if err != nil {
		return types.Event{}, err
	}

	if !statemachine.CanTransition(a.Type, from, to) {
		return types.Event{}, &statemachine.TransitionError{
			Kind: statemachine.ErrIllegalTransition,
			Type: a.Type,
			From: from,
			To:   to,
			Msg:  string(from) + " -> " + string(to) + " is not permitted for " + string(a.Type),
		}
	}

	if to == types.StateBlocked && metadata[types.MetaReason] == "" {
		return types.Event{}, &statemachine.TransitionError{
			Kind: statemachine.ErrBlockedMissingReason,
			Type: a.Type,
			From: from,
			To:   to,
		}
	}

	if trigger == "" {
		trigger = types.TriggerManual
	}

	ev := types.Event{
		State:     to,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Trigger:   trigger,
		Metadata:  metadata,
	}
	a.Metadata.Events = append(a.Metadata.Events, ev)
	return ev, nil
}

// InitializeLog records the opening draft event for an artifact that has
// never received one.
func InitializeLog(a *types.Artifact, actor string) (types.Event, error) {
	if len(a.Events()) > 0 {
		return types.Event{}, &statemachine.TransitionError{
			Kind: statemachine.ErrInvalidFirstEvent,
			Type: a.Type,
			Msg:  "log already has events",
		}
	}
	ev := types.Event{
		State:     statemachine.InitialState,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Trigger:   types.TriggerManual,
	}
	a.Metadata.Events = append(a.Metadata.Events, ev)
	return ev, nil
}
