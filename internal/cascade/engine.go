// Package cascade derives parent status from child statuses and generates
// the correlated system events that record automatic transitions.
package cascade

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kodebaseai/kodebase/internal/statemachine"
	"github.com/kodebaseai/kodebase/internal/types"
)

// Reason strings other components and tests match against.
const (
	ReasonAllChildrenCompleted = "All children completed"
	ReasonFirstChildStarted    = "First child started"
	ReasonNoActiveChildren     = "no active children"
)

// CurrentState returns an artifact's current status: the state of the
// last event in its log.
func CurrentState(a *types.Artifact) (types.State, error) {
	return statemachine.CurrentState(a.Events())
}

// ShouldCascadeToParent decides whether the children's statuses demand a
// parent transition. Cancelled children never count. The decision is a
// pure function of the children (plus parentState for the first-child
// rule), not a diff against the parent's current state: a parent already
// in in_review with all children completed still gets a positive result.
func ShouldCascadeToParent(children []*types.Artifact, parentState types.State) types.CascadeResult {
	states := make([]types.State, len(children))
	for i, c := range children {
		state, err := CurrentState(c)
		if err != nil {
			// A child with no events is draft-equivalent: active, not started.
			state = types.StateDraft
		}
		states[i] = state
	}
	return ShouldCascadeStates(states, parentState)
}

// ShouldCascadeStates is ShouldCascadeToParent over pre-resolved child
// states. The completion analyzer uses it to evaluate hypothetical
// completions without touching any event log.
func ShouldCascadeStates(childStates []types.State, parentState types.State) types.CascadeResult {
	active := 0
	completed := 0
	started := 0

	for _, state := range childStates {
		if state == types.StateCancelled {
			continue
		}
		active++
		switch state {
		case types.StateCompleted:
			completed++
			started++
		case types.StateInProgress, types.StateInReview:
			started++
		}
	}

	if active == 0 {
		return types.CascadeResult{Reason: ReasonNoActiveChildren}
	}

	if completed == active {
		return types.CascadeResult{
			ShouldCascade: true,
			NewState:      types.StateInReview,
			Reason:        ReasonAllChildrenCompleted,
		}
	}

	if parentState == types.StateReady && started > 0 {
		return types.CascadeResult{
			ShouldCascade: true,
			NewState:      types.StateInProgress,
			Reason:        ReasonFirstChildStarted,
		}
	}

	return types.CascadeResult{
		Reason: fmt.Sprintf("%d of %d active children not yet completed", active-completed, active),
	}
}

// GenerateCascadeEvent builds the system event recording an automatic
// transition. The event carries the fixed cascade actor and trigger, a
// fresh chain root, and correlation metadata copying the triggering
// event's state, actor, and timestamp so the chain can be traced back to
// the action that started it.
func GenerateCascadeEvent(newState types.State, trigger types.Event, cascadeType string) types.Event {
	return types.Event{
		State:     newState,
		Timestamp: time.Now().UTC(),
		Actor:     types.CascadeActor,
		Trigger:   types.TriggerDependencyCompleted,
		Metadata: map[string]string{
			types.MetaCascadeType:      cascadeType,
			types.MetaCascadeRoot:      uuid.NewString(),
			types.MetaTriggerEvent:     string(trigger.State),
			types.MetaTriggerActor:     trigger.Actor,
			types.MetaTriggerTimestamp: trigger.Timestamp.UTC().Format(time.RFC3339),
		},
	}
}

// ArchivedChild pairs a generated archival event with the artifact it
// belongs to, for the caller to persist.
type ArchivedChild struct {
	ArtifactID string      `json:"artifact_id"`
	Event      types.Event `json:"event"`
}

// ArchiveCancelledChildren emits an archival cascade event for every child
// currently in cancelled state, correlated to the parent's completion
// event. Non-cancelled children are untouched.
func ArchiveCancelledChildren(children []*types.Artifact, parentCompletion types.Event) []ArchivedChild {
	var archived []ArchivedChild
	for _, child := range children {
		state, err := CurrentState(child)
		if err != nil || state != types.StateCancelled {
			continue
		}
		ev := GenerateCascadeEvent(types.StateArchived, parentCompletion, types.CascadeArchiveOnParent)
		archived = append(archived, ArchivedChild{ArtifactID: child.ID, Event: ev})
	}
	return archived
}

// BlockedDependents returns the artifacts whose blocked_by lists
// cancelledID and whose current state is still blocked or draft, the
// only artifacts a cancellation can still affect. Anything already past
// that point is excluded.
func BlockedDependents(cancelledID string, artifacts map[string]*types.Artifact) []string {
	var dependents []string
	for id, a := range artifacts {
		if !contains(a.BlockedBy(), cancelledID) {
			continue
		}
		state, err := CurrentState(a)
		if err != nil {
			continue
		}
		if state == types.StateBlocked || state == types.StateDraft {
			dependents = append(dependents, id)
		}
	}
	sort.Strings(dependents)
	return dependents
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
