package hygiene

import (
	"fmt"

	"github.com/kodebaseai/kodebase/internal/types"
)

// StateViolation reports a state that appears more than once in a log.
type StateViolation struct {
	State       types.State `json:"state"`
	KeptIndex   int         `json:"kept_index"`
	RemovedIdxs []int       `json:"removed_indices"`
}

func (v StateViolation) String() string {
	return fmt.Sprintf("state %q recorded %d times; kept earliest at index %d",
		v.State, len(v.RemovedIdxs)+1, v.KeptIndex)
}

// EnforceStateConsistency keeps exactly one event per state: the
// chronologically earliest. All later events for an already-seen state
// are removed. Running it twice is the same as running it once.
//
// This runs after deduplication and orphan removal, on the shrunk log,
// so it only catches repeats those stages could not explain.
func EnforceStateConsistency(events []types.Event) ([]types.Event, []StateViolation) {
	byState := make(map[types.State][]int)
	for i, ev := range events {
		byState[ev.State] = append(byState[ev.State], i)
	}

	var violations []StateViolation
	removed := make(map[int]bool)
	for state, indices := range byState {
		if len(indices) < 2 {
			continue
		}

		keep := indices[0]
		for _, idx := range indices[1:] {
			if events[idx].Timestamp.Before(events[keep].Timestamp) {
				keep = idx
			}
		}

		v := StateViolation{State: state, KeptIndex: keep}
		for _, idx := range indices {
			if idx != keep {
				removed[idx] = true
				v.RemovedIdxs = append(v.RemovedIdxs, idx)
			}
		}
		violations = append(violations, v)
	}

	if len(violations) == 0 {
		return events, nil
	}
	return removeIndices(events, removed), violations
}
