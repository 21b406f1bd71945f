package hygiene

import (
	"fmt"
	"sort"

	"github.com/kodebaseai/kodebase/internal/types"
)

// AutoFix applies the mechanical repairs a log can receive without
// judgment calls: stable-sort by timestamp, relocate an existing draft
// event to the front if sorting alone did not put one there, and default
// any missing trigger to the manual marker. It returns the fixed log and
// a description of each fix applied; both input order and input events
// are left untouched.
func AutoFix(events []types.Event) ([]types.Event, []string) {
	if len(events) == 0 {
		return events, nil
	}

	fixed := make([]types.Event, len(events))
	copy(fixed, events)

	var fixes []string

	if !sort.SliceIsSorted(fixed, func(i, j int) bool {
		return fixed[i].Timestamp.Before(fixed[j].Timestamp)
	}) {
		sort.SliceStable(fixed, func(i, j int) bool {
			return fixed[i].Timestamp.Before(fixed[j].Timestamp)
		})
		fixes = append(fixes, "sorted events chronologically")
	}

	if fixed[0].State != types.StateDraft {
		for i, ev := range fixed {
			if ev.State == types.StateDraft {
				draft := fixed[i]
				copy(fixed[1:i+1], fixed[:i])
				fixed[0] = draft
				fixes = append(fixes, fmt.Sprintf("moved draft event from position %d to front", i))
				break
			}
		}
	}

	for i := range fixed {
		if fixed[i].Trigger == "" {
			fixed[i].Trigger = types.TriggerManual
			fixes = append(fixes, fmt.Sprintf("defaulted missing trigger on event %d to %q", i, types.TriggerManual))
		}
	}

	if len(fixes) == 0 {
		return events, nil
	}
	return fixed, fixes
}
