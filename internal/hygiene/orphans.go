package hygiene

import (
	"fmt"

	"github.com/kodebaseai/kodebase/internal/types"
)

// OrphanedEvent reports a cascade-annotated event whose correlation
// reference cannot be resolved against any earlier event in the same log.
type OrphanedEvent struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// DetectOrphans finds cascade events whose triggering reference does not
// resolve. An event referencing artifact V (via trigger_artifact) resolves
// when some earlier event carries V as its own cascade_root or
// trigger_artifact. Events that declare a cascade_root are chain roots:
// they are the marker others resolve against and are not checked
// themselves.
func DetectOrphans(events []types.Event) []OrphanedEvent {
	var orphans []OrphanedEvent
	for i, ev := range events {
		ref := ev.Meta(types.MetaTriggerArtifact)
		if ref == "" || ev.Meta(types.MetaCascadeRoot) != "" {
			continue
		}

		if !resolvesEarlier(events[:i], ref) {
			orphans = append(orphans, OrphanedEvent{
				Index:  i,
				Reason: fmt.Sprintf("cascade reference %q has no matching earlier event", ref),
			})
		}
	}
	return orphans
}

func resolvesEarlier(earlier []types.Event, ref string) bool {
	for _, ev := range earlier {
		if ev.Meta(types.MetaCascadeRoot) == ref || ev.Meta(types.MetaTriggerArtifact) == ref {
			return true
		}
	}
	return false
}

// RemoveOrphans drops every orphaned event and returns the cleaned log
// plus the orphans found, using the same highest-index-first removal as
// deduplication.
func RemoveOrphans(events []types.Event) ([]types.Event, []OrphanedEvent) {
	orphans := DetectOrphans(events)
	if len(orphans) == 0 {
		return events, nil
	}

	removed := make(map[int]bool, len(orphans))
	for _, o := range orphans {
		removed[o.Index] = true
	}
	return removeIndices(events, removed), orphans
}
