package hygiene

import (
	"fmt"
	"sort"
	"time"

	"github.com/kodebaseai/kodebase/internal/types"
)

// DuplicatePair records one detected duplicate and which side survived.
// Indices refer to the log as passed in, before any removal.
type DuplicatePair struct {
	KeptIndex    int    `json:"kept_index"`
	RemovedIndex int    `json:"removed_index"`
	Rule         string `json:"rule"`
}

// DetectDuplicates finds duplicate event pairs: same state, same actor,
// timestamps within cfg.Tolerance. For each pair the losing side is
// decided by the first tie-break rule that discriminates:
//
//  1. an event matching a manual-correction preserve pattern survives
//     over one that does not;
//  2. a human-actor event survives over a system/automation one;
//  3. within cfg.NearTieWindow, cfg.Policy decides;
//  4. otherwise the chronologically earlier event survives.
func DetectDuplicates(events []types.Event, cfg Config) []DuplicatePair {
	var pairs []DuplicatePair
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.State != b.State || a.Actor != b.Actor {
				continue
			}
			gap := b.Timestamp.Sub(a.Timestamp)
			if gap < 0 {
				gap = -gap
			}
			if gap > cfg.Tolerance {
				continue
			}
			pairs = append(pairs, resolveDuplicate(events, i, j, gap, cfg))
		}
	}
	return pairs
}

func resolveDuplicate(events []types.Event, i, j int, gap time.Duration, cfg Config) DuplicatePair {
	a, b := events[i], events[j]

	// Rule 1: preserve manual corrections.
	aCorr := cfg.isManualCorrection(a.Trigger, a.Metadata)
	bCorr := cfg.isManualCorrection(b.Trigger, b.Metadata)
	if aCorr != bCorr {
		if aCorr {
			return DuplicatePair{KeptIndex: i, RemovedIndex: j, Rule: "manual correction preserved"}
		}
		return DuplicatePair{KeptIndex: j, RemovedIndex: i, Rule: "manual correction preserved"}
	}

	// Rule 2: prefer human actors over automation.
	aHuman := cfg.isHumanActor(a.Actor)
	bHuman := cfg.isHumanActor(b.Actor)
	if aHuman != bHuman {
		if aHuman {
			return DuplicatePair{KeptIndex: i, RemovedIndex: j, Rule: "human actor preferred"}
		}
		return DuplicatePair{KeptIndex: j, RemovedIndex: i, Rule: "human actor preferred"}
	}

	earlier, later := i, j
	if b.Timestamp.Before(a.Timestamp) {
		earlier, later = j, i
	}

	// Rule 3: near-simultaneous events fall to the configured policy.
	if gap <= cfg.NearTieWindow {
		if cfg.Policy == KeepLast {
			return DuplicatePair{KeptIndex: later, RemovedIndex: earlier, Rule: fmt.Sprintf("near-tie policy %s", cfg.Policy)}
		}
		return DuplicatePair{KeptIndex: earlier, RemovedIndex: later, Rule: fmt.Sprintf("near-tie policy %s", KeepFirst)}
	}

	// Rule 4: keep the chronologically earlier event.
	return DuplicatePair{KeptIndex: earlier, RemovedIndex: later, Rule: "earlier event kept"}
}

// Deduplicate removes the losing event of every detected duplicate pair
// and returns the cleaned log plus the pairs found. An already-clean log
// comes back unchanged with no pairs.
func Deduplicate(events []types.Event, cfg Config) ([]types.Event, []DuplicatePair) {
	pairs := DetectDuplicates(events, cfg)
	if len(pairs) == 0 {
		return events, nil
	}

	removed := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		removed[p.RemovedIndex] = true
	}

	return removeIndices(events, removed), pairs
}

// removeIndices drops the marked indices, working from the highest down
// so earlier removals never shift the positions of later ones.
func removeIndices(events []types.Event, removed map[int]bool) []types.Event {
	indices := make([]int, 0, len(removed))
	for idx := range removed {
		indices = append(indices, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))

	out := make([]types.Event, len(events))
	copy(out, events)
	for _, idx := range indices {
		if idx < 0 || idx >= len(out) {
			continue
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}
