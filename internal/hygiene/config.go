// Package hygiene cleans raw event logs before the rest of the kernel
// trusts them: duplicate removal, orphaned cascade references, one event
// per state, advisory sequence validation, and mechanical auto-fixes.
//
// Everything here is pure: callers pass a Config per call and get a new
// log back. The only thing hygiene ever does to a log is remove provably
// bad entries; it never rewrites surviving events.
package hygiene

import (
	"strings"
	"time"
)

// DuplicatePolicy decides which of two near-simultaneous duplicate events
// survives when no other tie-break rule applies.
type DuplicatePolicy string

const (
	// KeepFirst keeps the chronologically earlier event (default).
	KeepFirst DuplicatePolicy = "keep_first"
	// KeepLast keeps the chronologically later event.
	KeepLast DuplicatePolicy = "keep_last"
)

// Config controls the hygiene stages. The zero value is not usable;
// start from DefaultConfig and override.
type Config struct {
	// Tolerance is the window within which two events sharing state and
	// actor count as a duplicate pair.
	Tolerance time.Duration

	// NearTieWindow is the window within which the Policy, rather than
	// chronology, decides which duplicate survives.
	NearTieWindow time.Duration

	// Policy breaks near-ties.
	Policy DuplicatePolicy

	// PreservePatterns are substrings matched against an event's trigger
	// and metadata to mark it as a manual correction. A matching event
	// always survives over a non-matching duplicate.
	PreservePatterns []string

	// SystemActorMarkers identify automation actors. A human event
	// survives over a system event in a duplicate pair.
	SystemActorMarkers []string

	// Stage toggles for composite cleanup.
	Deduplicate      bool
	RemoveOrphans    bool
	StateConsistency bool
}

// DefaultConfig returns the documented hygiene defaults: 60s duplicate
// tolerance, 1s near-tie window resolved keep-first, and all stages on.
func DefaultConfig() Config {
	return Config{
		Tolerance:          60 * time.Second,
		NearTieWindow:      time.Second,
		Policy:             KeepFirst,
		PreservePatterns:   []string{"manual_correction", "correction"},
		SystemActorMarkers: []string{"[bot]", "system"},
		Deduplicate:        true,
		RemoveOrphans:      true,
		StateConsistency:   true,
	}
}

// isManualCorrection reports whether the event carries a preserve marker
// in its trigger or any metadata value.
func (c Config) isManualCorrection(trigger string, metadata map[string]string) bool {
	for _, pat := range c.PreservePatterns {
		if pat == "" {
			continue
		}
		if strings.Contains(trigger, pat) {
			return true
		}
		for _, v := range metadata {
			if strings.Contains(v, pat) {
				return true
			}
		}
	}
	return false
}

// isHumanActor reports whether the actor looks like a person rather than
// an automation identity.
func (c Config) isHumanActor(actor string) bool {
	lowered := strings.ToLower(actor)
	for _, marker := range c.SystemActorMarkers {
		if marker != "" && strings.Contains(lowered, strings.ToLower(marker)) {
			return false
		}
	}
	return true
}
