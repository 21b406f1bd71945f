package hygiene

import (
	"fmt"

	"github.com/kodebaseai/kodebase/internal/types"
)

// CleanupReport summarizes what composite cleanup did to a log.
type CleanupReport struct {
	Duplicates      []DuplicatePair  `json:"duplicates,omitempty"`
	Orphans         []OrphanedEvent  `json:"orphans,omitempty"`
	StateViolations []StateViolation `json:"state_violations,omitempty"`
	Summary         []string         `json:"summary"`
	Changed         bool             `json:"changed"`
}

// Cleanup runs the hygiene stages in their fixed order (deduplication,
// orphan removal, state-consistency enforcement), each on the previous
// stage's output. Stages are individually toggleable via cfg.
func Cleanup(events []types.Event, cfg Config) ([]types.Event, CleanupReport) {
	report := CleanupReport{}
	cleaned := events

	if cfg.Deduplicate {
		var pairs []DuplicatePair
		cleaned, pairs = Deduplicate(cleaned, cfg)
		if len(pairs) > 0 {
			report.Duplicates = pairs
			report.Changed = true
			report.Summary = append(report.Summary,
				fmt.Sprintf("removed %d duplicate event(s)", len(pairs)))
		}
	}

	if cfg.RemoveOrphans {
		var orphans []OrphanedEvent
		cleaned, orphans = RemoveOrphans(cleaned)
		if len(orphans) > 0 {
			report.Orphans = orphans
			report.Changed = true
			report.Summary = append(report.Summary,
				fmt.Sprintf("removed %d orphaned cascade event(s)", len(orphans)))
		}
	}

	if cfg.StateConsistency {
		var violations []StateViolation
		cleaned, violations = EnforceStateConsistency(cleaned)
		if len(violations) > 0 {
			report.StateViolations = violations
			report.Changed = true
			for _, v := range violations {
				report.Summary = append(report.Summary, v.String())
			}
		}
	}

	if !report.Changed {
		report.Summary = append(report.Summary, "event log already clean")
	}
	return cleaned, report
}
