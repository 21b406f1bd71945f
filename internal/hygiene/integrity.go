package hygiene

import (
	"errors"
	"fmt"

	"github.com/kodebaseai/kodebase/internal/types"
)

// ErrBrokenChain marks a cascade event whose correlation reference is
// structurally unusable.
var ErrBrokenChain = errors.New("broken cascade chain reference")

// Sentinel values that mark an unresolvable trigger-artifact reference.
var missingRefSentinels = map[string]bool{
	"missing": true,
	"unknown": true,
}

// CheckChainIntegrity flags cascade-generated events whose triggering
// artifact reference is structurally broken: empty or pointing at a
// "missing"/"unknown" sentinel. Unlike orphan detection it never resolves
// references against other events; it only checks that each reference
// could be resolved at all.
func CheckChainIntegrity(events []types.Event) []Violation {
	var violations []Violation
	for i, ev := range events {
		if !ev.IsCascadeGenerated() {
			continue
		}

		ref := ev.Meta(types.MetaTriggerArtifact)
		switch {
		case ref == "" && ev.Meta(types.MetaCascadeRoot) == "":
			violations = append(violations, Violation{
				Index:   i,
				Kind:    ErrBrokenChain,
				Message: fmt.Sprintf("cascade event %d (%s) carries no trigger artifact or cascade root", i, ev.State),
				Fix:     "re-generate the event through the cascade engine so correlation metadata is populated",
			})
		case missingRefSentinels[ref]:
			violations = append(violations, Violation{
				Index:   i,
				Kind:    ErrBrokenChain,
				Message: fmt.Sprintf("cascade event %d (%s) references sentinel trigger artifact %q", i, ev.State, ref),
				Fix:     "replace the sentinel with the real triggering artifact ID, or remove the event",
			})
		}
	}
	return violations
}
