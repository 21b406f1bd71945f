package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/artifact"
	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/debug"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/types"
)

var unblockCmd = &cobra.Command{
	Use:   "unblock <id> <blocker-id>",
	Short: "Remove a blocking relationship",
	Long: `Unblock removes the mirrored blocks/blocked_by pair. When the removed
edge was the artifact's last outstanding blocker and the artifact is
currently blocked, it transitions back to ready.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blockedID, blockerID := args[0], args[1]

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}

		blocked, ok := artifacts[blockedID]
		if !ok {
			return fmt.Errorf("no artifact %q in workspace", blockedID)
		}
		blocker, ok := artifacts[blockerID]
		if !ok {
			return fmt.Errorf("no artifact %q in workspace", blockerID)
		}

		artifact.RemoveBlocking(blocker, blocked)

		state, err := cascade.CurrentState(blocked)
		if err == nil && state == types.StateBlocked && !hasOutstandingBlockers(blocked, artifacts) {
			if _, err := cascade.PerformTransition(blocked, types.StateReady, actorName(), types.TriggerManual, nil); err != nil {
				return err
			}
		}

		if err := ws.store.Save(blocker); err != nil {
			return err
		}
		if err := ws.store.Save(blocked); err != nil {
			return err
		}

		debug.PrintNormal("%s\n", report.ArtifactLine(blocked))
		return nil
	},
}

// hasOutstandingBlockers reports whether any remaining blocker is not yet
// completed or cancelled. Blockers missing from the workspace count as
// outstanding.
func hasOutstandingBlockers(a *types.Artifact, artifacts map[string]*types.Artifact) bool {
	for _, id := range a.BlockedBy() {
		b, ok := artifacts[id]
		if !ok {
			return true
		}
		state, err := cascade.CurrentState(b)
		if err != nil {
			return true
		}
		if state != types.StateCompleted && state != types.StateCancelled {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(unblockCmd)
}
