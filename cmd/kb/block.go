package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/artifact"
	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/debug"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/statemachine"
	"github.com/kodebaseai/kodebase/internal/types"
)

var blockCmd = &cobra.Command{
	Use:   "block <id> <blocker-id>",
	Short: "Record that one artifact blocks another",
	Long: `Block records the mirrored blocks/blocked_by pair on both artifacts
and, when the blocked artifact's lifecycle allows it, transitions it to
blocked with the given reason.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blockedID, blockerID := args[0], args[1]
		if blockedID == blockerID {
			return fmt.Errorf("an artifact cannot block itself")
		}

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

		artifact.AddBlocking(blocker, blocked)

		reason, _ := cmd.Flags().GetString("reason")
		if reason == "" {
			reason = "blocked by " + blockerID
		}

		state, err := cascade.CurrentState(blocked)
		if err == nil && statemachine.CanTransition(blocked.Type, state, types.StateBlocked) {
			metadata := map[string]string{types.MetaReason: reason}
			if _, err := cascade.PerformTransition(blocked, types.StateBlocked, actorName(), types.TriggerManual, metadata); err != nil {
				return err
			}
		} else {
			debug.Logf("edge recorded without transition: %s is %s\n", blockedID, state)
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

func init() {
	blockCmd.Flags().String("reason", "", "why the artifact is blocked")
	rootCmd.AddCommand(blockCmd)
}
