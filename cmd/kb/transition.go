package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/debug"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/statemachine"
	"github.com/kodebaseai/kodebase/internal/types"
)

var transitionCmd = &cobra.Command{
	Use:   "transition <id> <state>",
	Short: "Record a state change on an artifact",
	Long: `Transition validates the change against the artifact's lifecycle and
appends the event. Moving to blocked requires --reason. Afterward the
parent is checked: a first child starting moves a ready parent to
in_progress automatically.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		to := types.State(args[1])
		if !to.IsValid() {
			return fmt.Errorf("unknown state %q", args[1])
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}
		a, ok := artifacts[id]
		if !ok {
			return fmt.Errorf("no artifact %q in workspace", id)
		}

		trigger, _ := cmd.Flags().GetString("trigger")
		reason, _ := cmd.Flags().GetString("reason")
		var metadata map[string]string
		if reason != "" {
			metadata = map[string]string{types.MetaReason: reason}
		}

		ev, err := cascade.PerformTransition(a, to, actorName(), trigger, metadata)
		if err != nil {
			return err
		}
		if err := ws.store.Save(a); err != nil {
			return err
		}
		debug.PrintNormal("%s\n", report.ArtifactLine(a))

		return cascadeAncestors(ws, artifacts, id, ev)
	},
}

// cascadeAncestors walks the dotted ancestry after a child transition and
// applies any automatic parent transition the children's states now
// demand. An in_review parent never completes its own parent, so the
// walk settles after at most one completion hop.
func cascadeAncestors(ws *workspace, artifacts map[string]*types.Artifact, id string, trigger types.Event) error {
	index := types.BuildChildIndex(artifacts)

	for _, ancestor := range types.Ancestors(id) {
		parent, ok := artifacts[ancestor]
		if !ok {
			continue
		}

		parentState, err := cascade.CurrentState(parent)
		if err != nil {
			continue
		}

		children := make([]*types.Artifact, 0)
		for _, cid := range index.Children(ancestor) {
			if child, ok := artifacts[cid]; ok {
				children = append(children, child)
			}
		}

		decision := cascade.ShouldCascadeToParent(children, parentState)
		if !decision.ShouldCascade || decision.NewState == parentState {
			continue
		}
		if !statemachine.CanTransition(parent.Type, parentState, decision.NewState) {
			debug.Logf("cascade to %s suppressed: %s -> %s not legal\n", ancestor, parentState, decision.NewState)
			continue
		}

		cascadeType := types.CascadeChildrenCompleted
		if decision.NewState == types.StateInProgress {
			cascadeType = types.CascadeFirstChildStarted
		}

		ev := cascade.GenerateCascadeEvent(decision.NewState, trigger, cascadeType)
		ev.Metadata[types.MetaTriggerArtifact] = id
		ev.Metadata[types.MetaReason] = decision.Reason
		parent.Metadata.Events = append(parent.Metadata.Events, ev)

		if err := ws.store.Save(parent); err != nil {
			return err
		}
		debug.PrintNormal("%s %s cascaded to %s (%s)\n",
			report.PassStyle.Render(report.IconPass), ancestor, decision.NewState, decision.Reason)
	}
	return nil
}

func init() {
	transitionCmd.Flags().String("trigger", "", "what caused the change (default: manual)")
	transitionCmd.Flags().String("reason", "", "reason metadata (required when moving to blocked)")
	rootCmd.AddCommand(transitionCmd)
}
