package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/analyzer"
	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/debug"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/types"
)

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete an artifact and apply its cascades",
	Long: `Complete records the completed event, cascades the status up the
ancestry (a parent whose active children are all completed moves to
in_review), archives the artifact's cancelled children, and reports
which blocked artifacts the completion opens up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

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

		// Advisory analysis first, against the untouched tree.
		analysis := analyzer.AnalyzeCompletionCascade(id, artifacts)

		ev, err := cascade.PerformTransition(a, types.StateCompleted, actorName(), types.TriggerManual, nil)
		if err != nil {
			return err
		}
		if err := ws.store.Save(a); err != nil {
			return err
		}
		debug.PrintNormal("%s\n", report.ArtifactLine(a))

		if err := cascadeAncestors(ws, artifacts, id, ev); err != nil {
			return err
		}

		if err := archiveCancelled(ws, artifacts, id, ev); err != nil {
			return err
		}

		fmt.Print(report.CompletionCascade(analysis))
		return nil
	},
}

// archiveCancelled sweeps the completed artifact's cancelled children
// into archived, correlated to the completion event.
func archiveCancelled(ws *workspace, artifacts map[string]*types.Artifact, id string, completion types.Event) error {
	index := types.BuildChildIndex(artifacts)

	children := make([]*types.Artifact, 0)
	for _, cid := range index.Children(id) {
		if child, ok := artifacts[cid]; ok {
			children = append(children, child)
		}
	}

	for _, archived := range cascade.ArchiveCancelledChildren(children, completion) {
		child := artifacts[archived.ArtifactID]
		child.Metadata.Events = append(child.Metadata.Events, archived.Event)
		if err := ws.store.Save(child); err != nil {
			return err
		}
		debug.PrintNormal("%s %s archived\n", report.MutedStyle.Render("▣"), archived.ArtifactID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
