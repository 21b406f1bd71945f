package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/batch"
	"github.com/kodebaseai/kodebase/internal/hygiene"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [id]",
	Short: "Check event logs for sequence and cascade-chain problems",
	Long: `Validate runs the advisory checks over one artifact's event log, or
over every artifact with --all: first-event, ordering, legal-transition,
missing-trigger, and broken cascade chains. Findings are reported with a
suggested fix; nothing is modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("artifact ID required (or --all)")
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		if !all {
			a, err := ws.store.Load(args[0])
			if err != nil {
				return err
			}
			violations := checkLog(a)
			fmt.Print(report.Violations(a.ID, violations))
			if len(violations) > 0 {
				return fmt.Errorf("%d violation(s) in %s", len(violations), a.ID)
			}
			return nil
		}

		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		results, err := batch.Map(cmd.Context(), artifacts, concurrency,
			func(_ context.Context, _ string, a *types.Artifact) ([]hygiene.Violation, error) {
				return checkLog(a), nil
			})
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(results))
		for id := range results {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		total := 0
		for _, id := range ids {
			violations := results[id].Value
			total += len(violations)
			fmt.Print(report.Violations(id, violations))
		}
		if total > 0 {
			return fmt.Errorf("%d violation(s) across %d artifact(s)", total, len(ids))
		}
		return nil
	},
}

// checkLog runs the advisory sequence checks plus the cascade chain
// integrity check on one artifact.
func checkLog(a *types.Artifact) []hygiene.Violation {
	violations := hygiene.ValidateSequence(a.Events(), a.Type)
	return append(violations, hygiene.CheckChainIntegrity(a.Events())...)
}

func init() {
	validateCmd.Flags().Bool("all", false, "validate every artifact in the workspace")
	validateCmd.Flags().Int("concurrency", 0, "parallel validations with --all (0 = default)")
	rootCmd.AddCommand(validateCmd)
}
