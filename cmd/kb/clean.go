package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/batch"
	"github.com/kodebaseai/kodebase/internal/debug"
	"github.com/kodebaseai/kodebase/internal/hygiene"
	"github.com/kodebaseai/kodebase/internal/report"
	"github.com/kodebaseai/kodebase/internal/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [id]",
	Short: "Remove duplicate, orphaned, and inconsistent events",
	Long: `Clean runs the hygiene stages over one artifact's event log, or over
every artifact with --all: duplicate removal, orphaned cascade-event
removal, and one-event-per-state enforcement. With --fix, mechanical
repairs (chronological sort, draft relocation, default triggers) run
first. The default is a dry run; pass --write to persist.`,
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

		cfg := hygieneConfig(cmd, ws)
		fix, _ := cmd.Flags().GetBool("fix")
		write, _ := cmd.Flags().GetBool("write")

		if !all {
			a, err := ws.store.Load(args[0])
			if err != nil {
				return err
			}
			return cleanOne(ws, a, cfg, fix, write)
		}

		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		// The cleanup pass is pure; only the sequential save below mutates.
		results, err := batch.Map(cmd.Context(), artifacts, concurrency,
			func(_ context.Context, _ string, a *types.Artifact) (cleanOutcome, error) {
				return runCleanup(a.Events(), cfg, fix), nil
			})
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(results))
		for id := range results {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			outcome := results[id].Value
			fmt.Print(report.Cleanup(id, outcome.report))
			for _, f := range outcome.fixes {
				debug.PrintNormal("  fixed: %s\n", f)
			}
			if write && (outcome.report.Changed || len(outcome.fixes) > 0) {
				a := artifacts[id]
				a.Metadata.Events = outcome.events
				if err := ws.store.Save(a); err != nil {
					return err
				}
			}
		}
		if !write {
			debug.PrintNormal("dry run: pass --write to persist changes\n")
		}
		return nil
	},
}

type cleanOutcome struct {
	events []types.Event
	fixes  []string
	report hygiene.CleanupReport
}

func runCleanup(events []types.Event, cfg hygiene.Config, fix bool) cleanOutcome {
	outcome := cleanOutcome{events: events}
	if fix {
		outcome.events, outcome.fixes = hygiene.AutoFix(outcome.events)
	}
	outcome.events, outcome.report = hygiene.Cleanup(outcome.events, cfg)
	return outcome
}

func cleanOne(ws *workspace, a *types.Artifact, cfg hygiene.Config, fix, write bool) error {
	outcome := runCleanup(a.Events(), cfg, fix)
	fmt.Print(report.Cleanup(a.ID, outcome.report))
	for _, f := range outcome.fixes {
		debug.PrintNormal("  fixed: %s\n", f)
	}

	if !outcome.report.Changed && len(outcome.fixes) == 0 {
		return nil
	}
	if !write {
		debug.PrintNormal("dry run: pass --write to persist changes\n")
		return nil
	}

	a.Metadata.Events = outcome.events
	return ws.store.Save(a)
}

// hygieneConfig layers the command flags over the workspace overrides.
func hygieneConfig(cmd *cobra.Command, ws *workspace) hygiene.Config {
	cfg := ws.cfg.HygieneConfig()

	if cmd.Flags().Changed("tolerance") {
		seconds, _ := cmd.Flags().GetInt("tolerance")
		cfg.Tolerance = time.Duration(seconds) * time.Second
	}
	if keepLast, _ := cmd.Flags().GetBool("keep-last"); keepLast {
		cfg.Policy = hygiene.KeepLast
	}
	if noDedupe, _ := cmd.Flags().GetBool("no-dedupe"); noDedupe {
		cfg.Deduplicate = false
	}
	if noOrphans, _ := cmd.Flags().GetBool("no-orphans"); noOrphans {
		cfg.RemoveOrphans = false
	}
	if noConsistency, _ := cmd.Flags().GetBool("no-consistency"); noConsistency {
		cfg.StateConsistency = false
	}
	return cfg
}

func init() {
	cleanCmd.Flags().Bool("all", false, "clean every artifact in the workspace")
	cleanCmd.Flags().Int("concurrency", 0, "parallel cleanups with --all (0 = default)")
	cleanCmd.Flags().Int("tolerance", 0, "duplicate detection window in seconds")
	cleanCmd.Flags().Bool("keep-last", false, "keep the later event of a near-tie duplicate pair")
	cleanCmd.Flags().Bool("no-dedupe", false, "skip duplicate removal")
	cleanCmd.Flags().Bool("no-orphans", false, "skip orphaned cascade-event removal")
	cleanCmd.Flags().Bool("no-consistency", false, "skip one-event-per-state enforcement")
	cleanCmd.Flags().Bool("fix", false, "apply mechanical auto-fixes before cleanup")
	cleanCmd.Flags().Bool("write", false, "persist changes (default is a dry run)")
	rootCmd.AddCommand(cleanCmd)
}
