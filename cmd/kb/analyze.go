package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/analyzer"
	"github.com/kodebaseai/kodebase/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [id]",
	Short: "Predict the effects of completing an artifact",
	Long: `Analyze simulates completing the given artifact without touching any
event log: which blocked artifacts open up, which ancestors would
auto-complete, and what that unblocks in turn. With --full, every
artifact in the workspace is analyzed and circular dependencies are
reported. Output is advisory; nothing is modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		asJSON, _ := cmd.Flags().GetBool("json")
		if !full && len(args) == 0 {
			return fmt.Errorf("artifact ID required (or --full)")
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}

		if full {
			analysis := analyzer.AnalyzeFullCascade(artifacts)
			if asJSON {
				return writeJSON(analysis)
			}
			fmt.Print(report.FullAnalysis(analysis))
			return nil
		}

		result := analyzer.AnalyzeCompletionCascade(args[0], artifacts)
		if asJSON {
			return writeJSON(result)
		}
		fmt.Print(report.CompletionCascade(result))
		return nil
	},
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	analyzeCmd.Flags().Bool("full", false, "analyze every artifact and detect dependency cycles")
	analyzeCmd.Flags().Bool("json", false, "emit machine-readable JSON")
	rootCmd.AddCommand(analyzeCmd)
}
