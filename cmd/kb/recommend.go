package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/analyzer"
	"github.com/kodebaseai/kodebase/internal/report"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest what to work on next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		artifacts, err := ws.store.LoadAll()
		if err != nil {
			return err
		}

		if cycles := analyzer.DetectCycles(artifacts); len(cycles) > 0 {
			fmt.Printf("%s circular dependencies involving: %s\n",
				report.FailStyle.Render(report.IconFail), strings.Join(cycles, ", "))
		}

		fmt.Print(report.Recommend(analyzer.CompletionRecommendations(artifacts)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
