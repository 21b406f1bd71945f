package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/report"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the artifact hierarchy with current statuses",
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

		fmt.Print(report.Tree(artifacts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
