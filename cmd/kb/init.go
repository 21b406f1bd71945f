package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/kodebase/internal/configfile"
	"github.com/kodebaseai/kodebase/internal/debug"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a kodebase workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := "."
		if len(args) == 1 {
			base = args[0]
		}

		dir := filepath.Join(base, configfile.WorkspaceDir)
		cfg := configfile.DefaultConfig()
		if err := configfile.Save(dir, cfg); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(dir, cfg.ArtifactsDir), 0o755); err != nil {
			return err
		}

		debug.PrintNormal("initialized workspace at %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
