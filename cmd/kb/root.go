package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kodebaseai/kodebase/internal/artifact"
	"github.com/kodebaseai/kodebase/internal/configfile"
	"github.com/kodebaseai/kodebase/internal/debug"
)

var rootCmd = &cobra.Command{
	Use:   "kb",
	Short: "Event-sourced workflow tracking for hierarchical work artifacts",
	Long: `kb tracks initiatives, milestones, and issues as YAML files with
append-only event logs. Status is always derived from the log, never
stored; parent status cascades from child status.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(viper.GetBool("verbose"))
		debug.SetQuiet(viper.GetBool("quiet"))
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().String("dir", "", "workspace directory (default: search upward for .kodebase)")
	rootCmd.PersistentFlags().String("actor", "", "actor recorded on events (default: $KB_ACTOR or $USER)")

	viper.SetEnvPrefix("KB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, flag := range []string{"verbose", "quiet", "dir", "actor"} {
		_ = viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// workspace bundles the resolved workspace directory, its configuration,
// and an artifact store rooted at the configured artifacts directory.
type workspace struct {
	dir   string
	cfg   *configfile.Config
	store *artifact.Store
}

func openWorkspace() (*workspace, error) {
	dir := viper.GetString("dir")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir, err = configfile.FindWorkspace(cwd)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := configfile.Load(dir)
	if err != nil {
		return nil, err
	}

	debug.Logf("workspace: %s\n", dir)
	return &workspace{
		dir:   dir,
		cfg:   cfg,
		store: artifact.NewStore(filepath.Join(dir, cfg.ArtifactsDir)),
	}, nil
}

// actorName resolves the identity stamped on events. Config precedence is
// flag, then KB_ACTOR, then the OS user.
func actorName() string {
	if actor := viper.GetString("actor"); actor != "" {
		return actor
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}
