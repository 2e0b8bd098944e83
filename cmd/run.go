package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"taskflow/internal/batch"
	"taskflow/internal/config"
	"taskflow/internal/exec"
	"taskflow/internal/orchestrate"
	"taskflow/internal/report"
)

func runCmd() *cobra.Command {
	var (
		policyName string
		tasksFile  string
		count      int
		skipErrors bool
		verbose    bool
	)

	var command = &cobra.Command{
		Use:   "run",
		Short: "Run one orchestration from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)

			cfg := config.Load()
			if tasksFile == "" {
				tasksFile = cfg.Tasks.File
			}

			policy, err := orchestrate.ParsePolicy(policyName)
			if err != nil {
				return err
			}

			ds, err := batch.Load(tasksFile, cfg.Tasks.DefaultDuration)
			if err != nil {
				return err
			}
			if skipErrors || count > 0 {
				n := len(ds)
				if count > 0 {
					n = count
				}
				ds = batch.FirstRunnable(ds, n)
			}

			orc := orchestrate.New(exec.New(), &report.LogReporter{Log: log.Logger})
			if _, err := orc.Run(cmd.Context(), policy, ds); err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
			return nil
		},
	}

	command.Flags().StringVar(&policyName, "policy", "sequential", "Run policy: chain, sequential, parallel or race")
	command.Flags().StringVar(&tasksFile, "tasks", "", "Path to the batch file (default from config)")
	command.Flags().IntVar(&count, "count", 0, "Run only the first N runnable descriptors")
	command.Flags().BoolVar(&skipErrors, "skip-errors", false, "Drop descriptors tagged to fail")
	command.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	// SilenceUsage keeps a failed run from dumping flag help over the report.
	command.SilenceUsage = true
	return command
}
