package commands

import (
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Join the pool and run jobs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			once, _ := cmd.Flags().GetBool("once")
			maxJobs, _ := cmd.Flags().GetInt("max-jobs")
			poll, _ := cmd.Flags().GetDuration("poll")

			return c.app.Worker(cmd.Context(), app.WorkerOptions{
				Once:    once,
				MaxJobs: maxJobs,
				Poll:    poll,
			})
		},
	}

	cmd.Flags().Bool("once", false, "Run a single scheduling pass and exit")
	cmd.Flags().Int("max-jobs", 0, "Override the configured concurrent job limit")
	cmd.Flags().Duration("poll", 0, "Override the configured idle poll interval")

	return cmd
}
