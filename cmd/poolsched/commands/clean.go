package commands

import (
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Release stale jobs and prune old archive records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			staleJobs, _ := cmd.Flags().GetDuration("stale-jobs")
			archivedBefore, _ := cmd.Flags().GetDuration("archived-before")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				StaleJobs:      staleJobs,
				ArchivedBefore: archivedBefore,
			})
		},
	}

	cmd.Flags().Duration("stale-jobs", 10*time.Minute, "Release jobs whose worker missed heartbeats for this long, 0 skips")
	cmd.Flags().Duration("archived-before", 0, "Prune archived intentions older than this, 0 keeps everything")

	return cmd
}
