package commands

import (
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the pool and its running jobs in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")

			return c.app.Monitor(cmd.Context(), app.MonitorOptions{
				Interval: interval,
			})
		},
	}

	cmd.Flags().Duration("interval", time.Second, "Refresh interval for the pool summary")

	return cmd
}
