package commands

import (
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a summary of the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archived, _ := cmd.Flags().GetBool("archived")

			return c.app.Status(cmd.Context(), cmd.OutOrStdout(), app.StatusOptions{
				Archived: archived,
			})
		},
	}

	cmd.Flags().BoolP("archived", "a", false, "Include the most recently archived intentions")

	return cmd
}
