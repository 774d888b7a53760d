package commands

import (
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wait, _ := cmd.Flags().GetBool("wait")

			return c.app.Migrate(cmd.Context(), app.MigrateOptions{
				Wait: wait,
			})
		},
	}

	cmd.Flags().Bool("wait", false, "Retry until the database accepts connections")

	return cmd
}
