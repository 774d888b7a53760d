package commands

import (
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens for rate limited backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Display command usage help without returning an error
			_ = cmd.Help()
			return nil
		},
	}

	cmd.AddCommand(c.newTokenAddCmd())
	cmd.AddCommand(c.newTokenListCmd())

	return cmd
}

func (c *CLI) newTokenAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <value>",
		Short: "Store an API token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			backend, _ := cmd.Flags().GetString("backend")
			maxJobs, _ := cmd.Flags().GetInt("max-jobs")

			return c.app.AddToken(cmd.Context(), cmd.OutOrStdout(), app.TokenOptions{
				Username: user,
				Backend:  backend,
				Value:    args[0],
				MaxJobs:  maxJobs,
			})
		},
	}

	cmd.Flags().StringP("user", "u", defaultUsername, "User the token belongs to")
	cmd.Flags().StringP("backend", "b", "", "Backend the token authenticates against")
	cmd.Flags().Int("max-jobs", 0, "Concurrent jobs the token may serve, 0 for the default")

	return cmd
}

func (c *CLI) newTokenListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _ := cmd.Flags().GetString("backend")
			return c.app.ListTokens(cmd.Context(), cmd.OutOrStdout(), backend)
		},
	}

	cmd.Flags().StringP("backend", "b", "", "Only list tokens of this backend")

	return cmd
}
