package commands

import (
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newEnqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a repository analysis in the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Display command usage help without returning an error
			_ = cmd.Help()
			return nil
		},
	}

	cmd.PersistentFlags().StringP("user", "u", defaultUsername, "User the analysis is filed under")
	cmd.PersistentFlags().Bool("raw-only", false, "Gather raw data without enriching it")

	cmd.AddCommand(c.newEnqueueGitCmd())
	cmd.AddCommand(c.newEnqueueGitHubCmd())
	cmd.AddCommand(c.newEnqueueGitLabCmd())

	return cmd
}

func (c *CLI) newEnqueueGitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "git <clone-url>",
		Short: "Queue a git commit analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			rawOnly, _ := cmd.Flags().GetBool("raw-only")

			return c.app.Enqueue(cmd.Context(), cmd.OutOrStdout(), app.EnqueueOptions{
				Username: user,
				Backend:  "git",
				URL:      args[0],
				RawOnly:  rawOnly,
			})
		},
	}
}

func (c *CLI) newEnqueueGitHubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github <owner> <repository>",
		Short: "Queue a GitHub issue and pull request analysis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			rawOnly, _ := cmd.Flags().GetBool("raw-only")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			return c.app.Enqueue(cmd.Context(), cmd.OutOrStdout(), app.EnqueueOptions{
				Username: user,
				Backend:  "github",
				Owner:    args[0],
				Name:     args[1],
				Endpoint: endpoint,
				RawOnly:  rawOnly,
			})
		},
	}

	cmd.Flags().String("endpoint", "", "GitHub instance URL for enterprise deployments")

	return cmd
}

func (c *CLI) newEnqueueGitLabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab <owner> <repository>",
		Short: "Queue a GitLab issue and merge request analysis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			rawOnly, _ := cmd.Flags().GetBool("raw-only")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			return c.app.Enqueue(cmd.Context(), cmd.OutOrStdout(), app.EnqueueOptions{
				Username: user,
				Backend:  "gitlab",
				Owner:    args[0],
				Name:     args[1],
				Endpoint: endpoint,
				RawOnly:  rawOnly,
			})
		},
	}

	cmd.Flags().String("endpoint", "", "GitLab instance URL for self hosted deployments")

	return cmd
}
