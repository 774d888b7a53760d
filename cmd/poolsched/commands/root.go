// Package commands implements the CLI commands for the poolsched worker.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/app"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/build"
	"github.com/spf13/cobra"
)

// defaultUsername is the user analysis requests are filed under when no
// --user flag is given.
const defaultUsername = "admin"

// CLI represents the command line interface for poolsched.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.GlobalOptions) error
	Worker(ctx context.Context, opts app.WorkerOptions) error
	Enqueue(ctx context.Context, out io.Writer, opts app.EnqueueOptions) error
	AddToken(ctx context.Context, out io.Writer, opts app.TokenOptions) error
	ListTokens(ctx context.Context, out io.Writer, backend string) error
	Status(ctx context.Context, out io.Writer, opts app.StatusOptions) error
	Monitor(ctx context.Context, opts app.MonitorOptions) error
	Migrate(ctx context.Context, opts app.MigrateOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "poolsched",
		Short:         "A job scheduler for a shared pool of repository analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from a file before resolving configuration")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env-file")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		return c.app.Configure(app.GlobalOptions{
			ConfigFile: configFile,
			EnvFile:    envFile,
			JSONLogs:   jsonLogs,
			Verbose:    verbose,
		})
	}

	rootCmd.AddCommand(c.newWorkerCmd())
	rootCmd.AddCommand(c.newEnqueueCmd())
	rootCmd.AddCommand(c.newTokenCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newMonitorCmd())
	rootCmd.AddCommand(c.newMigrateCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
