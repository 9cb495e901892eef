// Package commands implements the client command line of blaze.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/blaze/internal/app"
	"go.trai.ch/blaze/internal/build"
)

// CLI represents the command line interface for blaze.
type CLI struct {
	app      Application
	rootCmd  *cobra.Command
	batch    bool
	exitCode int
}

// Application represents the application logic interface.
type Application interface {
	Dispatch(ctx context.Context, args []string, opts app.DispatchOptions, stdout, stderr io.Writer) int
	ServeDaemon(ctx context.Context) error
	DaemonStatus(ctx context.Context, w io.Writer) error
	StopDaemon(ctx context.Context, w io.Writer) error
}

// New creates a new CLI instance with the given app.
//
// Startup flags go before the command. Everything from the command name on is
// forwarded to the server unparsed, so server commands keep their own flags.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "blaze [startup flags] <command> [args]",
		Short:         "A client/server build tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.ArbitraryArgs,
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

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.Flags().BoolVar(&c.batch, "batch", false, "Run the command in this process instead of the server")
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		c.exitCode = c.app.Dispatch(cmd.Context(), args, app.DispatchOptions{Batch: c.batch},
			cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	}

	rootCmd.AddCommand(c.newDaemonCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.exitCode = 0
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// ExitCode returns the exit code of the last forwarded command.
func (c *CLI) ExitCode() int {
	return c.exitCode
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
