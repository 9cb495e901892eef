package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.trai.ch/blaze/internal/build"
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/engine/visitor"
	"go.trai.ch/blaze/internal/ui/output"
	"go.trai.ch/zerr"
)

var _ ports.ServerCommand = (*Runtime)(nil)

// Runtime is the command handler behind the request service. Each request gets its own
// command tree bound to the request's streams.
type Runtime struct {
	tool     *BuildTool
	logger   ports.Logger
	startup  domain.StartupOptions
	defaults domain.BuildOptions
	rc       ports.RCLoader
	newID    func() uuid.UUID

	shutdownRequested atomic.Bool
}

// NewRuntime creates a Runtime. defaults seed the flags of build-like commands.
func NewRuntime(
	tool *BuildTool,
	startup domain.StartupOptions,
	defaults domain.BuildOptions,
	logger ports.Logger,
) *Runtime {
	return &Runtime{
		tool:     tool,
		logger:   logger,
		startup:  startup,
		defaults: defaults.Clone(),
		newID:    uuid.New,
	}
}

// WithCommandIDs replaces the generator of command ids.
// This is primarily used for testing.
func (r *Runtime) WithCommandIDs(fn func() uuid.UUID) *Runtime {
	r.newID = fn
	return r
}

// WithRCLoader makes every request re-read the rc file at the workspace root, so edits
// to its build defaults apply without restarting the server.
func (r *Runtime) WithRCLoader(rc ports.RCLoader) *Runtime {
	r.rc = rc
	return r
}

// Exec runs one command. Command failures are reported on the error stream and as exit
// codes; an error is returned only when the request cannot be handled at all.
func (r *Runtime) Exec(ctx context.Context, args []string, outErr domain.OutErr, firstContact time.Time) (int, error) {
	if !outErr.Valid() {
		return 0, zerr.Wrap(domain.ErrInvalidArguments, "request has no output streams")
	}
	r.shutdownRequested.Store(false)

	if args == nil {
		args = []string{}
	}

	defaults, err := r.buildDefaults()
	if err != nil {
		output.Errorf(outErr.Err(), "%s", err)
		return domain.ExitCodeFor(err).Int(), nil
	}

	inv := &invocation{runtime: r, outErr: outErr, firstContact: firstContact, defaults: defaults}
	root := inv.newRootCmd()
	root.SetArgs(args)
	root.SetOut(outErr.Out())
	root.SetErr(outErr.Err())

	if err := root.ExecuteContext(ctx); err != nil {
		output.Errorf(outErr.Err(), "%s", err)
		r.logger.Debug(fmt.Sprintf("command %v failed: %v", args, err))
		if inv.exitCode != nil {
			return inv.exitCode.Int(), nil
		}
		return domain.ExitCodeFor(err).Int(), nil
	}
	if inv.exitCode != nil {
		return inv.exitCode.Int(), nil
	}
	return domain.ExitSuccess.Int(), nil
}

// buildDefaults returns the flag defaults for this request.
func (r *Runtime) buildDefaults() (domain.BuildOptions, error) {
	if r.rc == nil {
		return r.defaults.Clone(), nil
	}
	rc, err := r.rc.LoadRC(r.startup.WorkspaceRoot)
	if err != nil {
		return domain.BuildOptions{}, err
	}
	return rc.Build.Clone(), nil
}

// ShouldShutdown reports whether the last command asked the server to stop.
func (r *Runtime) ShouldShutdown() bool {
	return r.shutdownRequested.Load()
}

// invocation holds the state of one request.
type invocation struct {
	runtime      *Runtime
	outErr       domain.OutErr
	firstContact time.Time
	defaults     domain.BuildOptions
	exitCode     *domain.ExitCode
}

func (inv *invocation) setExitCode(code domain.ExitCode) {
	inv.exitCode = &code
}

func (inv *invocation) newBuildRequest(command string, opts domain.BuildOptions, targets []string) *domain.BuildRequest {
	return domain.NewBuildRequest(
		command,
		opts,
		inv.runtime.startup,
		targets,
		inv.outErr,
		inv.runtime.newID(),
		inv.firstContact,
	)
}

func (inv *invocation) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blaze",
		Short:         "A build tool server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return zerr.Wrap(domain.ErrInvalidArguments, "no command given, see 'blaze help'")
			}
			return zerr.With(zerr.Wrap(domain.ErrInvalidArguments, "unknown command"), "command", args[0])
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
	})

	root.AddCommand(
		inv.newBuildCmd(),
		inv.newPrintActionCmd(),
		inv.newInfoCmd(),
		inv.newShutdownCmd(),
		inv.newVersionCmd(),
	)
	return root
}

func (inv *invocation) newBuildCmd() *cobra.Command {
	opts := inv.defaults.Clone()
	cmd := &cobra.Command{
		Use:   "build [flags] <target patterns...>",
		Short: "Builds the specified targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := inv.runtime.tool.ProcessRequest(cmd.Context(), inv.newBuildRequest("build", opts, args))
			inv.setExitCode(res.ExitCode)
			return res.Err
		},
	}
	cmd.Flags().StringVar(&opts.Configuration, "config", opts.Configuration, "Configuration to build in")
	cmd.Flags().BoolVarP(&opts.KeepGoing, "keep_going", "k", opts.KeepGoing,
		"Continue with independent actions after a failure")
	cmd.Flags().BoolVar(&opts.NoBuild, "nobuild", false, "Stop after the analysis phase")
	return cmd
}

func (inv *invocation) newPrintActionCmd() *cobra.Command {
	opts := inv.defaults.Clone()
	cmd := &cobra.Command{
		Use:   "print_action [flags] <target patterns...>",
		Short: "Prints the actions of the specified targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.NoBuild = true
			req := inv.newBuildRequest("print_action", opts, args)
			result, err := inv.runtime.tool.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			match := visitor.MatchMnemonics(opts.Mnemonics...)
			for i, target := range result.Targets {
				v := visitor.NewPrintActionVisitor(result.Graph, target, match)
				if err := v.VisitTarget(); err != nil {
					return err
				}
				if i > 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := WriteActionReport(cmd.OutOrStdout(), v.Target(), v.Actions()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Configuration, "config", opts.Configuration, "Configuration to analyze in")
	cmd.Flags().StringSliceVar(&opts.Mnemonics, "print_action_mnemonics", opts.Mnemonics,
		"Only print actions with these mnemonics")
	return cmd
}

func (inv *invocation) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [key]",
		Short: "Displays runtime info about the server",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			startup := inv.runtime.startup
			entries := []struct{ key, value string }{
				{"workspace", startup.WorkspaceRoot},
				{"output_base", startup.OutputBase},
				{"server_pid", strconv.Itoa(os.Getpid())},
				{"command_id", inv.runtime.newID().String()},
				{"release", "blaze " + build.Version},
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				switch {
				case len(args) == 0:
					_, _ = fmt.Fprintf(out, "%s: %s\n", e.key, e.value)
				case args[0] == e.key:
					_, _ = fmt.Fprintln(out, e.value)
					return nil
				}
			}
			if len(args) > 0 {
				return zerr.With(zerr.Wrap(domain.ErrInvalidArguments, "unknown info key"), "key", args[0])
			}
			return nil
		},
	}
}

func (inv *invocation) newShutdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Stops the server",
		Args:  checkArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			inv.runtime.shutdownRequested.Store(true)
			output.Infof(cmd.ErrOrStderr(), "Server will shut down after this command.")
		},
	}
}

func (inv *invocation) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		Args:  checkArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "blaze version %s (commit: %s, date: %s)\n",
				build.Version, build.Commit, build.Date)
		},
	}
}

// checkArgs marks positional argument errors as command line errors.
func checkArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
		}
		return nil
	}
}
