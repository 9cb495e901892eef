// Package app implements the application layer for blaze.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/blaze/internal/adapters/daemon"  //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/engine/analysis"
	"go.trai.ch/blaze/internal/engine/dispatch"
	"go.trai.ch/blaze/internal/ui/output"
	"go.trai.ch/zerr"
)

// App is the client side of blaze: it forwards commands to the workspace server
// or runs them in-process in batch mode, and hosts the server itself.
type App struct {
	loader    ports.WorkspaceLoader
	rcLoader  ports.RCLoader
	connector ports.DaemonConnector
	cache     *analysis.Cache
	executor  ports.Executor
	tracer    ports.Tracer
	watcher   ports.Watcher
	logger    ports.Logger
	getwd     func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.WorkspaceLoader,
	rcLoader ports.RCLoader,
	connector ports.DaemonConnector,
	cache *analysis.Cache,
	executor ports.Executor,
	tracer ports.Tracer,
	fsWatcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		rcLoader:  rcLoader,
		connector: connector,
		cache:     cache,
		executor:  executor,
		tracer:    tracer,
		watcher:   fsWatcher,
		logger:    log,
		getwd:     os.Getwd,
	}
}

// WithWorkingDir makes the App resolve the workspace from dir instead of the process
// working directory. This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// DispatchOptions are the startup flags given on the client command line.
type DispatchOptions struct {
	Batch bool
}

// Dispatch runs one command and returns its exit code. Command output is written
// to stdout and stderr.
func (a *App) Dispatch(ctx context.Context, args []string, opts DispatchOptions, stdout, stderr io.Writer) int {
	firstContact := time.Now()

	startup, defaults, err := a.resolveStartup()
	if err != nil {
		return reportError(stderr, err)
	}
	startup.Batch = opts.Batch
	request := append([]string{dispatch.DefaultDiscriminator}, args...)

	if opts.Batch {
		rt := a.newRuntime(startup, defaults)
		service := dispatch.NewService(dispatch.DefaultDiscriminator, rt, a.logger)
		code, err := service.ExecuteRequest(ctx, request, domain.NewOutErr(stdout, stderr), firstContact)
		if err != nil {
			return reportError(stderr, err)
		}
		return code
	}

	client, err := a.connector.Connect(ctx, startup)
	if err != nil {
		return reportError(stderr, err)
	}
	defer func() { _ = client.Close() }()

	res, err := client.Execute(ctx, request, firstContact)
	if err != nil {
		return reportError(stderr, err)
	}
	_, _ = stdout.Write(res.Stdout)
	_, _ = stderr.Write(res.Stderr)
	return res.ExitCode
}

// ServeDaemon runs the workspace server until it is shut down or ctx is canceled.
func (a *App) ServeDaemon(ctx context.Context) error {
	startup, defaults, err := a.resolveStartup()
	if err != nil {
		return err
	}

	if err := watcher.Watch(ctx, a.watcher, startup.WorkspaceRoot, watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Debug(fmt.Sprintf("configuration changed: %v", paths))
		a.cache.Invalidate(startup.WorkspaceRoot)
	}); err != nil {
		a.logger.Warn(fmt.Sprintf("file watching disabled: %v", err))
	} else {
		defer func() { _ = a.watcher.Stop() }()
	}

	rt := a.newRuntime(startup, defaults).WithRCLoader(a.rcLoader)
	service := dispatch.NewService(dispatch.DefaultDiscriminator, rt, a.logger)
	lifecycle := daemon.NewLifecycle(startup.IdleTimeout)
	defer lifecycle.Shutdown()

	server := daemon.NewServer(service, lifecycle, startup, a.logger)
	err = server.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// DaemonStatus prints the status of the workspace server.
func (a *App) DaemonStatus(ctx context.Context, w io.Writer) error {
	startup, _, err := a.resolveStartup()
	if err != nil {
		return err
	}

	if !a.connector.IsRunning(startup) {
		_, _ = fmt.Fprintln(w, "Server is not running")
		return nil
	}

	client, err := a.connector.Connect(ctx, startup)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	status, err := client.Status(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to query server status")
	}
	return writeStatus(w, status)
}

// StopDaemon asks the workspace server to shut down.
func (a *App) StopDaemon(ctx context.Context, w io.Writer) error {
	startup, _, err := a.resolveStartup()
	if err != nil {
		return err
	}

	if !a.connector.IsRunning(startup) {
		_, _ = fmt.Fprintln(w, "Server is not running")
		return nil
	}

	client, err := a.connector.Connect(ctx, startup)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if _, err := client.Execute(ctx, []string{dispatch.DefaultDiscriminator, "shutdown"}, time.Now()); err != nil {
		return zerr.Wrap(err, "failed to stop server")
	}
	_, _ = fmt.Fprintln(w, "Server stopped")
	return nil
}

func (a *App) newRuntime(startup domain.StartupOptions, defaults domain.BuildOptions) *Runtime {
	tool := NewBuildTool(a.cache, a.executor, a.tracer, a.logger)
	return NewRuntime(tool, startup, defaults, a.logger)
}

// resolveStartup finds the workspace around the working directory and reads its rc file.
func (a *App) resolveStartup() (domain.StartupOptions, domain.BuildOptions, error) {
	cwd, err := a.getwd()
	if err != nil {
		return domain.StartupOptions{}, domain.BuildOptions{}, zerr.Wrap(err, "failed to get working directory")
	}

	root, err := a.loader.DiscoverRoot(cwd)
	if err != nil {
		return domain.StartupOptions{}, domain.BuildOptions{}, err
	}

	rc, err := a.rcLoader.LoadRC(root)
	if err != nil {
		return domain.StartupOptions{}, domain.BuildOptions{}, err
	}
	return rc.Startup, rc.Build, nil
}

func reportError(w io.Writer, err error) int {
	output.Errorf(w, "%s", err)
	return domain.ExitCodeFor(err).Int()
}

func writeStatus(w io.Writer, s *ports.DaemonStatus) error {
	state := "running"
	if s.ShuttingDown {
		state = "shutting down"
	}
	_, err := fmt.Fprintf(w,
		"Server is %s\n  workspace: %s\n  pid: %d\n  uptime: %s\n  idle shutdown in: %s\n",
		state,
		s.WorkspaceRoot,
		s.PID,
		s.Uptime.Round(time.Second),
		s.IdleRemaining.Round(time.Second),
	)
	return err
}
