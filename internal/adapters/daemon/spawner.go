package daemon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
)

var _ ports.DaemonConnector = (*Connector)(nil)

// Connector implements ports.DaemonConnector.
type Connector struct {
	executablePath string
}

// NewConnector creates a new daemon connector that spawns the running executable.
func NewConnector() (*Connector, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return &Connector{executablePath: exe}, nil
}

// Connect returns a client, spawning the daemon if necessary.
func (c *Connector) Connect(ctx context.Context, startup domain.StartupOptions) (ports.DaemonClient, error) {
	client, err := Dial(startup.OutputBase)
	if err == nil {
		if pingErr := client.Ping(ctx); pingErr == nil {
			return client, nil
		}
		_ = client.Close()
	}

	if spawnErr := c.Spawn(ctx, startup); spawnErr != nil {
		return nil, spawnErr
	}

	client, err = Dial(startup.OutputBase)
	if err != nil {
		return nil, err
	}

	if pingErr := client.Ping(ctx); pingErr != nil {
		_ = client.Close()
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDaemonUnresponsive, pingErr), "output_base", startup.OutputBase)
	}

	return client, nil
}

// IsRunning checks if the daemon is running and responsive.
func (c *Connector) IsRunning(startup domain.StartupOptions) bool {
	if startup.OutputBase == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return isRunningWithCtx(ctx, startup.OutputBase)
}

func isRunningWithCtx(ctx context.Context, outputBase string) bool {
	client, err := Dial(outputBase)
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	return client.Ping(ctx) == nil
}

// Spawn starts the daemon process for the workspace in the background and waits until it answers.
func (c *Connector) Spawn(ctx context.Context, startup domain.StartupOptions) error {
	if startup.WorkspaceRoot == "" || startup.OutputBase == "" {
		return zerr.Wrap(domain.ErrDaemonSpawnFailed, "workspace root and output base are required")
	}

	absRoot, err := filepath.Abs(startup.WorkspaceRoot)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve absolute root path")
	}

	logPath := domain.DaemonLogPath(startup.OutputBase)
	if mkdirErr := os.MkdirAll(filepath.Dir(logPath), domain.DirPerm); mkdirErr != nil {
		return zerr.Wrap(mkdirErr, "failed to create daemon directory")
	}

	//nolint:gosec // G304: logPath is from the output base + domain constant
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open daemon log")
	}

	//nolint:gosec // G204: executablePath is controlled, args are fixed literals
	cmd := exec.Command(c.executablePath, "daemon", "serve")
	cmd.Dir = absRoot
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrDaemonSpawnFailed, err), "log", logPath)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return waitForDaemonStartup(ctx, startup.OutputBase)
}

// waitForDaemonStartup polls until the daemon answers a ping.
func waitForDaemonStartup(ctx context.Context, outputBase string) error {
	start := time.Now()
	for time.Since(start) < maxPollDuration {
		if isRunningWithCtx(ctx, outputBase) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrDaemonUnresponsive, ""), "timeout", maxPollDuration.String())
}
