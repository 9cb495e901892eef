package ports

import (
	"context"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonStatus represents the current state of the daemon.
type DaemonStatus struct {
	Running       bool
	ShuttingDown  bool
	PID           int
	Uptime        time.Duration
	LastActivity  time.Time
	IdleRemaining time.Duration
	WorkspaceRoot string
}

// ExecuteResult is the outcome of a command run by the daemon.
type ExecuteResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// DaemonClient defines the interface for communicating with the daemon.
type DaemonClient interface {
	// Ping checks if the daemon is alive and resets the inactivity timer.
	Ping(ctx context.Context) error

	// Status returns the current daemon status.
	Status(ctx context.Context) (*DaemonStatus, error)

	// Execute forwards a request vector to the daemon and waits for the command to finish.
	Execute(ctx context.Context, request []string, firstContact time.Time) (*ExecuteResult, error)

	// Close releases client resources.
	Close() error
}

// DaemonConnector manages daemon lifecycle from the client perspective.
type DaemonConnector interface {
	// Connect returns a client to the daemon, spawning it if necessary.
	Connect(ctx context.Context, startup domain.StartupOptions) (DaemonClient, error)

	// IsRunning checks if the daemon process is currently running.
	IsRunning(startup domain.StartupOptions) bool

	// Spawn starts a new daemon process in the background.
	Spawn(ctx context.Context, startup domain.StartupOptions) error
}
