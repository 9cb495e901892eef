package ports

import (
	"context"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
)

// ServerCommand is the application handler a dispatch service forwards requests to.
//
//go:generate mockgen -source=server_command.go -destination=mocks/mock_server_command.go -package=mocks
type ServerCommand interface {
	// Exec runs one command and returns its exit code.
	// An error means the command could not be handled at all; command failures are exit codes.
	Exec(ctx context.Context, args []string, outErr domain.OutErr, firstContact time.Time) (int, error)

	// ShouldShutdown reports whether the last executed command asked the server to stop.
	ShouldShutdown() bool
}
