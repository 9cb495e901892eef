// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/blaze/internal/core/domain"
)

// Executor defines the interface for executing actions.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the action's command from the workspace root.
	//
	// Command output is streamed to stdout and stderr. It returns an error if the
	// command cannot be started or exits unsuccessfully.
	Execute(ctx context.Context, action *domain.Action, root string, stdout, stderr io.Writer) error
}
