// Package dispatch implements the daemon request service: it validates the request
// discriminator, forwards the application arguments to a single command handler and
// owns the one-way transition to shutdown.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDiscriminator is the first token every request to a blaze server carries.
const DefaultDiscriminator = "blaze"

// State is the lifecycle state of a Service.
type State int

const (
	// StateActive accepts requests.
	StateActive State = iota
	// StateShutdown rejects every request. It is terminal.
	StateShutdown
)

// String returns the state name.
func (s State) String() string {
	if s == StateShutdown {
		return "shutdown"
	}
	return "active"
}

// Service serializes requests onto one command handler.
//
// ExecuteRequest is the only writer of the shutdown flag; IsShutdown and State are
// lock-free reads safe for any goroutine.
type Service struct {
	discriminator string
	handler       ports.ServerCommand
	logger        ports.Logger

	mu       sync.Mutex
	shutdown atomic.Bool
}

// NewService creates an active service. An empty discriminator selects DefaultDiscriminator.
func NewService(discriminator string, handler ports.ServerCommand, logger ports.Logger) *Service {
	if discriminator == "" {
		discriminator = DefaultDiscriminator
	}
	return &Service{
		discriminator: discriminator,
		handler:       handler,
		logger:        logger,
	}
}

// Discriminator returns the token requests must start with.
func (s *Service) Discriminator() string {
	return s.discriminator
}

// ExecuteRequest runs one request of the form [discriminator, args...].
//
// It fails with domain.ErrServiceUnavailable once the service is shut down and with
// domain.ErrUnknownCommand when the first token is not the discriminator; the handler
// is not invoked in either case. Handler errors are returned unchanged. Otherwise the
// handler's exit code is returned, and the service shuts down before returning if the
// handler asked for it.
func (s *Service) ExecuteRequest(
	ctx context.Context,
	request []string,
	outErr domain.OutErr,
	firstContact time.Time,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown.Load() {
		return 0, domain.ErrServiceUnavailable
	}

	var command string
	if len(request) > 0 {
		command = request[0]
	}
	if command != s.discriminator {
		err := zerr.Wrap(fmt.Errorf("%w: %s", domain.ErrUnknownCommand, command), "")
		return 0, zerr.With(err, "command", command)
	}

	code, err := s.handler.Exec(ctx, request[1:], outErr, firstContact)
	if err != nil {
		return 0, err
	}

	if s.handler.ShouldShutdown() {
		s.markShutdown()
	}
	return code, nil
}

// Shutdown moves the service to StateShutdown. Repeated calls are no-ops.
// It waits for an in-flight request to finish first.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markShutdown()
}

func (s *Service) markShutdown() {
	if s.shutdown.CompareAndSwap(false, true) {
		s.logger.Info("shutting down the server")
	}
}

// IsShutdown reports whether the service has been shut down.
func (s *Service) IsShutdown() bool {
	return s.shutdown.Load()
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	if s.shutdown.Load() {
		return StateShutdown
	}
	return StateActive
}
