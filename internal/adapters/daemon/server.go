package daemon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/engine/dispatch"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ commandServer = (*Server)(nil)

// Server exposes a dispatch.Service over gRPC.
type Server struct {
	service    *dispatch.Service
	lifecycle  *Lifecycle
	startup    domain.StartupOptions
	logger     ports.Logger
	grpcServer *grpc.Server
}

// NewServer creates a daemon server forwarding requests to service.
func NewServer(
	service *dispatch.Service,
	lifecycle *Lifecycle,
	startup domain.StartupOptions,
	logger ports.Logger,
) *Server {
	s := &Server{
		service:    service,
		lifecycle:  lifecycle,
		startup:    startup,
		logger:     logger,
		grpcServer: grpc.NewServer(grpc.ForceServerCodec(msgpackCodec{})),
	}
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// ListenAndServe serves on the Unix socket under the output base until shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	socketPath := domain.DaemonSocketPath(s.startup.OutputBase)

	if err := os.MkdirAll(filepath.Dir(socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "unix", socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on UDS"), "socket", socketPath)
	}

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	pidPath := domain.DaemonPIDPath(s.startup.OutputBase)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write PID file")
	}

	defer func() {
		_ = os.Remove(socketPath)
		_ = os.Remove(pidPath)
	}()

	s.logger.Info(fmt.Sprintf("server listening on %s", socketPath))
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done or the lifecycle shuts down.
// A lifecycle shutdown returns nil.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-s.lifecycle.ShutdownChan():
		}
		if reason := s.lifecycle.Reason(); reason != ReasonNone {
			s.logger.Info(fmt.Sprintf("server shutting down: %s", reason))
		}
		s.service.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if s.lifecycle.ShuttingDown() {
		return nil
	}
	return ctx.Err()
}

// Execute runs one request through the dispatch service.
func (s *Server) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	s.lifecycle.ResetTimer()

	var stdout, stderr bytes.Buffer
	firstContact := time.UnixMilli(req.FirstContactMillis)
	code, err := s.service.ExecuteRequest(ctx, req.Args, domain.NewOutErr(&stdout, &stderr), firstContact)

	if s.service.IsShutdown() {
		s.lifecycle.Shutdown()
	}
	if err != nil {
		s.logger.Debug(fmt.Sprintf("request %q rejected: %v", strings.Join(req.Args, " "), err))
		return nil, toStatus(err)
	}

	s.logger.Debug(fmt.Sprintf("request %q finished with exit code %d", strings.Join(req.Args, " "), code))
	return &ExecuteResponse{
		ExitCode: code,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

// Ping resets the inactivity timer.
func (s *Server) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	s.lifecycle.ResetTimer()
	return &PingResponse{IdleRemainingMillis: s.lifecycle.IdleRemaining().Milliseconds()}, nil
}

// Status reports the daemon state.
func (s *Server) Status(context.Context, *StatusRequest) (*StatusResponse, error) {
	s.lifecycle.ResetTimer()
	return &StatusResponse{
		PID:                 os.Getpid(),
		ShuttingDown:        s.service.IsShutdown(),
		UptimeMillis:        s.lifecycle.Uptime().Milliseconds(),
		LastActivityMillis:  s.lifecycle.LastActivity().UnixMilli(),
		IdleRemainingMillis: s.lifecycle.IdleRemaining().Milliseconds(),
		WorkspaceRoot:       s.startup.WorkspaceRoot,
	}, nil
}

// toStatus maps dispatch errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrUnknownCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
