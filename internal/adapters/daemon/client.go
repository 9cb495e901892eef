// Package daemon implements the background server adapter for blaze.
// It provides a gRPC server and client for inter-process communication over Unix Domain Sockets.
package daemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var _ ports.DaemonClient = (*Client)(nil)

// Client implements ports.DaemonClient.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the daemon of the given output base over UDS.
// grpc.NewClient returns immediately; the connection is made on the first RPC.
func Dial(outputBase string) (*Client, error) {
	return DialTarget("unix://" + domain.DaemonSocketPath(outputBase))
}

// DialTarget connects to the daemon at a gRPC target.
func DialTarget(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(msgpackCodec{})),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}
	return &Client{conn: conn}, nil
}

// Execute implements ports.DaemonClient.
func (c *Client) Execute(ctx context.Context, request []string, firstContact time.Time) (*ports.ExecuteResult, error) {
	resp := new(ExecuteResponse)
	req := &ExecuteRequest{Args: request, FirstContactMillis: firstContact.UnixMilli()}
	if err := c.conn.Invoke(ctx, executeMethod, req, resp); err != nil {
		return nil, fromStatus(err)
	}
	return &ports.ExecuteResult{
		ExitCode: resp.ExitCode,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
	}, nil
}

// Ping implements ports.DaemonClient.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Invoke(ctx, pingMethod, &PingRequest{}, new(PingResponse))
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	resp := new(StatusResponse)
	if err := c.conn.Invoke(ctx, statusMethod, &StatusRequest{}, resp); err != nil {
		return nil, err
	}
	return &ports.DaemonStatus{
		Running:       true,
		ShuttingDown:  resp.ShuttingDown,
		PID:           resp.PID,
		Uptime:        time.Duration(resp.UptimeMillis) * time.Millisecond,
		LastActivity:  time.UnixMilli(resp.LastActivityMillis),
		IdleRemaining: time.Duration(resp.IdleRemainingMillis) * time.Millisecond,
		WorkspaceRoot: resp.WorkspaceRoot,
	}, nil
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

// fromStatus turns the dispatch errors the server reported back into domain errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.FailedPrecondition:
		return remoteError(domain.ErrServiceUnavailable, st.Message())
	case codes.InvalidArgument:
		return remoteError(domain.ErrUnknownCommand, st.Message())
	default:
		return err
	}
}

func remoteError(sentinel error, msg string) error {
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()); ok {
		return fmt.Errorf("%w%s", sentinel, rest)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
