package daemon

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName   = "blaze.daemon.v1.CommandServer"
	executeMethod = "/" + serviceName + "/Execute"
	pingMethod    = "/" + serviceName + "/Ping"
	statusMethod  = "/" + serviceName + "/Status"
)

// ExecuteRequest carries one request vector to the daemon.
type ExecuteRequest struct {
	Args []string `msgpack:"args"`
	// FirstContactMillis is when the client started, in Unix milliseconds.
	FirstContactMillis int64 `msgpack:"first_contact_ms"`
}

// ExecuteResponse is the outcome of an executed request.
type ExecuteResponse struct {
	ExitCode int    `msgpack:"exit_code"`
	Stdout   []byte `msgpack:"stdout"`
	Stderr   []byte `msgpack:"stderr"`
}

// PingRequest is the empty liveness probe.
type PingRequest struct{}

// PingResponse reports how long the daemon stays up without further requests.
type PingResponse struct {
	IdleRemainingMillis int64 `msgpack:"idle_remaining_ms"`
}

// StatusRequest asks for the daemon status.
type StatusRequest struct{}

// StatusResponse describes the running daemon.
type StatusResponse struct {
	PID                 int    `msgpack:"pid"`
	ShuttingDown        bool   `msgpack:"shutting_down"`
	UptimeMillis        int64  `msgpack:"uptime_ms"`
	LastActivityMillis  int64  `msgpack:"last_activity_ms"`
	IdleRemainingMillis int64  `msgpack:"idle_remaining_ms"`
	WorkspaceRoot       string `msgpack:"workspace_root"`
}

// commandServer is the server side of the daemon service.
type commandServer interface {
	Execute(context.Context, *ExecuteRequest) (*ExecuteResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*commandServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: executeHandler},
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blaze/daemon/v1",
}

func executeHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(commandServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: executeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(commandServer).Execute(ctx, req.(*ExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(commandServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: pingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(commandServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(commandServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(commandServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}
