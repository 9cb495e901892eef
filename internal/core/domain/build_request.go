package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// BuildRequest is an immutable description of one build-like command invocation.
type BuildRequest struct {
	command   string
	options   BuildOptions
	startup   StartupOptions
	targets   []string
	outErr    OutErr
	commandID uuid.UUID
	startTime time.Time
}

// NewBuildRequest assembles a build request.
// It panics if either stream of outErr is missing.
func NewBuildRequest(
	command string,
	options BuildOptions,
	startup StartupOptions,
	targets []string,
	outErr OutErr,
	commandID uuid.UUID,
	startTime time.Time,
) *BuildRequest {
	if !outErr.Valid() {
		panic("domain: build request requires both output streams")
	}
	return &BuildRequest{
		command:   command,
		options:   options.Clone(),
		startup:   startup,
		targets:   slices.Clone(targets),
		outErr:    outErr,
		commandID: commandID,
		startTime: startTime,
	}
}

// CommandName returns the name of the command that created the request.
func (r *BuildRequest) CommandName() string {
	return r.command
}

// Options returns a copy of the build options.
func (r *BuildRequest) Options() BuildOptions {
	return r.options.Clone()
}

// StartupOptions returns the startup options.
func (r *BuildRequest) StartupOptions() StartupOptions {
	return r.startup
}

// Targets returns a copy of the target patterns.
func (r *BuildRequest) Targets() []string {
	return slices.Clone(r.targets)
}

// OutErr returns the output streams of the request.
func (r *BuildRequest) OutErr() OutErr {
	return r.outErr
}

// CommandID returns the unique id of the invocation.
func (r *BuildRequest) CommandID() uuid.UUID {
	return r.commandID
}

// StartTime returns when the client first contacted the server.
func (r *BuildRequest) StartTime() time.Time {
	return r.startTime
}
