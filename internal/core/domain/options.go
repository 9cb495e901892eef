package domain

import (
	"slices"
	"time"
)

// DefaultIdleTimeout is how long a daemon stays up without requests.
const DefaultIdleTimeout = 3 * time.Hour

// BuildOptions is the resolved view of the options of a build-like command.
type BuildOptions struct {
	Configuration string
	KeepGoing     bool
	NoBuild       bool
	Mnemonics     []string
}

// Clone returns a deep copy of the options.
func (o BuildOptions) Clone() BuildOptions {
	o.Mnemonics = slices.Clone(o.Mnemonics)
	return o
}

// StartupOptions is the resolved view of the options the server was started with.
type StartupOptions struct {
	WorkspaceRoot string
	OutputBase    string
	IdleTimeout   time.Duration
	Batch         bool
}

// RCOptions holds the defaults read from the rc file.
type RCOptions struct {
	Startup StartupOptions
	Build   BuildOptions
}
