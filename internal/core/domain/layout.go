package domain

import "path/filepath"

const (
	// BlazeDirName is the name of the internal workspace directory.
	BlazeDirName = ".blaze"

	// ServerDirName is the name of the directory holding daemon state.
	ServerDirName = "server"

	// BuildFileName is the name of the workspace build file.
	BuildFileName = "BUILD.yaml"

	// RCFileName is the name of the startup options file.
	RCFileName = ".blazerc.toml"

	// DaemonSocketName is the name of the daemon Unix socket.
	DaemonSocketName = "daemon.sock"

	// DaemonPIDFileName is the name of the daemon PID file.
	DaemonPIDFileName = "daemon.pid"

	// DaemonLogFileName is the name of the daemon log file.
	DaemonLogFileName = "daemon.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the daemon socket (rw-------).
	SocketPerm = 0o600
)

// DefaultOutputBase returns the default directory for server state, relative to the workspace root.
func DefaultOutputBase() string {
	return BlazeDirName
}

// DaemonSocketPath returns the daemon socket path under an output base.
func DaemonSocketPath(outputBase string) string {
	return filepath.Join(outputBase, ServerDirName, DaemonSocketName)
}

// DaemonPIDPath returns the daemon PID file path under an output base.
func DaemonPIDPath(outputBase string) string {
	return filepath.Join(outputBase, ServerDirName, DaemonPIDFileName)
}

// DaemonLogPath returns the daemon log path under an output base.
func DaemonLogPath(outputBase string) string {
	return filepath.Join(outputBase, ServerDirName, DaemonLogFileName)
}
