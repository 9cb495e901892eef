package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownEntity is returned when an artifact or action is looked up in a graph that does not contain it.
	ErrUnknownEntity = zerr.New("unknown entity")

	// ErrArtifactConflict is returned when two actions declare the same output artifact.
	ErrArtifactConflict = zerr.New("artifact is generated by more than one action")

	// ErrDuplicateAction is returned when the same action is registered twice.
	ErrDuplicateAction = zerr.New("action already registered")

	// ErrMissingGeneratingAction is returned when a derived artifact has no generating action.
	ErrMissingGeneratingAction = zerr.New("derived artifact has no generating action")

	// ErrCycleDetected is returned when a cycle is detected in the action or target graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownCommand is returned when a request does not start with the service discriminator.
	ErrUnknownCommand = zerr.New("unknown command")

	// ErrServiceUnavailable is returned when a request reaches a service that has been shut down.
	ErrServiceUnavailable = zerr.New("received request after shutdown")

	// ErrInvalidArguments is returned when a command line cannot be parsed.
	ErrInvalidArguments = zerr.New("invalid command line")

	// ErrInvalidLabel is returned when a target label cannot be parsed.
	ErrInvalidLabel = zerr.New("invalid label")

	// ErrInvalidTargetName is returned when a target name contains invalid characters.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrDuplicateTarget is returned when two targets share a label.
	ErrDuplicateTarget = zerr.New("duplicate target")

	// ErrTargetNotFound is returned when a requested target or pattern matches nothing.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrMissingDependency is returned when a target references a dependency that is not defined.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrNoTargetsSpecified is returned when a command that needs targets receives none.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrUnknownConfiguration is returned when a build requests a configuration that is not defined.
	ErrUnknownConfiguration = zerr.New("unknown configuration")

	// ErrConfigReadFailed is returned when a config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no build file can be found.
	ErrConfigNotFound = zerr.New("could not find BUILD.yaml in this or any parent directory")

	// ErrActionFailed is returned when an action command exits unsuccessfully.
	ErrActionFailed = zerr.New("action failed")

	// ErrBuildFailed is returned when the execution phase did not complete successfully.
	ErrBuildFailed = zerr.New("build did not complete successfully")

	// ErrDaemonSpawnFailed is returned when the daemon process cannot be started.
	ErrDaemonSpawnFailed = zerr.New("failed to spawn daemon")

	// ErrDaemonUnresponsive is returned when the daemon does not answer after startup.
	ErrDaemonUnresponsive = zerr.New("daemon started but is not responsive")
)
