package domain

import (
	"context"
	"errors"
	"strconv"
)

// ExitCode is the process-style result of a command.
type ExitCode int

const (
	// ExitSuccess means the command completed.
	ExitSuccess ExitCode = 0
	// ExitBuildFailure means at least one action failed.
	ExitBuildFailure ExitCode = 1
	// ExitAnalysisFailure means loading or analysis failed.
	ExitAnalysisFailure ExitCode = 1
	// ExitCommandLineError means the arguments could not be used.
	ExitCommandLineError ExitCode = 2
	// ExitInterrupted means the command was canceled before it completed.
	ExitInterrupted ExitCode = 8
	// ExitLocalEnvironmentalError means the local environment prevented the command from running.
	ExitLocalEnvironmentalError ExitCode = 36
	// ExitInternalError means an unexpected failure inside the tool.
	ExitInternalError ExitCode = 37
)

// Int returns the code as an int.
func (c ExitCode) Int() int {
	return int(c)
}

// String returns the numeric code.
func (c ExitCode) String() string {
	return strconv.Itoa(int(c))
}

// ExitCodeFor maps a command failure to its exit code.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInterrupted
	case errors.Is(err, ErrBuildFailed), errors.Is(err, ErrActionFailed):
		return ExitBuildFailure
	case errors.Is(err, ErrNoTargetsSpecified),
		errors.Is(err, ErrInvalidArguments),
		errors.Is(err, ErrInvalidLabel),
		errors.Is(err, ErrInvalidTargetName),
		errors.Is(err, ErrUnknownConfiguration),
		errors.Is(err, ErrUnknownCommand):
		return ExitCommandLineError
	case errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrMissingDependency),
		errors.Is(err, ErrCycleDetected),
		errors.Is(err, ErrArtifactConflict),
		errors.Is(err, ErrMissingGeneratingAction),
		errors.Is(err, ErrDuplicateTarget):
		return ExitAnalysisFailure
	case errors.Is(err, ErrConfigNotFound),
		errors.Is(err, ErrConfigReadFailed),
		errors.Is(err, ErrConfigParseFailed),
		errors.Is(err, ErrDaemonSpawnFailed),
		errors.Is(err, ErrDaemonUnresponsive):
		return ExitLocalEnvironmentalError
	default:
		return ExitInternalError
	}
}
