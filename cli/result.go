package cli

import "errors"

// CommandError signals a command failure with a specific exit code.
// Commands return this after handling all output (printing errors/warnings to stderr).
// Main centralizes exit handling instead of commands calling os.Exit directly.
type CommandError struct {
	exitCode int
	message  string
}

// Exit codes.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitDiscrepancy = 3
)

func NewCommandError(exitCode int, message string) *CommandError {
	return &CommandError{exitCode: exitCode, message: message}
}

func (e *CommandError) Error() string {
	if e.message == "" {
		return "command failed"
	}
	return e.message
}

func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of Execute.
type CommandResult struct {
	// ExitCode is the exit code to return to the OS.
	ExitCode int

	// Err is set for non-zero exit codes.
	Err error
}

func Success() CommandResult {
	return CommandResult{ExitCode: 0}
}

// Failure uses the exit code of a CommandError, or ExitFailure.
func Failure(err error) CommandResult {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return CommandResult{ExitCode: cmdErr.ExitCode(), Err: err}
	}
	return CommandResult{ExitCode: ExitFailure, Err: err}
}
