package main

import "fmt"

// Exit codes for the scouteval CLI.
const (
	ExitOK             = 0 // Every call succeeded.
	ExitInvalidArgs    = 1 // Invalid arguments, config, or missing credentials.
	ExitPartialFailure = 2 // Some batches or tuples failed, partial output written.
	ExitTotalFailure   = 3 // No output produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "scouteval: some model calls failed"
		case ExitTotalFailure:
			msg = "scouteval: no output produced"
		default:
			msg = "scouteval: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
