package osascript

import (
	"errors"
	"fmt"
)

// ErrInterpreterMissing indicates that the osascript binary is not available
// on this host. Retrying cannot fix a missing binary, so executions fail
// immediately with this error.
var ErrInterpreterMissing = errors.New("osascript not found: this tool requires macOS with AppleScript support")

// ScriptError indicates that osascript exited with a non-zero status, i.e.
// the script itself failed (syntax error, runtime error, missing mailbox).
// Script errors are never retried: the same script fails identically on
// every attempt.
type ScriptError struct {
	// Code is the osascript exit code.
	Code int

	// Stderr is the captured standard error output, trimmed.
	Stderr string
}

func (e *ScriptError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = "unknown AppleScript error"
	}
	return fmt.Sprintf("AppleScript error (code %d): %s", e.Code, msg)
}

// TimeoutError indicates that every allowed attempt exceeded the per-attempt
// timeout. It is returned only after the retry budget is exhausted.
type TimeoutError struct {
	// Attempts is the number of invocations that timed out.
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("AppleScript execution timed out after %d attempts; Apple Mail may be unresponsive", e.Attempts)
}

// UnknownError wraps an unexpected failure from the process invocation layer
// that matches none of the other kinds. It is not retried.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("AppleScript execution failed: %v", e.Err)
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

// Kind identifies the failure class of an execution error.
type Kind string

// Failure kinds produced by the runner.
const (
	KindNone               Kind = "none"
	KindScriptError        Kind = "script_error"
	KindTimeout            Kind = "timeout"
	KindInterpreterMissing Kind = "interpreter_missing"
	KindUnknown            Kind = "unknown"
)

// KindOf classifies an error returned by Runner.Run. A nil error maps to
// KindNone; errors that did not originate from the runner map to KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var scriptErr *ScriptError
	if errors.As(err, &scriptErr) {
		return KindScriptError
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return KindTimeout
	}

	if errors.Is(err, ErrInterpreterMissing) {
		return KindInterpreterMissing
	}

	return KindUnknown
}
