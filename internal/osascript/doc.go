// Package osascript executes AppleScript against the local macOS scripting
// runtime (osascript) on behalf of the mailpilot tools.
//
// Apple Mail misbehaves under concurrent automation, so a Runner serializes
// all executions onto a single in-flight invocation: callers queue on the
// runner's execution lock and the lock is held for the full retry sequence
// of a request.
//
// # Retry Policy
//
// Each request gets up to 3 attempts with a 120 second timeout per attempt.
// Only timeouts are retried (with exponential backoff: 2s, 4s); they are the
// one failure class that plausibly self-resolves when Mail is transiently
// busy. Script errors are deterministic for a given script and fail
// immediately, as does a missing osascript binary.
//
// # Error Classification
//
// Every failure surfaces as one of the classified kinds:
//   - ErrInterpreterMissing: osascript is not installed (not macOS)
//   - *ScriptError: the script exited non-zero (syntax or runtime fault)
//   - *TimeoutError: all attempts exceeded the per-attempt timeout
//   - *UnknownError: anything else
//
// Use KindOf to map an error to its kind, e.g. for metrics labels.
package osascript
