package osascript

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/teemow/mailpilot/internal/instrumentation"
	"github.com/teemow/mailpilot/internal/logging"
)

const (
	// DefaultTimeout is the hard ceiling for a single osascript attempt.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxAttempts is the number of invocations allowed per request.
	DefaultMaxAttempts = 3

	// initialBackoff is the wait before the second attempt; it doubles for
	// each further attempt (2s, 4s, ...).
	initialBackoff = 2 * time.Second

	interpreterName = "osascript"
)

// errAttemptTimeout marks a single timed-out attempt inside the retry loop.
// It never escapes Run; exhausted retries surface as *TimeoutError.
var errAttemptTimeout = errors.New("osascript attempt timed out")

// invoker runs one osascript attempt and returns trimmed stdout or a
// classified error. It is a field so tests can substitute a fake interpreter.
type invoker func(ctx context.Context, script string) (string, error)

// Runner executes AppleScript with serialization, per-attempt timeouts and
// a bounded retry policy for transient failures.
//
// The zero value is not usable; create runners with NewRunner. A single
// Runner owns the execution lock for the process: share one instance across
// all callers that talk to the same Mail application.
type Runner struct {
	// mu is the execution lock: at most one script is in flight against the
	// interpreter, and the lock is held across the full retry sequence.
	mu sync.Mutex

	timeout     time.Duration
	maxAttempts int
	invoke      invoker
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithMaxAttempts overrides the number of attempts per request.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		r.maxAttempts = n
	}
}

// WithLogger sets the logger used for execution progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder for script execution observability.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a Runner with the default timeout and retry policy.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		sleep:       sleepCtx,
		logger:      slog.Default(),
	}
	r.invoke = r.execInvoke

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// runState drives the retry loop. Transitions are decided by the classified
// outcome of each attempt, not by error-based control flow.
type runState int

const (
	stateAttempting runState = iota
	stateBackoff
	stateSucceeded
	stateFailed
)

// Run executes the script and returns its trimmed standard output.
//
// Run acquires the execution lock before the first attempt and releases it
// only after the retry sequence for this request completes, so concurrent
// callers never overlap against the interpreter. Only timeouts are retried;
// script errors, a missing interpreter and unexpected failures propagate
// immediately. The caller's context is honored while waiting between
// attempts, but an attempt already in flight runs to its own timeout.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.WithOperation(r.logger, "osascript.run")
	start := time.Now()

	state := stateAttempting
	attempt := 0
	var out string
	var runErr error

	for state != stateSucceeded && state != stateFailed {
		switch state {
		case stateAttempting:
			if err := ctx.Err(); err != nil {
				runErr = err
				state = stateFailed
				break
			}

			logger.Debug("executing AppleScript",
				logging.Attempt(attempt+1),
				slog.Int("max_attempts", r.maxAttempts))

			stdout, err := r.invoke(ctx, script)
			switch {
			case err == nil:
				out = strings.TrimSpace(stdout)
				if attempt > 0 {
					logger.Info("AppleScript succeeded after retry",
						logging.Attempt(attempt+1))
				}
				state = stateSucceeded

			case errors.Is(err, errAttemptTimeout):
				if attempt+1 < r.maxAttempts {
					state = stateBackoff
				} else {
					runErr = &TimeoutError{Attempts: r.maxAttempts}
					state = stateFailed
				}

			default:
				runErr = err
				state = stateFailed
			}

		case stateBackoff:
			delay := initialBackoff << attempt
			logger.Warn("AppleScript timed out, retrying",
				logging.Attempt(attempt+1),
				slog.Duration("backoff", delay))

			if err := r.sleep(ctx, delay); err != nil {
				runErr = err
				state = stateFailed
				break
			}
			attempt++
			state = stateAttempting
		}
	}

	r.record(ctx, runErr, attempt+1, time.Since(start))

	if runErr != nil {
		logger.Error("AppleScript execution failed",
			logging.Attempt(attempt+1),
			logging.Err(runErr))
		return "", runErr
	}

	return out, nil
}

// record reports the execution outcome to the metrics recorder, if any.
func (r *Runner) record(ctx context.Context, err error, attempts int, duration time.Duration) {
	if r.metrics == nil {
		return
	}

	status := instrumentation.StatusSuccess
	if err != nil {
		status = string(KindOf(err))
	}
	r.metrics.RecordScriptExecution(ctx, status, attempts, duration)
}

// execInvoke runs one osascript attempt as an external process, capturing
// stdout and stderr, and classifies the result.
//
// The per-attempt ceiling is enforced here, detached from the caller's
// context: there is no mechanism to cancel an attempt already in flight
// short of the timeout firing.
func (r *Runner) execInvoke(_ context.Context, script string) (string, error) {
	runCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, interpreterName, "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return "", errAttemptTimeout

	case errors.Is(err, exec.ErrNotFound):
		return "", ErrInterpreterMissing

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ScriptError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return "", &UnknownError{Err: err}
	}
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
