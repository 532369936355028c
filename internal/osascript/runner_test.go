package osascript

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInterpreter scripts the outcome of successive attempts and records
// how often it was invoked.
type fakeInterpreter struct {
	mu       sync.Mutex
	outcomes []fakeOutcome
	calls    int
}

type fakeOutcome struct {
	stdout string
	err    error
}

func (f *fakeInterpreter) invoke(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.calls
	f.calls++
	if idx >= len(f.outcomes) {
		idx = len(f.outcomes) - 1
	}
	return f.outcomes[idx].stdout, f.outcomes[idx].err
}

func (f *fakeInterpreter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestRunner builds a runner backed by the fake interpreter, with sleeps
// recorded instead of performed.
func newTestRunner(t *testing.T, fake *fakeInterpreter) (*Runner, *[]time.Duration) {
	t.Helper()

	var slept []time.Duration
	r := NewRunner()
	r.invoke = fake.invoke
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestRunSuccessSingleInvocation(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{
		{stdout: "  INBOX EMAILS\nTOTAL EMAILS: 0\n  "},
	}}
	r, slept := newTestRunner(t, fake)

	out, err := r.Run(context.Background(), `tell application "Mail" to return ""`)

	require.NoError(t, err)
	assert.Equal(t, "INBOX EMAILS\nTOTAL EMAILS: 0", out, "stdout should be trimmed")
	assert.Equal(t, 1, fake.callCount(), "success on first attempt should invoke exactly once")
	assert.Empty(t, *slept, "no backoff on success")
}

func TestRunScriptErrorNotRetried(t *testing.T) {
	scriptErr := &ScriptError{Code: 1, Stderr: "Mail got an error: Can't get mailbox"}
	fake := &fakeInterpreter{outcomes: []fakeOutcome{{err: scriptErr}}}
	r, slept := newTestRunner(t, fake)

	_, err := r.Run(context.Background(), "bad script")

	var got *ScriptError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 1, got.Code)
	assert.Contains(t, got.Error(), "Can't get mailbox")
	assert.Equal(t, 1, fake.callCount(), "script errors must fail after exactly one invocation")
	assert.Empty(t, *slept)
}

func TestRunRetriesTimeoutsWithBackoff(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{
		{err: errAttemptTimeout},
		{err: errAttemptTimeout},
		{stdout: "ok"},
	}}
	r, slept := newTestRunner(t, fake)

	out, err := r.Run(context.Background(), "slow script")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, fake.callCount())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestRunTimeoutExhaustsRetries(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{{err: errAttemptTimeout}}}
	r, slept := newTestRunner(t, fake)

	_, err := r.Run(context.Background(), "slow script")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Contains(t, err.Error(), "may be unresponsive")
	assert.Equal(t, 3, fake.callCount(), "no invocations beyond the retry budget")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept,
		"no backoff after the final attempt")
}

func TestRunInterpreterMissingNotRetried(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{{err: ErrInterpreterMissing}}}
	r, _ := newTestRunner(t, fake)

	_, err := r.Run(context.Background(), "any script")

	require.ErrorIs(t, err, ErrInterpreterMissing)
	assert.Equal(t, 1, fake.callCount())
}

func TestRunUnknownFailureNotRetried(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{
		{err: &UnknownError{Err: errors.New("fork failed")}},
	}}
	r, _ := newTestRunner(t, fake)

	_, err := r.Run(context.Background(), "any script")

	var unknownErr *UnknownError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, 1, fake.callCount())
}

func TestRunHonorsCancellationBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fake := &fakeInterpreter{outcomes: []fakeOutcome{{err: errAttemptTimeout}}}
	r := NewRunner()
	r.invoke = fake.invoke
	r.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := r.Run(ctx, "slow script")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.callCount(), "cancellation during backoff must stop further attempts")
}

func TestRunMaxAttemptsOption(t *testing.T) {
	fake := &fakeInterpreter{outcomes: []fakeOutcome{{err: errAttemptTimeout}}}

	var slept []time.Duration
	r := NewRunner(WithMaxAttempts(1))
	r.invoke = fake.invoke
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	_, err := r.Run(context.Background(), "slow script")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 1, timeoutErr.Attempts)
	assert.Equal(t, 1, fake.callCount())
	assert.Empty(t, slept)
}

func TestRunSerializesConcurrentCalls(t *testing.T) {
	var inFlight atomic.Int32
	var overlaps atomic.Int32

	r := NewRunner()
	r.invoke = func(_ context.Context, _ string) (string, error) {
		if inFlight.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "done", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Run(context.Background(), "script")
			assert.NoError(t, err)
			assert.Equal(t, "done", out)
		}()
	}
	wg.Wait()

	assert.Zero(t, overlaps.Load(), "interpreter invocations must never overlap")
}
