package osascript

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "nil error",
			err:  nil,
			want: KindNone,
		},
		{
			name: "script error",
			err:  &ScriptError{Code: 1, Stderr: "syntax error"},
			want: KindScriptError,
		},
		{
			name: "wrapped script error",
			err:  fmt.Errorf("listing inbox: %w", &ScriptError{Code: 2}),
			want: KindScriptError,
		},
		{
			name: "timeout",
			err:  &TimeoutError{Attempts: 3},
			want: KindTimeout,
		},
		{
			name: "interpreter missing",
			err:  ErrInterpreterMissing,
			want: KindInterpreterMissing,
		},
		{
			name: "wrapped interpreter missing",
			err:  fmt.Errorf("running script: %w", ErrInterpreterMissing),
			want: KindInterpreterMissing,
		},
		{
			name: "unknown wrapper",
			err:  &UnknownError{Err: errors.New("boom")},
			want: KindUnknown,
		},
		{
			name: "unrelated error",
			err:  context.Canceled,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestScriptErrorMessage(t *testing.T) {
	withStderr := &ScriptError{Code: 1, Stderr: "Mail got an error"}
	assert.Equal(t, "AppleScript error (code 1): Mail got an error", withStderr.Error())

	// Empty stderr falls back to a fixed placeholder.
	empty := &ScriptError{Code: 2}
	assert.Equal(t, "AppleScript error (code 2): unknown AppleScript error", empty.Error())
}

func TestUnknownErrorUnwrap(t *testing.T) {
	cause := errors.New("fork failed")
	err := &UnknownError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fork failed")
}
