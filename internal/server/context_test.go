package server

import (
	"context"
	"testing"

	"github.com/teemow/mailpilot/internal/applemail"
)

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.Runner() == nil {
		t.Error("Runner() returned nil")
	}
	if sc.MailClient() == nil {
		t.Error("MailClient() returned nil")
	}
	if sc.IsShutdown() {
		t.Error("new context reports shutdown")
	}
}

func TestServerContext_PreferencesFromEnv(t *testing.T) {
	t.Setenv("USER_EMAIL_PREFERENCES", "always sign off with cheers")

	sc, err := NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if got := sc.Preferences(); got != "always sign off with cheers" {
		t.Errorf("Preferences() = %q, want %q", got, "always sign off with cheers")
	}
}

func TestServerContext_SetMailClient(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	replacement := applemail.NewClient(sc.Runner(), nil)
	sc.SetMailClient(replacement)

	if sc.MailClient() != replacement {
		t.Error("MailClient() did not return the replacement client")
	}
}

func TestServerContext_ShutdownIdempotent(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown()")
	}
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("Context() not cancelled after Shutdown()")
	}
}
