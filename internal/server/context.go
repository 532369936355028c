package server

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/teemow/mailpilot/internal/applemail"
	"github.com/teemow/mailpilot/internal/instrumentation"
	"github.com/teemow/mailpilot/internal/osascript"
)

// ServerContext holds the context for the MCP server.
// It owns the single script runner; every mail operation in the process
// funnels through it so only one AppleScript runs at a time.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	runner      *osascript.Runner
	mail        *applemail.Client
	metrics     *instrumentation.Metrics
	preferences string
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context.
// User preferences are read from the USER_EMAIL_PREFERENCES environment
// variable and appended to tool descriptions at registration time.
func NewServerContext(ctx context.Context, logger *slog.Logger, opts ...osascript.Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	runnerOpts := append([]osascript.Option{osascript.WithLogger(logger)}, opts...)
	runner := osascript.NewRunner(runnerOpts...)

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		runner:      runner,
		mail:        applemail.NewClient(runner, logger),
		preferences: os.Getenv("USER_EMAIL_PREFERENCES"),
		shutdown:    false,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Runner returns the shared script runner.
func (sc *ServerContext) Runner() *osascript.Runner {
	return sc.runner
}

// MailClient returns the Mail client.
func (sc *ServerContext) MailClient() *applemail.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.mail
}

// SetMailClient replaces the Mail client. Used by tests to substitute a
// client backed by a fake interpreter.
func (sc *ServerContext) SetMailClient(client *applemail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.mail = client
}

// Preferences returns the user email preferences string, or empty.
func (sc *ServerContext) Preferences() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.preferences
}

// SetMetrics attaches a metrics recorder for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil if none is attached.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
