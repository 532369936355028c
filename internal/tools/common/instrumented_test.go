package common

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/mailpilot/internal/instrumentation"
	"github.com/teemow/mailpilot/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandler_CallsHandler(t *testing.T) {
	sc := newTestServerContext(t)

	called := false
	handler := InstrumentedToolHandler("test_tool", sc, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !called {
		t.Error("wrapped handler was not called")
	}
	if result == nil || result.IsError {
		t.Error("expected a successful result")
	}
}

func TestInstrumentedToolHandler_WithMetrics(t *testing.T) {
	sc := newTestServerContext(t)
	// A zero-value recorder is a safe no-op, same as a disabled provider.
	sc.SetMetrics(&instrumentation.Metrics{})

	handler := InstrumentedToolHandler("test_tool", sc, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("boom"), nil
	})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("expected an error result to pass through")
	}
}
