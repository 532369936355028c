package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrStatus = "status"
	attrTool   = "tool"
)

// Metrics provides methods for recording observability metrics.
//
// A zero-value Metrics is a valid no-op recorder; every Record method
// checks for uninitialized instruments and returns early.
type Metrics struct {
	// AppleScript execution metrics
	scriptExecutionsTotal metric.Int64Counter
	scriptDuration        metric.Float64Histogram
	scriptAttempts        metric.Int64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// AppleScript execution metrics
	m.scriptExecutionsTotal, err = meter.Int64Counter(
		"applescript_executions_total",
		metric.WithDescription("Total number of AppleScript executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create applescript_executions_total counter: %w", err)
	}

	m.scriptDuration, err = meter.Float64Histogram(
		"applescript_execution_duration_seconds",
		metric.WithDescription("AppleScript execution duration in seconds, including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create applescript_execution_duration_seconds histogram: %w", err)
	}

	m.scriptAttempts, err = meter.Int64Histogram(
		"applescript_execution_attempts",
		metric.WithDescription("Number of attempts per AppleScript execution"),
		metric.WithUnit("{attempt}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create applescript_execution_attempts histogram: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordScriptExecution records a completed AppleScript execution.
//
// Parameters:
//   - status: Outcome status ("success", "script_error", "timeout",
//     "interpreter_missing", "unknown")
//   - attempts: Number of interpreter invocations the execution took
//   - duration: Total wall-clock time of the execution, including retries
func (m *Metrics) RecordScriptExecution(ctx context.Context, status string, attempts int, duration time.Duration) {
	if m.scriptExecutionsTotal == nil || m.scriptDuration == nil || m.scriptAttempts == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.scriptExecutionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.scriptDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.scriptAttempts.Record(ctx, int64(attempts), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "mail_list_emails", "mail_move_email")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
