// Package instrumentation provides OpenTelemetry-based observability for the
// mailpilot application.
//
// # Components
//
// Provider wires up the OpenTelemetry meter and tracer providers from an
// environment-driven Config. Metrics can be exported via Prometheus (pull,
// default), OTLP (push) or stdout (development); traces via OTLP, stdout or
// not at all (default).
//
// Metrics is the recorder used by the rest of the codebase. It tracks:
//   - AppleScript executions by outcome, with attempt counts and durations
//   - MCP tool invocations by tool name and status, with durations
//
// # Cardinality
//
// Metric labels are deliberately low-cardinality: outcome kinds and tool
// names only. Account names and message subjects never become labels.
//
// # Configuration
//
// See Config for the supported environment variables. Instrumentation can be
// disabled entirely with INSTRUMENTATION_ENABLED=false, in which case the
// recorder methods become no-ops.
package instrumentation
