// Package server holds the shared runtime state of the mailpilot MCP server.
//
// ServerContext owns the single AppleScript runner and the Mail client built
// on top of it, and coordinates graceful shutdown. MetricsServer exposes
// Prometheus metrics on a dedicated port, and HealthChecker provides the
// liveness and readiness endpoints used when serving over HTTP.
package server
