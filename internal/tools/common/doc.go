// Package common provides shared helpers for MCP tool handlers, such as
// wrapping handlers with invocation metrics.
package common
