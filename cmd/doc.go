// Package cmd implements the command-line interface for mailpilot.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide Apple Mail tools for AI assistants
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
