package mail_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailpilot/internal/server"
)

// getStringArg extracts a string argument, returning def when absent.
func getStringArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// getBoolArg extracts a boolean argument, returning def when absent.
func getBoolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// getIntArg extracts a numeric argument. JSON numbers arrive as float64.
func getIntArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

// describe builds a tool description, appending the user's email
// preferences when configured.
func describe(sc *server.ServerContext, desc string) string {
	if prefs := sc.Preferences(); prefs != "" {
		return desc + "\n\nUser Preferences: " + prefs
	}
	return desc
}

// RegisterMailTools registers all Apple Mail tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterMailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}

	if !readOnly {
		if err := registerWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register write tools: %w", err)
		}
	}

	return nil
}
