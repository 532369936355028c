// Package mail_tools registers the Apple Mail MCP tools.
//
// Read-only tools are always registered. Tools that modify mailboxes or
// send email are registered only when the server runs with --yolo, so the
// default mode cannot alter the user's mail. Destructive operations
// additionally require a confirm argument and preview their effect when it
// is absent.
//
// When the USER_EMAIL_PREFERENCES environment variable is set, its content
// is appended to every tool description so agents can honor the user's
// standing email preferences.
package mail_tools
