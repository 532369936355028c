package mail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailpilot/internal/applemail"
	"github.com/teemow/mailpilot/internal/server"
	"github.com/teemow/mailpilot/internal/tools/common"
)

// registerWriteTools registers tools that modify mailboxes or send email.
// These are only available when the server runs with --yolo.
func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Move email tool
	moveEmailTool := mcp.NewTool("mail_move_email",
		mcp.WithDescription(describe(sc, "Move emails matching a subject keyword to another mailbox. Destination may be a nested path like 'Projects/Reports'")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithString("to_mailbox",
			mcp.Required(),
			mcp.Description("Destination mailbox, optionally a nested '/' path"),
		),
		mcp.WithString("from_mailbox",
			mcp.Description("Source mailbox (default: INBOX)"),
		),
		mcp.WithNumber("max_moves",
			mcp.Description("Maximum number of emails to move (default: 1)"),
		),
	)

	s.AddTool(moveEmailTool, common.InstrumentedToolHandler("mail_move_email", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().MoveEmail(ctx, applemail.MoveOptions{
			Account:        getStringArg(args, "account", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			ToMailbox:      getStringArg(args, "to_mailbox", ""),
			FromMailbox:    getStringArg(args, "from_mailbox", ""),
			MaxMoves:       getIntArg(args, "max_moves", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to move email: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Reply to email tool
	replyTool := mcp.NewTool("mail_reply_to_email",
		mcp.WithDescription(describe(sc, "Reply to the first inbox email matching a subject keyword. Previews the reply unless confirm is true")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match the email whose subject contains this text"),
		),
		mcp.WithString("reply_body",
			mcp.Required(),
			mcp.Description("Body text of the reply"),
		),
		mcp.WithBoolean("reply_all",
			mcp.Description("Reply to all recipients (default: false)"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Actually send the reply; preview only when false (default: false)"),
		),
	)

	s.AddTool(replyTool, common.InstrumentedToolHandler("mail_reply_to_email", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ReplyToEmail(ctx, applemail.ReplyOptions{
			Account:        getStringArg(args, "account", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Body:           getStringArg(args, "reply_body", ""),
			ReplyToAll:     getBoolArg(args, "reply_all", false),
			Confirm:        getBoolArg(args, "confirm", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to reply: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Compose email tool
	composeTool := mcp.NewTool("mail_compose_email",
		mcp.WithDescription(describe(sc, "Compose a new email from a specific account. Previews the email unless confirm is true")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to send from"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient addresses, comma-separated"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body text"),
		),
		mcp.WithString("cc",
			mcp.Description("CC addresses, comma-separated"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC addresses, comma-separated"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Actually send the email; preview only when false (default: false)"),
		),
	)

	s.AddTool(composeTool, common.InstrumentedToolHandler("mail_compose_email", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ComposeEmail(ctx, applemail.ComposeOptions{
			Account: getStringArg(args, "account", ""),
			To:      getStringArg(args, "to", ""),
			Subject: getStringArg(args, "subject", ""),
			Body:    getStringArg(args, "body", ""),
			CC:      getStringArg(args, "cc", ""),
			BCC:     getStringArg(args, "bcc", ""),
			Confirm: getBoolArg(args, "confirm", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to compose email: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Forward email tool
	forwardTool := mcp.NewTool("mail_forward_email",
		mcp.WithDescription(describe(sc, "Forward the first email matching a subject keyword. Previews the forward unless confirm is true")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match the email whose subject contains this text"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient addresses, comma-separated"),
		),
		mcp.WithString("message",
			mcp.Description("Text prepended before the forwarded content"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to search (default: INBOX)"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Actually send the forward; preview only when false (default: false)"),
		),
	)

	s.AddTool(forwardTool, common.InstrumentedToolHandler("mail_forward_email", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ForwardEmail(ctx, applemail.ForwardOptions{
			Account:        getStringArg(args, "account", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			To:             getStringArg(args, "to", ""),
			Message:        getStringArg(args, "message", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			Confirm:        getBoolArg(args, "confirm", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to forward email: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Update email status tool
	updateStatusTool := mcp.NewTool("mail_update_email_status",
		mcp.WithDescription(describe(sc, "Mark emails read/unread or flag/unflag them, filtered by subject keyword or sender")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: mark_read, mark_unread, flag, unflag"),
		),
		mcp.WithString("subject_keyword",
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithString("sender",
			mcp.Description("Match emails whose sender contains this text"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to update in (default: INBOX)"),
		),
		mcp.WithNumber("max_updates",
			mcp.Description("Maximum number of emails to update (default: 10)"),
		),
	)

	s.AddTool(updateStatusTool, common.InstrumentedToolHandler("mail_update_email_status", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().UpdateEmailStatus(ctx, applemail.UpdateStatusOptions{
			Account:        getStringArg(args, "account", ""),
			Action:         getStringArg(args, "action", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Sender:         getStringArg(args, "sender", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			MaxUpdates:     getIntArg(args, "max_updates", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update email status: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Manage trash tool
	manageTrashTool := mcp.NewTool("mail_manage_trash",
		mcp.WithDescription(describe(sc, "Move emails to trash, permanently delete from trash, or empty the trash. Destructive actions preview unless confirm is true")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: move_to_trash, delete_permanent, empty_trash"),
		),
		mcp.WithString("subject_keyword",
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithString("sender",
			mcp.Description("Match emails whose sender contains this text"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to act on (default: INBOX)"),
		),
		mcp.WithNumber("max_deletes",
			mcp.Description("Maximum number of emails to affect (default: 5)"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Required for delete_permanent and empty_trash; preview only when false (default: false)"),
		),
	)

	s.AddTool(manageTrashTool, common.InstrumentedToolHandler("mail_manage_trash", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ManageTrash(ctx, applemail.TrashOptions{
			Account:        getStringArg(args, "account", ""),
			Action:         getStringArg(args, "action", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Sender:         getStringArg(args, "sender", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			MaxDeletes:     getIntArg(args, "max_deletes", 0),
			Confirm:        getBoolArg(args, "confirm", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to manage trash: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Manage drafts tool
	manageDraftsTool := mcp.NewTool("mail_manage_drafts",
		mcp.WithDescription(describe(sc, "List, create, send or delete drafts of one account. Sending and deleting preview unless confirm is true")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: list, create, send, delete"),
		),
		mcp.WithString("subject",
			mcp.Description("Draft subject; required for create"),
		),
		mcp.WithString("to",
			mcp.Description("Recipient addresses, comma-separated; required for create"),
		),
		mcp.WithString("body",
			mcp.Description("Draft body text; required for create"),
		),
		mcp.WithString("cc",
			mcp.Description("CC addresses, comma-separated"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC addresses, comma-separated"),
		),
		mcp.WithString("draft_subject",
			mcp.Description("Subject of the draft to act on; required for send and delete"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Actually send or delete the draft; preview only when false (default: false)"),
		),
	)

	s.AddTool(manageDraftsTool, common.InstrumentedToolHandler("mail_manage_drafts", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ManageDrafts(ctx, applemail.DraftOptions{
			Account:      getStringArg(args, "account", ""),
			Action:       getStringArg(args, "action", ""),
			Subject:      getStringArg(args, "subject", ""),
			To:           getStringArg(args, "to", ""),
			Body:         getStringArg(args, "body", ""),
			CC:           getStringArg(args, "cc", ""),
			BCC:          getStringArg(args, "bcc", ""),
			DraftSubject: getStringArg(args, "draft_subject", ""),
			Confirm:      getBoolArg(args, "confirm", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to manage drafts: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Export emails tool
	exportEmailsTool := mcp.NewTool("mail_export_emails",
		mcp.WithDescription(describe(sc, "Export emails to files. Exports one email matched by subject keyword, or an entire mailbox")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("scope",
			mcp.Description("One of: single_email (default), entire_mailbox"),
		),
		mcp.WithString("subject_keyword",
			mcp.Description("Match the email whose subject contains this text; required for single_email"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to export from (default: INBOX)"),
		),
		mcp.WithString("save_directory",
			mcp.Description("Directory to write files into (default: ~/Desktop)"),
		),
		mcp.WithString("format",
			mcp.Description("Export format: 'txt' (default) or 'html'"),
		),
	)

	s.AddTool(exportEmailsTool, common.InstrumentedToolHandler("mail_export_emails", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ExportEmails(ctx, applemail.ExportOptions{
			Account:        getStringArg(args, "account", ""),
			Scope:          getStringArg(args, "scope", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			SaveDirectory:  getStringArg(args, "save_directory", ""),
			Format:         getStringArg(args, "format", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export emails: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Save attachment tool
	saveAttachmentTool := mcp.NewTool("mail_save_attachment",
		mcp.WithDescription(describe(sc, "Save an attachment of the first email matching a subject keyword to an absolute path")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match the email whose subject contains this text"),
		),
		mcp.WithString("attachment_name",
			mcp.Required(),
			mcp.Description("Name of the attachment to save"),
		),
		mcp.WithString("save_path",
			mcp.Required(),
			mcp.Description("Absolute destination path for the attachment"),
		),
	)

	s.AddTool(saveAttachmentTool, common.InstrumentedToolHandler("mail_save_attachment", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().SaveAttachment(ctx,
			getStringArg(args, "account", ""),
			getStringArg(args, "subject_keyword", ""),
			getStringArg(args, "attachment_name", ""),
			getStringArg(args, "save_path", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save attachment: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	return nil
}
