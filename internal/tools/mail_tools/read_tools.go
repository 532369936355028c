package mail_tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailpilot/internal/applemail"
	"github.com/teemow/mailpilot/internal/server"
	"github.com/teemow/mailpilot/internal/tools/common"
)

// registerReadTools registers tools that only inspect mailboxes.
func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List inbox emails tool
	listInboxTool := mcp.NewTool("mail_list_inbox_emails",
		mcp.WithDescription(describe(sc, "List emails in the inbox of all Apple Mail accounts, or one account")),
		mcp.WithString("account",
			mcp.Description("Account name to filter by; all accounts when omitted"),
		),
		mcp.WithNumber("max_emails",
			mcp.Description("Maximum number of emails per account (default: no limit)"),
		),
		mcp.WithBoolean("include_read",
			mcp.Description("Include already-read emails (default: false, unread only)"),
		),
	)

	s.AddTool(listInboxTool, common.InstrumentedToolHandler("mail_list_inbox_emails", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ListInboxEmails(ctx, applemail.ListInboxOptions{
			Account:     getStringArg(args, "account", ""),
			MaxEmails:   getIntArg(args, "max_emails", 0),
			IncludeRead: getBoolArg(args, "include_read", false),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list inbox emails: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// List accounts tool
	listAccountsTool := mcp.NewTool("mail_list_accounts",
		mcp.WithDescription(describe(sc, "List all email accounts configured in Apple Mail")),
	)

	s.AddTool(listAccountsTool, common.InstrumentedToolHandler("mail_list_accounts", sc, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		accounts, err := sc.MailClient().ListAccounts(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list accounts: %v", err)), nil
		}
		if len(accounts) == 0 {
			return mcp.NewToolResultText("No email accounts configured in Apple Mail"), nil
		}

		return mcp.NewToolResultText("Email accounts:\n- " + strings.Join(accounts, "\n- ")), nil
	}))

	// Unread count tool
	unreadCountTool := mcp.NewTool("mail_get_unread_count",
		mcp.WithDescription(describe(sc, "Get the number of unread emails per Apple Mail account")),
	)

	s.AddTool(unreadCountTool, common.InstrumentedToolHandler("mail_get_unread_count", sc, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counts, err := sc.MailClient().UnreadCounts(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get unread counts: %v", err)), nil
		}

		return mcp.NewToolResultText(formatUnreadCounts(counts)), nil
	}))

	// Recent emails tool
	recentEmailsTool := mcp.NewTool("mail_get_recent_emails",
		mcp.WithDescription(describe(sc, "Get the most recent emails from one account's inbox")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to read from"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of emails to return (default: 10)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include a content preview per email; slower (default: false)"),
		),
	)

	s.AddTool(recentEmailsTool, common.InstrumentedToolHandler("mail_get_recent_emails", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		account := getStringArg(args, "account", "")
		if account == "" {
			return mcp.NewToolResultError("account is required"), nil
		}

		out, err := sc.MailClient().RecentEmails(ctx, account,
			getIntArg(args, "count", 10),
			getBoolArg(args, "include_content", false))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get recent emails: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// List mailboxes tool
	listMailboxesTool := mcp.NewTool("mail_list_mailboxes",
		mcp.WithDescription(describe(sc, "List mailboxes (folders) of one account, or all accounts. Nested mailboxes use '/' path notation")),
		mcp.WithString("account",
			mcp.Description("Account name; all accounts when omitted"),
		),
		mcp.WithBoolean("include_counts",
			mcp.Description("Include message and unread counts per mailbox; slower (default: false)"),
		),
	)

	s.AddTool(listMailboxesTool, common.InstrumentedToolHandler("mail_list_mailboxes", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ListMailboxes(ctx,
			getStringArg(args, "account", ""),
			getBoolArg(args, "include_counts", false))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list mailboxes: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Search emails tool
	searchEmailsTool := mcp.NewTool("mail_search_emails",
		mcp.WithDescription(describe(sc, "Search emails in one account by subject, sender, attachments and read status")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to search in"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to search: 'INBOX' (default), a mailbox name, or 'All' for every mailbox"),
		),
		mcp.WithString("subject_keyword",
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithString("sender",
			mcp.Description("Match emails whose sender contains this text"),
		),
		mcp.WithBoolean("has_attachments",
			mcp.Description("Filter by attachment presence"),
		),
		mcp.WithString("read_status",
			mcp.Description("Filter by read status: 'all' (default), 'read' or 'unread'"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include a content preview per result (default: false)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results (default: 20)"),
		),
	)

	s.AddTool(searchEmailsTool, common.InstrumentedToolHandler("mail_search_emails", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		opts := applemail.SearchOptions{
			Account:        getStringArg(args, "account", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Sender:         getStringArg(args, "sender", ""),
			ReadStatus:     getStringArg(args, "read_status", ""),
			IncludeContent: getBoolArg(args, "include_content", false),
			MaxResults:     getIntArg(args, "max_results", 0),
		}
		if v, ok := args["has_attachments"].(bool); ok {
			opts.HasAttachments = &v
		}

		out, err := sc.MailClient().SearchEmails(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search emails: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// List attachments tool
	listAttachmentsTool := mcp.NewTool("mail_list_attachments",
		mcp.WithDescription(describe(sc, "List attachments of emails matching a subject keyword")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to search in"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of matching emails to inspect (default: 1)"),
		),
	)

	s.AddTool(listAttachmentsTool, common.InstrumentedToolHandler("mail_list_attachments", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().ListAttachments(ctx,
			getStringArg(args, "account", ""),
			getStringArg(args, "subject_keyword", ""),
			getIntArg(args, "max_results", 0))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Email content tool
	emailContentTool := mcp.NewTool("mail_get_email_content",
		mcp.WithDescription(describe(sc, "Search emails by subject keyword and return them with their content. Matching is case-insensitive")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to search in"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Match emails whose subject contains this text"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to search: 'INBOX' (default), a mailbox name, or 'All' for every mailbox"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of emails to return (default: 5)"),
		),
		mcp.WithNumber("max_content_length",
			mcp.Description("Maximum content characters per email; 0 returns the full body (default: 300)"),
		),
	)

	s.AddTool(emailContentTool, common.InstrumentedToolHandler("mail_get_email_content", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().GetEmailContent(ctx, applemail.ContentOptions{
			Account:          getStringArg(args, "account", ""),
			SubjectKeyword:   getStringArg(args, "subject_keyword", ""),
			Mailbox:          getStringArg(args, "mailbox", ""),
			MaxResults:       getIntArg(args, "max_results", 0),
			MaxContentLength: getIntArg(args, "max_content_length", 300),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get email content: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Email thread tool
	emailThreadTool := mcp.NewTool("mail_get_email_thread",
		mcp.WithDescription(describe(sc, "View all messages of one conversation, matched by subject with Re:/Fwd: prefixes ignored")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name to search in"),
		),
		mcp.WithString("subject_keyword",
			mcp.Required(),
			mcp.Description("Subject of the thread; reply and forward prefixes are stripped"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to search: 'INBOX' (default), a mailbox name, or 'All' for every mailbox"),
		),
		mcp.WithNumber("max_messages",
			mcp.Description("Maximum number of thread messages to return (default: 50)"),
		),
	)

	s.AddTool(emailThreadTool, common.InstrumentedToolHandler("mail_get_email_thread", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().GetEmailThread(ctx, applemail.ThreadOptions{
			Account:        getStringArg(args, "account", ""),
			SubjectKeyword: getStringArg(args, "subject_keyword", ""),
			Mailbox:        getStringArg(args, "mailbox", ""),
			MaxMessages:    getIntArg(args, "max_messages", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get email thread: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Statistics tool
	statisticsTool := mcp.NewTool("mail_get_statistics",
		mcp.WithDescription(describe(sc, "Get email statistics for one account: overview with top senders, per-sender counts, or a per-mailbox breakdown")),
		mcp.WithString("account",
			mcp.Required(),
			mcp.Description("Account name"),
		),
		mcp.WithString("scope",
			mcp.Description("One of: account_overview (default), sender_stats, mailbox_breakdown"),
		),
		mcp.WithString("sender",
			mcp.Description("Sender to report on; required for sender_stats"),
		),
		mcp.WithNumber("days_back",
			mcp.Description("Limit statistics to the last N days; 0 means all time (default: 30)"),
		),
	)

	s.AddTool(statisticsTool, common.InstrumentedToolHandler("mail_get_statistics", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		out, err := sc.MailClient().GetStatistics(ctx, applemail.StatisticsOptions{
			Account:  getStringArg(args, "account", ""),
			Scope:    getStringArg(args, "scope", ""),
			Sender:   getStringArg(args, "sender", ""),
			DaysBack: getIntArg(args, "days_back", 30),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get statistics: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	// Inbox overview tool
	inboxOverviewTool := mcp.NewTool("mail_get_inbox_overview",
		mcp.WithDescription(describe(sc, "Get a combined overview of all accounts: unread counts, mailbox structure and recent emails")),
	)

	s.AddTool(inboxOverviewTool, common.InstrumentedToolHandler("mail_get_inbox_overview", sc, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := sc.MailClient().InboxOverview(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get inbox overview: %v", err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}))

	return nil
}

// formatUnreadCounts renders per-account unread counts in a stable order.
func formatUnreadCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "No email accounts configured in Apple Mail"
	}

	accounts := make([]string, 0, len(counts))
	for account := range counts {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	var b strings.Builder
	b.WriteString("Unread emails per account:\n")
	total := 0
	for _, account := range accounts {
		count := counts[account]
		if count == applemail.UnreadCountError {
			fmt.Fprintf(&b, "- %s: error reading inbox\n", account)
			continue
		}
		fmt.Fprintf(&b, "- %s: %d\n", account, count)
		total += count
	}
	fmt.Fprintf(&b, "Total: %d", total)
	return b.String()
}
