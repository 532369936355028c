package applemail

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/teemow/mailpilot/internal/logging"
)

// Statistics scopes.
const (
	ScopeAccountOverview  = "account_overview"
	ScopeSenderStats      = "sender_stats"
	ScopeMailboxBreakdown = "mailbox_breakdown"
)

// StatisticsOptions controls GetStatistics.
type StatisticsOptions struct {
	Account string
	Scope   string // ScopeAccountOverview, ScopeSenderStats or ScopeMailboxBreakdown
	// Sender is required for ScopeSenderStats.
	Sender string
	// DaysBack limits statistics to recent messages; 0 means all time.
	DaysBack int
}

// GetStatistics reports email statistics for one account: an inbox overview
// with top senders, per-sender counts, or a per-mailbox breakdown.
func (c *Client) GetStatistics(ctx context.Context, opts StatisticsOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	if opts.Scope == "" {
		opts.Scope = ScopeAccountOverview
	}
	if opts.DaysBack < 0 {
		return "", fmt.Errorf("days_back must not be negative, got %d", opts.DaysBack)
	}

	attrs := []any{logging.Account(opts.Account)}

	switch opts.Scope {
	case ScopeAccountOverview:
		return c.run(ctx, "mail.stats_overview", accountOverviewScript(opts), attrs...)
	case ScopeSenderStats:
		if opts.Sender == "" {
			return "", fmt.Errorf("sender is required for sender_stats")
		}
		attrs = append(attrs, logging.SenderHash(opts.Sender))
		return c.run(ctx, "mail.stats_sender", senderStatsScript(opts), attrs...)
	case ScopeMailboxBreakdown:
		return c.run(ctx, "mail.stats_mailboxes", mailboxBreakdownScript(opts), attrs...)
	default:
		return "", fmt.Errorf("invalid scope %q, must be one of: account_overview, sender_stats, mailbox_breakdown", opts.Scope)
	}
}

// dateFilterSnippet declares targetDate when daysBack limits the window.
// Returns the declaration and the per-message condition to append.
func dateFilterSnippet(daysBack int) (decl, cond string) {
	if daysBack <= 0 {
		return "", ""
	}
	decl = fmt.Sprintf("set targetDate to (current date) - (%d * days)", daysBack)
	cond = " and messageDate > targetDate"
	return decl, cond
}

func timeWindowLabel(daysBack int) string {
	if daysBack <= 0 {
		return "all time"
	}
	return fmt.Sprintf("last %d days", daysBack)
}

func accountOverviewScript(opts StatisticsOptions) string {
	dateDecl, dateCond := dateFilterSnippet(opts.DaysBack)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EMAIL STATISTICS - ACCOUNT OVERVIEW" & return
		set outputText to outputText & "Account: %s" & return
		set outputText to outputText & "Period: %s" & return & return

		try
			set targetAccount to account "%s"
			%s
			%s

			set totalCount to 0
			set unreadCount to 0
			set flaggedCount to 0
			set attachmentCount to 0
			set senderNames to {}
			set senderTallies to {}

			set inboxMessages to every message of inboxMailbox
			repeat with aMessage in inboxMessages
				try
					set messageDate to date received of aMessage
					if true%s then
						set totalCount to totalCount + 1
						if read status of aMessage is false then
							set unreadCount to unreadCount + 1
						end if
						if flagged status of aMessage then
							set flaggedCount to flaggedCount + 1
						end if
						if (count of mail attachments of aMessage) > 0 then
							set attachmentCount to attachmentCount + 1
						end if

						set messageSender to sender of aMessage
						set senderIndex to 0
						repeat with i from 1 to count of senderNames
							if item i of senderNames is messageSender then
								set senderIndex to i
								exit repeat
							end if
						end repeat
						if senderIndex is 0 then
							set end of senderNames to messageSender
							set end of senderTallies to 1
						else
							set item senderIndex of senderTallies to (item senderIndex of senderTallies) + 1
						end if
					end if
				end try
			end repeat

			set outputText to outputText & "Total emails: " & totalCount & return
			set outputText to outputText & "Unread: " & unreadCount & return
			set outputText to outputText & "Read: " & (totalCount - unreadCount) & return
			set outputText to outputText & "Flagged: " & flaggedCount & return
			set outputText to outputText & "With attachments: " & attachmentCount & return & return

			set outputText to outputText & "TOP SENDERS:" & return
			set topLimit to 5
			if (count of senderNames) < topLimit then
				set topLimit to count of senderNames
			end if
			repeat with rank from 1 to topLimit
				set maxTally to 0
				set maxIndex to 0
				repeat with i from 1 to count of senderTallies
					if item i of senderTallies > maxTally then
						set maxTally to item i of senderTallies
						set maxIndex to i
					end if
				end repeat
				if maxIndex > 0 then
					set outputText to outputText & rank & ". " & item maxIndex of senderNames & " (" & maxTally & ")" & return
					set item maxIndex of senderTallies to 0
				end if
			end repeat

			set outputText to outputText & return & "MAILBOX DISTRIBUTION:" & return
			set allMailboxes to every mailbox of targetAccount
			repeat with aMailbox in allMailboxes
				try
					set outputText to outputText & "- " & name of aMailbox & ": " & (count of messages of aMailbox) & return
				end try
			end repeat

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), timeWindowLabel(opts.DaysBack), EscapeString(opts.Account),
		mailboxSnippet(MailboxInbox, "targetAccount", "inboxMailbox"), dateDecl, dateCond)
}

func senderStatsScript(opts StatisticsOptions) string {
	dateDecl, dateCond := dateFilterSnippet(opts.DaysBack)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EMAIL STATISTICS - SENDER" & return
		set outputText to outputText & "Sender filter: %s" & return
		set outputText to outputText & "Period: %s" & return & return

		try
			set targetAccount to account "%s"
			%s

			set totalCount to 0
			set unreadCount to 0
			set flaggedCount to 0

			set allMailboxes to every mailbox of targetAccount
			repeat with aMailbox in allMailboxes
				try
					set mailboxMessages to every message of aMailbox
					repeat with aMessage in mailboxMessages
						try
							set messageSender to sender of aMessage
							set messageDate to date received of aMessage
							if messageSender contains "%s"%s then
								set totalCount to totalCount + 1
								if read status of aMessage is false then
									set unreadCount to unreadCount + 1
								end if
								if flagged status of aMessage then
									set flaggedCount to flaggedCount + 1
								end if
							end if
						end try
					end repeat
				end try
			end repeat

			set outputText to outputText & "Total from sender: " & totalCount & return
			set outputText to outputText & "Unread: " & unreadCount & return
			set outputText to outputText & "Flagged: " & flaggedCount & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Sender), timeWindowLabel(opts.DaysBack), EscapeString(opts.Account),
		dateDecl, EscapeString(opts.Sender), dateCond)
}

func mailboxBreakdownScript(opts StatisticsOptions) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EMAIL STATISTICS - MAILBOX BREAKDOWN" & return
		set outputText to outputText & "Account: %s" & return & return

		try
			set targetAccount to account "%s"
			set allMailboxes to every mailbox of targetAccount

			repeat with aMailbox in allMailboxes
				try
					set mailboxTotal to count of messages of aMailbox
					set mailboxUnread to unread count of aMailbox
					set outputText to outputText & "📁 " & name of aMailbox & return
					set outputText to outputText & "   Total: " & mailboxTotal & ", Unread: " & mailboxUnread & return
				end try
			end repeat

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), EscapeString(opts.Account))
}

// Export scopes and formats.
const (
	ExportSingleEmail   = "single_email"
	ExportEntireMailbox = "entire_mailbox"

	ExportFormatText = "txt"
	ExportFormatHTML = "html"
)

// ExportOptions controls ExportEmails.
type ExportOptions struct {
	Account string
	Scope   string // ExportSingleEmail or ExportEntireMailbox
	// SubjectKeyword selects the email for ExportSingleEmail.
	SubjectKeyword string
	Mailbox        string
	// SaveDirectory defaults to ~/Desktop; a leading "~" is expanded.
	SaveDirectory string
	Format        string // ExportFormatText or ExportFormatHTML
}

// ExportEmails writes emails to files on disk. The files are written by the
// Mail application itself; this process never touches the export paths.
func (c *Client) ExportEmails(ctx context.Context, opts ExportOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	if opts.Scope == "" {
		opts.Scope = ExportSingleEmail
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	if opts.SaveDirectory == "" {
		opts.SaveDirectory = "~/Desktop"
	}
	if strings.HasPrefix(opts.SaveDirectory, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand save_directory: %w", err)
		}
		opts.SaveDirectory = home + strings.TrimPrefix(opts.SaveDirectory, "~")
	}
	switch opts.Format {
	case "":
		opts.Format = ExportFormatText
	case ExportFormatText, ExportFormatHTML:
	default:
		return "", fmt.Errorf("invalid format %q, must be one of: txt, html", opts.Format)
	}

	attrs := []any{logging.Account(opts.Account), logging.Mailbox(opts.Mailbox)}

	switch opts.Scope {
	case ExportSingleEmail:
		if opts.SubjectKeyword == "" {
			return "", fmt.Errorf("subject_keyword is required for single_email export")
		}
		return c.run(ctx, "mail.export_single", exportSingleScript(opts), attrs...)
	case ExportEntireMailbox:
		return c.run(ctx, "mail.export_mailbox", exportMailboxScript(opts), attrs...)
	default:
		return "", fmt.Errorf("invalid scope %q, must be one of: single_email, entire_mailbox", opts.Scope)
	}
}

// safeFileNameSnippet turns the subject in subjectVar into a filesystem-safe
// name in resultVar by replacing path and date separators.
func safeFileNameSnippet(subjectVar, resultVar string) string {
	return fmt.Sprintf(`set AppleScript's text item delimiters to "/"
			set nameParts to text items of %s
			set AppleScript's text item delimiters to "-"
			set %s to nameParts as string
			set AppleScript's text item delimiters to ":"
			set nameParts to text items of %s
			set AppleScript's text item delimiters to "-"
			set %s to nameParts as string
			set AppleScript's text item delimiters to ""`,
		subjectVar, resultVar, resultVar, resultVar)
}

// exportContentSnippet assembles exportContent for aMessage in the chosen
// format.
func exportContentSnippet(format string) string {
	if format == ExportFormatHTML {
		return `set exportContent to "<html><head><meta charset=\"utf-8\"></head><body>" & return
				set exportContent to exportContent & "<p><b>Subject:</b> " & messageSubject & "</p>" & return
				set exportContent to exportContent & "<p><b>From:</b> " & messageSender & "</p>" & return
				set exportContent to exportContent & "<p><b>Date:</b> " & (messageDate as string) & "</p>" & return
				set exportContent to exportContent & "<hr><pre>" & messageContent & "</pre>" & return
				set exportContent to exportContent & "</body></html>"`
	}
	return `set exportContent to "Subject: " & messageSubject & return
				set exportContent to exportContent & "From: " & messageSender & return
				set exportContent to exportContent & "Date: " & (messageDate as string) & return
				set exportContent to exportContent & "========================================" & return & return
				set exportContent to exportContent & messageContent`
}

func exportSingleScript(opts ExportOptions) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EXPORTING EMAIL" & return & return

		try
			set targetAccount to account "%s"
			%s

			set mailboxMessages to every message of exportMailbox
			set foundMessage to missing value

			repeat with aMessage in mailboxMessages
				if subject of aMessage contains "%s" then
					set foundMessage to aMessage
					exit repeat
				end if
			end repeat

			if foundMessage is missing value then
				return "No email found matching: %s"
			end if

			set aMessage to foundMessage
			set messageSubject to subject of aMessage
			set messageSender to sender of aMessage
			set messageDate to date received of aMessage
			set messageContent to content of aMessage

			%s

			%s
			set filePath to "%s/" & safeName & ".%s"

			set fileRef to open for access POSIX file filePath with write permission
			set eof of fileRef to 0
			write exportContent to fileRef as «class utf8»
			close access fileRef

			set outputText to outputText & "✓ Exported: " & messageSubject & return
			set outputText to outputText & "File: " & filePath & return

		on error errMsg
			try
				close access fileRef
			end try
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account),
		mailboxSnippet(opts.Mailbox, "targetAccount", "exportMailbox"),
		EscapeString(opts.SubjectKeyword), EscapeString(opts.SubjectKeyword),
		exportContentSnippet(opts.Format),
		safeFileNameSnippet("messageSubject", "safeName"),
		EscapeString(opts.SaveDirectory), opts.Format)
}

func exportMailboxScript(opts ExportOptions) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EXPORTING MAILBOX" & return
		set outputText to outputText & "Mailbox: %s" & return & return

		try
			set targetAccount to account "%s"
			%s

			set exportDir to "%s/mailbox_export"
			do shell script "mkdir -p " & quoted form of exportDir

			set mailboxMessages to every message of exportMailbox
			set exportCount to 0

			repeat with aMessage in mailboxMessages
				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage
					set messageDate to date received of aMessage
					set messageContent to content of aMessage

					%s

					%s
					set filePath to exportDir & "/" & safeName & ".%s"

					set fileRef to open for access POSIX file filePath with write permission
					set eof of fileRef to 0
					write exportContent to fileRef as «class utf8»
					close access fileRef

					set exportCount to exportCount + 1
				on error
					try
						close access fileRef
					end try
				end try
			end repeat

			set outputText to outputText & "✓ Exported " & exportCount & " email(s)" & return
			set outputText to outputText & "Directory: " & exportDir & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Mailbox), EscapeString(opts.Account),
		mailboxSnippet(opts.Mailbox, "targetAccount", "exportMailbox"),
		EscapeString(opts.SaveDirectory),
		exportContentSnippet(opts.Format),
		safeFileNameSnippet("messageSubject", "safeName"),
		opts.Format)
}
