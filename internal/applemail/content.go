package applemail

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/mailpilot/internal/logging"
)

// ContentOptions controls GetEmailContent.
type ContentOptions struct {
	Account        string
	SubjectKeyword string
	Mailbox        string // MailboxAll searches every mailbox
	MaxResults     int
	// MaxContentLength caps the content preview per email; 0 means the full
	// body is returned.
	MaxContentLength int
}

// GetEmailContent searches emails by subject keyword and returns them with
// their full content, or a capped preview when MaxContentLength is set.
// Subject matching is case-insensitive.
func (c *Client) GetEmailContent(ctx context.Context, opts ContentOptions) (string, error) {
	if opts.Account == "" || opts.SubjectKeyword == "" {
		return "", fmt.Errorf("account and subject_keyword are required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.MaxContentLength < 0 {
		opts.MaxContentLength = 0
	}
	return c.run(ctx, "mail.get_content", emailContentScript(opts),
		logging.Account(opts.Account), logging.Mailbox(opts.Mailbox))
}

// ThreadOptions controls GetEmailThread.
type ThreadOptions struct {
	Account        string
	SubjectKeyword string
	Mailbox        string // MailboxAll searches every mailbox
	MaxMessages    int
}

// replyPrefixes are stripped from the keyword so a thread is matched by its
// topic regardless of how deep the reply chain goes.
var replyPrefixes = []string{"Re:", "Fwd:", "FW:", "RE:", "Fw:"}

// GetEmailThread collects all messages belonging to one conversation,
// matching on the subject with reply and forward prefixes stripped.
func (c *Client) GetEmailThread(ctx context.Context, opts ThreadOptions) (string, error) {
	if opts.Account == "" || opts.SubjectKeyword == "" {
		return "", fmt.Errorf("account and subject_keyword are required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 50
	}
	return c.run(ctx, "mail.get_thread", emailThreadScript(opts),
		logging.Account(opts.Account), logging.Mailbox(opts.Mailbox))
}

// stripReplyPrefixes removes reply/forward markers from a subject keyword.
func stripReplyPrefixes(keyword string) string {
	cleaned := keyword
	for _, prefix := range replyPrefixes {
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, prefix, ""))
	}
	return cleaned
}

// searchMailboxesSnippet sets searchMailboxes to either every mailbox of the
// account or the single named mailbox.
func searchMailboxesSnippet(mailbox string) string {
	if mailbox == MailboxAll {
		return `
			set allMailboxes to every mailbox of targetAccount
			set searchMailboxes to allMailboxes
`
	}
	return fmt.Sprintf(`
			try
				%s
			on error errMsg
				error "Mailbox not found: %s. " & errMsg
			end try
			set searchMailboxes to {searchMailbox}
`, mailboxSnippet(mailbox, "targetAccount", "searchMailbox"), EscapeString(mailbox))
}

func emailContentScript(opts ContentOptions) string {
	searchLocation := opts.Mailbox
	if opts.Mailbox == MailboxAll {
		searchLocation = "all mailboxes"
	}

	return fmt.Sprintf(`
	on lowercase(str)
		set lowerStr to do shell script "echo " & quoted form of str & " | tr '[:upper:]' '[:lower:]'"
		return lowerStr
	end lowercase

	tell application "Mail"
		set outputText to "SEARCH RESULTS FOR: %s" & return
		set outputText to outputText & "Searching in: %s" & return & return
		set resultCount to 0

		try
			set targetAccount to account "%s"
			%s

			repeat with currentMailbox in searchMailboxes
				set mailboxMessages to every message of currentMailbox
				set mailboxName to name of currentMailbox

				repeat with aMessage in mailboxMessages
					if resultCount >= %d then exit repeat

					try
						set messageSubject to subject of aMessage

						set lowerSubject to my lowercase(messageSubject)
						set lowerKeyword to my lowercase("%s")

						if lowerSubject contains lowerKeyword then
							set messageSender to sender of aMessage
							set messageDate to date received of aMessage
							set messageRead to read status of aMessage

							set readIndicator to "✉"
							if messageRead then
								set readIndicator to "✓"
							end if

							set outputText to outputText & readIndicator & " " & messageSubject & return
							set outputText to outputText & "   From: " & messageSender & return
							set outputText to outputText & "   Date: " & (messageDate as string) & return
							set outputText to outputText & "   Mailbox: " & mailboxName & return
							%s
							set outputText to outputText & return
							set resultCount to resultCount + 1
						end if
					end try
				end repeat
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "FOUND: " & resultCount & " matching email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.SubjectKeyword), EscapeString(searchLocation), EscapeString(opts.Account),
		searchMailboxesSnippet(opts.Mailbox), opts.MaxResults, EscapeString(opts.SubjectKeyword),
		contentPreviewSnippet("Content", opts.MaxContentLength))
}

func emailThreadScript(opts ThreadOptions) string {
	cleanedKeyword := stripReplyPrefixes(opts.SubjectKeyword)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EMAIL THREAD VIEW" & return & return
		set outputText to outputText & "Thread topic: %s" & return
		set outputText to outputText & "Account: %s" & return & return
		set threadMessages to {}

		try
			set targetAccount to account "%s"
			%s

			repeat with currentMailbox in searchMailboxes
				set mailboxMessages to every message of currentMailbox

				repeat with aMessage in mailboxMessages
					if (count of threadMessages) >= %d then exit repeat

					try
						set messageSubject to subject of aMessage

						set cleanSubject to messageSubject
						if cleanSubject starts with "Re: " then
							set cleanSubject to text 5 thru -1 of cleanSubject
						end if
						if cleanSubject starts with "Fwd: " or cleanSubject starts with "FW: " then
							set cleanSubject to text 6 thru -1 of cleanSubject
						end if

						if cleanSubject contains "%s" or messageSubject contains "%s" then
							set end of threadMessages to aMessage
						end if
					end try
				end repeat
			end repeat

			set messageCount to count of threadMessages
			set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return
			set outputText to outputText & "FOUND " & messageCount & " MESSAGE(S) IN THREAD" & return
			set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return & return

			repeat with aMessage in threadMessages
				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage
					set messageDate to date received of aMessage
					set messageRead to read status of aMessage

					set readIndicator to "✉"
					if messageRead then
						set readIndicator to "✓"
					end if

					set outputText to outputText & readIndicator & " " & messageSubject & return
					set outputText to outputText & "   From: " & messageSender & return
					set outputText to outputText & "   Date: " & (messageDate as string) & return
					%s
					set outputText to outputText & return
				end try
			end repeat

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(cleanedKeyword), EscapeString(opts.Account), EscapeString(opts.Account),
		searchMailboxesSnippet(opts.Mailbox), opts.MaxMessages,
		EscapeString(cleanedKeyword), EscapeString(cleanedKeyword),
		contentPreviewSnippet("Preview", 150))
}
