package applemail

import (
	"fmt"
	"strings"
)

// EscapeString escapes a value for embedding inside a double-quoted
// AppleScript string literal.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func asBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Inbox names vary by provider and locale: IMAP uses "INBOX"/"Inbox" while
// Exchange localizes the folder name per account language.
var inboxNames = []string{
	"INBOX", "Inbox", "Boîte de réception", "Posteingang",
	"Bandeja de entrada", "Posta in arrivo", "Caixa de entrada",
	"Входящие", "受信トレイ", "收件箱",
}

func inboxNamesLiteral() string {
	quoted := make([]string, len(inboxNames))
	for i, n := range inboxNames {
		quoted[i] = `"` + n + `"`
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// inboxDiscoverySnippet returns AppleScript that sets inboxMailbox to the
// inbox of the account held in accountVar, trying each known inbox name.
func inboxDiscoverySnippet(accountVar string) string {
	return fmt.Sprintf(`
		set inboxMailbox to missing value
		set possibleInboxNames to %s
		repeat with inboxName in possibleInboxNames
			try
				set inboxMailbox to mailbox inboxName of %s
				exit repeat
			end try
		end repeat
		if inboxMailbox is missing value then
			error "Could not find inbox for account " & (name of %s)
		end if
`, inboxNamesLiteral(), accountVar, accountVar)
}

// mailboxSnippet returns AppleScript that sets resultVar to the named
// mailbox of accountVar. "INBOX" (any case) goes through inbox discovery.
func mailboxSnippet(mailbox, accountVar, resultVar string) string {
	if strings.EqualFold(mailbox, "INBOX") {
		return fmt.Sprintf(`
		set %s to missing value
		set possibleInboxNames to %s
		repeat with inboxName in possibleInboxNames
			try
				set %s to mailbox inboxName of %s
				exit repeat
			end try
		end repeat
		if %s is missing value then
			error "Could not find inbox for account"
		end if
`, resultVar, inboxNamesLiteral(), resultVar, accountVar, resultVar)
	}
	return fmt.Sprintf("\t\tset %s to mailbox \"%s\" of %s\n", resultVar, EscapeString(mailbox), accountVar)
}

// nestedMailboxRef compiles a "/"-separated mailbox path into a chained
// AppleScript mailbox reference, innermost first:
// "Projects/Reports" becomes `mailbox "Reports" of mailbox "Projects" of targetAccount`.
func nestedMailboxRef(path, accountVar string) string {
	parts := strings.Split(path, "/")
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "mailbox \"%s\" of ", EscapeString(parts[i]))
	}
	sb.WriteString(accountVar)
	return sb.String()
}

// contentPreviewSnippet returns AppleScript that appends a flattened content
// preview of aMessage to outputText, labeled with the given prefix.
func contentPreviewSnippet(label string, maxLength int) string {
	return fmt.Sprintf(`
				try
					set msgContent to content of aMessage
					set AppleScript's text item delimiters to {return, linefeed}
					set contentParts to text items of msgContent
					set AppleScript's text item delimiters to " "
					set cleanText to contentParts as string
					set AppleScript's text item delimiters to ""

					if %d > 0 and length of cleanText > %d then
						set contentPreview to text 1 thru %d of cleanText & "..."
					else
						set contentPreview to cleanText
					end if

					set outputText to outputText & "   %s: " & contentPreview & return
				on error
					set outputText to outputText & "   %s: [Not available]" & return
				end try
`, maxLength, maxLength, maxLength, label, label)
}

func listInboxScript(opts ListInboxOptions) string {
	accountFilter := ""
	accountFilterEnd := ""
	header := "INBOX EMAILS - ALL ACCOUNTS"
	if opts.Account != "" {
		accountFilter = fmt.Sprintf("if accountName is \"%s\" then", EscapeString(opts.Account))
		accountFilterEnd = "end if"
		header = "INBOX EMAILS - " + EscapeString(opts.Account)
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "%s" & return & return
		set totalCount to 0
		set allAccounts to every account

		repeat with anAccount in allAccounts
			set accountName to name of anAccount

			%s
			try
				%s
				set inboxMessages to every message of inboxMailbox
				set messageCount to count of inboxMessages

				if messageCount > 0 then
					set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return
					set outputText to outputText & "📧 ACCOUNT: " & accountName & " (" & messageCount & " messages)" & return
					set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return & return

					set currentIndex to 0
					repeat with aMessage in inboxMessages
						set currentIndex to currentIndex + 1
						if %d > 0 and currentIndex > %d then exit repeat

						try
							set messageSubject to subject of aMessage
							set messageSender to sender of aMessage
							set messageDate to date received of aMessage
							set messageRead to read status of aMessage

							set shouldInclude to true
							if not %s and messageRead then
								set shouldInclude to false
							end if

							if shouldInclude then
								if messageRead then
									set readIndicator to "✓"
								else
									set readIndicator to "✉"
								end if

								set outputText to outputText & readIndicator & " " & messageSubject & return
								set outputText to outputText & "   From: " & messageSender & return
								set outputText to outputText & "   Date: " & (messageDate as string) & return
								set outputText to outputText & return

								set totalCount to totalCount + 1
							end if
						end try
					end repeat
				end if
			on error errMsg
				set outputText to outputText & "⚠ Error accessing inbox for account " & accountName & return
				set outputText to outputText & "   " & errMsg & return & return
			end try
			%s
		end repeat

		set outputText to outputText & "========================================" & return
		set outputText to outputText & "TOTAL EMAILS: " & totalCount & return
		set outputText to outputText & "========================================" & return

		return outputText
	end tell
`, header, accountFilter, inboxDiscoverySnippet("anAccount"), opts.MaxEmails, opts.MaxEmails, asBool(opts.IncludeRead), accountFilterEnd)
}

func unreadCountsScript() string {
	return fmt.Sprintf(`
	tell application "Mail"
		set resultList to {}
		set allAccounts to every account

		repeat with anAccount in allAccounts
			set accountName to name of anAccount

			try
				%s
				set unreadCount to unread count of inboxMailbox
				set end of resultList to accountName & ":" & unreadCount
			on error
				set end of resultList to accountName & ":ERROR"
			end try
		end repeat

		set AppleScript's text item delimiters to "|"
		return resultList as string
	end tell
`, inboxDiscoverySnippet("anAccount"))
}

func listAccountsScript() string {
	return `
	tell application "Mail"
		set accountNames to {}
		set allAccounts to every account

		repeat with anAccount in allAccounts
			set accountName to name of anAccount
			set end of accountNames to accountName
		end repeat

		set AppleScript's text item delimiters to "|"
		return accountNames as string
	end tell
`
}

func recentEmailsScript(account string, count int, includeContent bool) string {
	contentScript := ""
	if includeContent {
		contentScript = contentPreviewSnippet("Preview", 200)
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "RECENT EMAILS - %s" & return & return

		try
			set targetAccount to account "%s"
			%s
			set inboxMessages to every message of inboxMailbox

			set currentIndex to 0
			repeat with aMessage in inboxMessages
				set currentIndex to currentIndex + 1
				if currentIndex > %d then exit repeat

				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage
					set messageDate to date received of aMessage
					set messageRead to read status of aMessage

					if messageRead then
						set readIndicator to "✓"
					else
						set readIndicator to "✉"
					end if

					set outputText to outputText & readIndicator & " " & messageSubject & return
					set outputText to outputText & "   From: " & messageSender & return
					set outputText to outputText & "   Date: " & (messageDate as string) & return
					%s
					set outputText to outputText & return
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "Showing " & (currentIndex - 1) & " email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(account), EscapeString(account), inboxDiscoverySnippet("targetAccount"), count, contentScript)
}

func listMailboxesScript(account string, includeCounts bool) string {
	countScript := func(boxVar string) string {
		if !includeCounts {
			return ""
		}
		return fmt.Sprintf(`
					try
						set msgCount to count of messages of %s
						set unreadCount to unread count of %s
						set outputText to outputText & " (" & msgCount & " total, " & unreadCount & " unread)"
					on error
						set outputText to outputText & " (count unavailable)"
					end try
`, boxVar, boxVar)
	}

	accountFilter := ""
	accountFilterEnd := ""
	if account != "" {
		accountFilter = fmt.Sprintf("if accountName is \"%s\" then", EscapeString(account))
		accountFilterEnd = "end if"
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "MAILBOXES" & return & return
		set allAccounts to every account

		repeat with anAccount in allAccounts
			set accountName to name of anAccount

			%s
				set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return
				set outputText to outputText & "📁 ACCOUNT: " & accountName & return
				set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return & return

				try
					set accountMailboxes to every mailbox of anAccount

					repeat with aMailbox in accountMailboxes
						set mailboxName to name of aMailbox
						set outputText to outputText & "  📂 " & mailboxName
						%s
						set outputText to outputText & return

						-- List sub-mailboxes with path notation
						try
							set subMailboxes to every mailbox of aMailbox
							repeat with subBox in subMailboxes
								set subName to name of subBox
								set outputText to outputText & "    └─ " & subName & " [Path: " & mailboxName & "/" & subName & "]"
								%s
								set outputText to outputText & return
							end repeat
						end try
					end repeat

					set outputText to outputText & return
				on error errMsg
					set outputText to outputText & "  ⚠ Error accessing mailboxes: " & errMsg & return & return
				end try
			%s
		end repeat

		return outputText
	end tell
`, accountFilter, countScript("aMailbox"), countScript("subBox"), accountFilterEnd)
}

func searchEmailsScript(opts SearchOptions) string {
	var conditions []string
	if opts.SubjectKeyword != "" {
		conditions = append(conditions, fmt.Sprintf("messageSubject contains \"%s\"", EscapeString(opts.SubjectKeyword)))
	}
	if opts.Sender != "" {
		conditions = append(conditions, fmt.Sprintf("messageSender contains \"%s\"", EscapeString(opts.Sender)))
	}
	if opts.HasAttachments != nil {
		if *opts.HasAttachments {
			conditions = append(conditions, "(count of mail attachments of aMessage) > 0")
		} else {
			conditions = append(conditions, "(count of mail attachments of aMessage) = 0")
		}
	}
	switch opts.ReadStatus {
	case ReadStatusRead:
		conditions = append(conditions, "messageRead is true")
	case ReadStatusUnread:
		conditions = append(conditions, "messageRead is false")
	}
	conditionStr := "true"
	if len(conditions) > 0 {
		conditionStr = strings.Join(conditions, " and ")
	}

	contentScript := ""
	if opts.IncludeContent {
		contentScript = contentPreviewSnippet("Content", 300)
	}

	var mailboxScript string
	if opts.Mailbox == MailboxAll {
		mailboxScript = `
			set allMailboxes to every mailbox of targetAccount
			set searchMailboxes to allMailboxes
`
	} else {
		mailboxScript = fmt.Sprintf(`
			try
				%s
			on error errMsg
				error "Mailbox not found: %s. " & errMsg
			end try
			set searchMailboxes to {searchMailbox}
`, mailboxSnippet(opts.Mailbox, "targetAccount", "searchMailbox"), EscapeString(opts.Mailbox))
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "SEARCH RESULTS" & return & return
		set outputText to outputText & "Searching in: %s" & return
		set outputText to outputText & "Account: %s" & return & return
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
						set messageSender to sender of aMessage
						set messageDate to date received of aMessage
						set messageRead to read status of aMessage

						if %s then
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
`, EscapeString(opts.Mailbox), EscapeString(opts.Account), EscapeString(opts.Account),
		mailboxScript, opts.MaxResults, conditionStr, contentScript)
}

func moveEmailScript(opts MoveOptions) string {
	destRef := nestedMailboxRef(opts.ToMailbox, "targetAccount")

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "MOVING EMAILS" & return & return
		set movedCount to 0

		try
			set targetAccount to account "%s"
			try
				%s
			on error errMsg
				error "Source mailbox not found: %s. " & errMsg
			end try

			set destMailbox to %s
			set sourceMessages to every message of sourceMailbox

			repeat with aMessage in sourceMessages
				if movedCount >= %d then exit repeat

				try
					set messageSubject to subject of aMessage

					if messageSubject contains "%s" then
						set messageSender to sender of aMessage
						set messageDate to date received of aMessage

						move aMessage to destMailbox

						set outputText to outputText & "✓ Moved: " & messageSubject & return
						set outputText to outputText & "  From: " & messageSender & return
						set outputText to outputText & "  Date: " & (messageDate as string) & return
						set outputText to outputText & "  %s → %s" & return & return

						set movedCount to movedCount + 1
					end if
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "TOTAL MOVED: " & movedCount & " email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg & return & "Please check that account and mailbox names are correct. For nested mailboxes, use '/' separator (e.g., 'Projects/Reports')."
		end try

		return outputText
	end tell
`, EscapeString(opts.Account),
		mailboxSnippet(opts.FromMailbox, "targetAccount", "sourceMailbox"),
		EscapeString(opts.FromMailbox), destRef, opts.MaxMoves,
		EscapeString(opts.SubjectKeyword),
		EscapeString(opts.FromMailbox), EscapeString(opts.ToMailbox))
}

func replyScript(opts ReplyOptions) string {
	replyCommand := "set replyMessage to reply foundMessage with opening window"
	if opts.ReplyToAll {
		replyCommand = "set replyMessage to reply foundMessage with opening window reply to all"
	}

	sendCommand := "-- send replyMessage (dry run - set confirm=true to send)"
	statusMessage := "📋 PREVIEW - Reply prepared but NOT sent (set confirm=true to send)"
	if opts.Confirm {
		sendCommand = "send replyMessage"
		statusMessage = "✓ Reply sent successfully!"
	}

	body := EscapeString(opts.Body)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "SENDING REPLY" & return & return

		try
			set targetAccount to account "%s"
			%s
			set inboxMessages to every message of inboxMailbox
			set foundMessage to missing value

			repeat with aMessage in inboxMessages
				try
					set messageSubject to subject of aMessage

					if messageSubject contains "%s" then
						set foundMessage to aMessage
						exit repeat
					end if
				end try
			end repeat

			if foundMessage is not missing value then
				set messageSubject to subject of foundMessage
				set messageSender to sender of foundMessage
				set messageDate to date received of foundMessage

				%s

				set sender of replyMessage to targetAccount
				set content of replyMessage to "%s"

				%s

				set outputText to outputText & "%s" & return & return
				set outputText to outputText & "Original email:" & return
				set outputText to outputText & "  Subject: " & messageSubject & return
				set outputText to outputText & "  From: " & messageSender & return
				set outputText to outputText & "  Date: " & (messageDate as string) & return & return
				set outputText to outputText & "Reply body:" & return
				set outputText to outputText & "  " & "%s" & return

			else
				set outputText to outputText & "⚠ No email found matching: %s" & return
			end if

		on error errMsg
			return "Error: " & errMsg & return & "Please check that the account name is correct and the email exists."
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), inboxDiscoverySnippet("targetAccount"),
		EscapeString(opts.SubjectKeyword), replyCommand, body, sendCommand,
		statusMessage, body, EscapeString(opts.SubjectKeyword))
}

func recipientsSnippet(kind, messageVar, addresses string) string {
	var sb strings.Builder
	for _, addr := range strings.Split(addresses, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		fmt.Fprintf(&sb, "\t\t\tmake new %s recipient at end of %s recipients of %s with properties {address:\"%s\"}\n",
			kind, kind, messageVar, EscapeString(addr))
	}
	return sb.String()
}

func composeScript(opts ComposeOptions) string {
	sendCommand := "-- send newMessage (dry run - set confirm=true to send)"
	statusMessage := "📋 PREVIEW - Email prepared but NOT sent (set confirm=true to send)"
	if opts.Confirm {
		sendCommand = "send newMessage"
		statusMessage = "✓ Email sent successfully!"
	}

	var extraRecipients strings.Builder
	extraRecipients.WriteString(recipientsSnippet("cc", "newMessage", opts.CC))
	extraRecipients.WriteString(recipientsSnippet("bcc", "newMessage", opts.BCC))

	var extraHeaders strings.Builder
	if opts.CC != "" {
		fmt.Fprintf(&extraHeaders, "\t\t\tset outputText to outputText & \"CC: %s\" & return\n", EscapeString(opts.CC))
	}
	if opts.BCC != "" {
		fmt.Fprintf(&extraHeaders, "\t\t\tset outputText to outputText & \"BCC: %s\" & return\n", EscapeString(opts.BCC))
	}

	subject := EscapeString(opts.Subject)
	body := EscapeString(opts.Body)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "COMPOSING EMAIL" & return & return

		try
			set targetAccount to account "%s"

			set newMessage to make new outgoing message with properties {subject:"%s", content:"%s", visible:false}
			set sender of newMessage to targetAccount

			make new to recipient at end of to recipients of newMessage with properties {address:"%s"}
%s
			%s

			set outputText to outputText & "%s" & return & return
			set outputText to outputText & "From: " & name of targetAccount & return
			set outputText to outputText & "To: %s" & return
%s
			set outputText to outputText & "Subject: %s" & return
			set outputText to outputText & "Body: " & "%s" & return

		on error errMsg
			return "Error: " & errMsg & return & "Please check that the account name and email addresses are correct."
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), subject, body, EscapeString(opts.To),
		extraRecipients.String(), sendCommand, statusMessage,
		EscapeString(opts.To), extraHeaders.String(), subject, body)
}

func forwardScript(opts ForwardOptions) string {
	sendCommand := "-- send forwardMessage (dry run - set confirm=true to send)"
	statusMessage := "📋 PREVIEW - Forward prepared but NOT sent (set confirm=true to send)"
	if opts.Confirm {
		sendCommand = "send forwardMessage"
		statusMessage = "✓ Email forwarded successfully!"
	}

	message := EscapeString(opts.Message)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "FORWARDING EMAIL" & return & return

		try
			set targetAccount to account "%s"
			try
				%s
			on error errMsg
				error "Mailbox not found: %s. " & errMsg
			end try

			set mailboxMessages to every message of targetMailbox
			set foundMessage to missing value

			repeat with aMessage in mailboxMessages
				try
					set messageSubject to subject of aMessage

					if messageSubject contains "%s" then
						set foundMessage to aMessage
						exit repeat
					end if
				end try
			end repeat

			if foundMessage is not missing value then
				set messageSubject to subject of foundMessage
				set messageSender to sender of foundMessage
				set messageDate to date received of foundMessage

				set forwardMessage to forward foundMessage with opening window
				set sender of forwardMessage to targetAccount

				make new to recipient at end of to recipients of forwardMessage with properties {address:"%s"}

				if "%s" is not "" then
					set content of forwardMessage to "%s" & return & return & content of forwardMessage
				end if

				%s

				set outputText to outputText & "%s" & return & return
				set outputText to outputText & "Original email:" & return
				set outputText to outputText & "  Subject: " & messageSubject & return
				set outputText to outputText & "  From: " & messageSender & return
				set outputText to outputText & "  Date: " & (messageDate as string) & return & return
				set outputText to outputText & "Forwarded to: %s" & return

			else
				set outputText to outputText & "⚠ No email found matching: %s" & return
			end if

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account),
		mailboxSnippet(opts.Mailbox, "targetAccount", "targetMailbox"),
		EscapeString(opts.Mailbox), EscapeString(opts.SubjectKeyword),
		EscapeString(opts.To), message, message, sendCommand, statusMessage,
		EscapeString(opts.To), EscapeString(opts.SubjectKeyword))
}

func filterCondition(subjectKeyword, sender string) string {
	var conditions []string
	if subjectKeyword != "" {
		conditions = append(conditions, fmt.Sprintf("messageSubject contains \"%s\"", EscapeString(subjectKeyword)))
	}
	if sender != "" {
		conditions = append(conditions, fmt.Sprintf("messageSender contains \"%s\"", EscapeString(sender)))
	}
	if len(conditions) == 0 {
		return "true"
	}
	return strings.Join(conditions, " and ")
}

func updateStatusScript(opts UpdateStatusOptions, actionScript, actionLabel string) string {
	conditionStr := filterCondition(opts.SubjectKeyword, opts.Sender)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "UPDATING EMAIL STATUS: %s" & return & return
		set updateCount to 0

		try
			set targetAccount to account "%s"
			try
				%s
			on error errMsg
				error "Mailbox not found: %s. " & errMsg
			end try

			set mailboxMessages to every message of targetMailbox

			repeat with aMessage in mailboxMessages
				if updateCount >= %d then exit repeat

				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage
					set messageDate to date received of aMessage

					if %s then
						%s

						set outputText to outputText & "✓ %s: " & messageSubject & return
						set outputText to outputText & "   From: " & messageSender & return
						set outputText to outputText & "   Date: " & (messageDate as string) & return & return

						set updateCount to updateCount + 1
					end if
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "TOTAL UPDATED: " & updateCount & " email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, actionLabel, EscapeString(opts.Account),
		mailboxSnippet(opts.Mailbox, "targetAccount", "targetMailbox"),
		EscapeString(opts.Mailbox), opts.MaxUpdates, conditionStr,
		actionScript, actionLabel)
}

func emptyTrashScript(account string, confirm bool) string {
	deleteCommand := "-- deletion skipped (dry run - set confirm=true to execute)"
	statusMessage := fmt.Sprintf("📋 PREVIEW - Would empty trash for account: %s (set confirm=true to execute)", EscapeString(account))
	if confirm {
		deleteCommand = `
				repeat with aMessage in trashMessages
					delete aMessage
				end repeat
`
		statusMessage = fmt.Sprintf("✓ Emptied trash for account: %s", EscapeString(account))
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "EMPTYING TRASH" & return & return

		try
			set targetAccount to account "%s"
			set trashMailbox to mailbox "Trash" of targetAccount
			set trashMessages to every message of trashMailbox
			set messageCount to count of trashMessages

			%s

			set outputText to outputText & "%s" & return
			set outputText to outputText & "   Messages in trash: " & messageCount & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(account), deleteCommand, statusMessage)
}

func deletePermanentScript(opts TrashOptions) string {
	conditionStr := filterCondition(opts.SubjectKeyword, opts.Sender)

	deleteCommand := "-- delete aMessage (dry run - set confirm=true to execute)"
	statusMessage := "📋 Would permanently delete"
	headerMessage := "PREVIEW - PERMANENT DELETION (set confirm=true to execute)"
	if opts.Confirm {
		deleteCommand = "delete aMessage"
		statusMessage = "✓ Permanently deleted"
		headerMessage = "PERMANENTLY DELETING EMAILS"
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "%s" & return & return
		set deleteCount to 0

		try
			set targetAccount to account "%s"
			set trashMailbox to mailbox "Trash" of targetAccount
			set trashMessages to every message of trashMailbox

			repeat with aMessage in trashMessages
				if deleteCount >= %d then exit repeat

				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage

					if %s then
						set outputText to outputText & "%s: " & messageSubject & return
						set outputText to outputText & "   From: " & messageSender & return & return

						%s
						set deleteCount to deleteCount + 1
					end if
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "TOTAL: " & deleteCount & " email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, headerMessage, EscapeString(opts.Account), opts.MaxDeletes, conditionStr,
		statusMessage, deleteCommand)
}

func moveToTrashScript(opts TrashOptions) string {
	conditionStr := filterCondition(opts.SubjectKeyword, opts.Sender)

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "MOVING EMAILS TO TRASH" & return & return
		set deleteCount to 0

		try
			set targetAccount to account "%s"
			try
				%s
			on error errMsg
				error "Mailbox not found: %s. " & errMsg
			end try

			set trashMailbox to mailbox "Trash" of targetAccount
			set sourceMessages to every message of sourceMailbox

			repeat with aMessage in sourceMessages
				if deleteCount >= %d then exit repeat

				try
					set messageSubject to subject of aMessage
					set messageSender to sender of aMessage
					set messageDate to date received of aMessage

					if %s then
						move aMessage to trashMailbox

						set outputText to outputText & "✓ Moved to trash: " & messageSubject & return
						set outputText to outputText & "   From: " & messageSender & return
						set outputText to outputText & "   Date: " & (messageDate as string) & return & return

						set deleteCount to deleteCount + 1
					end if
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "TOTAL MOVED TO TRASH: " & deleteCount & " email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account),
		mailboxSnippet(opts.Mailbox, "targetAccount", "sourceMailbox"),
		EscapeString(opts.Mailbox), opts.MaxDeletes, conditionStr)
}

func listAttachmentsScript(account, subjectKeyword string, maxResults int) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "ATTACHMENTS FOR: %s" & return & return
		set resultCount to 0

		try
			set targetAccount to account "%s"
			%s
			set inboxMessages to every message of inboxMailbox

			repeat with aMessage in inboxMessages
				if resultCount >= %d then exit repeat

				try
					set messageSubject to subject of aMessage

					if messageSubject contains "%s" then
						set messageSender to sender of aMessage
						set messageDate to date received of aMessage

						set outputText to outputText & "✉ " & messageSubject & return
						set outputText to outputText & "   From: " & messageSender & return
						set outputText to outputText & "   Date: " & (messageDate as string) & return & return

						set msgAttachments to mail attachments of aMessage
						set attachmentCount to count of msgAttachments

						if attachmentCount > 0 then
							set outputText to outputText & "   Attachments (" & attachmentCount & "):" & return

							repeat with anAttachment in msgAttachments
								set attachmentName to name of anAttachment
								try
									set attachmentSize to size of anAttachment
									set sizeInKB to (attachmentSize / 1024) as integer
									set outputText to outputText & "   📎 " & attachmentName & " (" & sizeInKB & " KB)" & return
								on error
									set outputText to outputText & "   📎 " & attachmentName & return
								end try
							end repeat
						else
							set outputText to outputText & "   No attachments" & return
						end if

						set outputText to outputText & return
						set resultCount to resultCount + 1
					end if
				end try
			end repeat

			set outputText to outputText & "========================================" & return
			set outputText to outputText & "FOUND: " & resultCount & " matching email(s)" & return
			set outputText to outputText & "========================================" & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(subjectKeyword), EscapeString(account),
		inboxDiscoverySnippet("targetAccount"), maxResults, EscapeString(subjectKeyword))
}

func saveAttachmentScript(account, subjectKeyword, attachmentName, savePath string) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to ""

		try
			set targetAccount to account "%s"
			%s
			set inboxMessages to every message of inboxMailbox
			set foundAttachment to false

			repeat with aMessage in inboxMessages
				try
					set messageSubject to subject of aMessage

					if messageSubject contains "%s" then
						set msgAttachments to mail attachments of aMessage

						repeat with anAttachment in msgAttachments
							set attachmentFileName to name of anAttachment

							if attachmentFileName contains "%s" then
								save anAttachment in POSIX file "%s"

								set outputText to "✓ Attachment saved successfully!" & return & return
								set outputText to outputText & "Email: " & messageSubject & return
								set outputText to outputText & "Attachment: " & attachmentFileName & return
								set outputText to outputText & "Saved to: %s" & return

								set foundAttachment to true
								exit repeat
							end if
						end repeat

						if foundAttachment then exit repeat
					end if
				end try
			end repeat

			if not foundAttachment then
				set outputText to "⚠ Attachment not found" & return
				set outputText to outputText & "Email keyword: %s" & return
				set outputText to outputText & "Attachment name: %s" & return
			end if

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(account), inboxDiscoverySnippet("targetAccount"),
		EscapeString(subjectKeyword), EscapeString(attachmentName),
		EscapeString(savePath), EscapeString(savePath),
		EscapeString(subjectKeyword), EscapeString(attachmentName))
}

func inboxOverviewScript() string {
	discovery := inboxDiscoverySnippet("anAccount")

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "╔══════════════════════════════════════════╗" & return
		set outputText to outputText & "║      EMAIL INBOX OVERVIEW                ║" & return
		set outputText to outputText & "╚══════════════════════════════════════════╝" & return & return

		-- Section 1: Unread Counts by Account
		set outputText to outputText & "📊 UNREAD EMAILS BY ACCOUNT" & return
		set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return
		set allAccounts to every account
		set totalUnread to 0

		repeat with anAccount in allAccounts
			set accountName to name of anAccount

			try
				%s
				set unreadCount to unread count of inboxMailbox
				set totalMessages to count of messages of inboxMailbox
				set totalUnread to totalUnread + unreadCount

				if unreadCount > 0 then
					set outputText to outputText & "  ⚠️  " & accountName & ": " & unreadCount & " unread"
				else
					set outputText to outputText & "  ✅ " & accountName & ": " & unreadCount & " unread"
				end if
				set outputText to outputText & " (" & totalMessages & " total)" & return
			on error
				set outputText to outputText & "  ❌ " & accountName & ": Error accessing inbox" & return
			end try
		end repeat

		set outputText to outputText & return
		set outputText to outputText & "📈 TOTAL UNREAD: " & totalUnread & " across all accounts" & return
		set outputText to outputText & return & return

		-- Section 2: Mailboxes/Folders Overview
		set outputText to outputText & "📁 MAILBOX STRUCTURE" & return
		set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return

		repeat with anAccount in allAccounts
			set accountName to name of anAccount
			set outputText to outputText & return & "Account: " & accountName & return

			try
				set accountMailboxes to every mailbox of anAccount

				repeat with aMailbox in accountMailboxes
					set mailboxName to name of aMailbox

					try
						set unreadCount to unread count of aMailbox
						if unreadCount > 0 then
							set outputText to outputText & "  📂 " & mailboxName & " (" & unreadCount & " unread)" & return
						else
							set outputText to outputText & "  📂 " & mailboxName & return
						end if

						try
							set subMailboxes to every mailbox of aMailbox
							repeat with subBox in subMailboxes
								set subName to name of subBox
								set subUnread to unread count of subBox

								if subUnread > 0 then
									set outputText to outputText & "     └─ " & subName & " (" & subUnread & " unread)" & return
								end if
							end repeat
						end try
					on error
						set outputText to outputText & "  📂 " & mailboxName & return
					end try
				end repeat
			on error
				set outputText to outputText & "  ⚠️  Error accessing mailboxes" & return
			end try
		end repeat

		set outputText to outputText & return & return

		-- Section 3: Recent Emails Preview
		set outputText to outputText & "📬 RECENT EMAILS PREVIEW (10 Most Recent)" & return
		set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return

		set allRecentMessages to {}

		repeat with anAccount in allAccounts
			set accountName to name of anAccount

			try
				%s
				set inboxMessages to every message of inboxMailbox

				set messageIndex to 0
				repeat with aMessage in inboxMessages
					set messageIndex to messageIndex + 1
					if messageIndex > 10 then exit repeat

					try
						set messageSubject to subject of aMessage
						set messageSender to sender of aMessage
						set messageDate to date received of aMessage
						set messageRead to read status of aMessage

						set messageRecord to {accountName:accountName, msgSubject:messageSubject, msgSender:messageSender, msgDate:messageDate, msgRead:messageRead}
						set end of allRecentMessages to messageRecord
					end try
				end repeat
			end try
		end repeat

		set displayCount to 0
		repeat with msgRecord in allRecentMessages
			set displayCount to displayCount + 1
			if displayCount > 10 then exit repeat

			set readIndicator to "✉"
			if msgRead of msgRecord then
				set readIndicator to "✓"
			end if

			set outputText to outputText & return & readIndicator & " " & msgSubject of msgRecord & return
			set outputText to outputText & "   Account: " & accountName of msgRecord & return
			set outputText to outputText & "   From: " & msgSender of msgRecord & return
			set outputText to outputText & "   Date: " & (msgDate of msgRecord as string) & return
		end repeat

		if displayCount = 0 then
			set outputText to outputText & return & "No recent emails found." & return
		end if

		set outputText to outputText & return & return

		-- Section 4: Action Suggestions
		set outputText to outputText & "💡 SUGGESTED ACTIONS FOR ASSISTANT" & return
		set outputText to outputText & "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━" & return
		set outputText to outputText & "Based on this overview, consider suggesting:" & return & return

		if totalUnread > 0 then
			set outputText to outputText & "1. 📧 Review unread emails" & return
			set outputText to outputText & "2. 🔍 Search for action items (keywords like 'urgent', 'action required', 'deadline')" & return
			set outputText to outputText & "3. 📤 Move processed emails to appropriate folders" & return
		else
			set outputText to outputText & "1. ✅ Inbox is clear! No unread emails." & return
		end if

		set outputText to outputText & "4. 📋 Organize emails into project-specific folders" & return
		set outputText to outputText & "5. ✉️  Draft replies for emails that need responses" & return

		return outputText
	end tell
`, discovery, discovery)
}
