package applemail

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/mailpilot/internal/logging"
)

// Draft actions.
const (
	DraftActionList   = "list"
	DraftActionCreate = "create"
	DraftActionSend   = "send"
	DraftActionDelete = "delete"
)

// DraftOptions controls ManageDrafts.
type DraftOptions struct {
	Account string
	Action  string // DraftActionList, DraftActionCreate, DraftActionSend, DraftActionDelete

	// Subject, To and Body are required for create; CC and BCC are optional
	// comma-separated lists.
	Subject string
	To      string
	Body    string
	CC      string
	BCC     string

	// DraftSubject selects the draft for send and delete.
	DraftSubject string
	// Confirm actually sends or deletes; without it the matched draft is
	// only previewed.
	Confirm bool
}

// ManageDrafts lists, creates, sends or deletes drafts of one account.
// Sending and deleting are gated on Confirm.
func (c *Client) ManageDrafts(ctx context.Context, opts DraftOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}

	attrs := []any{logging.Account(opts.Account)}

	switch opts.Action {
	case DraftActionList:
		return c.run(ctx, "mail.drafts_list", listDraftsScript(opts.Account), attrs...)
	case DraftActionCreate:
		if opts.Subject == "" || opts.To == "" || opts.Body == "" {
			return "", fmt.Errorf("subject, to and body are required to create a draft")
		}
		attrs = append(attrs, logging.Domain(firstRecipient(opts.To)))
		return c.run(ctx, "mail.drafts_create", createDraftScript(opts), attrs...)
	case DraftActionSend:
		if opts.DraftSubject == "" {
			return "", fmt.Errorf("draft_subject is required to send a draft")
		}
		return c.run(ctx, "mail.drafts_send", sendDraftScript(opts), attrs...)
	case DraftActionDelete:
		if opts.DraftSubject == "" {
			return "", fmt.Errorf("draft_subject is required to delete a draft")
		}
		return c.run(ctx, "mail.drafts_delete", deleteDraftScript(opts), attrs...)
	default:
		return "", fmt.Errorf("invalid action %q, must be one of: list, create, send, delete", opts.Action)
	}
}

func listDraftsScript(account string) string {
	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "DRAFT EMAILS" & return
		set outputText to outputText & "Account: %s" & return & return

		try
			set targetAccount to account "%s"
			set draftsMailbox to drafts mailbox of targetAccount
			set draftMessages to every message of draftsMailbox
			set draftCount to count of draftMessages

			if draftCount = 0 then
				set outputText to outputText & "No drafts found." & return
			else
				repeat with aDraft in draftMessages
					try
						set draftSubject to subject of aDraft
						set draftDate to date received of aDraft

						set outputText to outputText & "📝 " & draftSubject & return
						set outputText to outputText & "   Date: " & (draftDate as string) & return

						try
							set draftRecipients to address of every to recipient of aDraft
							set recipientText to ""
							repeat with anAddress in draftRecipients
								if recipientText is not "" then
									set recipientText to recipientText & ", "
								end if
								set recipientText to recipientText & anAddress
							end repeat
							set outputText to outputText & "   To: " & recipientText & return
						end try
						set outputText to outputText & return
					end try
				end repeat

				set outputText to outputText & "Total drafts: " & draftCount & return
			end if

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(account), EscapeString(account))
}

func createDraftScript(opts DraftOptions) string {
	var recipients strings.Builder
	recipients.WriteString(recipientsSnippet("to", "newDraft", opts.To))
	recipients.WriteString(recipientsSnippet("cc", "newDraft", opts.CC))
	recipients.WriteString(recipientsSnippet("bcc", "newDraft", opts.BCC))

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "CREATING DRAFT" & return & return

		try
			set targetAccount to account "%s"

			set newDraft to make new outgoing message with properties {subject:"%s", content:"%s", visible:false}
			set sender of newDraft to targetAccount

%s
			set outputText to outputText & "✓ Draft saved" & return & return
			set outputText to outputText & "From: " & name of targetAccount & return
			set outputText to outputText & "To: %s" & return
			set outputText to outputText & "Subject: %s" & return

		on error errMsg
			return "Error: " & errMsg & return & "Please check that the account name and email addresses are correct."
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), EscapeString(opts.Subject), EscapeString(opts.Body),
		recipients.String(), EscapeString(opts.To), EscapeString(opts.Subject))
}

func sendDraftScript(opts DraftOptions) string {
	sendCommand := "-- send foundDraft (dry run - set confirm=true to send)"
	statusMessage := "📋 PREVIEW - Draft found but NOT sent (set confirm=true to send)"
	if opts.Confirm {
		sendCommand = "send foundDraft"
		statusMessage = "✓ Draft sent successfully!"
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "SENDING DRAFT" & return & return

		try
			set targetAccount to account "%s"
			set draftsMailbox to drafts mailbox of targetAccount
			set draftMessages to every message of draftsMailbox
			set foundDraft to missing value

			repeat with aDraft in draftMessages
				if subject of aDraft contains "%s" then
					set foundDraft to aDraft
					exit repeat
				end if
			end repeat

			if foundDraft is missing value then
				return "No draft found matching: %s"
			end if

			set draftSubject to subject of foundDraft
			%s

			set outputText to outputText & "%s" & return
			set outputText to outputText & "Subject: " & draftSubject & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), EscapeString(opts.DraftSubject), EscapeString(opts.DraftSubject),
		sendCommand, statusMessage)
}

func deleteDraftScript(opts DraftOptions) string {
	deleteCommand := "-- delete foundDraft (dry run - set confirm=true to delete)"
	statusMessage := "📋 PREVIEW - Draft found but NOT deleted (set confirm=true to delete)"
	if opts.Confirm {
		deleteCommand = "delete foundDraft"
		statusMessage = "✓ Draft deleted"
	}

	return fmt.Sprintf(`
	tell application "Mail"
		set outputText to "DELETING DRAFT" & return & return

		try
			set targetAccount to account "%s"
			set draftsMailbox to drafts mailbox of targetAccount
			set draftMessages to every message of draftsMailbox
			set foundDraft to missing value

			repeat with aDraft in draftMessages
				if subject of aDraft contains "%s" then
					set foundDraft to aDraft
					exit repeat
				end if
			end repeat

			if foundDraft is missing value then
				return "No draft found matching: %s"
			end if

			set draftSubject to subject of foundDraft
			%s

			set outputText to outputText & "%s" & return
			set outputText to outputText & "Subject: " & draftSubject & return

		on error errMsg
			return "Error: " & errMsg
		end try

		return outputText
	end tell
`, EscapeString(opts.Account), EscapeString(opts.DraftSubject), EscapeString(opts.DraftSubject),
		deleteCommand, statusMessage)
}
