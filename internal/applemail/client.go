package applemail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/mailpilot/internal/logging"
)

// ScriptRunner executes one AppleScript program and returns its trimmed
// standard output.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Mailbox and read-status sentinels used by search and listing operations.
const (
	MailboxInbox = "INBOX"
	MailboxAll   = "All"

	ReadStatusAll    = "all"
	ReadStatusRead   = "read"
	ReadStatusUnread = "unread"
)

// Status update actions.
const (
	ActionMarkRead   = "mark_read"
	ActionMarkUnread = "mark_unread"
	ActionFlag       = "flag"
	ActionUnflag     = "unflag"
)

// Trash actions.
const (
	ActionMoveToTrash     = "move_to_trash"
	ActionDeletePermanent = "delete_permanent"
	ActionEmptyTrash      = "empty_trash"
)

// Client drives the Mail application. All methods funnel through a single
// ScriptRunner, which serializes script executions process-wide.
type Client struct {
	runner ScriptRunner
	logger *slog.Logger
}

// NewClient creates a Client backed by the given runner.
func NewClient(runner ScriptRunner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{runner: runner, logger: logger}
}

// run executes one script and logs the outcome. attrs carry operation
// context such as the account and mailbox; sender addresses must be passed
// through logging.SenderHash so no raw address reaches the log output.
func (c *Client) run(ctx context.Context, operation, script string, attrs ...any) (string, error) {
	out, err := c.runner.Run(ctx, script)
	if err != nil {
		args := append([]any{logging.Operation(operation), logging.Err(err)}, attrs...)
		c.logger.Error("mail operation failed", args...)
		return "", err
	}
	args := append([]any{logging.Operation(operation), logging.Status(logging.StatusSuccess)}, attrs...)
	c.logger.Debug("mail operation finished", args...)
	return out, nil
}

// firstRecipient returns the first address of a comma-separated recipient
// list, for low-cardinality domain logging.
func firstRecipient(to string) string {
	first, _, _ := strings.Cut(to, ",")
	return strings.TrimSpace(first)
}

// ListInboxOptions controls ListInboxEmails.
type ListInboxOptions struct {
	// Account filters to one account; empty lists all accounts.
	Account string
	// MaxEmails caps results per account; 0 means no cap.
	MaxEmails int
	// IncludeRead includes already-read emails.
	IncludeRead bool
}

// ListInboxEmails lists inbox emails across all accounts in the record
// format understood by ParseEmailList.
func (c *Client) ListInboxEmails(ctx context.Context, opts ListInboxOptions) (string, error) {
	if opts.MaxEmails < 0 {
		return "", fmt.Errorf("max_emails must not be negative, got %d", opts.MaxEmails)
	}
	attrs := []any{}
	if opts.Account != "" {
		attrs = append(attrs, logging.Account(opts.Account))
	}
	return c.run(ctx, "mail.list_inbox", listInboxScript(opts), attrs...)
}

// ListAccounts returns the names of all configured Mail accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "mail.list_accounts", listAccountsScript())
	if err != nil {
		return nil, err
	}
	return ParseAccountList(out), nil
}

// UnreadCounts returns the unread email count per account. Accounts whose
// inbox could not be read map to UnreadCountError.
func (c *Client) UnreadCounts(ctx context.Context) (map[string]int, error) {
	out, err := c.run(ctx, "mail.unread_counts", unreadCountsScript())
	if err != nil {
		return nil, err
	}
	return ParseUnreadCounts(out), nil
}

// RecentEmails returns the most recent inbox emails of one account.
// includeContent adds a content preview per email, which is slower.
func (c *Client) RecentEmails(ctx context.Context, account string, count int, includeContent bool) (string, error) {
	if account == "" {
		return "", fmt.Errorf("account is required")
	}
	if count <= 0 {
		count = 10
	}
	return c.run(ctx, "mail.recent_emails", recentEmailsScript(account, count, includeContent),
		logging.Account(account))
}

// ListMailboxes lists mailboxes for one account, or all accounts when
// account is empty. Nested mailboxes are reported with "/" path notation.
func (c *Client) ListMailboxes(ctx context.Context, account string, includeCounts bool) (string, error) {
	return c.run(ctx, "mail.list_mailboxes", listMailboxesScript(account, includeCounts))
}

// SearchOptions controls SearchEmails.
type SearchOptions struct {
	Account        string
	Mailbox        string // MailboxAll searches every mailbox
	SubjectKeyword string
	Sender         string
	HasAttachments *bool
	ReadStatus     string // ReadStatusAll, ReadStatusRead or ReadStatusUnread
	IncludeContent bool
	MaxResults     int
}

// SearchEmails searches one account with the combined filters of opts.
func (c *Client) SearchEmails(ctx context.Context, opts SearchOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	switch opts.ReadStatus {
	case "", ReadStatusAll, ReadStatusRead, ReadStatusUnread:
	default:
		return "", fmt.Errorf("invalid read_status %q, must be one of: all, read, unread", opts.ReadStatus)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}
	attrs := []any{logging.Account(opts.Account), logging.Mailbox(opts.Mailbox)}
	if opts.Sender != "" {
		attrs = append(attrs, logging.SenderHash(opts.Sender))
	}
	return c.run(ctx, "mail.search", searchEmailsScript(opts), attrs...)
}

// MoveOptions controls MoveEmail.
type MoveOptions struct {
	Account        string
	SubjectKeyword string
	// ToMailbox may be a nested path such as "Projects/Reports".
	ToMailbox   string
	FromMailbox string
	MaxMoves    int
}

// MoveEmail moves emails matching a subject keyword between mailboxes.
func (c *Client) MoveEmail(ctx context.Context, opts MoveOptions) (string, error) {
	if opts.Account == "" || opts.SubjectKeyword == "" || opts.ToMailbox == "" {
		return "", fmt.Errorf("account, subject_keyword and to_mailbox are required")
	}
	if opts.FromMailbox == "" {
		opts.FromMailbox = MailboxInbox
	}
	if opts.MaxMoves <= 0 {
		opts.MaxMoves = 1
	}
	return c.run(ctx, "mail.move", moveEmailScript(opts),
		logging.Account(opts.Account), logging.Mailbox(opts.FromMailbox))
}

// ReplyOptions controls ReplyToEmail.
type ReplyOptions struct {
	Account        string
	SubjectKeyword string
	Body           string
	ReplyToAll     bool
	// Confirm actually sends; without it the reply is only previewed.
	Confirm bool
}

// ReplyToEmail replies to the first inbox email matching a subject keyword.
func (c *Client) ReplyToEmail(ctx context.Context, opts ReplyOptions) (string, error) {
	if opts.Account == "" || opts.SubjectKeyword == "" || opts.Body == "" {
		return "", fmt.Errorf("account, subject_keyword and reply_body are required")
	}
	return c.run(ctx, "mail.reply", replyScript(opts), logging.Account(opts.Account))
}

// ComposeOptions controls ComposeEmail.
type ComposeOptions struct {
	Account string
	To      string // comma-separated for multiple recipients
	Subject string
	Body    string
	CC      string
	BCC     string
	Confirm bool
}

// ComposeEmail composes a new email from a specific account.
func (c *Client) ComposeEmail(ctx context.Context, opts ComposeOptions) (string, error) {
	if opts.Account == "" || opts.To == "" || opts.Subject == "" || opts.Body == "" {
		return "", fmt.Errorf("account, to, subject and body are required")
	}
	return c.run(ctx, "mail.compose", composeScript(opts),
		logging.Account(opts.Account), logging.Domain(firstRecipient(opts.To)))
}

// ForwardOptions controls ForwardEmail.
type ForwardOptions struct {
	Account        string
	SubjectKeyword string
	To             string
	// Message is prepended before the forwarded content.
	Message string
	Mailbox string
	Confirm bool
}

// ForwardEmail forwards the first email matching a subject keyword.
func (c *Client) ForwardEmail(ctx context.Context, opts ForwardOptions) (string, error) {
	if opts.Account == "" || opts.SubjectKeyword == "" || opts.To == "" {
		return "", fmt.Errorf("account, subject_keyword and to are required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	return c.run(ctx, "mail.forward", forwardScript(opts),
		logging.Account(opts.Account), logging.Mailbox(opts.Mailbox),
		logging.Domain(firstRecipient(opts.To)))
}

// UpdateStatusOptions controls UpdateEmailStatus.
type UpdateStatusOptions struct {
	Account        string
	Action         string // ActionMarkRead, ActionMarkUnread, ActionFlag, ActionUnflag
	SubjectKeyword string
	Sender         string
	Mailbox        string
	MaxUpdates     int
}

// UpdateEmailStatus marks emails read/unread or flags/unflags them.
func (c *Client) UpdateEmailStatus(ctx context.Context, opts UpdateStatusOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	if opts.MaxUpdates <= 0 {
		opts.MaxUpdates = 10
	}

	var actionScript, actionLabel string
	switch opts.Action {
	case ActionMarkRead:
		actionScript, actionLabel = "set read status of aMessage to true", "Marked as read"
	case ActionMarkUnread:
		actionScript, actionLabel = "set read status of aMessage to false", "Marked as unread"
	case ActionFlag:
		actionScript, actionLabel = "set flagged status of aMessage to true", "Flagged"
	case ActionUnflag:
		actionScript, actionLabel = "set flagged status of aMessage to false", "Unflagged"
	default:
		return "", fmt.Errorf("invalid action %q, must be one of: mark_read, mark_unread, flag, unflag", opts.Action)
	}

	attrs := []any{logging.Account(opts.Account), logging.Mailbox(opts.Mailbox)}
	if opts.Sender != "" {
		attrs = append(attrs, logging.SenderHash(opts.Sender))
	}
	return c.run(ctx, "mail.update_status", updateStatusScript(opts, actionScript, actionLabel), attrs...)
}

// TrashOptions controls ManageTrash.
type TrashOptions struct {
	Account        string
	Action         string // ActionMoveToTrash, ActionDeletePermanent, ActionEmptyTrash
	SubjectKeyword string
	Sender         string
	Mailbox        string
	MaxDeletes     int
	// Confirm is required for destructive actions; without it they only
	// preview. Moving to trash is reversible and ignores Confirm.
	Confirm bool
}

// ManageTrash moves emails to trash, permanently deletes from trash, or
// empties the trash of an account.
func (c *Client) ManageTrash(ctx context.Context, opts TrashOptions) (string, error) {
	if opts.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	if opts.Mailbox == "" {
		opts.Mailbox = MailboxInbox
	}
	if opts.MaxDeletes <= 0 {
		opts.MaxDeletes = 5
	}

	attrs := []any{logging.Account(opts.Account), logging.Mailbox(opts.Mailbox)}
	if opts.Sender != "" {
		attrs = append(attrs, logging.SenderHash(opts.Sender))
	}

	switch opts.Action {
	case ActionEmptyTrash:
		return c.run(ctx, "mail.empty_trash", emptyTrashScript(opts.Account, opts.Confirm),
			logging.Account(opts.Account))
	case ActionDeletePermanent:
		return c.run(ctx, "mail.delete_permanent", deletePermanentScript(opts), attrs...)
	case ActionMoveToTrash:
		return c.run(ctx, "mail.move_to_trash", moveToTrashScript(opts), attrs...)
	default:
		return "", fmt.Errorf("invalid action %q, must be one of: move_to_trash, delete_permanent, empty_trash", opts.Action)
	}
}

// ListAttachments lists attachments of emails matching a subject keyword.
func (c *Client) ListAttachments(ctx context.Context, account, subjectKeyword string, maxResults int) (string, error) {
	if account == "" || subjectKeyword == "" {
		return "", fmt.Errorf("account and subject_keyword are required")
	}
	if maxResults <= 0 {
		maxResults = 1
	}
	return c.run(ctx, "mail.list_attachments", listAttachmentsScript(account, subjectKeyword, maxResults),
		logging.Account(account))
}

// SaveAttachment saves the first matching attachment to savePath.
func (c *Client) SaveAttachment(ctx context.Context, account, subjectKeyword, attachmentName, savePath string) (string, error) {
	if account == "" || subjectKeyword == "" || attachmentName == "" || savePath == "" {
		return "", fmt.Errorf("account, subject_keyword, attachment_name and save_path are required")
	}
	if !strings.HasPrefix(savePath, "/") {
		return "", fmt.Errorf("save_path must be an absolute path, got %q", savePath)
	}
	return c.run(ctx, "mail.save_attachment", saveAttachmentScript(account, subjectKeyword, attachmentName, savePath),
		logging.Account(account))
}

// InboxOverview reports unread counts, mailbox structure and recent emails
// across all accounts in one pass.
func (c *Client) InboxOverview(ctx context.Context) (string, error) {
	return c.run(ctx, "mail.inbox_overview", inboxOverviewScript())
}
