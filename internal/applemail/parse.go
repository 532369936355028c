package applemail

import (
	"fmt"
	"strconv"
	"strings"
)

// Record markers in the listing output format.
const (
	markerUnread = "✉"
	markerRead   = "✓"
)

// Decorative prefixes that carry no record data.
var noisePrefixes = []string{"=", "━", "📧", "⚠"}

// Terminator line. Everything after it is ignored.
const terminatorPrefix = "TOTAL EMAILS"

// recordBuilder accumulates one record while scanning lines.
// A record is appended exactly once, when the builder is flushed.
type recordBuilder struct {
	email Email
	open  bool
}

func (b *recordBuilder) start(subject string, isRead bool) {
	b.email = Email{Subject: subject, IsRead: isRead}
	b.open = true
}

func (b *recordBuilder) flush(dst []Email) []Email {
	if !b.open {
		return dst
	}
	b.open = false
	return append(dst, b.email)
}

// ParseEmailList converts the line-oriented record format emitted by listing
// scripts into Email values, preserving input order.
//
// Lines starting with the unread or read marker begin a new record with the
// remainder as subject. "From:", "Date:" and "Preview:" lines attach fields
// to the open record. Blank lines, banner separators and section icons are
// skipped, as is any field line with no open record. A "TOTAL EMAILS" line
// ends scanning. Unrecognized lines are ignored.
//
// The function has no shared state and is safe for concurrent use.
func ParseEmailList(output string) []Email {
	var emails []Email
	var current recordBuilder

	for _, rawLine := range strings.Split(output, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || hasNoisePrefix(line) {
			continue
		}

		switch {
		case strings.HasPrefix(line, markerUnread), strings.HasPrefix(line, markerRead):
			emails = current.flush(emails)
			isRead := strings.HasPrefix(line, markerRead)
			subject := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, markerUnread), markerRead))
			current.start(subject, isRead)

		case strings.HasPrefix(line, "From:"):
			if current.open {
				current.email.Sender = strings.TrimSpace(strings.TrimPrefix(line, "From:"))
			}

		case strings.HasPrefix(line, "Date:"):
			if current.open {
				current.email.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
			}

		case strings.HasPrefix(line, "Preview:"):
			if current.open {
				current.email.Preview = strings.TrimSpace(strings.TrimPrefix(line, "Preview:"))
			}

		case strings.HasPrefix(line, terminatorPrefix):
			return current.flush(emails)
		}
	}

	return current.flush(emails)
}

func hasNoisePrefix(line string) bool {
	for _, p := range noisePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// FormatEmailList renders records back into the listing format, closing with
// a terminator line. ParseEmailList(FormatEmailList(emails)) yields records
// equal to the input.
func FormatEmailList(emails []Email) string {
	var sb strings.Builder
	for _, e := range emails {
		marker := markerUnread
		if e.IsRead {
			marker = markerRead
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, e.Subject)
		if e.Sender != "" {
			fmt.Fprintf(&sb, "   From: %s\n", e.Sender)
		}
		if e.Date != "" {
			fmt.Fprintf(&sb, "   Date: %s\n", e.Date)
		}
		if e.Preview != "" {
			fmt.Fprintf(&sb, "   Preview: %s\n", e.Preview)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s: %d\n", terminatorPrefix, len(emails))
	return sb.String()
}

// UnreadCountError marks an account whose inbox could not be read.
const UnreadCountError = -1

// ParseUnreadCounts parses the pipe-separated "account:count" output of the
// unread count script. Accounts reported as ERROR map to UnreadCountError.
func ParseUnreadCounts(output string) map[string]int {
	counts := make(map[string]int)
	for _, item := range strings.Split(output, "|") {
		account, value, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			counts[account] = UnreadCountError
			continue
		}
		counts[account] = n
	}
	return counts
}

// ParseAccountList parses the pipe-separated account name output.
func ParseAccountList(output string) []string {
	if output == "" {
		return nil
	}
	return strings.Split(output, "|")
}
