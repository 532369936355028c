package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyAccount    = "account"
	KeyMailbox    = "mailbox"
	KeyAttempt    = "attempt"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeySenderHash = "sender_hash"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Account returns a slog attribute for the account name.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// Mailbox returns a slog attribute for the mailbox name.
func Mailbox(mailbox string) slog.Attr {
	return slog.String(KeyMailbox, mailbox)
}

// Attempt returns a slog attribute for the 1-based execution attempt.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output. This allows safely passing Err(maybeNilErr) without adding empty
// attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeSender returns a hashed representation of a sender address for
// logging purposes. This allows correlation of log entries without exposing
// PII.
func AnonymizeSender(sender string) string {
	if sender == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(sender))
	return "sender:" + hex.EncodeToString(hash[:8])
}

// SenderHash returns a slog attribute with the anonymized sender address.
func SenderHash(sender string) slog.Attr {
	return slog.String(KeySenderHash, AnonymizeSender(sender))
}

// ExtractDomain extracts the domain part from an email address.
// This is useful for lower-cardinality logging where the full address would
// create too many unique values.
func ExtractDomain(address string) string {
	if address == "" {
		return ""
	}
	parts := strings.Split(address, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// Domain returns a slog attribute for the sender domain (lower cardinality
// than the full address).
func Domain(address string) slog.Attr {
	return slog.String("sender_domain", ExtractDomain(address))
}
