// Package logging provides structured logging utilities for the mailpilot
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (sender address anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "mail.search")
//	logger.Info("search finished",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("matched message",
//	    logging.SenderHash(sender))
//
// # Security Considerations
//
// Sender addresses are hashed before logging to prevent PII leakage while
// still allowing correlation of log entries.
package logging
