// Package applemail drives the macOS Mail application through AppleScript.
//
// # Components
//
// Client exposes one method per mail operation (list, search, move, reply,
// compose, trash handling, attachments). Each method assembles an AppleScript
// program and hands it to a script runner for execution; the runner is an
// interface so tests can substitute a fake interpreter.
//
// The script builders produce Mail-specific AppleScript bodies. Inbox access
// uses a discovery fallback chain because Exchange and some IMAP providers
// localize the inbox mailbox name. Nested mailbox paths use "/" separators
// ("Projects/Reports") and are compiled into chained mailbox references.
//
// The parser converts the line-oriented record format emitted by listing
// scripts into Email values. It is a pure function and tolerates noise lines,
// so partial or garbled interpreter output still yields whatever records are
// recoverable.
//
// # Safety
//
// Operations that send or destroy mail take a Confirm flag. Without it the
// script performs a dry run and reports a preview instead of acting, which
// lets an agent show the user what would happen before committing.
package applemail
