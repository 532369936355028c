package applemail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatisticsRejectsInvalidScope(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.GetStatistics(context.Background(), StatisticsOptions{
		Account: "Work",
		Scope:   "everything",
	})

	assert.ErrorContains(t, err, "invalid scope")
}

func TestGetStatisticsDefaultsToAccountOverview(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetStatistics(context.Background(), StatisticsOptions{
		Account:  "Work",
		DaysBack: 30,
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, "ACCOUNT OVERVIEW")
	assert.Contains(t, script, "set targetDate to (current date) - (30 * days)")
	assert.Contains(t, script, "and messageDate > targetDate")
	assert.Contains(t, script, "TOP SENDERS")
}

func TestGetStatisticsAllTimeOmitsDateFilter(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetStatistics(context.Background(), StatisticsOptions{Account: "Work"})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.NotContains(t, script, "targetDate")
	assert.Contains(t, script, "Period: all time")
}

func TestGetStatisticsSenderStatsRequiresSender(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.GetStatistics(context.Background(), StatisticsOptions{
		Account: "Work",
		Scope:   ScopeSenderStats,
	})

	assert.ErrorContains(t, err, "sender is required")
}

func TestGetStatisticsMailboxBreakdown(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetStatistics(context.Background(), StatisticsOptions{
		Account: "Work",
		Scope:   ScopeMailboxBreakdown,
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "unread count of aMailbox")
}

func TestExportEmailsRejectsInvalidFormat(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.ExportEmails(context.Background(), ExportOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
		Format:         "pdf",
	})

	assert.ErrorContains(t, err, "invalid format")
}

func TestExportEmailsSingleRequiresSubjectKeyword(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.ExportEmails(context.Background(), ExportOptions{Account: "Work"})

	assert.ErrorContains(t, err, "subject_keyword is required")
}

func TestExportEmailsSingleDefaults(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.ExportEmails(context.Background(), ExportOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, "open for access POSIX file filePath with write permission")
	assert.Contains(t, script, `write exportContent to fileRef as «class utf8»`)
	assert.Contains(t, script, `& ".txt"`)
	assert.NotContains(t, script, "~", "save directory must be expanded before embedding")
	assert.Contains(t, script, "/Desktop")
}

func TestExportEmailsSafeFileName(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.ExportEmails(context.Background(), ExportOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, `set AppleScript's text item delimiters to "/"`)
	assert.Contains(t, script, `set AppleScript's text item delimiters to ":"`)
}

func TestExportEmailsMailboxCreatesDirectory(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.ExportEmails(context.Background(), ExportOptions{
		Account:       "Work",
		Scope:         ExportEntireMailbox,
		Mailbox:       "Archive",
		SaveDirectory: "/tmp/exports",
		Format:        ExportFormatHTML,
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, `do shell script "mkdir -p " & quoted form of exportDir`)
	assert.Contains(t, script, `set exportDir to "/tmp/exports/mailbox_export"`)
	assert.Contains(t, script, `& ".html"`)
	assert.True(t, strings.Contains(script, "<html>"), "html export wraps the message in a document")
}
