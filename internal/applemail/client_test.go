package applemail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records the scripts it receives and replies with canned output.
type fakeRunner struct {
	scripts []string
	output  string
	err     error
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func TestListAccountsParsesRunnerOutput(t *testing.T) {
	runner := &fakeRunner{output: "Work|Personal"}
	client := NewClient(runner, nil)

	accounts, err := client.ListAccounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Personal"}, accounts)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "every account")
}

func TestUnreadCountsParsesRunnerOutput(t *testing.T) {
	runner := &fakeRunner{output: "Work:3|Personal:ERROR"}
	client := NewClient(runner, nil)

	counts, err := client.UnreadCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Work": 3, "Personal": UnreadCountError}, counts)
}

func TestClientPropagatesRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("mail is busy")}
	client := NewClient(runner, nil)

	_, err := client.ListAccounts(context.Background())

	assert.ErrorContains(t, err, "mail is busy")
}

func TestRecentEmailsRequiresAccount(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil)

	_, err := client.RecentEmails(context.Background(), "", 10, false)

	assert.ErrorContains(t, err, "account is required")
	assert.Empty(t, runner.scripts, "invalid input must not reach the interpreter")
}

func TestRecentEmailsDefaultsCount(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.RecentEmails(context.Background(), "Work", 0, false)

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "if currentIndex > 10 then exit repeat")
}

func TestSearchEmailsRejectsInvalidReadStatus(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.SearchEmails(context.Background(), SearchOptions{
		Account:    "Work",
		ReadStatus: "starred",
	})

	assert.ErrorContains(t, err, "invalid read_status")
}

func TestSearchEmailsDefaults(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.SearchEmails(context.Background(), SearchOptions{Account: "Work"})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "if resultCount >= 20 then exit repeat")
	assert.Contains(t, runner.scripts[0], "possibleInboxNames", "default mailbox is the inbox")
}

func TestMoveEmailRequiredFields(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.MoveEmail(context.Background(), MoveOptions{Account: "Work"})

	assert.ErrorContains(t, err, "required")
}

func TestMoveEmailNestedDestination(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.MoveEmail(context.Background(), MoveOptions{
		Account:        "Work",
		SubjectKeyword: "invoice",
		ToMailbox:      "Projects/Reports",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `mailbox "Reports" of mailbox "Projects" of targetAccount`)
}

func TestUpdateEmailStatusRejectsInvalidAction(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.UpdateEmailStatus(context.Background(), UpdateStatusOptions{
		Account: "Work",
		Action:  "archive",
	})

	assert.ErrorContains(t, err, "invalid action")
}

func TestUpdateEmailStatusActions(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{action: ActionMarkRead, want: "set read status of aMessage to true"},
		{action: ActionMarkUnread, want: "set read status of aMessage to false"},
		{action: ActionFlag, want: "set flagged status of aMessage to true"},
		{action: ActionUnflag, want: "set flagged status of aMessage to false"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			runner := &fakeRunner{output: "ok"}
			client := NewClient(runner, nil)

			_, err := client.UpdateEmailStatus(context.Background(), UpdateStatusOptions{
				Account: "Work",
				Action:  tt.action,
			})

			require.NoError(t, err)
			require.Len(t, runner.scripts, 1)
			assert.Contains(t, runner.scripts[0], tt.want)
		})
	}
}

func TestManageTrashRejectsInvalidAction(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.ManageTrash(context.Background(), TrashOptions{
		Account: "Work",
		Action:  "incinerate",
	})

	assert.ErrorContains(t, err, "invalid action")
}

func TestManageTrashDeletePermanentDryRun(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.ManageTrash(context.Background(), TrashOptions{
		Account: "Work",
		Action:  ActionDeletePermanent,
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "PREVIEW - PERMANENT DELETION")
}

func TestSaveAttachmentRequiresAbsolutePath(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.SaveAttachment(context.Background(), "Work", "invoice", "report.pdf", "downloads/report.pdf")

	assert.ErrorContains(t, err, "absolute path")
}

func TestSearchEmailsLogsHashedSenderOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, logger)

	_, err := client.SearchEmails(context.Background(), SearchOptions{
		Account: "Work",
		Sender:  "jane@example.com",
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "account=Work")
	assert.Contains(t, out, "mailbox=INBOX")
	assert.Contains(t, out, "sender_hash=sender:")
	assert.NotContains(t, out, "jane@example.com", "raw sender address must never be logged")
}

func TestComposeEmailLogsRecipientDomain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, logger)

	_, err := client.ComposeEmail(context.Background(), ComposeOptions{
		Account: "Work",
		To:      "jane@example.com, bob@other.org",
		Subject: "status",
		Body:    "hi",
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sender_domain=example.com")
}

func TestComposeEmailRequiredFields(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil)

	_, err := client.ComposeEmail(context.Background(), ComposeOptions{
		Account: "Work",
		To:      "a@example.com",
	})

	assert.ErrorContains(t, err, "required")
}
