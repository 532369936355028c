package applemail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmailContentRequiredFields(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil)

	_, err := client.GetEmailContent(context.Background(), ContentOptions{Account: "Work"})

	assert.ErrorContains(t, err, "required")
	assert.Empty(t, runner.scripts, "invalid input must not reach the interpreter")
}

func TestGetEmailContentDefaults(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetEmailContent(context.Background(), ContentOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, "if resultCount >= 5 then exit repeat")
	assert.Contains(t, script, "possibleInboxNames", "default mailbox is the inbox")
	assert.Contains(t, script, "text 1 thru 300", "default content length cap is 300")
}

func TestGetEmailContentCaseInsensitiveMatch(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetEmailContent(context.Background(), ContentOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, "on lowercase(str)")
	assert.Contains(t, script, "if lowerSubject contains lowerKeyword then")
}

func TestGetEmailContentAllMailboxes(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetEmailContent(context.Background(), ContentOptions{
		Account:        "Work",
		SubjectKeyword: "Invoice",
		Mailbox:        MailboxAll,
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "every mailbox of targetAccount")
}

func TestGetEmailThreadStripsReplyPrefixes(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{name: "reply prefix", keyword: "Re: Budget review", want: "Budget review"},
		{name: "forward prefix", keyword: "Fwd: Budget review", want: "Budget review"},
		{name: "uppercase forward", keyword: "FW: Budget review", want: "Budget review"},
		{name: "stacked prefixes", keyword: "Re: Fwd: Budget review", want: "Budget review"},
		{name: "no prefix", keyword: "Budget review", want: "Budget review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripReplyPrefixes(tt.keyword))
		})
	}
}

func TestGetEmailThreadDefaults(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	client := NewClient(runner, nil)

	_, err := client.GetEmailThread(context.Background(), ThreadOptions{
		Account:        "Work",
		SubjectKeyword: "Re: Budget review",
	})

	require.NoError(t, err)
	require.Len(t, runner.scripts, 1)
	script := runner.scripts[0]
	assert.Contains(t, script, "if (count of threadMessages) >= 50 then exit repeat")
	assert.Contains(t, script, `cleanSubject contains "Budget review"`, "matching uses the bare topic")
	assert.NotContains(t, script, `contains "Re: Budget review"`, "reply prefix must be stripped from the match")
}

func TestGetEmailThreadRequiredFields(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil)

	_, err := client.GetEmailThread(context.Background(), ThreadOptions{SubjectKeyword: "Budget"})

	assert.ErrorContains(t, err, "required")
	assert.Empty(t, runner.scripts)
}
