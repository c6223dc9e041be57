package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast"
	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCmd(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "list.txt", "ana@example.com\nbroken\nbob@example.com, ana@example.com\n")

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "validate", path)
		require.NoError(t, err)
		assert.Equal(t, "valid: 2\n  ana@example.com\n  bob@example.com\ninvalid: 1\n  broken\n", out)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "validate", "--json", path)
		require.NoError(t, err)

		var got map[string][]string
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []string{"ana@example.com", "bob@example.com"}, got["valid"])
		assert.Equal(t, []string{"broken"}, got["invalid"])
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "validate", "--strict", path)
		require.ErrorIs(t, err, errInvalidRecipients)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.txt"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

const draft = `---
subject: Spring sale
fromName: Shop
fromEmail: news@shop.example
recipients:
  - ana@example.com
  - not-an-address
recipientsFile: more.txt
---
# Hello

Our **spring sale** starts today.
`

func newLiveServer(t *testing.T) (*mailcast.Server, string) {
	t.Helper()

	cfg, err := config.FromMap(map[string]string{
		"MAIL_TRANSPORT":        "log",
		"LOG_MAIL_FAIL_DOMAINS": "bounce.test",
		"METRICS_ENABLED":       "false",
	})
	require.NoError(t, err)

	s, err := mailcast.NewServer(context.Background(), cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(s.App())
	t.Cleanup(srv.Close)
	return s, srv.URL
}

func TestSendCmd(t *testing.T) {
	t.Parallel()

	t.Run("streams progress from a live server", func(t *testing.T) {
		t.Parallel()

		s, url := newLiveServer(t)
		dir := t.TempDir()
		writeFile(t, dir, "more.txt", "bob@bounce.test\n")
		path := writeFile(t, dir, "draft.md", draft)

		out, err := execute(t, "send", path, "--server", url, "--to", "cy@example.com")
		require.NoError(t, err)

		assert.Contains(t, out, "sending to 3 recipients (1 invalid skipped)\n")
		assert.Contains(t, out, "[1/3] ana@example.com\n")
		assert.Contains(t, out, "[2/3] bob@bounce.test\n  failed:")
		assert.Contains(t, out, "[3/3] cy@example.com\n  sent\n")
		assert.Contains(t, out, "done: 2 sent, 1 failed, 1 invalid\n")

		entries, err := s.Failures().List(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Spring sale", entries[0].Campaign)
	})

	t.Run("dry run prints the rendered body", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "more.txt", "")
		path := writeFile(t, dir, "draft.md", draft)

		out, err := execute(t, "send", path, "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>Hello</h1>")
		assert.Contains(t, out, "<strong>spring sale</strong>")
	})

	t.Run("incomplete draft is rejected locally", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "draft.md", "# no frontmatter\n")

		_, err := execute(t, "send", path, "--server", "http://127.0.0.1:1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "draft is incomplete")
	})
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event dispatch.Event
		want  string
	}{
		{dispatch.StartEvent{Total: 2, Invalid: 1}, "sending to 2 recipients (1 invalid skipped)\n"},
		{dispatch.AttemptEvent{Address: "a@x.io", Index: 1, Total: 2}, "[1/2] a@x.io\n"},
		{dispatch.SentEvent{Address: "a@x.io", Sent: 1, Total: 2}, "  sent\n"},
		{dispatch.FailedEvent{Address: "b@x.io", Error: "bounced"}, "  failed: bounced\n"},
		{dispatch.CancelledEvent{Sent: 1, Total: 2}, "cancelled after 1 of 2 sent\n"},
		{dispatch.CompleteEvent{Results: dispatch.Summary{Sent: 1, Failed: 1}}, "done: 1 sent, 1 failed, 0 invalid\n"},
		{dispatch.ErrorEvent{Message: "no transport"}, "error: no transport\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printEvent(&buf, tt.event)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
