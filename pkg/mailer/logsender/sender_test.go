package logsender_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/pkg/mailer"
	"github.com/dmitrymomot/mailcast/pkg/mailer/logsender"
)

func email(to string) *mailer.Email {
	return &mailer.Email{To: []string{to}, Subject: "Sale", HTML: "<p>hi</p>"}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("logs with redacted address", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := logsender.New(logsender.Config{}, slog.New(slog.NewJSONHandler(&buf, nil)))

		require.NoError(t, s.Send(context.Background(), email("john@example.com")))
		assert.Contains(t, buf.String(), `"msg":"email sent"`)
		assert.Contains(t, buf.String(), "jo***@example.com")
		assert.NotContains(t, buf.String(), "john@example.com")
	})

	t.Run("writes html to dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s := logsender.New(logsender.Config{Dir: dir}, nil)

		require.NoError(t, s.Send(context.Background(), email("ana@example.com")))

		files, err := filepath.Glob(filepath.Join(dir, "*.html"))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Contains(t, filepath.Base(files[0]), "ana_example.com")

		content, err := os.ReadFile(files[0])
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", string(content))
	})

	t.Run("simulated failure", func(t *testing.T) {
		t.Parallel()

		s := logsender.New(logsender.Config{FailDomains: []string{" Bounce.test "}}, nil)

		require.ErrorIs(t, s.Send(context.Background(), email("x@bounce.test")), mailer.ErrSendFailed)
		require.NoError(t, s.Send(context.Background(), email("x@ok.test")))
	})

	t.Run("delay honours context", func(t *testing.T) {
		t.Parallel()

		s := logsender.New(logsender.Config{Delay: time.Minute}, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := s.Send(ctx, email("ana@example.com"))
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
