package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func runIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("run_id", id), true
	}
	return slog.Attr{}, false
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json with component and extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{Level: slog.LevelInfo, Component: "dispatch"}, runIDExtractor, nil)

		ctx := context.WithValue(context.Background(), ctxKey{}, "run-1")
		log.InfoContext(ctx, "dispatch started", slog.Int("total", 3))
		log.DebugContext(ctx, "hidden")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "dispatch started", rec["msg"])
		assert.Equal(t, "dispatch", rec["component"])
		assert.Equal(t, "run-1", rec["run_id"])
		assert.EqualValues(t, 3, rec["total"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newLogger(&buf, Config{Format: "TEXT"})
		log.Warn("slow send")

		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="slow send"`)
	})

	t.Run("debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLogger(&buf, Config{Level: slog.LevelDebug}).Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var info, errs bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	log := slog.New(WithExtractors(h, runIDExtractor)).With(slog.String("k", "v"))

	ctx := context.WithValue(context.Background(), ctxKey{}, "run-7")
	log.InfoContext(ctx, "one")
	log.ErrorContext(ctx, "two")
	log.Debug("dropped")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))
	assert.Contains(t, errs.String(), `"k":"v"`)
	assert.Contains(t, errs.String(), `"run_id":"run-7"`)
}

func TestWithExtractors_NoneReturnsHandler(t *testing.T) {
	t.Parallel()

	h := slog.NewTextHandler(&bytes.Buffer{}, nil)
	assert.Same(t, h, WithExtractors(h, nil))
	assert.False(t, NewNope().Enabled(context.Background(), slog.LevelError))
}

func TestRedactEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"john@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"a@example.com", "***@example.com"},
		{"not-an-address", "***@***"},
		{"a@b@c", "***@***"},
		{"john@", "***@***"},
		{"", "***@***"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RedactEmail(tt.in))
		})
	}
}
