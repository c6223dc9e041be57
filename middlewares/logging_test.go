package middlewares_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/middlewares"
)

func captureLogs(ctx *testContext) *bytes.Buffer {
	var buf bytes.Buffer
	ctx.logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs successful request at info", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/lists", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)
		buf := captureLogs(ctx)

		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return c.String(http.StatusOK, "hello")
		})
		require.NoError(t, handler(ctx))

		entry := decodeLogLine(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "request completed", entry["msg"])
		assert.Equal(t, "GET", entry["method"])
		assert.Equal(t, "/api/lists", entry["path"])
		assert.EqualValues(t, 200, entry["status"])
		assert.EqualValues(t, 5, entry["bytes"])
	})

	t.Run("derives status from unhandled error", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)
		buf := captureLogs(ctx)

		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return internal.ErrBadRequest("missing fields")
		})
		err := handler(ctx)
		require.Error(t, err)

		entry := decodeLogLine(t, buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.EqualValues(t, 400, entry["status"])
		assert.Equal(t, "missing fields", entry["error"])
	})

	t.Run("plain errors are server errors", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)
		buf := captureLogs(ctx)

		handler := middlewares.RequestLogger()(func(c internal.Context) error {
			return errors.New("boom")
		})
		require.Error(t, handler(ctx))

		entry := decodeLogLine(t, buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.EqualValues(t, 500, entry["status"])
	})

	t.Run("skipped paths are not logged", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)
		buf := captureLogs(ctx)

		handler := middlewares.RequestLogger(
			middlewares.WithRequestLoggerSkip(middlewares.SkipPaths("/health/live")),
		)(func(c internal.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(ctx))
		assert.Zero(t, buf.Len())
	})
}

func TestRoutePattern(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middlewares.RoutePattern(req))
}
