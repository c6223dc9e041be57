package middlewares_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, mw internal.Middleware, h internal.HandlerFunc) (error, map[string]any) {
		t.Helper()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/send-email", nil))
		buf := captureLogs(ctx)
		err := mw(h)(ctx)
		if buf.Len() == 0 {
			return err, nil
		}
		return err, decodeLogLine(t, buf)
	}

	t.Run("panic becomes PanicError", func(t *testing.T) {
		t.Parallel()

		err, entry := run(t, middlewares.Recover(middlewares.WithRecoverDisableReport()), func(internal.Context) error {
			panic("transport exploded")
		})

		require.Error(t, err)
		assert.True(t, middlewares.IsPanicError(err))
		assert.Equal(t, "panic: transport exploded", err.Error())

		var pe *middlewares.PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "transport exploded", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.LessOrEqual(t, len(pe.Stack), middlewares.DefaultStackSize)

		require.NotNil(t, entry)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "panic recovered", entry["msg"])
		assert.Contains(t, entry, "stack")
	})

	t.Run("stack capture can be disabled", func(t *testing.T) {
		t.Parallel()

		err, entry := run(t, middlewares.Recover(
			middlewares.WithRecoverStackSize(0),
			middlewares.WithRecoverDisableReport(),
		), func(internal.Context) error {
			panic(errors.New("boom"))
		})

		var pe *middlewares.PanicError
		require.ErrorAs(t, err, &pe)
		assert.Nil(t, pe.Stack)
		assert.NotContains(t, entry, "stack")
	})

	t.Run("report without a sentry client is harmless", func(t *testing.T) {
		t.Parallel()

		err, _ := run(t, middlewares.Recover(), func(internal.Context) error {
			panic(42)
		})
		assert.True(t, middlewares.IsPanicError(err))
	})

	t.Run("errors and success pass through", func(t *testing.T) {
		t.Parallel()

		want := errors.New("plain")
		err, entry := run(t, middlewares.Recover(), func(internal.Context) error { return want })
		assert.ErrorIs(t, err, want)
		assert.False(t, middlewares.IsPanicError(err))
		assert.Nil(t, entry)

		err, _ = run(t, middlewares.Recover(), func(internal.Context) error { return nil })
		assert.NoError(t, err)
	})

	t.Run("wrapped panic error is detected", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("handler: %w", &middlewares.PanicError{Value: "x"})
		assert.True(t, middlewares.IsPanicError(err))
		assert.False(t, middlewares.IsPanicError(nil))
	})
}
