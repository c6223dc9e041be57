package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal"
)

// requestVia creates an App with the given options, registers a handler at GET and POST /,
// executes fn inside that handler, and sends a request.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context)) *httptest.ResponseRecorder {
	t.Helper()

	h := &captureHandler{fn: fn}
	opts = append(opts, internal.WithHandlers(h))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

type captureHandler struct {
	fn func(c internal.Context)
}

func (h *captureHandler) Routes(r internal.Router) {
	handle := func(c internal.Context) error {
		h.fn(c)
		return nil
	}
	r.GET("/", handle)
	r.POST("/", handle)
}

func TestContextImplementsContextInterface(t *testing.T) {
	t.Parallel()

	t.Run("Deadline delegates to request context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		requestVia(t, req, nil, func(c internal.Context) {
			deadline, ok := c.Deadline()
			require.True(t, ok)

			expected, _ := ctx.Deadline()
			require.Equal(t, expected, deadline)
		})
	})

	t.Run("Done closes on cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		requestVia(t, req, nil, func(c internal.Context) {
			select {
			case <-c.Done():
				t.Fatal("Done channel should not be closed before cancel")
			default:
			}

			cancel()

			select {
			case <-c.Done():
			case <-time.After(time.Second):
				t.Fatal("Done channel should be closed after cancel")
			}
			require.ErrorIs(t, c.Err(), context.Canceled)
		})
	})

	t.Run("Value reflects Set changes", func(t *testing.T) {
		t.Parallel()

		type testKey struct{}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			require.Nil(t, c.Value(testKey{}))
			c.Set(testKey{}, 42)
			require.Equal(t, 42, c.Value(testKey{}))
			require.Equal(t, 42, c.Get(testKey{}))
		})
	})
}

type bindPayload struct {
	Subject string   `json:"subject"`
	To      []string `json:"to"`
}

func (p bindPayload) Validate() error {
	if p.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

func TestContext_BindJSON(t *testing.T) {
	t.Parallel()

	bind := func(t *testing.T, body string, opts ...internal.Option) (bindPayload, error) {
		t.Helper()

		var (
			got bindPayload
			err error
		)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		requestVia(t, req, opts, func(c internal.Context) {
			err = c.BindJSON(&got)
		})
		return got, err
	}

	t.Run("decodes and validates", func(t *testing.T) {
		t.Parallel()

		got, err := bind(t, `{"subject":"Hi","to":["a@b.co"]}`)
		require.NoError(t, err)
		require.Equal(t, bindPayload{Subject: "Hi", To: []string{"a@b.co"}}, got)
	})

	t.Run("validation error is returned as is", func(t *testing.T) {
		t.Parallel()

		_, err := bind(t, `{"to":[]}`)
		require.EqualError(t, err, "subject is required")
		require.False(t, internal.IsHTTPError(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		_, err := bind(t, `{"subject":`)
		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		_, err := bind(t, ``)
		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
		require.Equal(t, "request body is empty", httpErr.Message)
	})

	t.Run("body over limit", func(t *testing.T) {
		t.Parallel()

		_, err := bind(t, `{"subject":"`+strings.Repeat("x", 64)+`"}`, internal.WithBodyLimit(16))
		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		require.Equal(t, http.StatusRequestEntityTooLarge, httpErr.Code)
	})
}

func TestContext_Responses(t *testing.T) {
	t.Parallel()

	t.Run("JSON", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) {
			require.False(t, c.Written())
			require.NoError(t, c.JSON(http.StatusCreated, map[string]string{"id": "1"}))
			require.True(t, c.Written())
			require.Equal(t, http.StatusCreated, c.ResponseWriter().Status())
		})

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		require.JSONEq(t, `{"id":"1"}`, w.Body.String())
	})

	t.Run("String and headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?q=term", nil)
		req.Header.Set("X-In", "in")
		w := requestVia(t, req, nil, func(c internal.Context) {
			require.Equal(t, "in", c.Header("X-In"))
			require.Equal(t, "term", c.Query("q"))
			c.SetHeader("X-Out", "out")
			require.NoError(t, c.String(http.StatusAccepted, "ok"))
		})

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Equal(t, "out", w.Header().Get("X-Out"))
		require.Equal(t, "ok", w.Body.String())
	})

	t.Run("NoContent", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := requestVia(t, req, nil, func(c internal.Context) {
			require.NoError(t, c.NoContent(http.StatusNoContent))
		})
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
	})
}
