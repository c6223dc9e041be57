package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/internal/handlers"
	"github.com/dmitrymomot/mailcast/internal/metrics"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/middlewares"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/repository"
	"github.com/dmitrymomot/mailcast/pkg/sse"
)

type testEnv struct {
	srv      *httptest.Server
	lists    *recipientlist.Service
	failures *failurelog.Service
	metrics  *metrics.Metrics
}

type envConfig struct {
	dispatchOpts []dispatch.Option
	wrap         func(http.Handler) http.Handler
}

type envOption func(*envConfig)

func withDispatchOptions(opts ...dispatch.Option) envOption {
	return func(c *envConfig) { c.dispatchOpts = append(c.dispatchOpts, opts...) }
}

func withWrap(fn func(http.Handler) http.Handler) envOption {
	return func(c *envConfig) { c.wrap = fn }
}

func newTestEnv(t *testing.T, transport dispatch.Transport, opts ...envOption) *testEnv {
	t.Helper()

	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := metrics.New()
	require.NoError(t, err)

	env := &testEnv{
		lists:    recipientlist.NewService(repository.NewMemory[recipientlist.List]()),
		failures: failurelog.NewService(repository.NewMemory[failurelog.Entry]()),
		metrics:  m,
	}

	app := internal.New(
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(
			handlers.NewDispatchHandler(
				dispatch.New(transport, cfg.dispatchOpts...),
				handlers.WithFailureLog(env.failures),
				handlers.WithMetrics(m),
				handlers.WithHeartbeat(0),
			),
			handlers.NewListHandler(env.lists),
			handlers.NewFailureHandler(env.failures),
		),
	)

	var h http.Handler = app
	if cfg.wrap != nil {
		h = cfg.wrap(app)
	}
	env.srv = httptest.NewServer(h)
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return e.doCtx(t, context.Background(), method, path, body)
}

func (e *testEnv) doCtx(t *testing.T, ctx context.Context, method, path string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.srv.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// readEvents decodes every SSE frame of a response until EOF.
func readEvents(t *testing.T, resp *http.Response) []dispatch.Event {
	t.Helper()
	defer resp.Body.Close()

	var events []dispatch.Event
	r := sse.NewReader(resp.Body)
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		require.NoError(t, err)

		ev, err := dispatch.DecodeEvent(frame)
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func eventTypes(events []dispatch.Event) []dispatch.EventType {
	out := make([]dispatch.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type())
	}
	return out
}

func validRequest(to ...string) handlers.SendRequest {
	if to == nil {
		to = []string{}
	}
	return handlers.SendRequest{
		To:          to,
		Subject:     "Spring sale",
		FromName:    "Shop",
		FromEmail:   "news@shop.example",
		HTMLContent: "<p>Hello</p>",
	}
}

// rejecting fails delivery to the listed addresses and records every call.
type rejecting struct {
	mu    sync.Mutex
	fail  map[string]string
	calls []dispatch.Message
}

func newRejecting(fail map[string]string) *rejecting {
	return &rejecting{fail: fail}
}

func (r *rejecting) Send(_ context.Context, msg dispatch.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, msg)
	if reason, ok := r.fail[msg.To]; ok {
		return errors.New(reason)
	}
	return nil
}

func (r *rejecting) Calls() []dispatch.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dispatch.Message(nil), r.calls...)
}
