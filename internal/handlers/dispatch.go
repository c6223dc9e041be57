package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/internal/metrics"
	"github.com/dmitrymomot/mailcast/middlewares"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/sse"
)

const defaultHeartbeat = 15 * time.Second

// SendResponse is the body of the non-streaming dispatch route.
type SendResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results *dispatch.Summary `json:"results"`
}

// DispatchHandler serves the three dispatch routes. Every run gets a fresh
// cancellation token that is set when the client goes away.
type DispatchHandler struct {
	dispatcher     *dispatch.Dispatcher
	failures       *failurelog.Service
	metrics        *metrics.Metrics
	heartbeat      time.Duration
	origins        middlewares.Origins
	readLimit      int64
}

// DispatchOption configures DispatchHandler.
type DispatchOption func(*DispatchHandler)

// WithFailureLog records every failed address of every run.
func WithFailureLog(svc *failurelog.Service) DispatchOption {
	return func(h *DispatchHandler) {
		h.failures = svc
	}
}

// WithMetrics attaches run metrics.
func WithMetrics(m *metrics.Metrics) DispatchOption {
	return func(h *DispatchHandler) {
		h.metrics = m
	}
}

// WithHeartbeat sets the interval of keep-alive comments on the event
// stream and pings on the websocket. Zero disables them.
func WithHeartbeat(d time.Duration) DispatchOption {
	return func(h *DispatchHandler) {
		h.heartbeat = d
	}
}

// WithAllowedOrigins restricts websocket upgrades to origins matching the
// given patterns (see middlewares.NewOrigins). No patterns allow any origin.
// Requests without an Origin header are always allowed.
func WithAllowedOrigins(patterns ...string) DispatchOption {
	return func(h *DispatchHandler) {
		if len(patterns) > 0 {
			h.origins = middlewares.NewOrigins(patterns...)
		}
	}
}

// WithReadLimit caps the size of the websocket request message.
func WithReadLimit(n int64) DispatchOption {
	return func(h *DispatchHandler) {
		if n > 0 {
			h.readLimit = n
		}
	}
}

// NewDispatchHandler creates the dispatch routes around d.
func NewDispatchHandler(d *dispatch.Dispatcher, opts ...DispatchOption) *DispatchHandler {
	h := &DispatchHandler{
		dispatcher:     d,
		heartbeat:      defaultHeartbeat,
		origins:        middlewares.NewOrigins("*"),
		readLimit:      10 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements internal.Handler.
func (h *DispatchHandler) Routes(r internal.Router) {
	r.POST("/api/send-email-progress", h.stream)
	r.POST("/api/send-email", h.send)
	r.GET("/api/send-email-ws", h.socket)
}

// observers builds the per-run observers. The failure log labels entries
// with the message subject.
func (h *DispatchHandler) observers(ctx context.Context, req *SendRequest) []dispatch.Observer {
	var obs []dispatch.Observer
	if h.failures != nil {
		obs = append(obs, h.failures.Recorder(ctx, req.Subject))
	}
	if h.metrics != nil {
		obs = append(obs, h.metrics.Observer())
	}
	return obs
}

// stream runs the batch and writes every event as an SSE frame.
// The stream is opened only after the request has been validated, so
// malformed input still gets a regular JSON error response.
func (h *DispatchHandler) stream(c internal.Context) error {
	var req SendRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	w := sse.NewWriter(c.Response())
	if err := w.Open(); err != nil {
		return internal.ErrInternal("streaming not supported", internal.WithError(err))
	}

	token := dispatch.NewToken()
	stop := token.CancelOnDone(c.Context())
	defer stop()

	stopHeartbeat := h.startHeartbeat(func() error { return w.Comment("ping") })
	defer stopHeartbeat()

	emit := dispatch.EmitterFunc(func(e dispatch.Event) error {
		return w.WriteJSON(e)
	})

	_, err := h.dispatcher.Run(c.Context(), req.Dispatch(), token, emit, h.observers(c.Context(), &req)...)
	logRunResult(c, err)
	return nil
}

// send runs the batch without intermediate events and returns the summary.
func (h *DispatchHandler) send(c internal.Context) error {
	var req SendRequest
	if err := c.BindJSON(&req); err != nil {
		return err
	}

	token := dispatch.NewToken()
	stop := token.CancelOnDone(c.Context())
	defer stop()

	summary, err := h.dispatcher.Run(c.Context(), req.Dispatch(), token, dispatch.Discard, h.observers(c.Context(), &req)...)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, SendResponse{
			Success: true,
			Message: completionMessage(summary),
			Results: summary,
		})
	case errors.Is(err, dispatch.ErrCancelled):
		// Nobody is left to read the response.
		logRunResult(c, err)
		return nil
	default:
		return internal.ErrServiceUnavailable("mail transport unavailable",
			internal.WithError(err),
			internal.WithDetail(strings.TrimPrefix(err.Error(), dispatch.ErrFatal.Error()+": ")),
		)
	}
}

// startHeartbeat calls ping every heartbeat interval until the returned
// function is called or ping fails.
func (h *DispatchHandler) startHeartbeat(ping func() error) func() {
	if h.heartbeat <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		t := time.NewTicker(h.heartbeat)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := ping(); err != nil {
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func (h *DispatchHandler) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	return h.origins.Allowed(origin)
}

func completionMessage(s *dispatch.Summary) string {
	return fmt.Sprintf("completed: %d sent, %d failed, %d invalid", s.Sent, s.Failed, s.Invalid)
}

func logRunResult(c internal.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrCancelled):
		c.LogInfo("dispatch run cancelled by client")
	default:
		c.LogWarn("dispatch run aborted", slog.String("error", err.Error()))
	}
}
