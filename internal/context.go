package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Validatable is implemented by request bodies that check themselves after
// BindJSON decodes them.
type Validatable interface {
	Validate() error
}

// Context is what handlers and middleware receive. It is also the request's
// context.Context, so it can be passed straight to blocking calls.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	Context() context.Context

	// Param returns a chi URL parameter such as {id}.
	Param(name string) string
	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error

	// BindJSON decodes the body into v under the app body limit. An empty
	// body or malformed JSON is a 400 and an oversized body a 413. When v is
	// Validatable, the result of Validate is returned unchanged.
	BindJSON(v any) error

	// Written reports whether the status line has gone out; after that the
	// error handler can no longer render a response.
	Written() bool
	ResponseWriter() *ResponseWriter

	// Log* write through the app logger with the request context, so
	// context extractors such as the request ID apply.
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores value on the request context for later middleware and handlers.
	Set(key any, value any)
	Get(key any) any
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	bodyLimit      int64
}

// newContext creates a context, reusing the response wrapper of an outer layer.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{
		request:        r,
		responseWriter: rw,
		logger:         app.logger,
		bodyLimit:      app.bodyLimit,
	}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.responseWriter }
func (c *requestContext) Context() context.Context      { return c.request.Context() }

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.responseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.responseWriter.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := c.responseWriter.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) BindJSON(v any) error {
	body := c.request.Body
	if body == nil || body == http.NoBody {
		return ErrBadRequest("request body is empty")
	}
	if c.bodyLimit > 0 {
		body = http.MaxBytesReader(c.responseWriter, body, c.bodyLimit)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return ErrRequestTooLarge("request body too large", WithError(err))
		case errors.Is(err, io.EOF):
			return ErrBadRequest("request body is empty", WithError(err))
		default:
			return ErrBadRequest("invalid JSON body", WithError(err))
		}
	}

	if val, ok := v.(Validatable); ok {
		return val.Validate()
	}
	return nil
}

func (c *requestContext) Written() bool                   { return c.responseWriter.Written() }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.responseWriter }

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.logger.Log(c.request.Context(), level, msg, attrs...)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}
