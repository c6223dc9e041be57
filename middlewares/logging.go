package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/pkg/validator"
)

// RequestLoggerConfig configures the request logging middleware.
type RequestLoggerConfig struct {
	// Skip excludes matching requests from logging (e.g. health probes).
	Skip func(r *http.Request) bool
}

// RequestLoggerOption configures RequestLoggerConfig.
type RequestLoggerOption func(*RequestLoggerConfig)

// WithRequestLoggerSkip sets a predicate for requests that are not logged.
func WithRequestLoggerSkip(fn func(r *http.Request) bool) RequestLoggerOption {
	return func(cfg *RequestLoggerConfig) {
		cfg.Skip = fn
	}
}

// SkipPaths returns a predicate matching the given exact paths.
func SkipPaths(paths ...string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

// RequestLogger returns middleware that logs one line per completed request
// with method, route, status, bytes written and duration.
// 5xx responses are logged at error level, 4xx at warn, everything else at info.
func RequestLogger(opts ...RequestLoggerOption) internal.Middleware {
	cfg := &RequestLoggerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.Skip != nil && cfg.Skip(c.Request()) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			status := ResponseStatus(c, err)

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			}
			if route := RoutePattern(c.Request()); route != "" {
				attrs = append(attrs, slog.String("route", route))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			switch {
			case status >= http.StatusInternalServerError:
				c.LogError("request completed", attrs...)
			case status >= http.StatusBadRequest:
				c.LogWarn("request completed", attrs...)
			default:
				c.LogInfo("request completed", attrs...)
			}

			return err
		}
	}
}

// RoutePattern returns the matched chi route pattern, or "" outside a chi router.
func RoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}

// ResponseStatus returns the status written to the client, or the status the
// error handler will derive from err when nothing has been written yet.
func ResponseStatus(c internal.Context, err error) int {
	rw := c.ResponseWriter()
	if rw.Written() || err == nil {
		return rw.Status()
	}
	if he := internal.AsHTTPError(err); he != nil {
		return he.Code
	}
	if validator.IsValidationError(err) {
		return http.StatusUnprocessableEntity
	}
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
