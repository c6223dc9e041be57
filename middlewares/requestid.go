package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/pkg/logger"
)

type requestIDKey struct{}

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// DefaultRequestIDHeaders are checked in order for an upstream request ID.
var DefaultRequestIDHeaders = []string{RequestIDHeader, "X-Correlation-ID"}

type requestIDConfig struct {
	headers   []string
	generator func() string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

// WithRequestIDHeaders replaces the headers checked for an upstream ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headers = headers }
}

// WithRequestIDGenerator replaces the UUID generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.generator = gen }
}

// RequestID assigns every request an ID, stores it in the context and echoes
// it in the X-Request-ID response header. An upstream ID is reused when it is
// at most 128 printable ASCII characters; anything else is replaced with a
// fresh one so it cannot inject into logs or headers.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := requestIDConfig{
		headers:   DefaultRequestIDHeaders,
		generator: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sources := make([]internal.ExtractorSource, 0, len(cfg.headers))
	for _, h := range cfg.headers {
		sources = append(sources, internal.FromHeader(h))
	}
	upstream := internal.NewExtractor(sources...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id, ok := upstream.Extract(c)
			if !ok || !validRequestID(id) {
				id = cfg.generator()
			}

			c.Set(requestIDKey{}, id)
			c.SetHeader(RequestIDHeader, id)

			return next(c)
		}
	}
}

func validRequestID(id string) bool {
	if len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds "request_id" to log records written with a request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
