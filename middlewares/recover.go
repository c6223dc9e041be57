package middlewares

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/mailcast/internal"
)

// DefaultStackSize caps the stack trace captured for a recovered panic.
const DefaultStackSize = 4096

// PanicError is returned in place of a panic so the error handler can
// render it as a plain 500.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsPanicError reports whether err wraps a *PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

type recoverConfig struct {
	stackSize     int
	disableReport bool
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

// WithRecoverStackSize sets the captured stack size. Zero or less disables capture.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) { cfg.stackSize = size }
}

// WithRecoverDisableReport keeps recovered panics out of Sentry.
func WithRecoverDisableReport() RecoverOption {
	return func(cfg *recoverConfig) { cfg.disableReport = true }
}

// Recover turns a handler panic into a *PanicError. The panic is logged with
// its stack and, unless disabled, reported through the request's Sentry hub.
// Without a configured Sentry client the report is a no-op.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				pe := &PanicError{Value: r}
				attrs := []any{"panic", r}
				if cfg.stackSize > 0 {
					buf := make([]byte, cfg.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)

				if !cfg.disableReport {
					hub := sentry.GetHubFromContext(c.Context())
					if hub == nil {
						hub = sentry.CurrentHub()
					}
					hub.RecoverWithContext(c.Context(), r)
				}

				err = pe
			}()

			return next(c)
		}
	}
}
