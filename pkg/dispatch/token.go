package dispatch

import (
	"context"
	"sync/atomic"
)

// Token is a per-run cancellation flag owned by the caller.
// Setting it is idempotent; the dispatcher only reads it.
type Token struct {
	cancelled atomic.Bool
}

// NewToken returns an unset token.
func NewToken() *Token {
	return &Token{}
}

// Cancel sets the flag. Calling it more than once has no further effect.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
// A nil token is never cancelled.
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// CancelOnDone sets the token once ctx is done, typically when the client
// connection carrying the run goes away. The returned function detaches the
// hook and reports whether it did so before the hook ran.
func (t *Token) CancelOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, t.Cancel)
}
