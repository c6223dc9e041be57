package failurelog

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/logger"
)

// Recorder returns a dispatch.Observer that appends an entry for every failed
// address of a run, labelled with campaign. Entries are written even after
// the client has gone away, so ctx only supplies values, not cancellation.
func (s *Service) Recorder(ctx context.Context, campaign string) dispatch.Observer {
	ctx = context.WithoutCancel(ctx)
	return func(e dispatch.Event) {
		ev, ok := e.(dispatch.FailedEvent)
		if !ok {
			return
		}
		if _, err := s.Append(ctx, ev.Address, ev.Error, campaign); err != nil {
			s.logger.ErrorContext(ctx, "failed to record delivery failure",
				slog.String("email", logger.RedactEmail(ev.Address)),
				slog.String("error", err.Error()),
			)
		}
	}
}
