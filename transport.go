package mailcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/logger"
	"github.com/dmitrymomot/mailcast/pkg/mailer"
	"github.com/dmitrymomot/mailcast/pkg/mailer/logsender"
	"github.com/dmitrymomot/mailcast/pkg/mailer/resend"
	"github.com/dmitrymomot/mailcast/pkg/mailer/ses"
	"github.com/dmitrymomot/mailcast/pkg/mailer/smtp"
)

// NewTransport builds the mail transport selected by cfg.Transport.
func NewTransport(ctx context.Context, cfg *config.Config, log *slog.Logger) (dispatch.Transport, error) {
	if log == nil {
		log = logger.NewNope()
	}

	var sender mailer.Sender
	switch cfg.Transport {
	case config.TransportResend:
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, fmt.Errorf("resend transport: %w", err)
		}
		sender = s
	case config.TransportSES:
		s, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, fmt.Errorf("ses transport: %w", err)
		}
		sender = s
	case config.TransportSMTP:
		sender = smtp.New(cfg.SMTP)
	case config.TransportLog:
		sender = logsender.New(cfg.LogMail, log.With(slog.String("sender", "log")))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}

	log.InfoContext(ctx, "mail transport ready", slog.String("transport", cfg.Transport))
	return mailer.NewTransport(sender, cfg.Mail), nil
}
