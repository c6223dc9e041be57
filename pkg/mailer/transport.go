package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/sanitizer"
)

// Transport adapts a Sender to dispatch.Transport: one message per
// recipient, From built from the message sender fields, and an optional
// plain-text alternative derived from the HTML. Subject and sender name are
// reduced to single-line header text.
type Transport struct {
	sender Sender
	cfg    Config
}

// NewTransport wraps sender.
func NewTransport(sender Sender, cfg Config) *Transport {
	return &Transport{sender: sender, cfg: cfg}
}

// Send implements dispatch.Transport. Provider errors that make every later
// message fail are reported as dispatch.ErrTransportUnavailable.
func (t *Transport) Send(ctx context.Context, msg dispatch.Message) error {
	if t.sender == nil {
		return fmt.Errorf("%w: %w", dispatch.ErrTransportUnavailable, ErrNotConfigured)
	}

	email := &Email{
		To:      []string{msg.To},
		Subject: sanitizer.HeaderText(msg.Subject),
		HTML:    msg.HTML,
		ReplyTo: t.cfg.ReplyTo,
	}
	if msg.FromAddress != "" {
		email.From = Recipient(sanitizer.HeaderText(msg.FromName), msg.FromAddress)
	}
	if t.cfg.PlainText {
		email.Text = sanitizer.PlainText(msg.HTML)
	}
	if t.cfg.Tag != "" {
		email.Tags = SimpleTags(t.cfg.Tag)
	}

	if err := email.Validate(); err != nil {
		return err
	}

	err := t.sender.Send(ctx, email)
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%w: %w", dispatch.ErrTransportUnavailable, err)
	}
	return err
}
