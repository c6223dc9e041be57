package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"

	"github.com/go-mail/mail"

	"github.com/dmitrymomot/mailcast/pkg/mailer"
)

// Sender implements mailer.Sender over an SMTP relay. Every Send opens its
// own connection.
type Sender struct {
	config Config
}

// New creates an SMTP sender.
func New(cfg Config) *Sender {
	return &Sender{config: cfg}
}

func (s *Sender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	d.Timeout = s.config.Timeout
	d.TLSConfig = &tls.Config{
		ServerName:         s.config.Host,
		InsecureSkipVerify: s.config.InsecureSkipVerify, //nolint:gosec // opt-in for local relays
	}

	switch s.config.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	default:
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d
}

// Send implements mailer.Sender. The SMTP exchange itself does not observe
// ctx; Send returns when ctx is done and the exchange ends within Timeout.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.config.Host == "" {
		return fmt.Errorf("smtp: %w: missing host", mailer.ErrNotConfigured)
	}

	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	if from == "" {
		return fmt.Errorf("smtp: %w: missing sender address", mailer.ErrNotConfigured)
	}

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	for k, v := range email.Headers {
		m.SetHeader(k, v)
	}

	if email.Text != "" {
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	} else {
		m.SetBody("text/html", email.HTML)
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer().DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return classify(err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: %w: %w", mailer.ErrSendFailed, ctx.Err())
	}
}

func classify(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("smtp: %w: %w", mailer.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("smtp: %w: %w", mailer.ErrSendFailed, err)
}
