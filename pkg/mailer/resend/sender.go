package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailcast/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender. An empty API key yields a sender whose
// every Send fails with mailer.ErrNotConfigured.
func New(cfg Config) (*Sender, error) {
	s := &Sender{config: cfg}
	if cfg.APIKey == "" {
		return s, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	s.client = resend.NewCustomClient(&http.Client{Timeout: timeout}, cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		s.client.BaseURL = u
	}
	return s, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.client == nil {
		return fmt.Errorf("resend: %w: missing api key", mailer.ErrNotConfigured)
	}

	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	if from == "" {
		return fmt.Errorf("resend: %w: missing sender address", mailer.ErrNotConfigured)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w: %w", mailer.ErrSendFailed, err)
	}

	return nil
}

func convertTags(tags mailer.Tags) []resend.Tag {
	pairs := tags.Pairs()
	result := make([]resend.Tag, len(pairs))
	for i, p := range pairs {
		result[i] = resend.Tag{Name: p.Name, Value: p.Value}
	}
	return result
}
