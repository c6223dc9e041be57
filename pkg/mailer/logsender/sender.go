// Package logsender is a development mail.Sender: it logs every message,
// optionally writes the HTML body to a directory, and can simulate
// per-recipient failures and provider latency.
package logsender

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailcast/pkg/logger"
	"github.com/dmitrymomot/mailcast/pkg/mailer"
)

// Config holds development sender settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Dir         string        `env:"LOG_MAIL_DIR"`
	FailDomains []string      `env:"LOG_MAIL_FAIL_DOMAINS" envSeparator:","`
	Delay       time.Duration `env:"LOG_MAIL_DELAY"`
}

// Sender implements mailer.Sender without delivering anything.
type Sender struct {
	config Config
	logger *slog.Logger
}

// New creates a development sender. A nil logger discards output.
func New(cfg Config, log *slog.Logger) *Sender {
	if log == nil {
		log = logger.NewNope()
	}
	return &Sender{config: cfg, logger: log}
}

// ErrSimulated is returned for recipients in Config.FailDomains.
var ErrSimulated = fmt.Errorf("%w: simulated rejection", mailer.ErrSendFailed)

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.config.Delay > 0 {
		t := time.NewTimer(s.config.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", mailer.ErrSendFailed, ctx.Err())
		}
	}

	for _, to := range email.To {
		if s.rejects(to) {
			s.logger.WarnContext(ctx, "simulated send failure", slog.String("to", logger.RedactEmail(to)))
			return ErrSimulated
		}
	}

	id := uuid.NewString()
	attrs := []any{
		slog.String("message_id", id),
		slog.String("subject", email.Subject),
		slog.Int("html_bytes", len(email.HTML)),
		slog.Int("text_bytes", len(email.Text)),
	}
	for _, to := range email.To {
		attrs = append(attrs, slog.String("to", logger.RedactEmail(to)))
	}

	if s.config.Dir != "" {
		path, err := s.save(id, email)
		if err != nil {
			return fmt.Errorf("logsender: %w: %w", mailer.ErrSendFailed, err)
		}
		attrs = append(attrs, slog.String("file", path))
	}

	s.logger.InfoContext(ctx, "email sent", attrs...)
	return nil
}

func (s *Sender) rejects(addr string) bool {
	_, domain, ok := strings.Cut(addr, "@")
	if !ok {
		return false
	}
	domain = strings.ToLower(strings.TrimRight(domain, ">"))
	return slices.ContainsFunc(s.config.FailDomains, func(d string) bool {
		return strings.EqualFold(strings.TrimSpace(d), domain)
	})
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (s *Sender) save(id string, email *mailer.Email) (string, error) {
	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", err
	}

	to := "unknown"
	if len(email.To) > 0 {
		to = unsafeFileChars.ReplaceAllString(email.To[0], "_")
	}
	name := fmt.Sprintf("%s_%s_%s.html", time.Now().UTC().Format("20060102T150405"), to, id[:8])
	path := filepath.Join(s.config.Dir, name)

	if err := os.WriteFile(path, []byte(email.HTML), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
