package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the stdout handler.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Format    string     `env:"LOG_FORMAT" envDefault:"json"` // json | text
	Component string     `env:"LOG_COMPONENT" envDefault:"mailcast"`
}

// New creates a stdout logger with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	log := slog.New(WithExtractors(newHandler(w, cfg), extractors...))
	if cfg.Component != "" {
		log = log.With(slog.String("component", cfg.Component))
	}
	return log
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
