// Package logger builds the slog loggers used across mailcast.
//
// New writes JSON or text to stdout. NewWithSentry also forwards warnings and
// errors to Sentry when SENTRY_DSN is set and falls back to stdout only when it
// is not, so the same call works in development and production:
//
//	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, middlewares.RequestIDExtractor())
//	defer logger.Flush(2 * time.Second)
//
// A ContextExtractor turns a value stored in the request context into a log
// attribute. Extractors run on every *Context call, so a dispatch run logged
// with the request context carries its request_id:
//
//	log.InfoContext(ctx, "dispatch started", slog.Int("total", 3))
//	// {"level":"INFO","msg":"dispatch started","total":3,"request_id":"9f1c..."}
//
// WithExtractors applies the same decoration to any slog.Handler.
//
// Recipient addresses are personal data; log them through RedactEmail.
package logger
