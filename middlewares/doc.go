// Package middlewares provides the HTTP middleware used by the mailcast server.
//
// # Request ID
//
// RequestID assigns an ID to each request. An upstream X-Request-ID or
// X-Correlation-ID header is kept; otherwise a UUID is generated. The ID is
// echoed in the response and, with RequestIDExtractor, added to every log line:
//
//	app := internal.New(
//	    internal.WithLogger("mailcast", middlewares.RequestIDExtractor()),
//	    internal.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into a *PanicError for the error handler and reports
// them to Sentry when a client is configured.
//
// # Request logging
//
// RequestLogger writes one "request completed" line per request with method,
// route, status, size and duration. Use SkipPaths to keep probes out of the log:
//
//	middlewares.RequestLogger(
//	    middlewares.WithRequestLoggerSkip(middlewares.SkipPaths("/health/live")),
//	)
//
// # CORS
//
// CORS answers preflight requests and sets the Access-Control headers so a
// browser client on another origin can call the dispatch endpoints.
package middlewares
