// Package internal provides the core types and implementation of the mailcast HTTP runtime.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/mailcast"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: orchestrates routing, middleware, health endpoints and graceful shutdown
//   - Context: request/response access with JSON helpers; also a context.Context
//   - Router: interface handlers use to declare routes
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc: route handler that returns an error
//   - Middleware: wraps handlers to add cross-cutting concerns
//   - ErrorHandler: renders errors returned by handlers
//   - HTTPError: error carrying a status code and optional field errors
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to repositories,
// transports and the dispatcher. Its Done channel closes when the client goes away,
// which is what ties a dispatch run to the lifetime of its connection.
//
// # Streaming
//
// Every handler receives a *ResponseWriter. It records whether a response has
// started, and it forwards Flush, Hijack and Unwrap so event streams and
// websocket upgrades work through it. Once a response has started, errors
// returned by the handler are logged but not rendered.
//
// # Binding
//
// BindJSON decodes the request body with a size cap (WithBodyLimit, 10MB by
// default). Malformed JSON becomes a 400 HTTPError. Payloads implementing
// Validatable are validated right after decoding, and their error is returned
// unchanged so the error handler can render field errors.
//
// # Lifecycle
//
// App.Run listens, runs startup hooks, serves until SIGINT/SIGTERM or the base
// context is cancelled, then shuts down and runs shutdown hooks in order.
// Request contexts derive from the run context, so open streams observe
// shutdown as a client disconnect.
package internal
