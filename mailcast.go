package mailcast

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/logger"
)

// Type aliases - public API
type (
	// App is the HTTP application: router, middleware and error handling.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError is an error with an HTTP status code.
	HTTPError = internal.HTTPError

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Config is the server configuration read from the environment.
	Config = config.Config
)

// Dispatch types
type (
	// Dispatcher runs batches against a Transport.
	Dispatcher = dispatch.Dispatcher

	// Transport delivers one message.
	Transport = dispatch.Transport

	// Message is a single-recipient email handed to a Transport.
	Message = dispatch.Message

	// Request describes one batch.
	Request = dispatch.Request

	// Event is a single progress notification of a run.
	Event = dispatch.Event

	// Summary is the final tally of a run.
	Summary = dispatch.Summary

	// Token cancels a run between attempts.
	Token = dispatch.Token
)

// Constructors

// New creates a new application with the given options.
//
// Example:
//
//	app := mailcast.New(
//	    mailcast.WithMiddleware(middlewares.RequestID()),
//	    mailcast.WithHandlers(handlers.NewListHandler(lists)),
//	)
//
//	err := app.Run(":8080", mailcast.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewDispatcher creates a Dispatcher that delivers through t.
func NewDispatcher(t Transport, opts ...dispatch.Option) *Dispatcher {
	return dispatch.New(t, opts...)
}

// NewToken creates an unset cancellation token.
func NewToken() *Token {
	return dispatch.NewToken()
}

// LoadConfig reads dotenv files (".env" by default) and the environment.
func LoadConfig(files ...string) (*Config, error) {
	return config.Load(files...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMount attaches a plain http.Handler under pattern, for example a
// metrics exporter.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	mailcast.WithHealthChecks(
//	    mailcast.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithBodyLimit caps the size of JSON request bodies.
func WithBodyLimit(n int64) Option {
	return internal.WithBodyLimit(n)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, including shutdown hooks.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server starts serving.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run after the server stopped.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it shuts the server down
// and cancels every in-flight request, which stops running batches.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// OnReady is called with the bound address once the listener is open.
func OnReady(fn func(addr string)) RunOption {
	return internal.OnReady(fn)
}
