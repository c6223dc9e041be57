package mailcast

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/internal/handlers"
	"github.com/dmitrymomot/mailcast/internal/metrics"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/middlewares"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/logger"
)

// Server is a fully wired mailcast HTTP server: transport, storage,
// services, metrics and routes built from one Config.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	app       *internal.App
	lists     *recipientlist.Service
	failures  *failurelog.Service
	scheduler *failurelog.Scheduler
	metrics   *metrics.Metrics
	closers   []func(context.Context) error
}

// ServerOption configures NewServer.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger    *slog.Logger
	transport dispatch.Transport
}

// WithServerLogger sets the logger shared by every component.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(o *serverOptions) { o.logger = l }
}

// WithServerTransport replaces the transport selected by the config.
func WithServerTransport(t dispatch.Transport) ServerOption {
	return func(o *serverOptions) { o.transport = t }
}

// NewServer connects storage, builds the transport and assembles the app.
// Resources opened before a failure are released before it returns.
func NewServer(ctx context.Context, cfg *config.Config, opts ...ServerOption) (*Server, error) {
	o := &serverOptions{}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	if log == nil {
		log = logger.NewNope()
	}

	transport := o.transport
	if transport == nil {
		var err error
		if transport, err = NewTransport(ctx, cfg, log); err != nil {
			return nil, err
		}
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		logger:   log,
		lists:    recipientlist.NewService(st.lists, recipientlist.WithLogger(log)),
		failures: failurelog.NewService(st.failures, failurelog.WithLogger(log)),
	}
	if st.close != nil {
		s.closers = append(s.closers, st.close)
	}

	if cfg.MetricsEnabled {
		if s.metrics, err = metrics.New(metrics.WithRuntimeCollectors()); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}

	if cfg.FailureRetention > 0 {
		s.scheduler, err = failurelog.NewScheduler(s.failures, cfg.FailurePruneSchedule, cfg.FailureRetention,
			failurelog.WithSchedulerLogger(log))
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}

	s.app = s.buildApp(transport, st.checks)
	return s, nil
}

func (s *Server) buildApp(transport dispatch.Transport, checks map[string]func(context.Context) error) *internal.App {
	cfg := s.cfg

	dispatcher := dispatch.New(transport,
		dispatch.WithLogger(s.logger),
		dispatch.WithSendTimeout(cfg.SendTimeout),
	)
	dispatchOpts := []handlers.DispatchOption{
		handlers.WithFailureLog(s.failures),
		handlers.WithAllowedOrigins(cfg.CORSOrigins...),
		handlers.WithReadLimit(cfg.BodyLimit),
	}

	mw := []internal.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.RequestLogger(middlewares.WithRequestLoggerSkip(
			middlewares.SkipPaths("/health/live", "/health/ready", cfg.MetricsPath),
		)),
		middlewares.CORS(middlewares.WithAllowOrigins(cfg.CORSOrigins...)),
	}

	healthOpts := make([]internal.HealthOption, 0, len(checks))
	for name, fn := range checks {
		healthOpts = append(healthOpts, internal.WithReadinessCheck(name, fn))
	}

	opts := []internal.Option{
		internal.WithCustomLogger(s.logger),
		internal.WithBodyLimit(cfg.BodyLimit),
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithHealthChecks(healthOpts...),
	}

	if s.metrics != nil {
		mw = append(mw, s.metrics.Middleware())
		dispatchOpts = append(dispatchOpts, handlers.WithMetrics(s.metrics))
		opts = append(opts, internal.WithMount(cfg.MetricsPath, s.metrics.Handler()))
	}

	opts = append(opts,
		internal.WithMiddleware(mw...),
		internal.WithHandlers(
			handlers.NewDispatchHandler(dispatcher, dispatchOpts...),
			handlers.NewListHandler(s.lists),
			handlers.NewFailureHandler(s.failures),
		),
	)
	return internal.New(opts...)
}

// App returns the assembled application. It is an http.Handler.
func (s *Server) App() *App {
	return s.app
}

// Lists returns the named recipient list service.
func (s *Server) Lists() *recipientlist.Service {
	return s.lists
}

// Failures returns the failure log service.
func (s *Server) Failures() *failurelog.Service {
	return s.failures
}

// Run serves on cfg.HTTPAddr until ctx is cancelled or the process receives
// SIGINT/SIGTERM. The prune schedule starts with the server and storage is
// closed after shutdown.
func (s *Server) Run(ctx context.Context, opts ...RunOption) error {
	runOpts := []internal.RunOption{
		internal.WithContext(ctx),
		internal.Logger(s.logger),
		internal.ShutdownTimeout(s.cfg.ShutdownTimeout),
	}
	if s.scheduler != nil {
		runOpts = append(runOpts,
			internal.StartupHook(s.scheduler.StartFunc()),
			internal.ShutdownHook(s.scheduler.Shutdown()),
		)
	}
	for _, c := range s.closers {
		runOpts = append(runOpts, internal.ShutdownHook(c))
	}
	runOpts = append(runOpts, opts...)

	return s.app.Run(s.cfg.HTTPAddr, runOpts...)
}

// Close releases storage connections. Use it when the server is built but
// never run; Run closes them on shutdown.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for _, c := range s.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
