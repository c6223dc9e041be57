package failurelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/mailcast/pkg/logger"
)

// Scheduler prunes the failure log periodically.
type Scheduler struct {
	cron      *cron.Cron
	svc       *Service
	retention time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// SchedulerOption configures Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPruneTimeout bounds a single prune pass. Default: 1 minute.
func WithPruneTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewScheduler creates a scheduler that removes entries older than retention
// on the given schedule (standard 5-field cron or a descriptor like "@daily").
func NewScheduler(svc *Service, schedule string, retention time.Duration, opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		svc:       svc,
		retention: retention,
		timeout:   time.Minute,
		logger:    logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("failurelog: invalid prune schedule %q: %w", schedule, err)
	}
	return s, nil
}

// StartFunc returns a startup hook that starts the schedule.
func (s *Scheduler) StartFunc() func(context.Context) error {
	return func(context.Context) error {
		s.cron.Start()
		s.logger.Info("failure log pruning scheduled", slog.Duration("retention", s.retention))
		return nil
	}
}

// Shutdown returns a shutdown hook that stops the schedule and waits for a
// running prune to finish or ctx to expire.
func (s *Scheduler) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		done := s.cron.Stop().Done()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce prunes immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.svc.Prune(ctx, s.retention)
}

func (s *Scheduler) run() {
	if _, err := s.RunOnce(context.Background()); err != nil {
		s.logger.Error("failure log prune failed", slog.String("error", err.Error()))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
