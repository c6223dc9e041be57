package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/mailcast/pkg/logger"
)

// DefaultSendTimeout bounds a single transport call.
const DefaultSendTimeout = 30 * time.Second

// Dispatcher sends one message body to a list of recipients, strictly one
// address at a time, reporting every step through an Emitter.
// A Dispatcher holds no per-run state and is safe for concurrent runs.
type Dispatcher struct {
	transport   Transport
	logger      *slog.Logger
	observers   []Observer
	sendTimeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for run lifecycle and per-address failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSendTimeout bounds each transport call. Zero or negative disables the bound.
func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.sendTimeout = timeout
	}
}

// WithObserver attaches observers that see the events of every run.
func WithObserver(obs ...Observer) Option {
	return func(d *Dispatcher) {
		for _, o := range obs {
			if o != nil {
				d.observers = append(d.observers, o)
			}
		}
	}
}

// New creates a Dispatcher on top of the given transport.
func New(t Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport:   t,
		logger:      logger.NewNope(),
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes one batch and blocks until it reaches a terminal state.
//
// The token is the only way to stop a run early; it is sampled before each
// attempt and again after a failed one. In-flight transport calls are never
// interrupted: they receive a context detached from ctx's cancellation and
// bounded by the send timeout. A failed Emit is treated as the caller going
// away and cancels the token.
//
// Exactly one terminal event is emitted. Run returns the summary with a nil
// error on completion, the partial summary with ErrCancelled on cancellation,
// and a nil summary with an error wrapping ErrFatal on a fatal fault.
func (d *Dispatcher) Run(ctx context.Context, req Request, token *Token, emit Emitter, observers ...Observer) (*Summary, error) {
	if token == nil {
		token = NewToken()
	}
	if emit == nil {
		emit = Discard
	}

	r := &run{
		ctx:        ctx,
		dispatcher: d,
		token:      token,
		emitter:    emit,
		observers:  append(slices.Clone(d.observers), observers...),
	}
	return r.execute(req)
}

// run carries the state of a single Run call.
type run struct {
	ctx        context.Context
	dispatcher *Dispatcher
	token      *Token
	emitter    Emitter
	emitErr    error
	observers  []Observer
}

func (r *run) execute(req Request) (*Summary, error) {
	log := r.dispatcher.logger
	started := time.Now()

	v := Validate(req.Recipients)
	total := len(v.Valid)

	log.InfoContext(r.ctx, "dispatch started",
		slog.Int("total", total),
		slog.Int("invalid", len(v.Invalid)),
	)
	r.publish(StartEvent{Total: total, Invalid: len(v.Invalid)})

	if r.dispatcher.transport == nil {
		return r.abort(ErrNoTransport)
	}

	outcomes := make([]Outcome, 0, total)
	sent := 0

	for i, addr := range v.Valid {
		if r.token.Cancelled() {
			return r.cancel(outcomes, v, sent, total)
		}

		r.publish(AttemptEvent{Address: addr, Index: i + 1, Sent: sent, Total: total})

		err := r.send(req.message(addr))
		if err == nil {
			sent++
			outcomes = append(outcomes, Outcome{Address: addr})
			r.publish(SentEvent{Address: addr, Sent: sent, Total: total})
			continue
		}

		if errors.Is(err, ErrTransportUnavailable) {
			return r.abort(err)
		}

		// The call may have outlived the caller; a cancelled run does not record it.
		if r.token.Cancelled() {
			return r.cancel(outcomes, v, sent, total)
		}

		outcomes = append(outcomes, Outcome{Address: addr, Failed: true, Detail: err.Error()})
		log.WarnContext(r.ctx, "dispatch attempt failed",
			slog.String("email", logger.RedactEmail(addr)),
			slog.Int("index", i+1),
			slog.String("error", err.Error()),
		)
		r.publish(FailedEvent{Address: addr, Error: err.Error(), Sent: sent, Total: total})
	}

	summary := Aggregate(outcomes, v)
	log.InfoContext(r.ctx, "dispatch completed",
		slog.Int("sent", summary.Sent),
		slog.Int("failed", summary.Failed),
		slog.Int("invalid", summary.Invalid),
		slog.Duration("duration", time.Since(started)),
	)
	r.publish(CompleteEvent{Results: summary})
	return &summary, nil
}

// send performs one transport call. Panics are converted into fatal errors.
func (r *run) send(msg Message) (err error) {
	ctx := context.WithoutCancel(r.ctx)
	if timeout := r.dispatcher.sendTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: transport panic: %v", ErrTransportUnavailable, p)
		}
	}()

	return r.dispatcher.transport.Send(ctx, msg)
}

func (r *run) cancel(outcomes []Outcome, v ValidationResult, sent, total int) (*Summary, error) {
	summary := Aggregate(outcomes, v)
	r.dispatcher.logger.InfoContext(r.ctx, "dispatch cancelled",
		slog.Int("sent", sent),
		slog.Int("attempted", len(outcomes)),
		slog.Int("total", total),
	)
	r.publish(CancelledEvent{Sent: sent, Total: total, Results: &summary})
	return &summary, ErrCancelled
}

func (r *run) abort(cause error) (*Summary, error) {
	r.dispatcher.logger.ErrorContext(r.ctx, "dispatch aborted", slog.String("error", cause.Error()))
	r.publish(ErrorEvent{Message: cause.Error()})
	return nil, fmt.Errorf("%w: %w", ErrFatal, cause)
}

// publish emits e and then notifies observers. Once the emitter has failed
// the stream is considered closed: later events only reach observers.
func (r *run) publish(e Event) {
	if r.emitErr == nil {
		if err := r.emitter.Emit(e); err != nil {
			r.emitErr = err
			r.token.Cancel()
			r.dispatcher.logger.DebugContext(r.ctx, "progress stream closed",
				slog.String("event", string(e.Type())),
				slog.String("error", err.Error()),
			)
		}
	}
	for _, o := range r.observers {
		o(e)
	}
}
