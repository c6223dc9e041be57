package dispatch

import "errors"

var (
	// ErrCancelled is returned by Run when the cancellation token stopped the run.
	ErrCancelled = errors.New("dispatch: run cancelled")

	// ErrFatal wraps faults that end a run with an error event and no summary.
	ErrFatal = errors.New("dispatch: run aborted")

	// ErrTransportUnavailable marks a transport error as unrecoverable for the whole run
	// (missing credentials, provider unreachable). Transports wrap it to escalate a
	// per-address failure into a fatal one.
	ErrTransportUnavailable = errors.New("dispatch: transport unavailable")

	// ErrNoTransport is reported when a dispatcher was built without a transport.
	ErrNoTransport = errors.New("dispatch: no mail transport configured")

	// ErrUnknownEvent is returned by DecodeEvent for an unrecognised type discriminator.
	ErrUnknownEvent = errors.New("dispatch: unknown event type")
)
