// Package dispatch implements batch delivery of a single email to an ordered
// list of recipients with live progress reporting and cooperative cancellation.
//
// A run validates the recipients, then walks the valid ones strictly in order,
// calling the Transport once per address. Every transition is reported as an
// Event through an Emitter:
//
//	start -> (progress -> sent|failed)* -> complete|cancelled|error
//
// Exactly one terminal event ends each run.
//
// # Usage
//
//	d := dispatch.New(transport,
//	    dispatch.WithLogger(log),
//	    dispatch.WithSendTimeout(20*time.Second),
//	)
//
//	token := dispatch.NewToken()
//	stop := token.CancelOnDone(r.Context())
//	defer stop()
//
//	summary, err := d.Run(ctx, dispatch.Request{
//	    Recipients:  []string{"a@example.com", "b@example.com"},
//	    Subject:     "Hello",
//	    FromName:    "Team",
//	    FromAddress: "team@example.com",
//	    HTML:        "<p>Hi</p>",
//	}, token, emitter)
//
// # Cancellation
//
// The Token is sampled before each attempt and after each failed attempt.
// A transport call already in flight always finishes; a failure observed
// after cancellation is not recorded. Cancelled runs return the partial
// summary together with ErrCancelled.
//
// # Fatal errors
//
// A missing transport, a transport panic, or a transport error wrapping
// ErrTransportUnavailable ends the run with an error event and no summary.
package dispatch
