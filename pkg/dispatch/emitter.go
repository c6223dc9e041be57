package dispatch

// Emitter writes progress events to the caller, one frame per event, in order.
// An error means the stream is gone; the dispatcher treats it as cancellation.
type Emitter interface {
	Emit(Event) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event) error

func (f EmitterFunc) Emit(e Event) error {
	return f(e)
}

// Discard drops every event. Used by callers that only need the final summary.
var Discard Emitter = EmitterFunc(func(Event) error { return nil })

// Observer receives a copy of every event after it has been emitted.
// Observers run on the dispatch goroutine and must not block.
type Observer func(Event)
