package dispatch

import (
	"encoding/json"
	"fmt"
)

// EventType is the wire discriminator of a progress event.
type EventType string

const (
	TypeStart     EventType = "start"
	TypeProgress  EventType = "progress"
	TypeSent      EventType = "sent"
	TypeFailed    EventType = "failed"
	TypeCancelled EventType = "cancelled"
	TypeComplete  EventType = "complete"
	TypeError     EventType = "error"
)

// Event is a single progress notification of a run.
// Encoded events are flat JSON objects carrying a "type" field.
type Event interface {
	Type() EventType
}

// IsTerminal reports whether e ends a run.
func IsTerminal(e Event) bool {
	switch e.Type() {
	case TypeComplete, TypeCancelled, TypeError:
		return true
	default:
		return false
	}
}

// StartEvent opens every run.
type StartEvent struct {
	Total   int `json:"total"`
	Invalid int `json:"invalid"`
}

// AttemptEvent is emitted right before the transport is called for an address.
// Index is 1-based.
type AttemptEvent struct {
	Address string `json:"current"`
	Index   int    `json:"index"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
}

// SentEvent reports a delivered address. Sent already includes it.
type SentEvent struct {
	Address string `json:"email"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
}

// FailedEvent reports an address the transport rejected.
type FailedEvent struct {
	Address string `json:"email"`
	Error   string `json:"error"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
}

// CancelledEvent ends a run stopped by its token. Results carries the partial summary.
type CancelledEvent struct {
	Results *Summary `json:"results,omitempty"`
	Sent    int      `json:"sent"`
	Total   int      `json:"total"`
}

// CompleteEvent ends a run that attempted every valid address.
type CompleteEvent struct {
	Results Summary `json:"results"`
}

// ErrorEvent ends a run that hit a fatal fault. No summary is attached.
type ErrorEvent struct {
	Message string `json:"error"`
}

func (StartEvent) Type() EventType     { return TypeStart }
func (AttemptEvent) Type() EventType   { return TypeProgress }
func (SentEvent) Type() EventType      { return TypeSent }
func (FailedEvent) Type() EventType    { return TypeFailed }
func (CancelledEvent) Type() EventType { return TypeCancelled }
func (CompleteEvent) Type() EventType  { return TypeComplete }
func (ErrorEvent) Type() EventType     { return TypeError }

func (e StartEvent) MarshalJSON() ([]byte, error) {
	type alias StartEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e AttemptEvent) MarshalJSON() ([]byte, error) {
	type alias AttemptEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e SentEvent) MarshalJSON() ([]byte, error) {
	type alias SentEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e FailedEvent) MarshalJSON() ([]byte, error) {
	type alias FailedEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e CancelledEvent) MarshalJSON() ([]byte, error) {
	type alias CancelledEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e CompleteEvent) MarshalJSON() ([]byte, error) {
	type alias CompleteEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

func (e ErrorEvent) MarshalJSON() ([]byte, error) {
	type alias ErrorEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{e.Type(), alias(e)})
}

// DecodeEvent parses one encoded event back into its concrete type.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("dispatch: decode event: %w", err)
	}

	var (
		ev  Event
		err error
	)
	switch head.Type {
	case TypeStart:
		ev, err = decodeAs[StartEvent](data)
	case TypeProgress:
		ev, err = decodeAs[AttemptEvent](data)
	case TypeSent:
		ev, err = decodeAs[SentEvent](data)
	case TypeFailed:
		ev, err = decodeAs[FailedEvent](data)
	case TypeCancelled:
		ev, err = decodeAs[CancelledEvent](data)
	case TypeComplete:
		ev, err = decodeAs[CompleteEvent](data)
	case TypeError:
		ev, err = decodeAs[ErrorEvent](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("dispatch: decode %s event: %w", head.Type, err)
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
