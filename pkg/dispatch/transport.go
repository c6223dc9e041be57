package dispatch

import "context"

// Message is a single-recipient email handed to a Transport.
type Message struct {
	To          string
	FromAddress string
	FromName    string
	Subject     string
	HTML        string
}

// Transport delivers one message. It is called at most once per address per run
// and is never retried by the dispatcher. Returning an error that wraps
// ErrTransportUnavailable ends the whole run instead of failing one address.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, msg Message) error

func (f TransportFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Request describes one batch: a single message body for an ordered list of recipients.
type Request struct {
	Recipients  []string
	Subject     string
	FromName    string
	FromAddress string
	HTML        string
}

func (r Request) message(to string) Message {
	return Message{
		To:          to,
		FromAddress: r.FromAddress,
		FromName:    r.FromName,
		Subject:     r.Subject,
		HTML:        r.HTML,
	}
}
