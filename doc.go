// Package mailcast sends one HTML message to many recipients, one at a time,
// and reports progress as it goes.
//
// A run validates the recipient list, attempts every well-formed address
// through a mail transport and emits start, progress, sent, failed and a
// single terminal event (complete, cancelled or error). The HTTP server
// streams those events over SSE or a websocket, or returns only the final
// summary.
//
// # Quick Start
//
// Load the configuration from the environment and run the server:
//
//	cfg, err := mailcast.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv, err := mailcast.NewServer(ctx, cfg, mailcast.WithServerLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	POST   /api/send-email-progress  run with SSE progress
//	POST   /api/send-email           run and return the summary
//	GET    /api/send-email-ws        run with websocket progress
//	GET    /api/lists                named recipient lists (CRUD under /api/lists/{id})
//	POST   /api/lists/parse          extract addresses from pasted text or CSV
//	GET    /api/failures             failure log (see also /addresses, /filter, /remove)
//	GET    /health/live, /health/ready
//	GET    /metrics
//
// # Building Blocks
//
// The dispatch core lives in pkg/dispatch and has no HTTP or storage
// dependency. Use it directly with any Transport:
//
//	d := mailcast.NewDispatcher(transport)
//	summary, err := d.Run(ctx, req, mailcast.NewToken(), emitter)
//
// The App, Router and Context aliases expose the HTTP framework so extra
// handlers can be mounted next to the built-in ones.
//
// # Shutdown
//
// The server handles SIGINT/SIGTERM. In-flight runs see their request
// context cancelled and end with a cancelled event; storage connections are
// closed after the listener stops.
package mailcast
