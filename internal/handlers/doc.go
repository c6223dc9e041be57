// Package handlers implements the mailcast HTTP API.
//
// Dispatch routes run a batch through a dispatch.Dispatcher and report
// progress as an event stream, a websocket, or a single JSON summary.
// List and failure routes expose the recipient list and failure log
// services. Errors are rendered as {"error": ..., "details": ...} by
// ErrorHandler.
package handlers
