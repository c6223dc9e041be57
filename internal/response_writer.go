package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync/atomic"
)

// ResponseWriter records the status and body size of a response for the
// request log and the error handler. Flush, Hijack and Unwrap reach the
// underlying writer, so event streams and websocket upgrades work through it.
// Its counters are safe to read while a stream is being written.
type ResponseWriter struct {
	http.ResponseWriter
	status  atomic.Int32
	size    atomic.Int64
	written atomic.Bool
}

// NewResponseWriter wraps w. Status reports 200 until a header is written.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	rw := &ResponseWriter{ResponseWriter: w}
	rw.status.Store(http.StatusOK)
	return rw
}

// WriteHeader forwards only the first status; later calls are dropped
// instead of triggering "superfluous WriteHeader" warnings.
func (w *ResponseWriter) WriteHeader(code int) {
	if !w.written.CompareAndSwap(false, true) {
		return
	}
	w.status.Store(int32(code))
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.written.Store(true)
	n, err := w.ResponseWriter.Write(b)
	w.size.Add(int64(n))
	return n, err
}

func (w *ResponseWriter) Status() int   { return int(w.status.Load()) }
func (w *ResponseWriter) Size() int64   { return w.size.Load() }
func (w *ResponseWriter) Written() bool { return w.written.Load() }

// Flush sends buffered data and commits the response.
func (w *ResponseWriter) Flush() {
	f, ok := w.ResponseWriter.(http.Flusher)
	if !ok {
		return
	}
	w.written.Store(true)
	f.Flush()
}

// Hijack hands the connection to a websocket upgrader. A hijacked response
// is reported as written with status 101.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	conn, rw, err := h.Hijack()
	if err != nil {
		return nil, nil, err
	}
	w.status.Store(http.StatusSwitchingProtocols)
	w.written.Store(true)
	return conn, rw, nil
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
