package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ContentType is the media type of an event stream.
const ContentType = "text/event-stream"

var (
	// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
	ErrStreamingUnsupported = errors.New("sse: streaming not supported")

	// ErrNotOpen is returned when writing before Open.
	ErrNotOpen = errors.New("sse: stream not open")
)

// Writer writes data frames to an HTTP response and flushes after each one.
// It is safe for concurrent use, but frame order is only defined for a single producer.
type Writer struct {
	w    http.ResponseWriter
	rc   *http.ResponseController
	mu   sync.Mutex
	open bool
}

// NewWriter wraps w. Call Open before writing frames.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w, rc: http.NewResponseController(w)}
}

// Open writes the stream headers and lifts the server write deadline so a
// long run is not cut off mid-stream.
func (s *Writer) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	h := s.w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	if err := s.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}

	s.w.WriteHeader(http.StatusOK)
	if err := s.rc.Flush(); err != nil {
		if errors.Is(err, http.ErrNotSupported) {
			return ErrStreamingUnsupported
		}
		return err
	}
	s.open = true
	return nil
}

// WriteData writes one frame carrying data and flushes it.
func (s *Writer) WriteData(data []byte) error {
	return s.write(Frame(data))
}

// WriteJSON encodes v and writes it as one frame.
func (s *Writer) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.WriteData(data)
}

// Comment writes a comment frame. Decoders skip it; proxies see traffic.
func (s *Writer) Comment(text string) error {
	return s.write([]byte(": " + text + "\n\n"))
}

func (s *Writer) write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNotOpen
	}
	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Frame encodes data as a single "data:" frame terminated by a blank line.
// Multi-line data becomes one data line per input line.
func Frame(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data) + 8)
	for line := range bytes.Lines(data) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimRight(line, "\r\n"))
		buf.WriteByte('\n')
	}
	if len(data) == 0 {
		buf.WriteString("data: \n")
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
