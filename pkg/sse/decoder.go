package sse

import (
	"bytes"
	"errors"
	"io"
)

// Split consumes newly arrived bytes and returns the data payloads of every
// frame completed so far together with the unconsumed remainder, which must be
// passed back as carry with the next chunk. Split never retains or modifies
// its arguments, so chunk boundaries may fall anywhere, including inside a
// line terminator.
//
// Frames without data lines (comments, keep-alives) produce no payload.
// Multiple data lines of one frame are joined with "\n".
func Split(carry, chunk []byte) (frames [][]byte, rest []byte) {
	buf := make([]byte, 0, len(carry)+len(chunk))
	buf = append(buf, carry...)
	buf = append(buf, chunk...)

	for {
		end, next := frameEnd(buf)
		if end < 0 {
			break
		}
		if payload, ok := parseFrame(buf[:end]); ok {
			frames = append(frames, payload)
		}
		buf = buf[next:]
	}

	return frames, bytes.Clone(buf)
}

// frameEnd finds the first blank line. It returns the end of the frame body
// and the offset just past the terminator, or -1 if no frame is complete.
func frameEnd(buf []byte) (end, next int) {
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\n' {
			continue
		}
		switch {
		case i+1 < len(buf) && buf[i+1] == '\n':
			return i, i + 2
		case i+2 < len(buf) && buf[i+1] == '\r' && buf[i+2] == '\n':
			return i, i + 3
		}
	}
	return -1, 0
}

func parseFrame(block []byte) ([]byte, bool) {
	var (
		data  [][]byte
		found bool
	)
	for line := range bytes.SplitSeq(block, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 || line[0] == ':' {
			continue
		}
		field, value, _ := bytes.Cut(line, []byte(":"))
		if string(field) != "data" {
			continue
		}
		value = bytes.TrimPrefix(value, []byte(" "))
		data = append(data, value)
		found = true
	}
	if !found {
		return nil, false
	}
	return bytes.Join(data, []byte("\n")), true
}

// Decoder is a stateful wrapper around Split.
type Decoder struct {
	carry []byte
}

// Feed adds a chunk and returns the payloads of frames it completed.
func (d *Decoder) Feed(chunk []byte) [][]byte {
	var frames [][]byte
	frames, d.carry = Split(d.carry, chunk)
	return frames
}

// Pending reports how many bytes of an incomplete frame are buffered.
func (d *Decoder) Pending() int {
	return len(d.carry)
}

// ErrTruncated is returned by Reader when the stream ends inside a frame.
var ErrTruncated = errors.New("sse: stream ended mid-frame")

// Reader pulls frames from an io.Reader such as an HTTP response body.
type Reader struct {
	r       io.Reader
	dec     Decoder
	pending [][]byte
	buf     []byte
}

// NewReader creates a Reader that reads from r in chunks of up to 4 KiB.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, 4096)}
}

// Next returns the next frame payload. It returns io.EOF after the last
// complete frame and ErrTruncated if the stream ended inside a frame.
func (r *Reader) Next() ([]byte, error) {
	for len(r.pending) == 0 {
		n, err := r.r.Read(r.buf)
		if n > 0 {
			r.pending = r.dec.Feed(r.buf[:n])
		}
		if err != nil {
			if len(r.pending) > 0 {
				break
			}
			if errors.Is(err, io.EOF) {
				if len(bytes.TrimSpace(r.dec.carry)) > 0 {
					return nil, ErrTruncated
				}
				return nil, io.EOF
			}
			return nil, err
		}
	}

	frame := r.pending[0]
	r.pending = r.pending[1:]
	return frame, nil
}
