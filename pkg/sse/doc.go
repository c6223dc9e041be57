// Package sse implements the event-stream framing used for live progress.
//
// Each frame is one or more "data:" lines followed by a blank line:
//
//	data: {"type":"start","total":2,"invalid":0}
//
// Writer produces frames on an http.ResponseWriter, flushing after each one.
// Split is the pure incremental decoder: given the carry-over from the
// previous call and the newly arrived bytes, it returns every completed frame
// and the new carry-over. Decoder and Reader are thin stateful wrappers.
//
//	var carry []byte
//	for chunk := range chunks {
//	    var frames [][]byte
//	    frames, carry = sse.Split(carry, chunk)
//	    for _, f := range frames {
//	        handle(f)
//	    }
//	}
package sse
