package response

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Enrico-Fabbri/fobserver/headers"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

// Writer frames a response section by section: status line, headers, body.
// Calling a section out of order returns ErrInvalidWriterState and writes nothing.
type Writer struct {
	buf   *bufio.Writer
	state writerState

	// OnDroppedHeader, if set, is called with the name of every header field
	// that fails validation and is therefore not written.
	OnDroppedHeader func(name string)
}

// NewWriter returns a Writer framing onto w. Output is buffered and flushed
// once the body has been written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriterSize(w, MaxChunkSize+16)}
}

func (rw *Writer) expect(section writerState) error {
	if rw.state != section {
		return fmt.Errorf("%w: cannot write %s, expecting %s", ErrInvalidWriterState, section, rw.state)
	}
	return nil
}

// WriteStatusLine writes "VERSION CODE REASON". Versions and codes outside
// the known sets are rejected with an error wrapping wire.ErrUnrecognizedToken.
func (rw *Writer) WriteStatusLine(v wire.Version, status wire.StatusCode) error {
	if err := rw.expect(expectStatusLine); err != nil {
		return err
	}
	if err := validateStatusLine(v, status); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(rw.buf, "%s %s\r\n", v, status); err != nil {
		return err
	}
	rw.state = rw.state.next()
	return nil
}

// WriteHeaders writes the header block in name order followed by the empty line.
// Fields with an invalid name or value are skipped so that a value cannot
// inject extra lines into the response.
func (rw *Writer) WriteHeaders(h *headers.Headers) error {
	if err := rw.expect(expectHeaders); err != nil {
		return err
	}
	if h != nil {
		for k, v := range h.All() {
			if !headers.IsValidFieldName(k) || !headers.IsValidFieldValue(v) {
				if rw.OnDroppedHeader != nil {
					rw.OnDroppedHeader(k)
				}
				continue
			}
			if _, err := fmt.Fprintf(rw.buf, "%s: %s\r\n", k, v); err != nil {
				return err
			}
		}
	}
	if _, err := io.WriteString(rw.buf, "\r\n"); err != nil {
		return err
	}
	rw.state = rw.state.next()
	return nil
}

// WriteBody writes body as chunks, the terminating zero-length chunk, and
// flushes everything buffered so far.
func (rw *Writer) WriteBody(body []byte) error {
	if err := rw.expect(expectBody); err != nil {
		return err
	}
	cw := NewChunkedWriter(rw.buf)
	if len(body) > 0 {
		if _, err := cw.Write(body); err != nil {
			return err
		}
	}
	if err := cw.Close(); err != nil {
		return err
	}
	rw.state = rw.state.next()
	return rw.buf.Flush()
}

// WriteResponse validates r, forces chunked transfer encoding and writes every
// section. Nothing reaches the underlying writer when validation fails.
func (rw *Writer) WriteResponse(r *Response) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Headers == nil {
		r.Headers = headers.NewHeaders()
	}
	r.Headers.RemoveFold("Content-Length")
	r.Headers.RemoveFold("Transfer-Encoding")
	r.Headers.Set("Transfer-Encoding", "chunked")

	if err := rw.WriteStatusLine(r.Version, r.Status); err != nil {
		return err
	}
	if err := rw.WriteHeaders(r.Headers); err != nil {
		return err
	}
	return rw.WriteBody(r.Body)
}

// Write serializes the response onto w. Transfer-Encoding is always forced to
// chunked and any Content-Length is dropped; the body, if any, is sent in
// chunks of at most MaxChunkSize bytes followed by the zero-length chunk.
func (r *Response) Write(w io.Writer) error {
	return NewWriter(w).WriteResponse(r)
}

func validateStatusLine(v wire.Version, status wire.StatusCode) error {
	if !v.Known() {
		return fmt.Errorf("%w: response version %d", wire.ErrUnrecognizedToken, uint8(v))
	}
	if !status.Known() {
		return fmt.Errorf("%w: response status %d", wire.ErrUnrecognizedToken, int(status))
	}
	return nil
}
