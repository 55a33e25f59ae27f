package response

import (
	"fmt"
	"io"
)

// MaxChunkSize is the largest chunk the framer emits.
const MaxChunkSize = 4096

const lastChunk = "0\r\n\r\n"

// ChunkedWriter frames everything written to it using chunked transfer
// encoding. Every Write is split into chunks of at most MaxChunkSize bytes.
// Close writes the terminating zero-length chunk; it does not close the
// underlying writer.
type ChunkedWriter struct {
	w      io.Writer
	closed bool
}

func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w}
}

// Write implements the io.Writer interface.
func (cw *ChunkedWriter) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, ErrInvalidWriterState
	}

	written := 0
	for len(p) > 0 {
		n := min(len(p), MaxChunkSize)

		if _, err := fmt.Fprintf(cw.w, "%X\r\n", n); err != nil {
			return written, err
		}
		if _, err := cw.w.Write(p[:n]); err != nil {
			return written, err
		}
		if _, err := io.WriteString(cw.w, "\r\n"); err != nil {
			return written, err
		}

		written += n
		p = p[n:]
	}
	return written, nil
}

// Close implements the io.Closer interface.
func (cw *ChunkedWriter) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	_, err := io.WriteString(cw.w, lastChunk)
	return err
}
