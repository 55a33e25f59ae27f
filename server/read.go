package server

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
)

// readChunkSize is the size of every read from the connection. A read that
// returns fewer bytes is taken as the end of the request.
const readChunkSize = 4096

// readRequest accumulates the request bytes from r. It stops at EOF, after a
// short read, or, when the header block declares a Content-Length, once that
// many body bytes have arrived. A Content-Length request keeps reading past
// short reads until the body is complete, so payloads that are an exact
// multiple of readChunkSize do not stall.
func readRequest(r io.Reader, maxBytes int) ([]byte, error) {
	var data []byte
	buf := make([]byte, readChunkSize)

	for {
		n, err := r.Read(buf)
		data = append(data, buf[:n]...)
		if len(data) > maxBytes {
			return nil, ErrRequestTooLarge
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return data, nil
			}
			return nil, err
		}

		complete, declared := requestComplete(data)
		if complete {
			return data, nil
		}
		if n < readChunkSize && !declared {
			return data, nil
		}
	}
}

// requestComplete reports whether data already holds the whole request.
// declared is true when the header block is complete and has a
// Content-Length that is not yet satisfied.
func requestComplete(data []byte) (complete, declared bool) {
	head, body, ok := splitHead(data)
	if !ok {
		return false, false
	}

	cl, hasLength := contentLength(head)
	if !hasLength {
		return len(body) == 0, false
	}
	if len(body) >= cl {
		return true, false
	}
	return false, true
}

func splitHead(data []byte) (head, body []byte, ok bool) {
	crlf := bytes.Index(data, []byte("\r\n\r\n"))
	lf := bytes.Index(data, []byte("\n\n"))

	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return data[:crlf], data[crlf+4:], true
	case lf >= 0:
		return data[:lf], data[lf+2:], true
	}
	return nil, nil, false
}

func contentLength(head []byte) (int, bool) {
	lines := strings.Split(string(head), "\n")
	// the first line is the request line
	for _, line := range lines[1:] {
		name, value, found := strings.Cut(strings.TrimSuffix(line, "\r"), ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
