package request

import (
	"fmt"
	"strings"

	"github.com/Enrico-Fabbri/fobserver/headers"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

// Request is a parsed HTTP request. It is built once per connection and is
// treated as read-only by handlers.
type Request struct {
	Method  wire.Method
	Path    string
	Version wire.Version
	Headers *headers.Headers
	// Body holds the raw text after the blank line. "" means no body.
	Body string
}

// HasBody reports whether the request carried a body.
func (r *Request) HasBody() bool {
	return r.Body != ""
}

// Header returns the value of the named header, or "" if it is absent.
func (r *Request) Header(name string) string {
	return r.Headers.Get(name)
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s %s", r.Method, r.Path, r.Version)
}

// splitLines splits s on '\n', dropping a trailing '\r' from every line.
// A final line terminator does not produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func parseRequestLine(line string, req *Request) error {
	parts := strings.Fields(line)

	if len(parts) < 1 {
		return ErrMissingMethod
	}
	method, err := wire.ParseMethod(parts[0])
	if err != nil {
		return err
	}

	if len(parts) < 2 {
		return ErrMissingPath
	}

	if len(parts) < 3 {
		return ErrMissingVersion
	}
	version, err := wire.ParseVersion(parts[2])
	if err != nil {
		return err
	}

	if len(parts) > 3 {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	req.Method = method
	req.Path = parts[1]
	req.Version = version
	return nil
}

// ParseString parses the full text received on a connection into a Request.
// No Content-Length or chunked decoding is applied: whatever follows the
// blank line is the body.
func ParseString(raw string) (*Request, error) {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil, ErrEmptyRequest
	}

	req := &Request{Headers: headers.NewHeaders()}
	if err := parseRequestLine(lines[0], req); err != nil {
		return nil, err
	}

	i := 1
	for ; i < len(lines); i++ {
		if lines[i] == "" {
			// end of headers
			i++
			break
		}
		if err := req.Headers.ParseFieldLine(lines[i]); err != nil {
			return nil, fmt.Errorf("%w: %q", err, lines[i])
		}
	}

	if i < len(lines) {
		req.Body = strings.Join(lines[i:], "\n")
	}

	return req, nil
}

// Parse is ParseString for raw bytes. Invalid UTF-8 sequences are replaced
// with U+FFFD.
func Parse(raw []byte) (*Request, error) {
	return ParseString(strings.ToValidUTF8(string(raw), "\uFFFD"))
}
