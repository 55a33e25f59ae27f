package response

import (
	"fmt"

	"github.com/Enrico-Fabbri/fobserver/headers"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

// Response is produced by a handler and consumed exactly once by Write.
type Response struct {
	Version wire.Version
	Status  wire.StatusCode
	Headers *headers.Headers
	// Body is sent using chunked transfer encoding. nil means no body.
	Body []byte
}

// New creates an HTTP/1.1 response with the given status and no body.
func New(status wire.StatusCode) *Response {
	return &Response{
		Version: wire.V11,
		Status:  status,
		Headers: headers.NewHeaders(),
	}
}

// WithStatus sets the status code.
func (r *Response) WithStatus(status wire.StatusCode) *Response {
	r.Status = status
	return r
}

// WithVersion sets the protocol version written on the status line.
func (r *Response) WithVersion(v wire.Version) *Response {
	r.Version = v
	return r
}

// WithHeader sets a header, replacing any previous value.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = headers.NewHeaders()
	}
	r.Headers.Set(key, value)
	return r
}

// WithHeaders sets every header in the map.
func (r *Response) WithHeaders(hs map[string]string) *Response {
	for key, value := range hs {
		r.WithHeader(key, value)
	}
	return r
}

func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

func (r *Response) WithBodyString(body string) *Response {
	r.Body = []byte(body)
	return r
}

// StatusLine returns e.g. "HTTP/1.1 200 OK".
func (r *Response) StatusLine() string {
	return fmt.Sprintf("%s %s", r.Version, r.Status)
}

// Validate reports an error wrapping wire.ErrUnrecognizedToken when the
// version or status is outside the known sets, e.g. a zero Response.
func (r *Response) Validate() error {
	return validateStatusLine(r.Version, r.Status)
}
