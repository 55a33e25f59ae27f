package response

import "github.com/Enrico-Fabbri/fobserver/wire"

// NewTextResponse creates a 200 OK plain text response.
func NewTextResponse(body string) *Response {
	return New(wire.StatusOK).
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithBodyString(body)
}

// NewHTMLResponse creates a 200 OK HTML response.
func NewHTMLResponse(body string) *Response {
	return New(wire.StatusOK).
		WithHeader("Content-Type", "text/html; charset=utf-8").
		WithBodyString(body)
}
