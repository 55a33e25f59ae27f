package response

import "github.com/Enrico-Fabbri/fobserver/wire"

// NewRedirectResponse creates a redirect response. Uses status code 302 (Found) by default.
func NewRedirectResponse(location string) *Response {
	return New(wire.StatusFound).
		WithHeader("Location", location)
}
