package request

import "errors"

var (
	// ErrEmptyRequest is returned when there is no request line at all.
	ErrEmptyRequest = errors.New("empty request")
	// ErrMissingMethod is returned when the request line has no method token.
	ErrMissingMethod = errors.New("missing method")
	// ErrMissingPath is returned when the request line has no path token.
	ErrMissingPath = errors.New("missing path")
	// ErrMissingVersion is returned when the request line has no version token.
	ErrMissingVersion = errors.New("missing HTTP version")
	// ErrMalformedRequestLine is returned when the request line has more than three tokens.
	ErrMalformedRequestLine = errors.New("malformed request line")

	// ErrNoCookieHeader is returned by cookie lookups when the request carries no Cookie header.
	ErrNoCookieHeader = errors.New("no Cookie header found")
	// ErrCookieNotFound is returned when the Cookie header does not contain the named cookie.
	ErrCookieNotFound = errors.New("cookie not found")
	// ErrMalformedCookie is returned when a Cookie header entry has no '='.
	ErrMalformedCookie = errors.New("malformed cookie")
)
