package wire

import (
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method uint8

const (
	GET Method = iota + 1
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var methodNames = map[Method]string{
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

var methodsByName = func() map[string]Method {
	m := make(map[string]Method, len(methodNames))
	for method, name := range methodNames {
		m[name] = method
	}
	return m
}()

// ParseMethod converts a method token into a Method. Matching is case-insensitive.
func ParseMethod(s string) (Method, error) {
	if m, ok := methodsByName[strings.ToUpper(s)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: method %q", ErrUnrecognizedToken, s)
}

// String returns the canonical uppercase name of the method.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Methods returns every known method, in declaration order.
func Methods() []Method {
	return []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}
}
