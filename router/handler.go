package router

import (
	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
)

// Handler resolves a request, together with the shared argument store, into a response.
type Handler interface {
	ServeRequest(req *request.Request, a *args.Args) (*response.Response, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(req *request.Request, a *args.Args) (*response.Response, error)

// ServeRequest calls f(req, a).
func (f HandlerFunc) ServeRequest(req *request.Request, a *args.Args) (*response.Response, error) {
	return f(req, a)
}

// Middleware wraps a handler.
type Middleware func(Handler) Handler
