package router

import (
	"sync"

	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

// Key identifies a route. Lookups compare all three fields exactly: there are
// no wildcards, path parameters or prefix matches.
type Key struct {
	Method  wire.Method
	Path    string
	Version wire.Version
}

// Router is an exact-match route table. It is safe for concurrent use; lookups
// share a read lock.
type Router struct {
	mu          sync.RWMutex
	routes      map[Key]Handler
	middlewares []Middleware
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: map[Key]Handler{}}
}

// AddRoute registers handler for the (method, path, version) triple,
// replacing any handler already registered for it.
func (r *Router) AddRoute(method wire.Method, path string, version wire.Version, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[Key{Method: method, Path: path, Version: version}] = handler
}

// HandleFunc registers an ordinary function as a handler.
func (r *Router) HandleFunc(method wire.Method, path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(method, path, version, handler)
}

// Get registers a new GET route.
func (r *Router) Get(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.GET, path, version, handler)
}

// Head registers a new HEAD route.
func (r *Router) Head(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.HEAD, path, version, handler)
}

// Post registers a new POST route.
func (r *Router) Post(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.POST, path, version, handler)
}

// Put registers a new PUT route.
func (r *Router) Put(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.PUT, path, version, handler)
}

// Patch registers a new PATCH route.
func (r *Router) Patch(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.PATCH, path, version, handler)
}

// Delete registers a new DELETE route.
func (r *Router) Delete(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.DELETE, path, version, handler)
}

// Options registers a new OPTIONS route.
func (r *Router) Options(path string, version wire.Version, handler HandlerFunc) {
	r.AddRoute(wire.OPTIONS, path, version, handler)
}

// Use adds middleware to the router. Middleware wraps every handler returned
// by Route and Lookup, the first one added being the outermost.
func (r *Router) Use(m ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, m...)
}

func (r *Router) chain(h Handler) Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	return h
}

// Lookup returns the handler registered for the exact triple.
func (r *Router) Lookup(method wire.Method, path string, version wire.Version) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.routes[Key{Method: method, Path: path, Version: version}]
	if !ok {
		return nil, false
	}
	return r.chain(h), true
}

// Route returns the handler for the request's method, path and version.
func (r *Router) Route(req *request.Request) (Handler, bool) {
	return r.Lookup(req.Method, req.Path, req.Version)
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}
