// Package cors answers CORS preflight requests and decorates actual
// cross-origin responses. The option set follows github.com/go-chi/cors.
package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

const (
	varyActual    = "Origin"
	varyPreflight = "Origin, Access-Control-Request-Method, Access-Control-Request-Headers"
)

// CorsOptions configures the CORS middleware.
type CorsOptions struct {
	// AllowedOrigins is a list of origins a cross-domain request can be executed from.
	// "*" allows every origin. An origin may contain one wildcard (*) standing
	// for zero or more characters, e.g. http://*.domain.com.
	// Default value is ["*"].
	AllowedOrigins []string

	// AllowOriginFunc validates the origin instead of AllowedOrigins when set.
	AllowOriginFunc func(r *request.Request, origin string) bool

	// AllowedMethods is a list of methods the client is allowed to use with
	// cross-domain requests. Default value is HEAD, GET and POST.
	AllowedMethods []wire.Method

	// AllowedHeaders is a list of non simple headers the client may send.
	// "*" allows any header. "Origin" is always allowed.
	AllowedHeaders []string

	// ExposedHeaders lists the response headers a browser may expose to scripts.
	ExposedHeaders []string

	// AllowCredentials indicates whether the request can include user credentials like
	// cookies, HTTP authentication or client side SSL certificates.
	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	MaxAge int

	// OptionsPassthrough hands preflight requests on to the route's own
	// OPTIONS handler instead of answering them with an empty 200.
	OptionsPassthrough bool
}

// CorsMiddleware holds normalized CorsOptions.
type CorsMiddleware struct {
	allowedOrigins  []string
	allowedWOrigins []wildcard
	allowOriginFunc func(r *request.Request, origin string) bool
	allowedHeaders  []string
	allowedMethods  []wire.Method
	exposedHeaders  []string
	maxAge          int

	allowedOriginsAll bool
	allowedHeadersAll bool

	allowCredentials  bool
	optionPassthrough bool
}

// NewCorsMiddleware normalizes options into a CorsMiddleware.
func NewCorsMiddleware(options CorsOptions) *CorsMiddleware {
	c := &CorsMiddleware{
		exposedHeaders:    convert(options.ExposedHeaders, http.CanonicalHeaderKey),
		allowOriginFunc:   options.AllowOriginFunc,
		allowCredentials:  options.AllowCredentials,
		maxAge:            options.MaxAge,
		optionPassthrough: options.OptionsPassthrough,
	}

	// origins are compared case-insensitively
	if len(options.AllowedOrigins) == 0 {
		c.allowedOriginsAll = options.AllowOriginFunc == nil
	}
	for _, origin := range options.AllowedOrigins {
		origin = strings.ToLower(origin)
		if origin == "*" {
			c.allowedOriginsAll = true
			c.allowedOrigins = nil
			c.allowedWOrigins = nil
			break
		}
		if prefix, suffix, ok := strings.Cut(origin, "*"); ok {
			c.allowedWOrigins = append(c.allowedWOrigins, wildcard{prefix, suffix})
		} else {
			c.allowedOrigins = append(c.allowedOrigins, origin)
		}
	}

	if len(options.AllowedHeaders) == 0 {
		c.allowedHeaders = []string{"Origin", "Accept", "Content-Type"}
	} else if slices.Contains(options.AllowedHeaders, "*") {
		c.allowedHeadersAll = true
	} else {
		// browsers may always ask for Origin at preflight
		c.allowedHeaders = convert(append(slices.Clone(options.AllowedHeaders), "Origin"), http.CanonicalHeaderKey)
	}

	if len(options.AllowedMethods) == 0 {
		c.allowedMethods = []wire.Method{wire.GET, wire.POST, wire.HEAD}
	} else {
		c.allowedMethods = slices.Clone(options.AllowedMethods)
	}

	return c
}

// Handler returns a router.Middleware built from options.
func Handler(options CorsOptions) router.Middleware {
	return NewCorsMiddleware(options).Handler
}

// AllowAll allows every origin, every header and the common methods, without credentials.
func AllowAll() *CorsMiddleware {
	return NewCorsMiddleware(CorsOptions{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []wire.Method{wire.DELETE, wire.HEAD, wire.GET, wire.POST, wire.PUT, wire.PATCH},
		AllowedHeaders: []string{"*"},
	})
}

func isPreflight(r *request.Request) bool {
	return r.Method == wire.OPTIONS &&
		r.Headers.GetFold("Origin") != "" &&
		r.Headers.GetFold("Access-Control-Request-Method") != ""
}

// Handler answers preflight requests itself, unless OptionsPassthrough is
// set, and adds the CORS headers to the response of every other request.
// Preflight only reaches the middleware for paths with an OPTIONS route.
func (c *CorsMiddleware) Handler(next router.Handler) router.Handler {
	return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
		if isPreflight(r) {
			hs := c.handlePreflight(r)
			if !c.optionPassthrough {
				return response.New(wire.StatusOK).WithVersion(r.Version).WithHeaders(hs), nil
			}
			resp, err := next.ServeRequest(r, a)
			if err != nil || resp == nil {
				return resp, err
			}
			return resp.WithHeaders(hs), nil
		}

		hs := c.handleActualRequest(r)
		resp, err := next.ServeRequest(r, a)
		if err != nil || resp == nil {
			return resp, err
		}
		return resp.WithHeaders(hs), nil
	})
}

// handlePreflight returns the headers answering a preflight request.
func (c *CorsMiddleware) handlePreflight(r *request.Request) map[string]string {
	hs := map[string]string{}
	if r.Method != wire.OPTIONS {
		return hs
	}
	hs["Vary"] = varyPreflight

	origin := r.Headers.GetFold("Origin")
	if !c.isOriginAllowed(r, origin) {
		return hs
	}

	reqMethod, err := wire.ParseMethod(r.Headers.GetFold("Access-Control-Request-Method"))
	if err != nil || !c.isMethodAllowed(reqMethod) {
		return hs
	}
	reqHeaders := parseHeaderList(r.Headers.GetFold("Access-Control-Request-Headers"))
	if !c.areHeadersAllowed(reqHeaders) {
		return hs
	}

	hs["Access-Control-Allow-Origin"] = c.allowOriginValue(origin)
	// echoing the requested method and headers is enough
	hs["Access-Control-Allow-Methods"] = reqMethod.String()
	if len(reqHeaders) > 0 {
		hs["Access-Control-Allow-Headers"] = strings.Join(reqHeaders, ", ")
	}
	if c.allowCredentials {
		hs["Access-Control-Allow-Credentials"] = "true"
	}
	if c.maxAge > 0 {
		hs["Access-Control-Max-Age"] = strconv.Itoa(c.maxAge)
	}
	return hs
}

// handleActualRequest returns the headers for a simple or actual cross-origin request.
func (c *CorsMiddleware) handleActualRequest(r *request.Request) map[string]string {
	hs := map[string]string{"Vary": varyActual}

	origin := r.Headers.GetFold("Origin")
	if origin == "" || !c.isOriginAllowed(r, origin) {
		return hs
	}
	// Allowed methods are not required for simple requests, but they are honoured.
	if !c.isMethodAllowed(r.Method) {
		return hs
	}

	hs["Access-Control-Allow-Origin"] = c.allowOriginValue(origin)
	if len(c.exposedHeaders) > 0 {
		hs["Access-Control-Expose-Headers"] = strings.Join(c.exposedHeaders, ", ")
	}
	if c.allowCredentials {
		hs["Access-Control-Allow-Credentials"] = "true"
	}
	return hs
}

func (c *CorsMiddleware) allowOriginValue(origin string) string {
	if c.allowedOriginsAll {
		return "*"
	}
	return origin
}

func (c *CorsMiddleware) isOriginAllowed(r *request.Request, origin string) bool {
	if c.allowOriginFunc != nil {
		return c.allowOriginFunc(r, origin)
	}
	if c.allowedOriginsAll {
		return true
	}
	origin = strings.ToLower(origin)
	if slices.Contains(c.allowedOrigins, origin) {
		return true
	}
	return slices.ContainsFunc(c.allowedWOrigins, func(w wildcard) bool { return w.match(origin) })
}

func (c *CorsMiddleware) isMethodAllowed(method wire.Method) bool {
	if len(c.allowedMethods) == 0 {
		return false
	}
	if method == wire.OPTIONS {
		// preflight is always allowed
		return true
	}
	return slices.Contains(c.allowedMethods, method)
}

func (c *CorsMiddleware) areHeadersAllowed(requested []string) bool {
	if c.allowedHeadersAll || len(requested) == 0 {
		return true
	}
	for _, h := range requested {
		if !slices.Contains(c.allowedHeaders, http.CanonicalHeaderKey(h)) {
			return false
		}
	}
	return true
}
