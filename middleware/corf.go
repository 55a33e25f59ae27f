package middleware

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

var safeMethods = []wire.Method{wire.GET, wire.HEAD, wire.OPTIONS, wire.TRACE}

var defaultDenyHandler router.Handler = router.HandlerFunc(func(*request.Request, *args.Args) (*response.Response, error) {
	return response.New(wire.StatusForbidden), nil
})

func validateOrigin(o string) error {
	u, err := url.Parse(o)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", o, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("invalid origin %q: scheme is required", o)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid origin %q: host is required", o)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid origin %q: path, query, and fragment are not allowed", o)
	}
	return nil
}

// CORF rejects state-changing cross-origin requests (Cross-Origin Request
// Forgery). Requests with a safe method always pass. Otherwise a request
// passes when its Origin is trusted, when Sec-Fetch-Site is "same-origin" or
// "none", or, without Sec-Fetch-Site, when Origin is absent or its host
// equals the Host header. Everything else goes to the deny handler.
type CORF struct {
	trustedMu      sync.RWMutex
	trustedOrigins map[string]bool
	deny           atomic.Pointer[router.Handler] // nil means defaultDenyHandler
}

// NewCORF returns a CORF trusting the given origins. Each origin must be a
// bare "scheme://host[:port]".
func NewCORF(trustedOrigins ...string) (*CORF, error) {
	c := &CORF{trustedOrigins: make(map[string]bool)}
	for _, o := range trustedOrigins {
		if err := validateOrigin(o); err != nil {
			return nil, err
		}
		c.trustedOrigins[o] = true
	}
	return c, nil
}

// AddTrustedOrigin trusts one more origin. It is safe to call while requests
// are being served.
func (c *CORF) AddTrustedOrigin(origin string) error {
	if err := validateOrigin(origin); err != nil {
		return err
	}
	c.trustedMu.Lock()
	if c.trustedOrigins == nil {
		c.trustedOrigins = make(map[string]bool)
	}
	c.trustedOrigins[origin] = true
	c.trustedMu.Unlock()
	return nil
}

// SetDenyHandler replaces the handler answering rejected requests; nil
// restores the default empty 403.
func (c *CORF) SetDenyHandler(h router.Handler) {
	if h == nil {
		c.deny.Store(nil)
		return
	}
	c.deny.Store(&h)
}

func (c *CORF) denyHandler() router.Handler {
	if p := c.deny.Load(); p != nil {
		return *p
	}
	return defaultDenyHandler
}

func (c *CORF) trusted(origin string) bool {
	c.trustedMu.RLock()
	defer c.trustedMu.RUnlock()
	return c.trustedOrigins[origin]
}

// allowed reports whether r passes the cross-origin checks.
func (c *CORF) allowed(r *request.Request) bool {
	if slices.Contains(safeMethods, r.Method) {
		return true
	}

	origin := r.Headers.GetFold("Origin")
	if origin != "" && c.trusted(origin) {
		return true
	}

	if site := strings.ToLower(r.Headers.GetFold("Sec-Fetch-Site")); site != "" {
		return site == "same-origin" || site == "none"
	}

	if origin == "" {
		// not a browser request
		return true
	}

	o, err := url.Parse(origin)
	return err == nil && o.Host == r.Headers.GetFold("Host")
}

// Handler is a router.Middleware enforcing the CORF rules.
func (c *CORF) Handler(next router.Handler) router.Handler {
	return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
		if c.allowed(r) {
			return next.ServeRequest(r, a)
		}
		return c.denyHandler().ServeRequest(r, a)
	})
}
