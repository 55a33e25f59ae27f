// Cases follow net/http's CrossOriginProtection tests.

package middleware

import (
	"testing"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCORF(t *testing.T, handler router.Handler, req *request.Request) *response.Response {
	t.Helper()
	resp, err := handler.ServeRequest(req, args.New())
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestCORFSecFetchSite(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)
	handler := corf.Handler(okHandler(nil))

	tests := []struct {
		name         string
		method       wire.Method
		secFetchSite string
		origin       string
		want         wire.StatusCode
	}{
		{"same-origin allowed", wire.POST, "same-origin", "", wire.StatusOK},
		{"none allowed", wire.POST, "none", "", wire.StatusOK},
		{"cross-site blocked", wire.POST, "cross-site", "", wire.StatusForbidden},
		{"same-site blocked", wire.POST, "same-site", "", wire.StatusForbidden},
		{"header value is case-insensitive", wire.POST, "Same-Origin", "", wire.StatusOK},

		// No Sec-Fetch-Site header cases
		{"no header with no origin", wire.POST, "", "", wire.StatusOK},
		{"no header with matching origin", wire.POST, "", "https://example.com", wire.StatusOK},
		{"no header with mismatched origin", wire.POST, "", "https://attacker.example", wire.StatusForbidden},
		{"no header with null origin", wire.POST, "", "null", wire.StatusForbidden},

		// Safe methods allowed even when cross-site
		{"GET allowed", wire.GET, "cross-site", "", wire.StatusOK},
		{"HEAD allowed", wire.HEAD, "cross-site", "", wire.StatusOK},
		{"OPTIONS allowed", wire.OPTIONS, "cross-site", "", wire.StatusOK},
		{"TRACE allowed", wire.TRACE, "cross-site", "", wire.StatusOK},
		{"PUT blocked", wire.PUT, "cross-site", "", wire.StatusForbidden},
		{"DELETE blocked", wire.DELETE, "cross-site", "", wire.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newReqNoBody(tc.method, "/")
			req.Headers.Set("Host", "example.com")
			if tc.secFetchSite != "" {
				req.Headers.Set("Sec-Fetch-Site", tc.secFetchSite)
			}
			if tc.origin != "" {
				req.Headers.Set("Origin", tc.origin)
			}

			assert.Equal(t, tc.want, serveCORF(t, handler, req).Status)
		})
	}
}

func TestCORFHeaderNamesAreCaseInsensitive(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)
	handler := corf.Handler(okHandler(nil))

	req := newReqNoBody(wire.POST, "/")
	req.Headers.Set("host", "example.com")
	req.Headers.Set("origin", "https://attacker.example")
	assert.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)

	req = newReqNoBody(wire.POST, "/")
	req.Headers.Set("sec-fetch-site", "cross-site")
	assert.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)
}

func TestCORFDeniedRequestSkipsHandler(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)

	called := false
	handler := corf.Handler(okHandler(&called))

	req := newReqNoBody(wire.POST, "/")
	req.Headers.Set("Sec-Fetch-Site", "cross-site")
	assert.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)
	assert.False(t, called)
}

func TestCORFSetDenyHandler(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)
	handler := corf.Handler(okHandler(nil))

	req := newReqNoBody(wire.POST, "/")
	req.Headers.Set("Sec-Fetch-Site", "cross-site")
	require.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)

	corf.SetDenyHandler(router.HandlerFunc(func(*request.Request, *args.Args) (*response.Response, error) {
		return response.NewTextResponse("custom error").WithStatus(wire.StatusConflict), nil
	}))
	t.Cleanup(func() { corf.SetDenyHandler(nil) })

	resp := serveCORF(t, handler, req)
	require.Equal(t, wire.StatusConflict, resp.Status)
	assert.Contains(t, string(resp.Body), "custom error")

	corf.SetDenyHandler(nil)
	assert.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)
}

func TestCORFTrustedOriginBypass(t *testing.T) {
	corf, err := NewCORF("https://trusted.example")
	require.NoError(t, err)
	handler := corf.Handler(okHandler(nil))

	tests := []struct {
		name         string
		origin       string
		secFetchSite string
		want         wire.StatusCode
	}{
		{"trusted origin without sec-fetch-site", "https://trusted.example", "", wire.StatusOK},
		{"trusted origin with cross-site", "https://trusted.example", "cross-site", wire.StatusOK},
		{"untrusted origin without sec-fetch-site", "https://attacker.example", "", wire.StatusForbidden},
		{"untrusted origin with cross-site", "https://attacker.example", "cross-site", wire.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newReqNoBody(wire.POST, "/")
			req.Headers.Set("Host", "example.com")
			req.Headers.Set("Origin", tc.origin)
			if tc.secFetchSite != "" {
				req.Headers.Set("Sec-Fetch-Site", tc.secFetchSite)
			}

			assert.Equal(t, tc.want, serveCORF(t, handler, req).Status)
		})
	}
}

var originValidationCases = []struct {
	name    string
	origin  string
	wantErr bool
}{
	{"valid origin", "https://example.com", false},
	{"valid origin with port", "https://example.com:8080", false},
	{"http origin", "http://example.com", false},
	{"missing scheme", "example.com", true},
	{"missing host", "https://", true},
	{"trailing slash", "https://example.com/", true},
	{"with path", "https://example.com/path", true},
	{"with query", "https://example.com?query=value", true},
	{"with fragment", "https://example.com#fragment", true},
	{"invalid url", "https://ex ample.com", true},
	{"empty string", "", true},
	{"null", "null", true},
}

func TestCORFTrustedOriginValidation(t *testing.T) {
	for _, tc := range originValidationCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCORF(tc.origin)
			assert.Equal(t, tc.wantErr, err != nil, "NewCORF(%q) error = %v", tc.origin, err)
		})
	}
}

func TestCORFAddTrustedOriginErrors(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)

	for _, tc := range originValidationCases {
		t.Run(tc.name, func(t *testing.T) {
			err := corf.AddTrustedOrigin(tc.origin)
			assert.Equal(t, tc.wantErr, err != nil, "AddTrustedOrigin(%q) error = %v", tc.origin, err)
		})
	}
}

func TestCORFAddingTrustedOriginsConcurrently(t *testing.T) {
	corf, err := NewCORF()
	require.NoError(t, err)
	handler := corf.Handler(okHandler(nil))

	req := newReqNoBody(wire.POST, "/")
	req.Headers.Set("Origin", "https://concurrent.example")
	req.Headers.Set("Sec-Fetch-Site", "cross-site")
	require.Equal(t, wire.StatusForbidden, serveCORF(t, handler, req).Status)

	start := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(start)
		defer close(done)
		for range 10 {
			handler.ServeRequest(req, args.New())
		}
	}()

	// trust the origin while requests are in flight
	<-start
	require.NoError(t, corf.AddTrustedOrigin("https://concurrent.example"))
	<-done

	assert.Equal(t, wire.StatusOK, serveCORF(t, handler, req).Status)
}
