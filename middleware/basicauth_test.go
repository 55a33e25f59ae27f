package middleware

import (
	"encoding/base64"
	"testing"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/headers"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReqNoBody(method wire.Method, path string) *request.Request {
	return &request.Request{
		Method:  method,
		Path:    path,
		Version: wire.V11,
		Headers: headers.NewHeaders(),
	}
}

func okHandler(called *bool) router.HandlerFunc {
	return func(*request.Request, *args.Args) (*response.Response, error) {
		if called != nil {
			*called = true
		}
		return response.New(wire.StatusOK), nil
	}
}

func serveAuth(t *testing.T, authorization string, called *bool) *response.Response {
	t.Helper()
	mw := BasicAuthMiddleware([]Account{{Username: "user", Password: "pass"}})
	handler := mw(okHandler(called))

	req := newReqNoBody(wire.GET, "/")
	if authorization != "" {
		req.Headers.Set("Authorization", authorization)
	}

	resp, err := handler.ServeRequest(req, args.New())
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func basic(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func TestBasicAuth_NoHeader(t *testing.T) {
	resp := serveAuth(t, "", nil)
	assert.Equal(t, wire.StatusUnauthorized, resp.Status)
	assert.NotEmpty(t, resp.Headers.Get("WWW-Authenticate"))
}

func TestBasicAuth_Malformed_NoColon(t *testing.T) {
	resp := serveAuth(t, basic("useronly"), nil)
	assert.Equal(t, wire.StatusBadRequest, resp.Status)
}

func TestBasicAuth_InvalidBase64(t *testing.T) {
	resp := serveAuth(t, "Basic not-base64!!", nil)
	assert.Equal(t, wire.StatusBadRequest, resp.Status)
}

func TestBasicAuth_WrongCredentials(t *testing.T) {
	for _, credentials := range []string{"user:wrong", "other:pass", ":"} {
		called := false
		resp := serveAuth(t, basic(credentials), &called)
		assert.Equal(t, wire.StatusUnauthorized, resp.Status)
		assert.NotEmpty(t, resp.Headers.Get("WWW-Authenticate"))
		assert.False(t, called)
	}
}

func TestBasicAuth_Success(t *testing.T) {
	called := false
	resp := serveAuth(t, basic("user:pass"), &called)
	assert.Equal(t, wire.StatusOK, resp.Status)
	assert.True(t, called, "expected next handler to be called")
}

func TestBasicAuth_PasswordWithColon(t *testing.T) {
	mw := BasicAuthMiddleware([]Account{{Username: "user", Password: "p:a:ss"}})
	handler := mw(okHandler(nil))

	req := newReqNoBody(wire.GET, "/")
	req.Headers.Set("Authorization", basic("user:p:a:ss"))
	resp, err := handler.ServeRequest(req, args.New())
	require.NoError(t, err)
	assert.Equal(t, wire.StatusOK, resp.Status)
}
