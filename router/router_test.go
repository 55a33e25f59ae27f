package router

import (
	"errors"
	"testing"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textHandler(body string) HandlerFunc {
	return func(*request.Request, *args.Args) (*response.Response, error) {
		return response.NewTextResponse(body), nil
	}
}

func serve(t *testing.T, h Handler) string {
	t.Helper()
	resp, err := h.ServeRequest(&request.Request{}, args.New())
	require.NoError(t, err)
	return string(resp.Body)
}

func TestRouter(t *testing.T) {
	router := NewRouter()

	router.Get("/home", wire.V11, textHandler("get home"))
	router.Post("/home", wire.V11, textHandler("post home"))
	router.Put("/home", wire.V11, textHandler("put home"))
	router.Patch("/home", wire.V11, textHandler("patch home"))
	router.Delete("/home", wire.V11, textHandler("delete home"))
	router.Head("/home", wire.V11, textHandler("head home"))
	router.Options("/home", wire.V11, textHandler("options home"))
	router.Get("/home", wire.V10, textHandler("get home 1.0"))
	router.HandleFunc(wire.TRACE, "/trace", wire.V11, textHandler("trace"))

	testCases := []struct {
		method  wire.Method
		path    string
		version wire.Version
		found   bool
		body    string
	}{
		{wire.GET, "/home", wire.V11, true, "get home"},
		{wire.POST, "/home", wire.V11, true, "post home"},
		{wire.PUT, "/home", wire.V11, true, "put home"},
		{wire.PATCH, "/home", wire.V11, true, "patch home"},
		{wire.DELETE, "/home", wire.V11, true, "delete home"},
		{wire.HEAD, "/home", wire.V11, true, "head home"},
		{wire.OPTIONS, "/home", wire.V11, true, "options home"},
		{wire.GET, "/home", wire.V10, true, "get home 1.0"},
		{wire.TRACE, "/trace", wire.V11, true, "trace"},
		{wire.POST, "/home", wire.V10, false, ""},
		{wire.GET, "/home/", wire.V11, false, ""},
		{wire.GET, "/Home", wire.V11, false, ""},
		{wire.GET, "/", wire.V11, false, ""},
		{wire.GET, "/home", wire.V20, false, ""},
		{wire.CONNECT, "/home", wire.V11, false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.method.String()+" "+tc.path+" "+tc.version.String(), func(t *testing.T) {
			req := &request.Request{Method: tc.method, Path: tc.path, Version: tc.version}
			h, ok := router.Route(req)
			require.Equal(t, tc.found, ok)
			if !tc.found {
				assert.Nil(t, h)
				return
			}
			assert.Equal(t, tc.body, serve(t, h))
		})
	}

	assert.Equal(t, 9, router.Len())
}

func TestRouterExactMatch(t *testing.T) {
	router := NewRouter()
	router.Get("/a", wire.V11, textHandler("a"))

	h, ok := router.Lookup(wire.GET, "/a", wire.V11)
	require.True(t, ok)
	assert.Equal(t, "a", serve(t, h))

	_, ok = router.Lookup(wire.POST, "/a", wire.V11)
	assert.False(t, ok)
}

func TestAddRouteOverwrites(t *testing.T) {
	router := NewRouter()
	router.Get("/a", wire.V11, textHandler("first"))
	router.Get("/a", wire.V11, textHandler("second"))

	h, ok := router.Lookup(wire.GET, "/a", wire.V11)
	require.True(t, ok)
	assert.Equal(t, "second", serve(t, h))
	assert.Equal(t, 1, router.Len())
}

type staticHandler struct{ body string }

func (s staticHandler) ServeRequest(*request.Request, *args.Args) (*response.Response, error) {
	return response.NewTextResponse(s.body), nil
}

func TestHandlerInterface(t *testing.T) {
	router := NewRouter()
	router.AddRoute(wire.GET, "/static", wire.V11, staticHandler{body: "static"})

	h, ok := router.Lookup(wire.GET, "/static", wire.V11)
	require.True(t, ok)
	assert.Equal(t, "static", serve(t, h))
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(req *request.Request, a *args.Args) (*response.Response, error) {
				order = append(order, name)
				resp, err := next.ServeRequest(req, a)
				if err == nil {
					resp.WithHeader("X-"+name, "1")
				}
				return resp, err
			})
		}
	}

	router := NewRouter()
	router.Use(tag("outer"), tag("inner"))
	router.Get("/", wire.V11, func(*request.Request, *args.Args) (*response.Response, error) {
		order = append(order, "handler")
		return response.New(wire.StatusOK), nil
	})

	h, ok := router.Lookup(wire.GET, "/", wire.V11)
	require.True(t, ok)
	resp, err := h.ServeRequest(&request.Request{}, args.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Equal(t, "1", resp.Headers.Get("X-outer"))
	assert.Equal(t, "1", resp.Headers.Get("X-inner"))
}

func TestHandlerErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	router := NewRouter()
	router.Get("/fail", wire.V11, func(*request.Request, *args.Args) (*response.Response, error) {
		return nil, boom
	})

	h, ok := router.Lookup(wire.GET, "/fail", wire.V11)
	require.True(t, ok)
	_, err := h.ServeRequest(&request.Request{}, args.New())
	require.ErrorIs(t, err, boom)
}
