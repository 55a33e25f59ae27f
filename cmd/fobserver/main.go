package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/middleware"
	"github.com/Enrico-Fabbri/fobserver/middleware/cors"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/server"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

type Counter struct {
	value int
}

func (c *Counter) Add() int {
	c.value++
	return c.value
}

func headerAdder(next router.Handler) router.Handler {
	return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
		resp, err := next.ServeRequest(r, a)
		if err != nil || resp == nil {
			return resp, err
		}
		return resp.WithHeader("X-Server", "fobserver"), nil
	})
}

func count(_ *request.Request, a *args.Args) (*response.Response, error) {
	counter, err := args.Get[*Counter](a, "counter")
	if err != nil {
		return nil, err
	}

	var n int
	counter.Update(func(c **Counter) { n = (*c).Add() })
	return response.NewTextResponse(fmt.Sprintf("Counter value: %d\n", n)), nil
}

func echo(r *request.Request, _ *args.Args) (*response.Response, error) {
	if !r.HasBody() {
		return response.New(wire.StatusNoContent), nil
	}
	return response.NewTextResponse(r.Body), nil
}

func allow(methods ...wire.Method) router.HandlerFunc {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	allowed := strings.Join(names, ", ")
	return func(*request.Request, *args.Args) (*response.Response, error) {
		return response.New(wire.StatusNoContent).WithHeader("Allow", allowed), nil
	}
}

// splitList splits a comma separated flag value, skipping empty entries.
func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func whoami(r *request.Request, _ *args.Args) (*response.Response, error) {
	user, err := r.Cookie("user")
	if err != nil {
		return response.NewTextResponse(err.Error() + "\n").WithStatus(wire.StatusBadRequest), nil
	}
	return response.NewTextResponse("hello " + user + "\n"), nil
}

func stats(_ *request.Request, a *args.Args) (*response.Response, error) {
	started := args.MustGet[time.Time](a, "started").Load()
	var hits int
	args.MustGet[*Counter](a, "counter").Read(func(c *Counter) { hits = c.value })

	return response.NewJSONResponse(map[string]any{
		"uptime": time.Since(started).Round(time.Second).String(),
		"hits":   hits,
	})
}

func main() {
	addr := flag.String("addr", ":42069", "address to listen on")
	colored := flag.Bool("colored", true, "colorize request logs")
	errorResponses := flag.Bool("error-responses", false, "answer failed requests with 400/404/500 instead of closing the connection")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "deadline for reading a request, 0 disables it")
	maxConns := flag.Int("max-conns", 0, "maximum concurrently served connections, 0 means unbounded")
	trustedOrigins := flag.String("trusted-origins", "", "comma separated origins allowed to send cross-origin POST/PUT/DELETE requests")
	corsOrigins := flag.String("cors-origins", "*", "comma separated origins allowed by CORS")
	flag.Parse()

	a := args.New()
	args.Set(a, "counter", &Counter{})
	args.Set(a, "started", time.Now())

	corf, err := middleware.NewCORF(splitList(*trustedOrigins)...)
	if err != nil {
		log.Fatalf("Invalid trusted origins: %v", err)
	}
	corsHandler := cors.Handler(cors.CorsOptions{
		AllowedOrigins: splitList(*corsOrigins),
		AllowedMethods: []wire.Method{wire.GET, wire.POST},
		MaxAge:         600,
	})

	app := router.NewRouter()
	if *colored {
		app.Use(middleware.LoggingMiddlewareColored, headerAdder, corsHandler, corf.Handler)
	} else {
		app.Use(middleware.LoggingMiddleware, headerAdder, corsHandler, corf.Handler)
	}

	adminPassword := os.Getenv("FOBSERVER_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Println("FOBSERVER_ADMIN_PASSWORD not set, /stats is disabled")
	}
	adminOnly := middleware.BasicAuthMiddleware([]middleware.Account{{Username: "admin", Password: adminPassword}})

	for _, v := range []wire.Version{wire.V10, wire.V11} {
		app.Get("/", v, count)
		app.Post("/echo", v, echo)
		app.Options("/echo", v, allow(wire.POST, wire.OPTIONS))
		app.Get("/whoami", v, whoami)
		if adminPassword != "" {
			app.AddRoute(wire.GET, "/stats", v, adminOnly(router.HandlerFunc(stats)))
		}
	}

	srv, err := server.New(server.ServerOpts{
		Address:        *addr,
		ReadTimeout:    *readTimeout,
		MaxConnections: *maxConns,
		ErrorResponses: *errorResponses,
	}, app, a)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}

	go func() {
		if err := srv.Serve(); err != nil {
			log.Fatalf("Error serving: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("shutdown:", err)
	}
	log.Println("Server gracefully stopped")
}
