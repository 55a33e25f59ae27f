package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/Enrico-Fabbri/fobserver/wire"
)

// Server accepts TCP connections and serves exactly one request on each.
type Server struct {
	opts     ServerOpts
	listener net.Listener
	router   *router.Router
	args     *args.Args

	// mu orders conns.Add against Close so that no connection is tracked
	// once Shutdown may be waiting on conns.
	mu        sync.Mutex
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	conns     sync.WaitGroup
	slots     chan struct{}
}

// New binds the listening address. Binding failure is returned wrapped in ErrBind.
// A nil router or args is replaced with an empty one.
func New(opts ServerOpts, rt *router.Router, a *args.Args) (*Server, error) {
	opts.setDefaults()
	if rt == nil {
		rt = router.NewRouter()
	}
	if a == nil {
		a = args.New()
	}

	listener, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBind, opts.Address, err)
	}

	s := &Server{
		opts:     opts,
		listener: listener,
		router:   rt,
		args:     a,
		done:     make(chan struct{}),
	}
	if opts.MaxConnections > 0 {
		s.slots = make(chan struct{}, opts.MaxConnections)
	}
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until the server is closed, in which case it
// returns nil. Each accepted connection is handled on its own goroutine.
func (s *Server) Serve() error {
	s.opts.Logger.Println("server started on", s.listener.Addr())

	for {
		if !s.acquire() {
			return nil
		}

		conn, err := s.listener.Accept()
		if err != nil {
			s.release()
			if s.closed.Load() {
				return nil
			}
			s.opts.Logger.Println("unable to accept connection: " + err.Error())
			return err
		}

		if !s.track() {
			// accepted while closing
			conn.Close()
			s.release()
			return nil
		}
		go func() {
			defer s.conns.Done()
			defer s.release()
			s.handle(conn)
		}()
	}
}

func (s *Server) acquire() bool {
	if s.slots == nil {
		return !s.closed.Load()
	}
	select {
	case s.slots <- struct{}{}:
		return true
	case <-s.done:
		return false
	}
}

// track registers an accepted connection, unless the server is already closed.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.conns.Add(1)
	return true
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

// Close stops accepting connections and makes Serve return nil. It does not
// wait: connections already accepted keep running. Use Shutdown to wait for them.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		s.mu.Unlock()
		close(s.done)
		err = s.listener.Close()
	})
	return err
}

// Shutdown closes the server and waits for in-flight connections to finish
// or for ctx to be done.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Close()

	finished := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return err
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
}

func (s *Server) report(stage Stage, remote string, err error) {
	s.opts.ErrorHandler(&ConnError{Stage: stage, Remote: remote, Err: err})
}

// newWriter returns a response writer whose dropped header fields are
// reported through the server's logger.
func (s *Server) newWriter(conn net.Conn, remote string) *response.Writer {
	w := response.NewWriter(conn)
	w.OnDroppedHeader = func(name string) {
		s.opts.Logger.Printf("dropping invalid response header %q for %s\n", name, remote)
	}
	return w
}

func (s *Server) writeError(conn net.Conn, remote string, status wire.StatusCode) {
	if !s.opts.ErrorResponses {
		return
	}
	resp := response.NewTextResponse(status.Reason()).WithStatus(status)
	if err := s.newWriter(conn, remote).WriteResponse(resp); err != nil {
		s.opts.Logger.Println("unable to write error response:", err)
	}
}

// handle drives one connection through reading, routing, handling and
// writing. The connection is closed on return whatever the outcome.
func (s *Server) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		if err := conn.Close(); err != nil {
			s.opts.Logger.Println("unable to close connection", err)
		}
	}()

	if s.opts.ReadTimeout != 0 {
		conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}

	raw, err := readRequest(conn, s.opts.MaxRequestBytes)
	if err != nil {
		if errors.Is(err, ErrRequestTooLarge) {
			s.report(StageReading, remote, fmt.Errorf("%w: %w", ErrParse, err))
			s.writeError(conn, remote, wire.StatusBadRequest)
			return
		}
		s.report(StageReading, remote, fmt.Errorf("%w: %w", ErrIO, err))
		return
	}

	req, err := request.Parse(raw)
	if err != nil {
		s.report(StageRouting, remote, fmt.Errorf("%w: %w", ErrParse, err))
		s.writeError(conn, remote, wire.StatusBadRequest)
		return
	}

	handler, ok := s.router.Route(req)
	if !ok {
		s.report(StageRouting, remote, fmt.Errorf("%w: %s", ErrRouteNotFound, req))
		s.writeError(conn, remote, wire.StatusNotFound)
		return
	}

	resp, err := s.invoke(handler, req)
	if err == nil {
		err = resp.Validate()
	}
	if err != nil {
		s.report(StageHandling, remote, fmt.Errorf("%w: %s: %w", ErrHandler, req, err))
		s.writeError(conn, remote, wire.StatusInternalServerError)
		return
	}

	if s.opts.WriteTimeout != 0 {
		conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if err := s.newWriter(conn, remote).WriteResponse(resp); err != nil {
		s.report(StageWriting, remote, fmt.Errorf("%w: %w", ErrIO, err))
	}
}

var errNilResponse = errors.New("handler returned no response")

func (s *Server) invoke(h router.Handler, req *request.Request) (resp *response.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.Recovery(r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	resp, err = h.ServeRequest(req, s.args)
	if err == nil && resp == nil {
		err = errNilResponse
	}
	return resp, err
}

// ListenAndServe binds the address and runs the accept loop in the background.
// Use Close or Shutdown on the returned server to stop it.
func ListenAndServe(opts ServerOpts, rt *router.Router, a *args.Args) (*Server, error) {
	s, err := New(opts, rt, a)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.Serve(); err != nil {
			s.opts.Logger.Println("server stopped:", err)
		}
	}()
	return s, nil
}
