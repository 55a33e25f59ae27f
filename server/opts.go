package server

import (
	"log"
	"runtime/debug"
	"time"
)

// DefaultMaxRequestBytes caps how much is buffered for a single request.
const DefaultMaxRequestBytes = 1 << 20

type ServerOpts struct {
	// The address for the server to listen on, in host:port form.
	Address string

	// ReadTimeout bounds how long a connection may take to deliver its request.
	// Zero means no deadline: a stalled client holds its goroutine until it disconnects.
	ReadTimeout time.Duration

	// WriteTimeout bounds how long writing the response may take. Zero means no deadline.
	WriteTimeout time.Duration

	// MaxRequestBytes caps the request size. Zero means DefaultMaxRequestBytes.
	MaxRequestBytes int

	// MaxConnections limits how many connections are served at once. When the
	// limit is reached the accept loop waits for a slot. Zero means unbounded.
	MaxConnections int

	// ErrorResponses makes the server answer failed requests with 400, 404 or
	// 500 instead of closing the connection without a response.
	ErrorResponses bool

	// ErrorHandler receives every per-connection failure as a *ConnError.
	// Defaults to logging it.
	ErrorHandler func(error)

	// Recovery is called with the value recovered from a panicking handler.
	// The panic is then reported as ErrHandler.
	Recovery func(any)

	// Logger is used for server diagnostics. Defaults to the standard logger.
	Logger *log.Logger
}

func defaultRecovery(l *log.Logger) func(any) {
	return func(r any) {
		l.Println("recovered from panic:", r)
		l.Print(string(debug.Stack()))
	}
}

func defaultErrorHandler(l *log.Logger) func(error) {
	return func(err error) {
		l.Println("connection error:", err)
	}
}

func (o *ServerOpts) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Address == "" {
		o.Address = ":42069"
	}
	if o.MaxRequestBytes <= 0 {
		o.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if o.ErrorHandler == nil {
		o.ErrorHandler = defaultErrorHandler(o.Logger)
	}
	if o.Recovery == nil {
		o.Recovery = defaultRecovery(o.Logger)
	}
}
