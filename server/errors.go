package server

import (
	"errors"
	"fmt"
)

var (
	// ErrBind is returned by New when the listener cannot be bound.
	ErrBind = errors.New("unable to bind listener")
	// ErrParse marks a request that could not be parsed.
	ErrParse = errors.New("unable to parse request")
	// ErrRouteNotFound marks a request for which no route is registered.
	ErrRouteNotFound = errors.New("no route for request")
	// ErrHandler marks a failure returned (or panicked) by a handler.
	ErrHandler = errors.New("handler failed")
	// ErrIO marks a read or write failure on the connection.
	ErrIO = errors.New("connection i/o failed")
	// ErrRequestTooLarge is returned when a request exceeds ServerOpts.MaxRequestBytes.
	ErrRequestTooLarge = errors.New("request too large")
)

// Stage is the point of the connection lifecycle at which a failure happened.
type Stage string

const (
	StageReading  Stage = "reading"
	StageRouting  Stage = "routing"
	StageHandling Stage = "handling"
	StageWriting  Stage = "writing"
)

// ConnError is the error delivered to ServerOpts.ErrorHandler for a failed connection.
// Err wraps one of ErrParse, ErrRouteNotFound, ErrHandler or ErrIO.
type ConnError struct {
	Stage  Stage
	Remote string
	Err    error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Remote, e.Stage, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}
