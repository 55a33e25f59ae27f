package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusCode is one of the fixed set of response statuses the server can send.
// Codes outside the catalog are not representable.
type StatusCode int

const (
	StatusContinue   StatusCode = 100
	StatusProcessing StatusCode = 102
	StatusEarlyHints StatusCode = 103

	StatusOK             StatusCode = 200
	StatusCreated        StatusCode = 201
	StatusAccepted       StatusCode = 202
	StatusNoContent      StatusCode = 204
	StatusResetContent   StatusCode = 205
	StatusPartialContent StatusCode = 206

	StatusMultipleChoices   StatusCode = 300
	StatusMovedPermanently  StatusCode = 301
	StatusFound             StatusCode = 302
	StatusSeeOther          StatusCode = 303
	StatusNotModified       StatusCode = 304
	StatusTemporaryRedirect StatusCode = 307
	StatusPermanentRedirect StatusCode = 308

	StatusBadRequest       StatusCode = 400
	StatusUnauthorized     StatusCode = 401
	StatusForbidden        StatusCode = 403
	StatusNotFound         StatusCode = 404
	StatusMethodNotAllowed StatusCode = 405
	StatusNotAcceptable    StatusCode = 406
	StatusRequestTimeout   StatusCode = 408
	StatusConflict         StatusCode = 409

	StatusInternalServerError           StatusCode = 500
	StatusNotImplemented                StatusCode = 501
	StatusBadGateway                    StatusCode = 502
	StatusServiceUnavailable            StatusCode = 503
	StatusGatewayTimeout                StatusCode = 504
	StatusHTTPVersionNotSupported       StatusCode = 505
	StatusNetworkAuthenticationRequired StatusCode = 511
)

var reasonPhrases = map[StatusCode]string{
	StatusContinue:   "Continue",
	StatusProcessing: "Processing",
	StatusEarlyHints: "Early Hints",

	StatusOK:             "OK",
	StatusCreated:        "Created",
	StatusAccepted:       "Accepted",
	StatusNoContent:      "No Content",
	StatusResetContent:   "Reset Content",
	StatusPartialContent: "Partial Content",

	StatusMultipleChoices:   "Multiple Choices",
	StatusMovedPermanently:  "Moved Permanently",
	StatusFound:             "Found",
	StatusSeeOther:          "See Other",
	StatusNotModified:       "Not Modified",
	StatusTemporaryRedirect: "Temporary Redirect",
	StatusPermanentRedirect: "Permanent Redirect",

	StatusBadRequest:       "Bad Request",
	StatusUnauthorized:     "Unauthorized",
	StatusForbidden:        "Forbidden",
	StatusNotFound:         "Not Found",
	StatusMethodNotAllowed: "Method Not Allowed",
	StatusNotAcceptable:    "Not Acceptable",
	StatusRequestTimeout:   "Request Timeout",
	StatusConflict:         "Conflict",

	StatusInternalServerError:           "Internal Server Error",
	StatusNotImplemented:                "Not Implemented",
	StatusBadGateway:                    "Bad Gateway",
	StatusServiceUnavailable:            "Service Unavailable",
	StatusGatewayTimeout:                "Gateway Timeout",
	StatusHTTPVersionNotSupported:       "HTTP Version Not Supported",
	StatusNetworkAuthenticationRequired: "Network Authentication Required",
}

// Reason returns the reason phrase for the status, or "" if it is not in the catalog.
func (s StatusCode) Reason() string {
	return reasonPhrases[s]
}

// Known reports whether s is part of the catalog.
func (s StatusCode) Known() bool {
	_, ok := reasonPhrases[s]
	return ok
}

// String returns the status as it appears on the status line, e.g. "404 Not Found".
func (s StatusCode) String() string {
	return strconv.Itoa(int(s)) + " " + s.Reason()
}

// ParseStatusCode accepts either a bare code ("404") or the full status text
// ("404 Not Found", reason matched case-insensitively).
func ParseStatusCode(s string) (StatusCode, error) {
	s = strings.TrimSpace(s)
	codePart, reasonPart, hasReason := strings.Cut(s, " ")

	n, err := strconv.Atoi(codePart)
	if err != nil {
		return 0, fmt.Errorf("%w: status %q", ErrUnrecognizedToken, s)
	}

	code := StatusCode(n)
	if !code.Known() {
		return 0, fmt.Errorf("%w: status %q", ErrUnrecognizedToken, s)
	}
	if hasReason && !strings.EqualFold(strings.TrimSpace(reasonPart), code.Reason()) {
		return 0, fmt.Errorf("%w: status %q", ErrUnrecognizedToken, s)
	}
	return code, nil
}

// StatusCodes returns the catalog in ascending order.
func StatusCodes() []StatusCode {
	return []StatusCode{
		StatusContinue, StatusProcessing, StatusEarlyHints,
		StatusOK, StatusCreated, StatusAccepted, StatusNoContent, StatusResetContent, StatusPartialContent,
		StatusMultipleChoices, StatusMovedPermanently, StatusFound, StatusSeeOther, StatusNotModified,
		StatusTemporaryRedirect, StatusPermanentRedirect,
		StatusBadRequest, StatusUnauthorized, StatusForbidden, StatusNotFound, StatusMethodNotAllowed,
		StatusNotAcceptable, StatusRequestTimeout, StatusConflict,
		StatusInternalServerError, StatusNotImplemented, StatusBadGateway, StatusServiceUnavailable,
		StatusGatewayTimeout, StatusHTTPVersionNotSupported, StatusNetworkAuthenticationRequired,
	}
}
