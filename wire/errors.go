package wire

import "errors"

// ErrUnrecognizedToken is returned when a method, version or status token is not part of the fixed catalog.
var ErrUnrecognizedToken = errors.New("unrecognized token")
