package wire

import (
	"fmt"
	"strings"
)

// Version is an HTTP protocol version as it appears on the request and status lines.
type Version uint8

const (
	V10 Version = iota + 1
	V11
	V20
	V30
)

var versionNames = map[Version]string{
	V10: "HTTP/1.0",
	V11: "HTTP/1.1",
	V20: "HTTP/2.0",
	V30: "HTTP/3.0",
}

// ParseVersion converts a token such as "HTTP/1.1" into a Version.
// The token is uppercased and then matched exactly; no negotiation takes place.
func ParseVersion(s string) (Version, error) {
	switch strings.ToUpper(s) {
	case "HTTP/1.0":
		return V10, nil
	case "HTTP/1.1":
		return V11, nil
	case "HTTP/2.0":
		return V20, nil
	case "HTTP/3.0":
		return V30, nil
	}
	return 0, fmt.Errorf("%w: version %q", ErrUnrecognizedToken, s)
}

// Known reports whether v is one of the defined versions.
func (v Version) Known() bool {
	_, ok := versionNames[v]
	return ok
}

func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// Versions returns every known version, oldest first.
func Versions() []Version {
	return []Version{V10, V11, V20, V30}
}
