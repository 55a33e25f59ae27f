package request

import (
	"fmt"
	"strings"
)

// Cookies parses the Cookie header into a name to value map.
// Entries are separated by ';' and split on their first '='.
func (r *Request) Cookies() (map[string]string, error) {
	data, ok := r.Headers.Lookup("Cookie")
	if !ok {
		return nil, ErrNoCookieHeader
	}

	cookies := make(map[string]string)
	for entry := range strings.SplitSeq(data, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCookie, entry)
		}
		cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return cookies, nil
}

// Cookie returns the value of a single cookie.
func (r *Request) Cookie(name string) (string, error) {
	cookies, err := r.Cookies()
	if err != nil {
		return "", err
	}

	value, ok := cookies[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrCookieNotFound, name)
	}
	return value, nil
}
