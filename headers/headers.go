package headers

import (
	"iter"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// https://datatracker.ietf.org/doc/html/rfc9110#name-tokens
var fieldNameRegex = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*\+\-.^_\x60\|~]+$`)

// Headers is a mapping of header names to values. Names are case-sensitive and
// a later Set for the same name replaces the earlier value.
type Headers struct {
	headers map[string]string
}

func validHeaderValueByte(c byte) bool {
	switch {
	case c == 0x09: // HTAB
		return true
	case c == 0x20: // SP
		return true
	case 0x21 <= c && c <= 0x7E: // VCHAR
		return true
	case c >= 0x80: // obs-text
		return true
	}
	return false
}

// IsValidFieldName reports whether key is an RFC 9110 token.
func IsValidFieldName(key string) bool {
	return fieldNameRegex.MatchString(key)
}

// IsValidFieldValue reports whether val contains only bytes allowed in a field value.
func IsValidFieldValue(val string) bool {
	for i := 0; i < len(val); i++ {
		if !validHeaderValueByte(val[i]) {
			return false
		}
	}
	return true
}

// Set stores value under key, overwriting any previous value.
func (h *Headers) Set(key, value string) {
	h.headers[key] = value
}

// Get returns the value of a header, or "" if it is absent.
func (h *Headers) Get(key string) string {
	return h.headers[key]
}

// GetFold returns the value of the first header, in name order, whose name
// matches key case-insensitively, or "" if there is none.
func (h *Headers) GetFold(key string) string {
	if v, ok := h.headers[key]; ok {
		return v
	}
	for k, v := range h.All() {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Lookup returns the value of a header and whether it was present.
func (h *Headers) Lookup(key string) (string, bool) {
	v, ok := h.headers[key]
	return v, ok
}

// Remove removes a header.
func (h *Headers) Remove(key string) {
	delete(h.headers, key)
}

// RemoveFold removes every header whose name matches key case-insensitively.
func (h *Headers) RemoveFold(key string) {
	for k := range h.headers {
		if strings.EqualFold(k, key) {
			delete(h.headers, k)
		}
	}
}

// All returns an iterator over all headers, ordered by name.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(h.headers)) {
			if !yield(k, h.headers[k]) {
				return
			}
		}
	}
}

// ParseFieldLine parses a single "Name: Value" line and stores it. The line is
// split on the first colon only and both sides are trimmed.
func (h *Headers) ParseFieldLine(line string) error {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return ErrMalformedHeader
	}

	h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	return nil
}

// Size returns the number of headers.
func (h *Headers) Size() int {
	return len(h.headers)
}

// Clone returns an independent copy of h.
func (h *Headers) Clone() *Headers {
	return &Headers{headers: maps.Clone(h.headers)}
}

// NewHeaders creates a new Headers object.
func NewHeaders() *Headers {
	return &Headers{
		headers: map[string]string{},
	}
}

// FromMap creates a Headers object holding a copy of m.
func FromMap(m map[string]string) *Headers {
	h := NewHeaders()
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}
