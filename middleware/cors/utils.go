package cors

import (
	"net/http"
	"strings"
)

// wildcard matches origins of the form prefix*suffix.
type wildcard struct {
	prefix string
	suffix string
}

func (w wildcard) match(s string) bool {
	return len(s) >= len(w.prefix)+len(w.suffix) &&
		strings.HasPrefix(s, w.prefix) &&
		strings.HasSuffix(s, w.suffix)
}

// convert applies fn to every element of s.
func convert(s []string, fn func(string) string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, fn(v))
	}
	return out
}

// parseHeaderList splits a comma separated list of header names and
// canonicalizes each one. Empty entries are skipped.
func parseHeaderList(list string) []string {
	var names []string
	for name := range strings.SplitSeq(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, http.CanonicalHeaderKey(name))
	}
	return names
}
