package httputil

import (
	"net/http"
	"strings"
)

// HeaderMap flattens h the way a browser exposes response headers: names are
// lowercased and repeated values are joined with ", ".
func HeaderMap(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		key := strings.ToLower(name)
		if prev, ok := out[key]; ok {
			out[key] = prev + ", " + strings.Join(values, ", ")
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

// Origin reconstructs the scheme://host the request was addressed to, honouring
// X-Forwarded-Proto and X-Forwarded-Host when a reverse proxy sets them.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}
