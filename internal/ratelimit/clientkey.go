package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests without forwarding headers
const UnknownClient = "unknown"

// ClientKey derives the rate limit key for r: the first X-Forwarded-For
// entry, else X-Real-IP, else UnknownClient.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
