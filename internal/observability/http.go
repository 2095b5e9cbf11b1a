package observability

import (
	"net"
	"net/http"
	"strings"
)

// RequestIDFromRequest reads the caller's request id, accepting the
// correlation header some gateways send instead.
func RequestIDFromRequest(r *http.Request) string {
	for _, header := range []string{"X-Request-Id", "X-Correlation-Id"} {
		if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
			return id
		}
	}
	return ""
}

// IPFromRequest prefers the first non-empty X-Forwarded-For hop, then
// X-Real-Ip, then the socket peer.
func IPFromRequest(r *http.Request) string {
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if hop = strings.TrimSpace(hop); hop != "" {
			return hop
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
