// Package metadata extracts client metadata (IP, User-Agent, parsed device)
// from the request so audit events can record the acting client.
package metadata

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"workpaper/pkg/requestcontext"
)

// ClientMetadata extracts the client IP, raw User-Agent, and a parsed
// browser/OS description into the request context. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIPFromRequest(r)
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ip, ua, describeDevice(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// describeDevice parses the User-Agent into a short human-readable device
// description for audit trails.
func describeDevice(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	parsed := useragent.New(rawUA)
	name, version := parsed.Browser()
	os := parsed.OS()
	switch {
	case name == "" && os == "":
		return ""
	case os == "":
		return fmt.Sprintf("%s %s", name, version)
	case name == "":
		return os
	}
	return fmt.Sprintf("%s %s on %s", name, version, os)
}

// ClientIPFromRequest extracts the real client IP, handling proxies and load
// balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2);
	// the first is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" for IPv4, "[::1]:port" for IPv6.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}
	return ""
}
