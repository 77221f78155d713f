package pkg

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)
)

// IPIsLocal reports whether the address (with or without a port) belongs to
// localhost or the docker bridge gateway.
func IPIsLocal(ipAddr string) bool {
	host := stripPort(ipAddr)
	if host == "127.0.0.1" || host == "::1" || host == "localhost" {
		return true
	}
	return localDockerIpRegex.MatchString(host)
}

// ClientIP returns the caller's address, preferring the proxy headers set by
// nginx. Local addresses collapse to "localhost".
func ClientIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first hop is the client
		ipAddr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		ipAddr = strings.TrimSpace(ipAddr)
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if IPIsLocal(ipAddr) {
		return "localhost"
	}
	return stripPort(ipAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
