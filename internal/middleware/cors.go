package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var defaultAllowedOrigins = []string{
	"https://fitcoach.2beens.online",
	"http://localhost:8080",
	"http://localhost:5173",
}

// Cors allows the configured web origins, the mobile app and curl. The MCP
// endpoint is open to any origin since MCP clients often send none.
func Cors(origins ...string) func(next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")
			isMCP := strings.HasPrefix(r.URL.Path, "/mcp")

			switch {
			case
				allowedOrigins[origin],
				strings.HasPrefix(userAgent, "FitCoach/"),
				strings.HasPrefix(userAgent, "curl/"),
				isMCP:
				{
					allowOrigin := origin
					if allowOrigin == "" && isMCP {
						allowOrigin = "*"
					}
					w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
					w.Header().Set("Access-Control-Allow-Headers",
						"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, X-MCP-Secret, MCP-Protocol-Version, MCP-Session-Id",
					)
					w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
				}
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
