package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const MCPSecretHeader = "X-MCP-Secret"

// MCPSecretCheck guards the MCP endpoint with a shared secret, sent either in
// X-MCP-Secret or as a bearer token. An empty secret disables the check.
func MCPSecretCheck(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.mcp_auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if secret == "" {
				span.SetStatus(codes.Ok, "no-secret-configured")
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(MCPSecretHeader)
			if token == "" {
				token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Warnf("[mcp auth] unauthorized request from %s => %s", pkg.ClientIP(r), r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-mcp-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
