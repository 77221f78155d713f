package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// LogRequest tags every request with an id (kept if the caller sent one) and
// logs it once the handler is done.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(resp, r)

			log.WithFields(log.Fields{
				"request_id": reqID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     resp.statusCode,
				"took":       time.Since(begin).String(),
				"user_agent": r.Header.Get("User-Agent"),
			}).Trace(" ====> request")
		})
	}
}
