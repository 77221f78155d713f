package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/pkg"

	log "github.com/sirupsen/logrus"
)

// panicResponse mirrors the coach response envelope.
type panicResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// PanicRecovery turns a panic in a later handler into a 500 failure envelope.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				log.WithFields(log.Fields{
					"path":       r.URL.Path,
					"method":     r.Method,
					"request_id": w.Header().Get(RequestIDHeader),
				}).Errorf("panic serving request: %v\n%s", rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSON(w, panicResponse{
					Success: false,
					Message: "Something went wrong on our side, please try again.",
					Error:   "internal error",
				}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
