package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_panicRecoveryMiddleware_nonPanic(t *testing.T) {
	m := metrics.NewTestManager()

	handler := PanicRecovery(m)
	next := &panicRecTestHandler{}
	handlerFunc := handler(next)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handlerFunc.ServeHTTP(rr, req)

	assert.True(t, next.called)
	assert.Equal(t, http.StatusOK, rr.Code)
	// panic did not happen
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterHandleRequestPanic))
}

func Test_panicRecoveryMiddleware_panic(t *testing.T) {
	m := metrics.NewTestManager()

	handler := PanicRecovery(m)
	next := &panicRecTestHandler{panic: true}
	handlerFunc := handler(next)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	handlerFunc.ServeHTTP(rr, req)

	assert.True(t, next.called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"success":false,"message":"Something went wrong on our side, please try again.","error":"internal error"}`,
		rr.Body.String(),
	)
	// panic DID happen
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterHandleRequestPanic))
}

func Test_panicRecoveryMiddleware_nilMetrics(t *testing.T) {
	handlerFunc := PanicRecovery(nil)(&panicRecTestHandler{panic: true})
	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handlerFunc.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	})
}

type panicRecTestHandler struct {
	panic  bool
	called bool
}

func (p *panicRecTestHandler) ServeHTTP(http.ResponseWriter, *http.Request) {
	p.called = true
	if p.panic {
		panic("YOLO")
	}
}
