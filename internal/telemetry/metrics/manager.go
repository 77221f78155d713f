package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests             *prometheus.CounterVec
	CounterHandleRequestPanic   prometheus.Counter
	CounterRateLimitedRequests  prometheus.Counter
	CounterDispatch             *prometheus.CounterVec
	CounterSuggestions          *prometheus.CounterVec
	CounterDismissedSuggestions prometheus.Counter
	CounterDismissedResets      prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration  *prometheus.HistogramVec
	HistogramDispatchDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitcoach", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitcoach", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterDispatch := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dispatch",
		Help:      "The total number of dispatched coach actions, by intent and outcome",
	}, []string{"intent", "outcome"})
	counterSuggestions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "suggestions",
		Help:      "The total number of proactive suggestions served, by kind",
	}, []string{"kind"})
	counterDismissedSuggestions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "suggestions_dismissed",
		Help:      "The total number of dismissed suggestions",
	})
	counterDismissedResets := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "suggestions_dismissed_resets",
		Help:      "Number of times the dismissed suggestions set was cleared",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "current_requests",
		Help:        "Current number of requests served",
		ConstLabels: nil,
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "life_signal",
		Help:        "Shows whether the service is alive",
		ConstLabels: nil,
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramDispatchDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dispatch_duration_seconds",
		Help:      "Histogram of coach action handling time in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 3, 5},
	}, []string{"intent"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterRateLimitedRequests:  counterRateLimitedRequests,
		CounterDispatch:             counterDispatch,
		CounterSuggestions:          counterSuggestions,
		CounterDismissedSuggestions: counterDismissedSuggestions,
		CounterDismissedResets:      counterDismissedResets,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistogramRequestDuration:    histogramRequestDuration,
		HistogramDispatchDuration:   histogramDispatchDuration,
	}
}
