package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the gateway. Tracks request counts and
// durations per route and status code, and failures of the contract calls.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ChainErrors     prometheus.Counter
}

// NewMetrics creates Metrics registered in the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authority_gw_requests_total",
			Help: "Total number of handled HTTP requests",
		}, []string{"route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authority_gw_request_duration_seconds",
			Help:    "Duration of HTTP requests including contract calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		ChainErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "authority_gw_chain_errors_total",
			Help: "Total number of failed contract calls not caused by the registry state",
		}),
	}
}

// ObserveRequest records handled request. Call with time.Now() at the start
// of the request.
func (m *Metrics) ObserveRequest(route, code string, start time.Time) {
	m.Requests.WithLabelValues(route, code).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// IncrementChainErrors records failed contract call.
func (m *Metrics) IncrementChainErrors() {
	m.ChainErrors.Inc()
}
