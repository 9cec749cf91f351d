package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics owns the service collectors and the registry they are exposed from.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	plans            *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapmymeal",
			Name:      "upstream_requests_total",
			Help:      "Calls to third-party services by upstream and outcome.",
		}, []string{"upstream", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mapmymeal",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to third-party services.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"upstream"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapmymeal",
			Name:      "plans_total",
			Help:      "Pipeline runs by action and outcome.",
		}, []string{"action", "outcome"}),
	}
	m.registry.MustRegister(
		m.upstreamRequests,
		m.upstreamLatency,
		m.plans,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(upstream string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(upstream, outcome(err)).Inc()
	m.upstreamLatency.WithLabelValues(upstream).Observe(elapsed.Seconds())
}

// ObservePlan records a submit or shuffle run.
func (m *Metrics) ObservePlan(action string, err error) {
	if m == nil {
		return
	}
	m.plans.WithLabelValues(action, outcome(err)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
