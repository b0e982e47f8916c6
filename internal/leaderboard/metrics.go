package leaderboard

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRequestsTotal      = "leaderboard_requests_total"
	MetricRemoteFailures     = "leaderboard_remote_failures_total"
	MetricSyntheticFallbacks = "leaderboard_synthetic_fallbacks_total"
	MetricAssemblyDuration   = "leaderboard_assembly_duration_seconds"
)

// Metrics contains Prometheus metrics for the leaderboard engine.
// All operations are thread-safe.
type Metrics struct {
	requests           *prometheus.CounterVec
	remoteFailures     prometheus.Counter
	syntheticFallbacks prometheus.Counter
	assemblyDuration   prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call Register
// to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRequestsTotal,
				Help: "Total number of leaderboard assembly requests",
			},
			[]string{"metric", "timeframe"},
		),
		remoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRemoteFailures,
			Help: "Total number of failed remote ranked-page fetches",
		}),
		syntheticFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSyntheticFallbacks,
			Help: "Total number of requests served from the synthetic fallback dataset",
		}),
		assemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricAssemblyDuration,
			Help:    "Histogram of leaderboard assembly latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.requests,
		m.remoteFailures,
		m.syntheticFallbacks,
		m.assemblyDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRequests increments the request counter for one metric/timeframe pair.
func (m *Metrics) IncRequests(metric Metric, timeframe Timeframe) {
	m.requests.WithLabelValues(string(metric), string(timeframe)).Inc()
}

// IncRemoteFailures increments the remote failure counter.
func (m *Metrics) IncRemoteFailures() {
	m.remoteFailures.Inc()
}

// IncSyntheticFallbacks increments the fallback counter.
func (m *Metrics) IncSyntheticFallbacks() {
	m.syntheticFallbacks.Inc()
}

// ObserveAssemblyDuration records the latency of one assembly in seconds.
func (m *Metrics) ObserveAssemblyDuration(seconds float64) {
	m.assemblyDuration.Observe(seconds)
}
