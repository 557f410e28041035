package submit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts submissions by entry function and outcome.
type Metrics struct {
	submitted *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	failed    *prometheus.CounterVec
	batchSize prometheus.Histogram
	latency   *prometheus.HistogramVec
}

// NewMetrics creates the submitter collectors. When registerer is non-nil
// they are registered with it.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "staking",
			Subsystem: "submitter",
			Name:      "transactions_submitted_total",
			Help:      "Transactions accepted by the node, by entry function.",
		}, []string{"function"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "staking",
			Subsystem: "submitter",
			Name:      "transactions_rejected_total",
			Help:      "Transactions declined or aborted by the ledger, by entry function.",
		}, []string{"function"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "staking",
			Subsystem: "submitter",
			Name:      "transactions_failed_total",
			Help:      "Transactions that failed before reaching the ledger, by stage.",
		}, []string{"stage"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "staking",
			Subsystem: "submitter",
			Name:      "batch_size",
			Help:      "Number of payloads per MultiSubmit call.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "staking",
			Subsystem: "submitter",
			Name:      "submit_duration_seconds",
			Help:      "Wall time from assembly to return, by wait mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}

	if registerer != nil {
		for _, collector := range []prometheus.Collector{
			metrics.submitted, metrics.rejected, metrics.failed, metrics.batchSize, metrics.latency,
		} {
			if err := registerer.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return metrics, nil
}

func (m *Metrics) observeSubmitted(function string) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(function).Inc()
}

func (m *Metrics) observeRejected(function string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(function).Inc()
}

func (m *Metrics) observeFailed(stage string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(stage).Inc()
}

func (m *Metrics) observeBatch(size int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
}

func (m *Metrics) observeLatency(mode WaitMode, seconds float64) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(mode.String()).Observe(seconds)
}
