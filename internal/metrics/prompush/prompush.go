// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by mapping
// the scrubber's metric names onto client_golang collectors and pushing the
// registry to a Pushgateway at flush time instead of exposing a scrape
// endpoint. All Prometheus-specific dependencies live here so the rest of
// the project can swap backends without changes to the core.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"scrub/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	batchCounter  *prometheus.CounterVec // scrub_batches_total
	batchDuration *prometheus.SummaryVec // scrub_batch_duration_seconds
	rowCounter    *prometheus.CounterVec // scrub_rows_total
	fieldCounter  *prometheus.CounterVec // scrub_field_rejects_total
}

// NewBackend constructs a Pushgateway backend. jobName doubles as the
// Pushgateway job grouping; gatewayURL is the gateway base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "scrub"
	}

	reg := prometheus.NewRegistry()

	batchCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrub_batches_total",
			Help: "Batches processed, partitioned by batch and status.",
		},
		[]string{"batch", "status"},
	)
	batchDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "scrub_batch_duration_seconds",
			Help:       "Whole-batch processing time in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"batch", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrub_rows_total",
			Help: "Row counts per kind (input, clean, hard_reject, soft_reject).",
		},
		[]string{"kind"},
	)
	fieldCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrub_field_rejects_total",
			Help: "Rejected values per field, partitioned by pass.",
		},
		[]string{"pass", "field"},
	)

	for _, c := range []prometheus.Collector{batchCounter, batchDuration, rowCounter, fieldCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		batchCounter:  batchCounter,
		batchDuration: batchDuration,
		rowCounter:    rowCounter,
		fieldCounter:  fieldCounter,
	}, nil
}

// IncCounter maps the known scrubber counters onto their collectors; unknown
// names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "scrub_batches_total":
		b.batchCounter.WithLabelValues(labels["batch"], labels["status"]).Add(delta)
	case "scrub_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "scrub_field_rejects_total":
		b.fieldCounter.WithLabelValues(labels["pass"], labels["field"]).Add(delta)
	}
}

// ObserveDuration records batch durations; other names are ignored.
func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "scrub_batch_duration_seconds" {
		return
	}
	b.batchDuration.WithLabelValues(labels["batch"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
