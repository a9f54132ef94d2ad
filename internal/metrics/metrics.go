// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the batch scrubber.
//
// The package exposes a narrow Backend interface (counters plus duration
// observations) and a global, pluggable backend defaulting to a no-op, so
// metric calls are always safe even when nothing is configured. Concrete
// systems (Prometheus Pushgateway) are isolated in subpackages; the rest of
// the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes collected metrics if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics stay optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveDuration(string, float64, Labels)  {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordBatch measures one whole-batch run: latency plus success/failure.
func RecordBatch(job, batch string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "batch": batch, "status": status}
	backend.IncCounter("scrub_batches_total", 1, lbls)
	backend.ObserveDuration("scrub_batch_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given kind.
//
// Kinds mirror the batch summary:
//   - "input"        rows read from the source
//   - "clean"        rows written to the clean table
//   - "hard_reject"  rows excluded entirely
//   - "soft_reject"  rows retained with at least one nulled field
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("scrub_rows_total", float64(delta), Labels{"job": job, "kind": kind})
}

// RecordFieldRejects increments the per-field reject counter. pass is "hard"
// or "soft".
func RecordFieldRejects(job, pass, field string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("scrub_field_rejects_total", float64(delta), Labels{
		"job":   job,
		"pass":  pass,
		"field": field,
	})
}
