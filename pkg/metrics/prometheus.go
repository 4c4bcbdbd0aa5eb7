package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rowsUpserted     *prometheus.CounterVec
	adapterFallbacks *prometheus.CounterVec
	ingestErrors     *prometheus.CounterVec
	evaluations      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rowsUpserted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_rows_upserted_total",
				Help: "Total number of rows written per table",
			},
			[]string{"table", "pair"},
		),
		adapterFallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_adapter_fallbacks_total",
				Help: "Total number of synthetic fallbacks per source adapter",
			},
			[]string{"source", "pair"},
		),
		ingestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_ingest_errors_total",
				Help: "Total number of non-fatal ingestion errors per stage",
			},
			[]string{"stage"},
		),
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskdash_evaluations_total",
				Help: "Total number of signal evaluations per resulting regime",
			},
			[]string{"regime"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskdash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRowsUpserted records rows written to a table.
func (r *Recorder) RecordRowsUpserted(table, pair string, n int) {
	r.rowsUpserted.WithLabelValues(table, pair).Add(float64(n))
}

// RecordAdapterFallback records a synthetic fallback for a source adapter.
func (r *Recorder) RecordAdapterFallback(source, pair string) {
	r.adapterFallbacks.WithLabelValues(source, pair).Inc()
}

// RecordIngestError records a non-fatal ingestion error.
func (r *Recorder) RecordIngestError(stage string) {
	r.ingestErrors.WithLabelValues(stage).Inc()
}

// RecordEvaluation records a completed evaluation by regime.
func (r *Recorder) RecordEvaluation(regime string) {
	r.evaluations.WithLabelValues(regime).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
