package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"facelink/hermes/pkg/config"
)

// SyncMetrics tracks parameter reconciliation.
//
// Metrics:
//   - hermes_sync_cycles_total: reconciliation cycles by outcome
//   - hermes_sync_upserts_total: upserts by intent ("create", "update")
//   - hermes_sync_cycle_duration_seconds: cycle duration
//   - hermes_injected_values_total: live values pushed to the endpoint
type SyncMetrics struct {
	cyclesTotal    *prometheus.CounterVec
	upsertsTotal   *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	injectedValues prometheus.Counter
}

// NewSyncMetrics creates and registers sync metrics.
func NewSyncMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *SyncMetrics {
	sm := &SyncMetrics{
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "sync_cycles_total",
				Help:      "Total number of reconciliation cycles",
			},
			[]string{"outcome"},
		),

		upsertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "sync_upserts_total",
				Help:      "Total number of parameter upserts",
			},
			[]string{"intent"},
		),

		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "sync_cycle_duration_seconds",
			Help:      "Duration of one reconciliation cycle in seconds",
			// Cycles are network-bound; most finish well under a second.
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to 4s
		}),

		injectedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "injected_values_total",
			Help:      "Total number of live parameter values pushed to the endpoint",
		}),
	}

	registry.MustRegister(sm.cyclesTotal, sm.upsertsTotal, sm.cycleDuration, sm.injectedValues)

	return sm
}

// RecordCycle records one reconciliation cycle.
func (sm *SyncMetrics) RecordCycle(outcome string, created, updated int, duration time.Duration) {
	sm.cyclesTotal.WithLabelValues(outcome).Inc()
	sm.upsertsTotal.WithLabelValues("create").Add(float64(created))
	sm.upsertsTotal.WithLabelValues("update").Add(float64(updated))
	sm.cycleDuration.Observe(duration.Seconds())
}

// RecordInjection records a batch of live values pushed to the endpoint.
func (sm *SyncMetrics) RecordInjection(count int) {
	sm.injectedValues.Add(float64(count))
}
