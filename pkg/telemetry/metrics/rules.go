package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"facelink/hermes/pkg/config"
)

// RulesMetrics tracks rule-file loading.
//
// Metrics:
//   - hermes_rule_loads_total: loads by outcome ("success", "cached", "failure")
//   - hermes_rules_valid: valid rules in the current snapshot
//   - hermes_rules_invalid: invalid rules in the current snapshot
type RulesMetrics struct {
	loadsTotal *prometheus.CounterVec
	validRules prometheus.Gauge
	invalid    prometheus.Gauge
}

// NewRulesMetrics creates and registers rule metrics.
func NewRulesMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *RulesMetrics {
	rm := &RulesMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_loads_total",
				Help:      "Total number of rule-file load attempts",
			},
			[]string{"outcome"},
		),

		validRules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "rules_valid",
			Help:      "Number of valid rules in the current snapshot",
		}),

		invalid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "rules_invalid",
			Help:      "Number of invalid rules in the current snapshot",
		}),
	}

	registry.MustRegister(rm.loadsTotal, rm.validRules, rm.invalid)

	return rm
}

// RecordLoad records one load attempt.
//
// outcome is "success" for a fresh load, "cached" for a failure absorbed
// by the snapshot, and "failure" for a failed load with no snapshot.
func (rm *RulesMetrics) RecordLoad(outcome string, valid, invalid int) {
	rm.loadsTotal.WithLabelValues(outcome).Inc()
	rm.validRules.Set(float64(valid))
	rm.invalid.Set(float64(invalid))
}
