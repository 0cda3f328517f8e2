package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"facelink/hermes/pkg/config"
)

// Collector owns the metrics registry and every metric group.
type Collector struct {
	registry *prometheus.Registry

	// Rules tracks rule-file loads.
	Rules *RulesMetrics

	// Sync tracks reconciliation cycles.
	Sync *SyncMetrics
}

// NewCollector creates a Collector with all metric groups registered.
func NewCollector(cfg config.MetricsConfig) *Collector {
	registry := prometheus.NewRegistry()

	// Standard process and Go runtime collectors.
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Rules:    NewRulesMetrics(cfg, registry),
		Sync:     NewSyncMetrics(cfg, registry),
	}
}

// Handler returns the HTTP handler for the metrics endpoint, typically
// mounted at "/metrics".
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
