// Package metrics exposes the bridge's Prometheus metrics.
//
// A Collector owns one prometheus.Registry and the per-concern metric
// groups registered with it:
//
//   - RulesMetrics: rule-file loads, cache fallbacks, valid/invalid
//     rule counts
//   - SyncMetrics: reconciliation cycles, upserts by intent, cycle
//     duration, live value injections
//
// Metric families are namespaced with the configured namespace
// (default "hermes"), e.g. hermes_rule_loads_total.
package metrics
