// Package telemetry provides observability for the bridge.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for rule loads and sync cycles
//   - health: liveness and readiness probe endpoints
package telemetry
