// Package metric provides Prometheus metrics for authfront.
//
//   - prometheus.go: registry, recording helpers and the /metrics handler
//   - collector.go: a scrape-time collector for the current session
//
// Metrics cover API calls made by the client (count by endpoint and
// status, latency), form submissions by outcome and session state
// transitions. The interactive shell serves them at /metrics when
// metrics.address is configured.
package metric
