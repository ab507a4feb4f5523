// Package metrics provides the Prometheus registry shared by the collector
// packages and a textfile export for one-shot runs.
// All metrics are defined in their respective packages (client, store)
// to maintain modularity and avoid circular dependencies.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registerer used by the collector packages.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back everything registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes the current metrics in the text exposition format to
// path, for the node exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path is required")
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - sporthive_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - sporthive_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - sporthive_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Store Metrics (pkg/store):
//   - sporthive_store_hits_total (Counter): Published collections read back
//   - sporthive_store_misses_total (Counter): Lookups on missing or expired keys
//   - sporthive_store_size_bytes (Gauge): Bytes written to or read from Redis
//   - sporthive_store_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Pages fetched per run
//   sum(increase(sporthive_requests_total[1h]))
//
//   # Request Error Rate
//   rate(sporthive_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(sporthive_request_duration_seconds_bucket[5m]))
