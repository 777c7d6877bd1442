// Package telemetry groups the observability concerns of the client.
//
//   - logging: structured logging via log/slog, configured from the
//     logging section of the client configuration
//   - metrics: Prometheus instrumentation with an injectable registry
package telemetry
