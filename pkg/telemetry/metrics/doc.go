// Package metrics provides Prometheus instrumentation for the model
// client. The Collector registers its instruments against an injectable
// registry so tests and embedders control exposition.
package metrics
