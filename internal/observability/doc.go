// Package observability groups the service's telemetry concerns:
//
//   - logging: slog construction and context propagation
//   - metrics: the Prometheus registry for the API and digest pipeline
//   - tracing: OpenTelemetry setup and HTTP middleware
//
// The subpackages are independent; binaries import only what they use.
package observability
