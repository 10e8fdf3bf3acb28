// Package tracing gives the API binary OpenTelemetry request spans.
// Middleware opens a server span per request, honors an incoming W3C
// traceparent, and echoes the trace ID back to the client so a support
// ticket can quote it. Span export is whatever provider the process
// installs globally; without one the spans are no-ops.
//
// The worker does not trace. Its runs are batch-shaped and the digest
// metrics already answer the questions a trace would.
package tracing
