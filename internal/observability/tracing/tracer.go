package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is resolved once at startup. Tests swap it for one backed by
// an in-memory exporter.
var tracer = otel.Tracer("signalist")

// GetTracer returns the service tracer for opening manual spans around
// work the HTTP middleware cannot see, such as digest stages.
func GetTracer() trace.Tracer {
	return tracer
}
