// Package telemetry wires OpenTelemetry metrics and traces for the bridge.
//
// Metrics are exposed in Prometheus format through the handler returned by
// Setup (mounted at /metrics). Traces go to an OTLP/gRPC collector when
// telemetry.otlp_endpoint is set, to stdout when telemetry.stdout_traces is
// true, and nowhere otherwise.
//
// Setup installs the global tracer and meter providers, so instrumented
// packages only call otel.Tracer / otel.Meter.
package telemetry
