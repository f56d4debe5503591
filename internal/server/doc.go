// Package server provides the MCP server context, health probes and the
// Prometheus metrics server for gdocs.
//
// # Key Components
//
// ServerContext owns the documents.Binding every tool call goes through,
// together with the metrics recorder, the audit logger and the defaults
// taken from the configuration (value input option, export mime type).
// Managers handed out by the context share one binding, so the Drive and
// Sheets services are built once and reused by concurrent tool calls.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed. Readiness
// includes a check that a service-account key file can be resolved.
//
// MetricsServer exposes the OpenTelemetry Prometheus exporter on a
// dedicated port, separate from the MCP transport.
package server
