// Package instrumentation records what gdocs does with OpenTelemetry.
//
// The document model describes each Google API request as a Call; the MCP
// server describes each tool invocation as a ToolCall. Both become spans
// (StartCall, StartTool) and metrics (Metrics.ObserveCall,
// Metrics.ObserveTool). Tool calls also produce an audit record.
//
// Metrics:
//
//	google_api_operations_total            service, operation, status
//	google_api_operation_duration_seconds  service, operation, status
//	mcp_tool_invocations_total             tool, status
//	mcp_tool_duration_seconds              tool, status
//	sheet_cache_lookups_total              result (hit, miss)
//	export_bytes_total                     mime_type, when enabled
//
// A Provider wires the exporters chosen by a Config: Prometheus (default),
// OTLP over HTTP or stdout for metrics; OTLP over HTTP, stdout or none
// (default) for traces. ConfigFromEnv reads the usual OTEL_* variables
// plus INSTRUMENTATION_ENABLED, METRICS_EXPORTER, TRACING_EXPORTER,
// METRICS_DETAILED_LABELS and AUDIT_LOGGING_*.
//
//	config, err := instrumentation.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	provider, err := instrumentation.NewProvider(ctx, config, logger)
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
package instrumentation
