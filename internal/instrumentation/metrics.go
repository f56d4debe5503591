package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricAPICalls         = "google_api_operations_total"
	MetricAPIDuration      = "google_api_operation_duration_seconds"
	MetricToolCalls        = "mcp_tool_invocations_total"
	MetricToolDuration     = "mcp_tool_duration_seconds"
	MetricSheetCacheLookup = "sheet_cache_lookups_total"
	MetricExportBytes      = "export_bytes_total"
)

// latencyBuckets covers a cached metadata read up to a large export.
var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics records gdocs metrics. A nil or zero Metrics records nothing.
type Metrics struct {
	apiCalls     metric.Int64Counter
	apiDuration  metric.Float64Histogram
	toolCalls    metric.Int64Counter
	toolDuration metric.Float64Histogram
	cacheLookups metric.Int64Counter
	exportBytes  metric.Int64Counter

	mimeTypeLabels bool
}

// NewMetrics creates the instruments on meter. With mimeTypeLabels set,
// export bytes are labelled by normalised mime type.
func NewMetrics(meter metric.Meter, mimeTypeLabels bool) (*Metrics, error) {
	m := &Metrics{mimeTypeLabels: mimeTypeLabels}
	var errs []error

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name,
			metric.WithDescription(desc),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(latencyBuckets...),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return h
	}

	m.apiCalls = counter(MetricAPICalls, "Requests sent to Google APIs", "{operation}")
	m.apiDuration = seconds(MetricAPIDuration, "Latency of Google API requests")
	m.toolCalls = counter(MetricToolCalls, "MCP tool invocations", "{invocation}")
	m.toolDuration = seconds(MetricToolDuration, "Latency of MCP tool invocations")
	m.cacheLookups = counter(MetricSheetCacheLookup, "Lookups of the cached sheet list of a spreadsheet", "{lookup}")
	m.exportBytes = counter(MetricExportBytes, "Bytes written by document exports", "By")

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	return m, nil
}

// ObserveCall records the outcome and latency of a Google API request.
func (m *Metrics) ObserveCall(ctx context.Context, c Call, err error, d time.Duration) {
	if m == nil || m.apiCalls == nil {
		return
	}
	set := metric.WithAttributeSet(attribute.NewSet(
		attribute.String("service", c.Service),
		attribute.String("operation", c.Operation),
		attribute.String("status", statusOf(err != nil)),
	))
	m.apiCalls.Add(ctx, 1, set)
	m.apiDuration.Record(ctx, d.Seconds(), set)
}

// ObserveTool records the outcome and latency of an MCP tool invocation.
func (m *Metrics) ObserveTool(ctx context.Context, tool string, failed bool, d time.Duration) {
	if m == nil || m.toolCalls == nil {
		return
	}
	set := metric.WithAttributeSet(attribute.NewSet(
		attribute.String("tool", tool),
		attribute.String("status", statusOf(failed)),
	))
	m.toolCalls.Add(ctx, 1, set)
	m.toolDuration.Record(ctx, d.Seconds(), set)
}

// ObserveSheetCache records whether a spreadsheet's sheet list came from
// its cache.
func (m *Metrics) ObserveSheetCache(ctx context.Context, hit bool) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// ObserveExport records the size of an exported document. Empty exports
// are not counted.
func (m *Metrics) ObserveExport(ctx context.Context, mimeType string, n int64) {
	if m == nil || m.exportBytes == nil || n <= 0 {
		return
	}
	if !m.mimeTypeLabels {
		m.exportBytes.Add(ctx, n)
		return
	}
	m.exportBytes.Add(ctx, n, metric.WithAttributes(attribute.String("mime_type", NormalizeMimeType(mimeType))))
}
