package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every gdocs span comes from.
const TracerName = "github.com/teemow/gdocs"

// Span attribute keys.
const (
	KeyTool          = attribute.Key("mcp.tool")
	KeyService       = attribute.Key("google.service")
	KeyOperation     = attribute.Key("google.operation")
	KeyFileID        = attribute.Key("gdocs.file_id")
	KeySpreadsheetID = attribute.Key("gdocs.spreadsheet_id")
	KeyRanges        = attribute.Key("gdocs.ranges")
)

// Call identifies one request to a Google API.
type Call struct {
	Service   string
	Operation string

	// Target of the request. Empty fields are left off the span.
	FileID        string
	SpreadsheetID string
	Ranges        []string
}

// SpanName is google.<service>.<operation>.
func (c Call) SpanName() string {
	return "google." + c.Service + "." + c.Operation
}

func (c Call) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		KeyService.String(c.Service),
		KeyOperation.String(c.Operation),
	}
	return appendTarget(attrs, c.FileID, c.SpreadsheetID, c.Ranges)
}

// ToolCall identifies one MCP tool invocation and the Google object it names.
type ToolCall struct {
	Tool string

	// Service and Operation are the Google call the tool maps to, if any.
	Service   string
	Operation string

	FileID        string
	SpreadsheetID string
}

// ResourceID is the spreadsheet id if set, else the file id.
func (tc ToolCall) ResourceID() string {
	if tc.SpreadsheetID != "" {
		return tc.SpreadsheetID
	}
	return tc.FileID
}

func (tc ToolCall) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{KeyTool.String(tc.Tool)}
	if tc.Service != "" {
		attrs = append(attrs, KeyService.String(tc.Service), KeyOperation.String(tc.Operation))
	}
	return appendTarget(attrs, tc.FileID, tc.SpreadsheetID, nil)
}

func appendTarget(attrs []attribute.KeyValue, fileID, spreadsheetID string, ranges []string) []attribute.KeyValue {
	if fileID != "" {
		attrs = append(attrs, KeyFileID.String(fileID))
	}
	if spreadsheetID != "" {
		attrs = append(attrs, KeySpreadsheetID.String(spreadsheetID))
	}
	if len(ranges) > 0 {
		attrs = append(attrs, KeyRanges.StringSlice(ranges))
	}
	return attrs
}

// StartCall starts a client span for c on the global tracer provider.
func StartCall(ctx context.Context, c Call) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, c.SpanName(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes()...),
	)
}

// StartTool starts a server span named tool.<name>.
func StartTool(ctx context.Context, tc ToolCall) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "tool."+tc.Tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(tc.attributes()...),
	)
}

// Finish sets the span status from err and ends the span.
func Finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SpanIDs returns the trace and span id of the span in ctx, or empty
// strings when ctx carries no recording span context.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
