package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// AuditRecord is the outcome of one tool call.
type AuditRecord struct {
	Call     ToolCall
	Duration time.Duration
	// Err is the handler error or the error the tool reported to the client.
	Err error

	TraceID string
	SpanID  string
}

// NewAuditRecord stamps tc with the trace context of ctx.
func NewAuditRecord(ctx context.Context, tc ToolCall) AuditRecord {
	r := AuditRecord{Call: tc}
	r.TraceID, r.SpanID = SpanIDs(ctx)
	return r
}

// Status is StatusError when Err is set.
func (r AuditRecord) Status() string {
	return statusOf(r.Err != nil)
}

func (r AuditRecord) attrs(includeIDs bool) []slog.Attr {
	attrs := make([]slog.Attr, 0, 9)
	attrs = append(attrs,
		slog.String("tool", r.Call.Tool),
		slog.String("status", r.Status()),
		slog.Duration("duration", r.Duration),
	)
	if r.Call.Service != "" {
		attrs = append(attrs,
			slog.String("service", r.Call.Service),
			slog.String("operation", r.Call.Operation),
		)
	}
	if id := r.Call.ResourceID(); includeIDs && id != "" {
		attrs = append(attrs, slog.String("resource_id", id))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID), slog.String("span_id", r.SpanID))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return attrs
}

// AuditLogger writes one structured record per tool call. A nil
// AuditLogger drops records.
type AuditLogger struct {
	logger *slog.Logger
	config AuditConfig
}

// NewAuditLogger returns nil when auditing is disabled. A nil logger means
// slog.Default().
func NewAuditLogger(logger *slog.Logger, config AuditConfig) *AuditLogger {
	if !config.Enabled {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With(slog.String("component", "audit")), config: config}
}

// Log writes r at info level, or at warn level when the call failed.
func (a *AuditLogger) Log(ctx context.Context, r AuditRecord) {
	if a == nil {
		return
	}
	level, msg := slog.LevelInfo, "tool_executed"
	if r.Err != nil {
		level, msg = slog.LevelWarn, "tool_failed"
	}
	a.logger.LogAttrs(ctx, level, msg, r.attrs(a.config.IncludeIDs)...)
}
