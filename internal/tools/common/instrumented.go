package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and audit logging.
//
//	s.AddTool(tool, common.InstrumentedToolHandler("drive_get_file", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return InstrumentedToolHandlerWithService(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is InstrumentedToolHandler with the
// Google service and operation the tool maps to. Google API metrics are
// recorded by the documents binding, once per remote call.
func InstrumentedToolHandlerWithService(toolName, service, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tc := toolCall(toolName, service, operation, request.GetArguments())

		ctx, span := instrumentation.StartTool(ctx, tc)
		record := instrumentation.NewAuditRecord(ctx, tc)
		start := time.Now()

		result, err := handler(ctx, request)

		record.Duration = time.Since(start)
		record.Err = err
		if err == nil && result != nil && result.IsError {
			record.Err = resultError(result)
		}
		// Tool error results are reported to the client, not raised.
		instrumentation.Finish(span, err)

		sc.Metrics().ObserveTool(ctx, toolName, record.Err != nil, record.Duration)
		sc.AuditLogger().Log(ctx, record)

		return result, err
	}
}

func toolCall(tool, service, operation string, args map[string]interface{}) instrumentation.ToolCall {
	tc := instrumentation.ToolCall{Tool: tool, Service: service, Operation: operation}
	if id := GetStringArg(args, "spreadsheetId"); id != "" {
		tc.SpreadsheetID = id
	} else {
		tc.FileID = GetResourceIDFromArgs(args)
	}
	return tc
}

// resultError turns the text of an error result into an error.
func resultError(result *mcp.CallToolResult) error {
	for _, content := range result.Content {
		switch text := content.(type) {
		case mcp.TextContent:
			return errors.New(text.Text)
		case *mcp.TextContent:
			return errors.New(text.Text)
		}
	}
	return errors.New("tool returned an error")
}
