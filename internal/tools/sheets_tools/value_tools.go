package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

// registerValueTools registers the cell value tools
func registerValueTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Read range tool
	readTool := mcp.NewTool("sheets_read",
		mcp.WithDescription("Read the values of one range. Empty ranges return []."),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1 range, e.g. 'A1:D10' or 'Sheet2!B:B'"),
		),
		sheetOption(),
	)

	s.AddTool(readTool, common.InstrumentedToolHandlerWithService(
		"sheets_read", serviceSheets, instrumentation.OperationValuesGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRead(ctx, request, sc)
		}))

	// Batch read tool
	batchReadTool := mcp.NewTool("sheets_batch_read",
		mcp.WithDescription("Read several ranges in one call. Results are in request order."),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("ranges",
			mcp.Required(),
			mcp.Description("Comma-separated list of A1 ranges"),
		),
		sheetOption(),
	)

	s.AddTool(batchReadTool, common.InstrumentedToolHandlerWithService(
		"sheets_batch_read", serviceSheets, instrumentation.OperationBatchGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBatchRead(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Write range tool
	writeTool := mcp.NewTool("sheets_write",
		mcp.WithDescription("Write rows of values into a range"),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1 range to write, e.g. 'A1' or 'Sheet1!A1:C3'"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("JSON array of rows, e.g. [[\"a\", 1], [\"b\", 2]]"),
		),
		mcp.WithString("valueInputOption",
			mcp.Description(fmt.Sprintf("RAW stores values as given, USER_ENTERED parses them like typed input (default: %s)", sc.ValueInputOption())),
		),
		sheetOption(),
	)

	s.AddTool(writeTool, common.InstrumentedToolHandlerWithService(
		"sheets_write", serviceSheets, instrumentation.OperationValuesPut, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWrite(ctx, request, sc)
		}))

	// Clear ranges tool
	clearTool := mcp.NewTool("sheets_clear",
		mcp.WithDescription("Clear the values of one or more ranges. Formatting is kept."),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("ranges",
			mcp.Required(),
			mcp.Description("Comma-separated list of A1 ranges"),
		),
		sheetOption(),
	)

	s.AddTool(clearTool, common.InstrumentedToolHandlerWithService(
		"sheets_clear", serviceSheets, instrumentation.OperationBatchClear, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleClear(ctx, request, sc)
		}))

	return nil
}

func handleRead(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	rng, err := common.RequireStringArg(args, "range")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := targetFromArgs(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	values, err := target.Read(ctx, rng)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read range: %v", err)), nil
	}

	return common.JSONResult("", values)
}

func handleBatchRead(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ranges := common.ParseCommaList(common.GetStringArg(args, "ranges"))
	if len(ranges) == 0 {
		return mcp.NewToolResultError("ranges is required"), nil
	}

	target, err := targetFromArgs(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	grids, err := target.BatchRead(ctx, ranges)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read ranges: %v", err)), nil
	}

	result := make([]documents.ValueRange, len(ranges))
	for i, rng := range ranges {
		result[i] = documents.ValueRange{Range: rng, Values: grids[i]}
	}
	return common.JSONResult("", result)
}

func handleWrite(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	rng, err := common.RequireStringArg(args, "range")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	values, err := common.ParseValuesArg(args, "values")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opt := sc.ValueInputOption()
	if optStr := common.GetStringArg(args, "valueInputOption"); optStr != "" {
		opt, err = documents.ParseValueInputOption(optStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	target, err := targetFromArgs(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := target.Write(ctx, rng, values, opt); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to write range: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d rows to %s (%s)", len(values), rng, opt)), nil
}

func handleClear(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ranges := common.ParseCommaList(common.GetStringArg(args, "ranges"))
	if len(ranges) == 0 {
		return mcp.NewToolResultError("ranges is required"), nil
	}

	target, err := targetFromArgs(ctx, sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(ranges) == 1 {
		err = target.Clear(ctx, ranges[0])
	} else {
		err = target.BatchClear(ctx, ranges)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to clear ranges: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Cleared %d ranges", len(ranges))), nil
}
