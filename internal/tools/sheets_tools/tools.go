package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

const serviceSheets = "sheets"

// rangeTarget is a spreadsheet or one of its tabs
type rangeTarget interface {
	Read(ctx context.Context, rng string) ([][]any, error)
	Write(ctx context.Context, rng string, rows [][]any, opt documents.ValueInputOption) error
	Clear(ctx context.Context, rng string) error
	BatchRead(ctx context.Context, ranges []string) ([][][]any, error)
	BatchClear(ctx context.Context, ranges []string) error
}

func credentialsOption() mcp.ToolOption {
	return mcp.WithString(common.CredentialsArg,
		mcp.Description("Path to a service-account key file to use for this call instead of the server's configured credentials"),
	)
}

func spreadsheetIDOption() mcp.ToolOption {
	return mcp.WithString("spreadsheetId",
		mcp.Required(),
		mcp.Description("The ID of the spreadsheet"),
	)
}

func sheetOption() mcp.ToolOption {
	return mcp.WithString("sheet",
		mcp.Description("Title of the tab that bare ranges refer to (default: first tab)"),
	)
}

// spreadsheetFromArgs returns the spreadsheet named by the spreadsheetId argument
func spreadsheetFromArgs(sc *server.ServerContext, args map[string]interface{}) (*documents.Spreadsheet, error) {
	id, err := common.RequireStringArg(args, "spreadsheetId")
	if err != nil {
		return nil, err
	}
	manager, err := common.SpreadsheetsForArgs(sc, args)
	if err != nil {
		return nil, err
	}
	return manager.Spreadsheet(id), nil
}

// targetFromArgs returns the tab named by the sheet argument, or the
// spreadsheet itself when none is named
func targetFromArgs(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (rangeTarget, error) {
	ss, err := spreadsheetFromArgs(sc, args)
	if err != nil {
		return nil, err
	}
	title := common.GetStringArg(args, "sheet")
	if title == "" {
		return ss, nil
	}
	return ss.SheetByTitle(ctx, title)
}

// RegisterSheetsTools registers all Google Sheets-related tools with the MCP server
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerValueTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register value tools: %w", err)
	}

	if err := registerTabTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register tab tools: %w", err)
	}

	return nil
}
