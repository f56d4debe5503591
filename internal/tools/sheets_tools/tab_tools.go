package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

// registerTabTools registers spreadsheet and tab management tools
func registerTabTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List tabs tool
	listTabsTool := mcp.NewTool("sheets_list_tabs",
		mcp.WithDescription("List the tabs of a spreadsheet in display order"),
		credentialsOption(),
		spreadsheetIDOption(),
	)

	s.AddTool(listTabsTool, common.InstrumentedToolHandlerWithService(
		"sheets_list_tabs", serviceSheets, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTabs(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Create spreadsheet tool
	createTool := mcp.NewTool("sheets_create",
		mcp.WithDescription("Create a new spreadsheet"),
		credentialsOption(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the spreadsheet"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"sheets_create", serviceSheets, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreate(ctx, request, sc)
		}))

	// Add tab tool
	addTabTool := mcp.NewTool("sheets_add_tab",
		mcp.WithDescription("Add a tab to a spreadsheet"),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new tab"),
		),
	)

	s.AddTool(addTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_add_tab", serviceSheets, instrumentation.OperationBatchUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddTab(ctx, request, sc)
		}))

	// Delete tab tool
	deleteTabTool := mcp.NewTool("sheets_delete_tab",
		mcp.WithDescription("Delete a tab and its contents from a spreadsheet"),
		credentialsOption(),
		spreadsheetIDOption(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the tab to delete"),
		),
	)

	s.AddTool(deleteTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_delete_tab", serviceSheets, instrumentation.OperationBatchUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTab(ctx, request, sc)
		}))

	return nil
}

func handleListTabs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ss, err := spreadsheetFromArgs(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tabs, err := ss.Sheets(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list tabs: %v", err)), nil
	}

	infos := make([]common.SheetInfo, 0, len(tabs))
	for _, tab := range tabs {
		infos = append(infos, common.DescribeSheet(tab))
	}
	return common.JSONResult(fmt.Sprintf("Found %d tabs:", len(infos)), infos)
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, err := common.RequireStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	manager, err := common.SpreadsheetsForArgs(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ss, err := manager.Create(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create spreadsheet: %v", err)), nil
	}

	return common.JSONResult("Spreadsheet created successfully:", common.DescribeEntity(ss))
}

func handleAddTab(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, err := common.RequireStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ss, err := spreadsheetFromArgs(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tab, err := ss.AddSheet(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add tab: %v", err)), nil
	}

	return common.JSONResult("Tab added successfully:", common.DescribeSheet(tab))
}

func handleDeleteTab(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, err := common.RequireStringArg(args, "title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ss, err := spreadsheetFromArgs(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tab, err := ss.SheetByTitle(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := tab.Delete(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete tab: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Tab %q deleted", title)), nil
}
