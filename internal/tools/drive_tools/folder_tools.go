package drive_tools

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

// registerFolderTools registers folder tools
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List children tool
	listChildrenTool := mcp.NewTool("drive_list_children",
		mcp.WithDescription("List the items directly inside a folder"),
		credentialsOption(),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the folder"),
		),
	)

	s.AddTool(listChildrenTool, common.InstrumentedToolHandlerWithService(
		"drive_list_children", serviceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListChildren(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Move to folder tool
	moveToFolderTool := mcp.NewTool("drive_move_to_folder",
		mcp.WithDescription("Put a Drive item into a folder. Existing parents are kept."),
		credentialsOption(),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the item"),
		),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the destination folder"),
		),
	)

	s.AddTool(moveToFolderTool, common.InstrumentedToolHandlerWithService(
		"drive_move_to_folder", serviceDrive, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveToFolder(ctx, request, sc)
		}))

	return nil
}

func handleListChildren(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	folderID, err := common.RequireStringArg(args, "folderId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folders, err := common.ManagerForArgs(sc, documents.KindFolder, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	children, err := folders.Ref(folderID).(*documents.Folder).Children(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list folder: %v", err)), nil
	}

	return common.JSONResult(fmt.Sprintf("Found %d items:", len(children)), common.DescribeEntities(children))
}

func handleMoveToFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, err := common.RequireStringArg(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	folderID, err := common.RequireStringArg(args, "folderId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := common.ManagerForArgs(sc, documents.KindFile, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	folder := files.Binding().Folders().Ref(folderID).(*documents.Folder)

	if err := files.Ref(fileID).PutToFolder(ctx, folder); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to move file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File %s added to folder %s", fileID, folderID)), nil
}
