package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/batch"
	"github.com/teemow/gdocs/internal/tools/common"
)

// registerFileTools registers file management tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Get file tool
	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get a Drive item by ID. The result includes its kind (file, folder, document, spreadsheet) and URL."),
		credentialsOption(),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the item"),
		),
	)

	s.AddTool(getFileTool, common.InstrumentedToolHandlerWithService(
		"drive_get_file", serviceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFile(ctx, request, sc)
		}))

	// List files tool
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List Drive items. All given filters must match."),
		credentialsOption(),
		mcp.WithString("kind",
			mcp.Description("Restrict to one kind: 'file' (default, any item), 'folder', 'document' or 'spreadsheet'"),
		),
		mcp.WithString("name",
			mcp.Description("Only items whose name contains this text"),
		),
		mcp.WithString("fullText",
			mcp.Description("Only items whose content or metadata contains this text"),
		),
		mcp.WithString("folder",
			mcp.Description("Only items directly inside the folder with this ID"),
		),
		mcp.WithBoolean("trashed",
			mcp.Description("Match items by trashed state"),
		),
		mcp.WithBoolean("starred",
			mcp.Description("Match items by starred state"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_files", serviceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	// List parents tool
	listParentsTool := mcp.NewTool("drive_list_parents",
		mcp.WithDescription("List the folders that contain a Drive item"),
		credentialsOption(),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the item"),
		),
	)

	s.AddTool(listParentsTool, common.InstrumentedToolHandlerWithService(
		"drive_list_parents", serviceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListParents(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if readOnly {
		return nil
	}

	// Copy file tool
	copyFileTool := mcp.NewTool("drive_copy_file",
		mcp.WithDescription("Copy a Drive item. The copy has the same kind as the original."),
		credentialsOption(),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the item to copy"),
		),
		mcp.WithString("name",
			mcp.Description("Name of the copy (default: chosen by Drive)"),
		),
	)

	s.AddTool(copyFileTool, common.InstrumentedToolHandlerWithService(
		"drive_copy_file", serviceDrive, instrumentation.OperationCopy, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCopyFile(ctx, request, sc)
		}))

	// Delete file tool
	deleteFileTool := mcp.NewTool("drive_delete_file",
		mcp.WithDescription("Permanently delete one or more Drive items"),
		credentialsOption(),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the item to delete, or a JSON array of IDs"),
		),
	)

	s.AddTool(deleteFileTool, common.InstrumentedToolHandlerWithService(
		"drive_delete_file", serviceDrive, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteFile(ctx, request, sc)
		}))

	return nil
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, err := common.RequireStringArg(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	manager, err := common.ManagerForArgs(sc, documents.KindFile, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entity, err := manager.Get(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
	}
	if entity == nil {
		return mcp.NewToolResultError(fmt.Sprintf("File %s not found", fileID)), nil
	}

	return common.JSONResult("", common.DescribeEntity(entity))
}

// listCriteria maps tool arguments to filter criteria
func listCriteria(args map[string]interface{}) documents.Criteria {
	criteria := documents.Criteria{}
	if name := common.GetStringArg(args, "name"); name != "" {
		criteria["name"] = name
	}
	if text := common.GetStringArg(args, "fullText"); text != "" {
		criteria["full_text"] = text
	}
	if folder := common.GetStringArg(args, "folder"); folder != "" {
		criteria[documents.FolderKey] = folder
	}
	for _, key := range []string{"trashed", "starred"} {
		if v, ok := common.GetBoolArg(args, key); ok {
			criteria[key] = v
		}
	}
	return criteria
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kind := documents.KindFile
	if kindStr := common.GetStringArg(args, "kind"); kindStr != "" {
		var err error
		kind, err = documents.ParseKind(kindStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	manager, err := common.ManagerForArgs(sc, kind, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entities, err := manager.Filter(ctx, listCriteria(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}

	return common.JSONResult(fmt.Sprintf("Found %d items:", len(entities)), common.DescribeEntities(entities))
}

func handleListParents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, err := common.RequireStringArg(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	manager, err := common.ManagerForArgs(sc, documents.KindFile, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	parents, err := manager.Ref(fileID).Parents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list parents: %v", err)), nil
	}

	entities := make([]documents.Entity, 0, len(parents))
	for _, p := range parents {
		entities = append(entities, p)
	}
	return common.JSONResult(fmt.Sprintf("Found %d parent folders:", len(entities)), common.DescribeEntities(entities))
}

func handleCopyFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, err := common.RequireStringArg(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	manager, err := common.ManagerForArgs(sc, documents.KindFile, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Fetch first so the copy is built with the original's kind
	original, err := manager.Get(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
	}
	if original == nil {
		return mcp.NewToolResultError(fmt.Sprintf("File %s not found", fileID)), nil
	}

	copied, err := original.Copy(ctx, common.GetStringArg(args, "name"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to copy file: %v", err)), nil
	}

	return common.JSONResult("File copied successfully:", common.DescribeEntity(copied))
}

func handleDeleteFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.IDs(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	manager, err := common.ManagerForArgs(sc, documents.KindFile, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(ids) == 1 {
		if err := manager.Ref(ids[0]).Delete(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("File %s deleted successfully", ids[0])), nil
	}

	report := batch.Run(ctx, ids, batch.DefaultConcurrency, func(ctx context.Context, id string) (string, error) {
		if err := manager.Ref(id).Delete(ctx); err != nil {
			return "", err
		}
		return "deleted", nil
	})
	return mcp.NewToolResultText(report.JSON()), nil
}
