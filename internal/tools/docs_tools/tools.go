package docs_tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/batch"
	"github.com/teemow/gdocs/internal/tools/common"
)

const serviceDrive = "drive"

// RegisterDocsTools registers all Google Docs-related tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Export document tool
	exportTool := mcp.NewTool("docs_export",
		mcp.WithDescription("Export a Google Doc (or spreadsheet) converted to another format"),
		mcp.WithString(common.CredentialsArg,
			mcp.Description("Path to a service-account key file to use for this call instead of the server's configured credentials"),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the document, or a JSON array of IDs"),
		),
		mcp.WithString("mimeType",
			mcp.Description(fmt.Sprintf("Target MIME type, e.g. 'text/plain', 'application/pdf' (default: %s)", sc.ExportMimeType())),
		),
	)

	s.AddTool(exportTool, common.InstrumentedToolHandlerWithService(
		"docs_export", serviceDrive, instrumentation.OperationExport, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExport(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Update document tool
	updateTool := mcp.NewTool("docs_update",
		mcp.WithDescription("Replace the content of a Google Doc with an uploaded file. Drive converts the file into the document."),
		mcp.WithString(common.CredentialsArg,
			mcp.Description("Path to a service-account key file to use for this call instead of the server's configured credentials"),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the document"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The new content (plain text, or base64 when isBase64 is set)"),
		),
		mcp.WithString("mimeType",
			mcp.Description("MIME type of the content (default: text/plain)"),
		),
		mcp.WithBoolean("isBase64",
			mcp.Description("Whether the content is base64-encoded (default: false)"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService(
		"docs_update", serviceDrive, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdate(ctx, request, sc)
		}))

	return nil
}

// isTextMimeType reports whether an export in mimeType can be returned inline
func isTextMimeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") ||
		mimeType == "application/json" ||
		mimeType == "image/svg+xml"
}

func handleExport(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.IDs(args, "documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mimeType := common.GetStringArg(args, "mimeType")
	if mimeType == "" {
		mimeType = sc.ExportMimeType()
	}

	manager, err := common.ManagerForArgs(sc, documents.KindDocument, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	export := func(ctx context.Context, id string) (string, error) {
		var buf bytes.Buffer
		if _, err := manager.Ref(id).(*documents.Document).ExportTo(ctx, &buf, mimeType); err != nil {
			return "", err
		}
		if isTextMimeType(mimeType) {
			return buf.String(), nil
		}
		return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
	}

	if len(ids) > 1 {
		report := batch.Run(ctx, ids, batch.DefaultConcurrency, export)
		return mcp.NewToolResultText(report.JSON()), nil
	}

	content, err := export(ctx, ids[0])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to export document: %v", err)), nil
	}

	encoding := "text"
	if !isTextMimeType(mimeType) {
		encoding = "base64"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Document export (%s, %s, %d bytes):\n%s", mimeType, encoding, len(content), content)), nil
}

func handleUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	documentID, err := common.RequireStringArg(args, "documentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Content is not trimmed
	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	data := []byte(content)
	if isBase64, _ := common.GetBoolArg(args, "isBase64"); isBase64 {
		data, err = base64.StdEncoding.DecodeString(content)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to decode base64 content: %v", err)), nil
		}
	}

	mimeType := common.GetStringArg(args, "mimeType")
	if mimeType == "" {
		mimeType = "text/plain"
	}

	manager, err := common.ManagerForArgs(sc, documents.KindDocument, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tmp, err := os.CreateTemp("", "gdocs-update-*")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to stage content: %v", err)), nil
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to stage content: %v", err)), nil
	}

	if err := manager.Ref(documentID).(*documents.Document).Update(ctx, tmp.Name(), mimeType); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update document: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document %s updated (%d bytes, %s)", documentID, len(data), mimeType)), nil
}
