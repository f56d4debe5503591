package drive_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

const serviceDrive = "drive"

// credentialsOption is the optional per-call key file argument shared by all tools
func credentialsOption() mcp.ToolOption {
	return mcp.WithString(common.CredentialsArg,
		mcp.Description("Path to a service-account key file to use for this call instead of the server's configured credentials"),
	)
}

// RegisterDriveTools registers all Google Drive-related tools with the MCP server
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register file operation tools
	if err := registerFileTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}

	// Register folder operation tools
	if err := registerFolderTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}

	return nil
}
