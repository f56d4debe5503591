package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/logging"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

// Resource URIs.
const (
	SettingsURI  = "gdocs://server/settings"
	DriveRootURI = "gdocs://drive/root"
)

// rootFolderID is the Drive alias of the root folder of the credentials owner
const rootFolderID = "root"

// RegisterResources registers the server resources
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	settingsResource := mcp.NewResource(
		SettingsURI,
		"Server Settings",
		mcp.WithResourceDescription("Default credentials and write/export settings used by the tools"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})

	rootResource := mcp.NewResource(
		DriveRootURI,
		"Drive Root Folder",
		mcp.WithResourceDescription("Items directly inside the Drive root folder of the default credentials"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(rootResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDriveRoot(ctx, request, sc)
	})

	return nil
}

// settings is the content of the settings resource
type settings struct {
	CredentialsFile   string `json:"credentialsFile"`
	CredentialsStatus string `json:"credentialsStatus"`
	ValueInputOption  string `json:"valueInputOption"`
	ExportMimeType    string `json:"exportMimeType"`
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	data := settings{
		CredentialsStatus: "ok",
		ValueInputOption:  string(sc.ValueInputOption()),
		ExportMimeType:    sc.ExportMimeType(),
	}

	// An unresolvable source is reported by CheckCredentials
	path, _ := sc.Binding().Source().Resolve()
	data.CredentialsFile = logging.SanitizePath(path)
	if err := sc.CheckCredentials(); err != nil {
		data.CredentialsStatus = err.Error()
	}

	return jsonContents(request.Params.URI, data)
}

func handleDriveRoot(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	root := sc.Manager(documents.KindFolder).Ref(rootFolderID).(*documents.Folder)

	children, err := root.Children(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list root folder: %w", err)
	}

	return jsonContents(request.Params.URI, common.DescribeEntities(children))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
