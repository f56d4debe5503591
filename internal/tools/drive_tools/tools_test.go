package drive_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/documents/documentstest"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/batch"
	"github.com/teemow/gdocs/internal/tools/common"
)

type harness struct {
	fake *documentstest.Server
	mcp  *mcpserver.MCPServer
}

func newHarness(t *testing.T, readOnly bool) *harness {
	t.Helper()

	fake := documentstest.NewServer(t)
	sc, err := server.NewServerContext(context.Background(), documents.NewBinding(documents.WithLocator(fake.Locator())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterDriveTools(s, sc, readOnly))

	return &harness{fake: fake, mcp: s}
}

func (h *harness) call(t *testing.T, name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	tool, ok := h.mcp.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

// body strips the summary line from a JSON result
func body(text string) string {
	if i := strings.Index(text, "\n"); i >= 0 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return text[i+1:]
	}
	return text
}

func TestRegisterDriveTools_ReadOnly(t *testing.T) {
	h := newHarness(t, true)
	tools := h.mcp.ListTools()

	for _, name := range []string{"drive_get_file", "drive_list_files", "drive_list_parents", "drive_list_children"} {
		assert.Contains(t, tools, name)
	}
	for _, name := range []string{"drive_copy_file", "drive_delete_file", "drive_move_to_folder"} {
		assert.NotContains(t, tools, name)
	}
}

func TestGetFile(t *testing.T) {
	h := newHarness(t, true)
	h.fake.AddSpreadsheet("s1", "Budget")

	text, isErr := h.call(t, "drive_get_file", map[string]interface{}{"fileId": "s1"})
	require.False(t, isErr, text)

	var info common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(text), &info))
	assert.Equal(t, "spreadsheet", info.Kind)
	assert.Equal(t, "Budget", info.Name)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/s1", info.URL)
}

func TestGetFile_NotFound(t *testing.T) {
	h := newHarness(t, true)

	text, isErr := h.call(t, "drive_get_file", map[string]interface{}{"fileId": "missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")
}

func TestGetFile_MissingID(t *testing.T) {
	h := newHarness(t, true)

	text, isErr := h.call(t, "drive_get_file", map[string]interface{}{})
	assert.True(t, isErr)
	assert.Equal(t, "fileId is required", text)
	assert.Zero(t, h.fake.RequestCount())
}

func TestListFiles(t *testing.T) {
	h := newHarness(t, true)
	h.fake.AddFile("d1", "Report 2024", documents.MimeTypeDocument, "root")
	h.fake.AddFile("d2", "Report 2025", documents.MimeTypeDocument)
	h.fake.AddFile("f1", "Report.pdf", "application/pdf", "root")

	text, isErr := h.call(t, "drive_list_files", map[string]interface{}{
		"kind":   "document",
		"name":   "Report",
		"folder": "root",
	})
	require.False(t, isErr, text)
	assert.True(t, strings.HasPrefix(text, "Found 1 items:"), text)

	var infos []common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(body(text)), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "d1", infos[0].ID)
	assert.Equal(t, "document", infos[0].Kind)

	assert.Equal(t, []string{
		"'root' in parents and mimeType contains '" + documents.MimeTypeDocument + "' and name contains 'Report'",
	}, h.fake.Queries())
}

func TestListFiles_InvalidKind(t *testing.T) {
	h := newHarness(t, true)

	text, isErr := h.call(t, "drive_list_files", map[string]interface{}{"kind": "slides"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unknown kind")
}

func TestListChildrenAndParents(t *testing.T) {
	h := newHarness(t, true)
	h.fake.AddFile("root", "Root", documents.MimeTypeFolder)
	h.fake.AddFile("sub", "Sub", documents.MimeTypeFolder, "root")
	h.fake.AddSpreadsheet("s1", "Budget")
	h.fake.AddFile("doc", "Notes", documents.MimeTypeDocument, "root", "sub")

	text, isErr := h.call(t, "drive_list_children", map[string]interface{}{"folderId": "root"})
	require.False(t, isErr, text)

	var children []common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(body(text)), &children))
	kinds := map[string]string{}
	for _, c := range children {
		kinds[c.ID] = c.Kind
	}
	assert.Equal(t, map[string]string{"doc": "document", "sub": "folder"}, kinds)

	text, isErr = h.call(t, "drive_list_parents", map[string]interface{}{"fileId": "doc"})
	require.False(t, isErr, text)

	var parents []common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(body(text)), &parents))
	require.Len(t, parents, 2)
	assert.Equal(t, "folder", parents[0].Kind)
}

func TestCopyFile_KeepsKind(t *testing.T) {
	h := newHarness(t, false)
	h.fake.AddSpreadsheet("s1", "Budget")

	text, isErr := h.call(t, "drive_copy_file", map[string]interface{}{"fileId": "s1", "name": "Budget 2"})
	require.False(t, isErr, text)

	var info common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(body(text)), &info))
	assert.Equal(t, "spreadsheet", info.Kind)
	assert.Equal(t, "Budget 2", info.Name)
	assert.NotEqual(t, "s1", info.ID)
}

func TestDeleteFile(t *testing.T) {
	h := newHarness(t, false)
	h.fake.AddFile("a", "A", "text/plain")

	text, isErr := h.call(t, "drive_delete_file", map[string]interface{}{"fileId": "a"})
	require.False(t, isErr, text)

	_, exists := h.fake.File("a")
	assert.False(t, exists)
}

func TestDeleteFile_Batch(t *testing.T) {
	h := newHarness(t, false)
	h.fake.AddFile("a", "A", "text/plain")
	h.fake.AddFile("b", "B", "text/plain")

	text, isErr := h.call(t, "drive_delete_file", map[string]interface{}{"fileId": `["a", "missing", "b"]`})
	require.False(t, isErr, text)

	var br batch.Report
	require.NoError(t, json.Unmarshal([]byte(text), &br))
	assert.Equal(t, 3, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, "missing", br.Results[1].ID)
	assert.Equal(t, "error", br.Results[1].Status)
}

func TestMoveToFolder(t *testing.T) {
	h := newHarness(t, false)
	h.fake.AddFile("dest", "Dest", documents.MimeTypeFolder)
	h.fake.AddFile("a", "A", "text/plain", "old")

	text, isErr := h.call(t, "drive_move_to_folder", map[string]interface{}{"fileId": "a", "folderId": "dest"})
	require.False(t, isErr, text)

	f, ok := h.fake.File("a")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"old", "dest"}, f.Parents)
}

func TestRemoteError(t *testing.T) {
	h := newHarness(t, true)
	h.fake.AddFile("a", "A", "text/plain")
	h.fake.Fail("/files", http.StatusForbidden)

	text, isErr := h.call(t, "drive_get_file", map[string]interface{}{"fileId": "a"})
	assert.True(t, isErr)
	assert.Contains(t, text, "Failed to get file")
}
