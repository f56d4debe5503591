package sheets_tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/documents/documentstest"
	"github.com/teemow/gdocs/internal/server"
	"github.com/teemow/gdocs/internal/tools/common"
)

func setup(t *testing.T, readOnly bool, opts ...server.Option) (*documentstest.Server, *mcpserver.MCPServer) {
	t.Helper()

	fake := documentstest.NewServer(t)
	sc, err := server.NewServerContext(context.Background(), documents.NewBinding(documents.WithLocator(fake.Locator())), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterSheetsTools(s, sc, readOnly))
	return fake, s
}

func call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

// jsonBody returns the JSON part of a result with an optional summary line
func jsonBody(text string) string {
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return text
	}
	_, rest, _ := strings.Cut(text, "\n")
	return rest
}

func TestRegisterSheetsTools_ReadOnly(t *testing.T) {
	_, s := setup(t, true)
	tools := s.ListTools()

	for _, name := range []string{"sheets_read", "sheets_batch_read", "sheets_list_tabs"} {
		assert.Contains(t, tools, name)
	}
	for _, name := range []string{"sheets_create", "sheets_write", "sheets_clear", "sheets_add_tab", "sheets_delete_tab"} {
		assert.NotContains(t, tools, name)
	}
}

func TestWriteReadClear(t *testing.T) {
	fake, s := setup(t, false)
	fake.AddSpreadsheet("s1", "Budget")

	text, isErr := call(t, s, "sheets_write", map[string]interface{}{
		"spreadsheetId": "s1",
		"range":         "A1:B2",
		"values":        `[["a", 1], ["b", 2]]`,
	})
	require.False(t, isErr, text)
	assert.Equal(t, "Wrote 2 rows to A1:B2 (RAW)", text)

	text, isErr = call(t, s, "sheets_read", map[string]interface{}{"spreadsheetId": "s1", "range": "A1:B2"})
	require.False(t, isErr, text)

	var values [][]any
	require.NoError(t, json.Unmarshal([]byte(text), &values))
	assert.Equal(t, [][]any{{"a", float64(1)}, {"b", float64(2)}}, values)

	text, isErr = call(t, s, "sheets_clear", map[string]interface{}{"spreadsheetId": "s1", "ranges": "A1:B2"})
	require.False(t, isErr, text)

	text, isErr = call(t, s, "sheets_read", map[string]interface{}{"spreadsheetId": "s1", "range": "A1:B2"})
	require.False(t, isErr, text)
	assert.JSONEq(t, `[]`, text)
}

func TestWrite_ValueInputOption(t *testing.T) {
	fake, s := setup(t, false, server.WithValueInputOption(documents.ValueInputUserEntered))
	fake.AddSpreadsheet("s1", "Budget")

	text, isErr := call(t, s, "sheets_write", map[string]interface{}{
		"spreadsheetId": "s1",
		"range":         "A1",
		"values":        `[["=1+1"]]`,
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "USER_ENTERED")

	text, isErr = call(t, s, "sheets_write", map[string]interface{}{
		"spreadsheetId":    "s1",
		"range":            "A1",
		"values":           `[["x"]]`,
		"valueInputOption": "raw",
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "(RAW)")

	requests := fake.RequestCount()
	text, isErr = call(t, s, "sheets_write", map[string]interface{}{
		"spreadsheetId":    "s1",
		"range":            "A1",
		"values":           `[["x"]]`,
		"valueInputOption": "PARSED",
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid value input option")
	assert.Equal(t, requests, fake.RequestCount())
}

func TestWrite_InvalidValues(t *testing.T) {
	fake, s := setup(t, false)

	text, isErr := call(t, s, "sheets_write", map[string]interface{}{
		"spreadsheetId": "s1",
		"range":         "A1",
		"values":        `"not rows"`,
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "JSON array of rows")
	assert.Zero(t, fake.RequestCount())
}

func TestBatchRead_Order(t *testing.T) {
	fake, s := setup(t, true)
	fake.AddSpreadsheet("s1", "Budget")
	fake.SetValues("s1", "A1", [][]any{{"first"}})
	fake.SetValues("s1", "C3", [][]any{{"third"}})

	text, isErr := call(t, s, "sheets_batch_read", map[string]interface{}{"spreadsheetId": "s1", "ranges": "C3, B2, A1"})
	require.False(t, isErr, text)

	var ranges []documents.ValueRange
	require.NoError(t, json.Unmarshal([]byte(text), &ranges))
	require.Len(t, ranges, 3)
	assert.Equal(t, "C3", ranges[0].Range)
	assert.Equal(t, [][]any{{"third"}}, ranges[0].Values)
	assert.Empty(t, ranges[1].Values)
	assert.Equal(t, [][]any{{"first"}}, ranges[2].Values)
}

func TestRead_NamedSheet(t *testing.T) {
	fake, s := setup(t, true)
	fake.AddSpreadsheet("s1", "Budget", "Sheet1", "Q1 2024")
	fake.SetValues("s1", "'Q1 2024'!A1", [][]any{{"q1"}})

	text, isErr := call(t, s, "sheets_read", map[string]interface{}{"spreadsheetId": "s1", "range": "A1", "sheet": "Q1 2024"})
	require.False(t, isErr, text)
	assert.JSONEq(t, `[["q1"]]`, text)

	text, isErr = call(t, s, "sheets_read", map[string]interface{}{"spreadsheetId": "s1", "range": "A1", "sheet": "Missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "sheet not found")
}

func TestTabs(t *testing.T) {
	fake, s := setup(t, false)
	fake.AddSpreadsheet("s1", "Budget")

	text, isErr := call(t, s, "sheets_add_tab", map[string]interface{}{"spreadsheetId": "s1", "title": "Summary"})
	require.False(t, isErr, text)

	var added common.SheetInfo
	require.NoError(t, json.Unmarshal([]byte(jsonBody(text)), &added))
	assert.Equal(t, "Summary", added.Title)
	assert.Equal(t, []string{"Sheet1", "Summary"}, fake.SheetTitles("s1"))

	text, isErr = call(t, s, "sheets_list_tabs", map[string]interface{}{"spreadsheetId": "s1"})
	require.False(t, isErr, text)

	var tabs []common.SheetInfo
	require.NoError(t, json.Unmarshal([]byte(jsonBody(text)), &tabs))
	require.Len(t, tabs, 2)
	assert.Equal(t, int64(0), tabs[0].ID)

	text, isErr = call(t, s, "sheets_delete_tab", map[string]interface{}{"spreadsheetId": "s1", "title": "Sheet1"})
	require.False(t, isErr, text)
	assert.Equal(t, []string{"Summary"}, fake.SheetTitles("s1"))
}

func TestCreate(t *testing.T) {
	fake, s := setup(t, false)

	text, isErr := call(t, s, "sheets_create", map[string]interface{}{"title": "Plan"})
	require.False(t, isErr, text)

	var info common.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(jsonBody(text)), &info))
	assert.Equal(t, "spreadsheet", info.Kind)
	assert.Equal(t, "Plan", info.Name)
	assert.Equal(t, []string{"Sheet1"}, fake.SheetTitles(info.ID))
}

func TestListTabs_NotFound(t *testing.T) {
	_, s := setup(t, true)

	text, isErr := call(t, s, "sheets_list_tabs", map[string]interface{}{"spreadsheetId": "missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "Failed to list tabs")
}
