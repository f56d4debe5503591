package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gdocs/internal/documents"
)

// EntityInfo is the JSON form of a Drive item in tool results.
type EntityInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Kind     string `json:"kind"`
	URL      string `json:"url"`
}

// DescribeEntity converts an entity for a tool result.
func DescribeEntity(e documents.Entity) EntityInfo {
	return EntityInfo{
		ID:       e.ID(),
		Name:     e.Name(),
		MimeType: e.MimeType(),
		Kind:     e.Kind().String(),
		URL:      e.URL(),
	}
}

// DescribeEntities converts a list of entities for a tool result.
func DescribeEntities(entities []documents.Entity) []EntityInfo {
	infos := make([]EntityInfo, 0, len(entities))
	for _, e := range entities {
		infos = append(infos, DescribeEntity(e))
	}
	return infos
}

// SheetInfo is the JSON form of a spreadsheet tab in tool results.
type SheetInfo struct {
	ID          int64  `json:"sheetId"`
	Index       int64  `json:"index"`
	Title       string `json:"title"`
	RowCount    int64  `json:"rowCount,omitempty"`
	ColumnCount int64  `json:"columnCount,omitempty"`
}

// DescribeSheet converts a sheet for a tool result.
func DescribeSheet(sh *documents.Sheet) SheetInfo {
	info := SheetInfo{ID: sh.ID, Index: sh.Index, Title: sh.Title}
	if sh.Grid != nil {
		info.RowCount = sh.Grid.RowCount
		info.ColumnCount = sh.Grid.ColumnCount
	}
	return info
}

// JSONResult renders v as indented JSON text, prefixed by a summary line
// when one is given.
func JSONResult(summary string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	if summary == "" {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(summary + "\n" + string(data)), nil
}
