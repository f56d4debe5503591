package common

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/google"
	"github.com/teemow/gdocs/internal/server"
)

func TestParseCommaList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"A1:B2", []string{"A1:B2"}},
		{"A1:B2, Sheet2!C3 ,,", []string{"A1:B2", "Sheet2!C3"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCommaList(tt.in), "ParseCommaList(%q)", tt.in)
	}
}

func TestGetResourceIDFromArgs(t *testing.T) {
	assert.Equal(t, "", GetResourceIDFromArgs(nil))
	assert.Equal(t, "f1", GetResourceIDFromArgs(map[string]interface{}{"fileId": "f1", "folderId": "d1"}))
	assert.Equal(t, "s1", GetResourceIDFromArgs(map[string]interface{}{"spreadsheetId": " s1 "}))
	assert.Equal(t, "", GetResourceIDFromArgs(map[string]interface{}{"fileId": 42}))
}

func TestRequireStringArg(t *testing.T) {
	_, err := RequireStringArg(map[string]interface{}{"fileId": "  "}, "fileId")
	assert.EqualError(t, err, "fileId is required")

	v, err := RequireStringArg(map[string]interface{}{"fileId": "x"}, "fileId")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestGetBoolArg(t *testing.T) {
	v, ok := GetBoolArg(map[string]interface{}{"trashed": true}, "trashed")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = GetBoolArg(map[string]interface{}{"trashed": "true"}, "trashed")
	assert.False(t, ok)
}

func TestParseValuesArg(t *testing.T) {
	values, err := ParseValuesArg(map[string]interface{}{"values": `[["a", 1], ["b", true]]`}, "values")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", float64(1)}, {"b", true}}, values)

	_, err = ParseValuesArg(map[string]interface{}{"values": `{"a": 1}`}, "values")
	assert.ErrorContains(t, err, "JSON array of rows")

	_, err = ParseValuesArg(map[string]interface{}{}, "values")
	assert.EqualError(t, err, "values is required")
}

func TestManagerForArgs(t *testing.T) {
	sc := newTestServerContext(t)

	m, err := ManagerForArgs(sc, documents.KindDocument, nil)
	require.NoError(t, err)
	assert.Equal(t, documents.KindDocument, m.Kind())
	assert.Same(t, sc.Binding(), m.Binding())

	_, err = ManagerForArgs(sc, documents.KindDocument, map[string]interface{}{CredentialsArg: filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, errors.Is(err, google.ErrCredentialsFile), "got %v", err)

	keyFile := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(keyFile, []byte(`{}`), 0o600))

	m, err = ManagerForArgs(sc, documents.KindFile, map[string]interface{}{CredentialsArg: keyFile})
	require.NoError(t, err)
	assert.Equal(t, keyFile, m.Binding().Source().Override)

	s, err := SpreadsheetsForArgs(sc, map[string]interface{}{CredentialsArg: keyFile})
	require.NoError(t, err)
	assert.Equal(t, keyFile, s.Binding().Source().Override)
}

func TestManagerForArgs_CredentialsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key.json"), []byte(`{}`), 0o600))

	sc, err := server.NewServerContext(t.Context(), documents.NewBinding(),
		server.WithCredentialsDir(dir), server.WithoutCredentialsArg())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	m, err := ManagerForArgs(sc, documents.KindFile, map[string]interface{}{CredentialsArg: "key.json"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "key.json"), m.Binding().Source().Override)

	_, err = ManagerForArgs(sc, documents.KindFile, map[string]interface{}{CredentialsArg: "/etc/passwd"})
	assert.ErrorIs(t, err, server.ErrCredentialsArgDenied)

	_, err = SpreadsheetsForArgs(sc, map[string]interface{}{CredentialsArg: "../key.json"})
	assert.ErrorIs(t, err, server.ErrCredentialsArgDenied)
}

func TestManagerForArgs_Remote(t *testing.T) {
	sc, err := server.NewServerContext(t.Context(), documents.NewBinding(), server.WithoutCredentialsArg())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	m, err := ManagerForArgs(sc, documents.KindDocument, nil)
	require.NoError(t, err)
	assert.Same(t, sc.Binding(), m.Binding())

	_, err = ManagerForArgs(sc, documents.KindDocument, map[string]interface{}{CredentialsArg: "/srv/keys/other.json"})
	assert.ErrorIs(t, err, server.ErrCredentialsArgDenied)
}

func TestDescribeEntity(t *testing.T) {
	info := DescribeEntity(documents.FromItem(&drive.File{Id: "d1", Name: "Reports", MimeType: documents.MimeTypeFolder}, nil))
	assert.Equal(t, EntityInfo{
		ID:       "d1",
		Name:     "Reports",
		MimeType: documents.MimeTypeFolder,
		Kind:     "folder",
		URL:      "https://drive.google.com/drive/folders/d1",
	}, info)

	assert.Empty(t, DescribeEntities(nil))
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult("Found 1 item", []EntityInfo{{ID: "x", Kind: "file"}})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	summary, body, found := strings.Cut(text.Text, "\n")
	require.True(t, found)
	assert.Equal(t, "Found 1 item", summary)

	var decoded []EntityInfo
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "x", decoded[0].ID)
}
