package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"
)

func TestKindForMimeType(t *testing.T) {
	tests := []struct {
		mime string
		want Kind
	}{
		{MimeTypeFolder, KindFolder},
		{MimeTypeDocument, KindDocument},
		{MimeTypeSpreadsheet, KindSpreadsheet},
		{"application/pdf", KindFile},
		{"", KindFile},
	}

	for _, tt := range tests {
		if got := KindForMimeType(tt.mime); got != tt.want {
			t.Errorf("KindForMimeType(%q) = %v, want %v", tt.mime, got, tt.want)
		}
		if tt.want != KindFile && tt.want.MimeType() != tt.mime {
			t.Errorf("%v.MimeType() = %q, want %q", tt.want, tt.want.MimeType(), tt.mime)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Spreadsheet")
	require.NoError(t, err)
	assert.Equal(t, KindSpreadsheet, k)

	_, err = ParseKind("presentation")
	assert.Error(t, err)

	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestFromItem(t *testing.T) {
	tests := []struct {
		name string
		item *drive.File
		want Kind
		typ  any
	}{
		{"folder", &drive.File{Id: "1", MimeType: MimeTypeFolder}, KindFolder, &Folder{}},
		{"document", &drive.File{Id: "2", MimeType: MimeTypeDocument}, KindDocument, &Document{}},
		{"spreadsheet", &drive.File{Id: "3", MimeType: MimeTypeSpreadsheet}, KindSpreadsheet, &Spreadsheet{}},
		{"unknown", &drive.File{Id: "4", MimeType: "image/png"}, KindFile, &File{}},
		{"empty", &drive.File{Id: "5"}, KindFile, &File{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromItem(tt.item, nil)
			assert.Equal(t, tt.want, e.Kind())
			assert.IsType(t, tt.typ, e)
			assert.Equal(t, tt.item.Id, e.ID())
			assert.Equal(t, tt.item.MimeType, e.MimeType())
		})
	}
}

func TestFromItem_Nil(t *testing.T) {
	e := FromItem(nil, nil)
	assert.IsType(t, &File{}, e)
	assert.Empty(t, e.ID())
}

func TestFromSpreadsheet(t *testing.T) {
	s := FromSpreadsheet(&sheets.Spreadsheet{
		SpreadsheetId: "ss1",
		Properties:    &sheets.SpreadsheetProperties{Title: "Budget"},
	}, nil)

	assert.Equal(t, "ss1", s.ID())
	assert.Equal(t, "Budget", s.Name())
	assert.Equal(t, KindSpreadsheet, s.Kind())
	assert.Equal(t, MimeTypeSpreadsheet, s.MimeType())
}

func TestFromSpreadsheet_Nil(t *testing.T) {
	s := FromSpreadsheet(nil, nil)
	assert.Empty(t, s.ID())
	assert.Equal(t, KindSpreadsheet, s.Kind())
	assert.Equal(t, MimeTypeSpreadsheet, s.MimeType())
}
