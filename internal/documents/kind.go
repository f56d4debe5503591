package documents

import (
	"fmt"
	"strings"
)

// Mime types of Google Drive items and common export targets.
const (
	MimeTypeFolder      = "application/vnd.google-apps.folder"
	MimeTypeDocument    = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet = "application/vnd.google-apps.spreadsheet"

	MimeTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypePDF  = "application/pdf"
	MimeTypeText = "text/plain"
	MimeTypeCSV  = "text/csv"

	// DefaultExportMimeType is used by Export and Update when no mime type is given.
	DefaultExportMimeType = MimeTypeDocx
)

// Kind is the variant of an Entity.
type Kind int

const (
	// KindFile is any Drive item without a more specific variant.
	KindFile Kind = iota
	KindFolder
	KindDocument
	KindSpreadsheet
)

var kindNames = map[Kind]string{
	KindFile:        "file",
	KindFolder:      "folder",
	KindDocument:    "document",
	KindSpreadsheet: "spreadsheet",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MimeType returns the fixed mime type of the kind, or "" for KindFile.
func (k Kind) MimeType() string {
	switch k {
	case KindFolder:
		return MimeTypeFolder
	case KindDocument:
		return MimeTypeDocument
	case KindSpreadsheet:
		return MimeTypeSpreadsheet
	default:
		return ""
	}
}

// KindForMimeType maps a mime type to its kind. Unknown and empty mime
// types map to KindFile.
func KindForMimeType(mime string) Kind {
	switch mime {
	case MimeTypeFolder:
		return KindFolder
	case MimeTypeDocument:
		return KindDocument
	case MimeTypeSpreadsheet:
		return KindSpreadsheet
	default:
		return KindFile
	}
}

// ParseKind parses a kind name as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KindFile, fmt.Errorf("unknown kind %q (want file, folder, document or spreadsheet)", s)
}
