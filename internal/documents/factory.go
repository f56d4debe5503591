package documents

import (
	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"
)

// FromItem builds the entity variant matching the item's mime type.
// Unknown and missing mime types give a *File. The entity uses b for
// remote calls; b may be nil.
func FromItem(item *drive.File, b *Binding) Entity {
	if item == nil {
		return &File{kind: KindFile, binding: b}
	}
	return newEntity(KindForMimeType(item.MimeType), item, b)
}

// FromSpreadsheet builds a Spreadsheet from a Sheets API item. A nil item
// gives a spreadsheet with no id.
func FromSpreadsheet(item *sheets.Spreadsheet, b *Binding) *Spreadsheet {
	if item == nil {
		return &Spreadsheet{Document: Document{File: File{
			mimeType: MimeTypeSpreadsheet,
			kind:     KindSpreadsheet,
			binding:  b,
		}}}
	}
	s := &Spreadsheet{Document: Document{File: File{
		id:       item.SpreadsheetId,
		mimeType: MimeTypeSpreadsheet,
		kind:     KindSpreadsheet,
		binding:  b,
	}}}
	if item.Properties != nil {
		s.name = item.Properties.Title
	}
	return s
}

// newEntity builds the variant for kind regardless of the item's mime type.
func newEntity(kind Kind, item *drive.File, b *Binding) Entity {
	f := File{
		id:       item.Id,
		name:     item.Name,
		mimeType: item.MimeType,
		kind:     kind,
		binding:  b,
	}

	switch kind {
	case KindFolder:
		return &Folder{File: f}
	case KindDocument:
		return &Document{File: f}
	case KindSpreadsheet:
		return &Spreadsheet{Document: Document{File: f}}
	default:
		f.kind = KindFile
		return &f
	}
}

// ref builds a lazy entity of kind for id without a remote call.
func ref(kind Kind, id string, b *Binding) Entity {
	return newEntity(kind, &drive.File{Id: id, MimeType: kind.MimeType()}, b)
}
