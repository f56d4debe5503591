// Package documents is an object model over Google Drive and Google Sheets.
//
// Remote files are represented by Entity values: a generic File, a Folder,
// a Document and a Spreadsheet. The variant is picked from the item's mime
// type by FromItem. Entities are identified by their remote id only; two
// entities with the same id are equal no matter what name or mime type
// they carry.
//
// Entities are obtained from a Manager, which resolves service-account
// credentials, binds the Drive and Sheets services lazily and translates
// filter criteria into the Drive query language:
//
//	docs := documents.NewManager(documents.KindDocument)
//	found, err := docs.Filter(ctx, documents.Criteria{"name": "report"})
//
// Every method that touches the network performs exactly one remote call
// (listing calls follow result pages) and nothing is cached except the
// sheet list of a Spreadsheet, which the caller invalidates explicitly.
// Entities built standalone with NewFile, NewFolder, NewDocument or
// NewSpreadsheet carry no credentials and fail with ErrUnbound.
package documents
