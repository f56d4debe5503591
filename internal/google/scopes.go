package google

import (
	drive "google.golang.org/api/drive/v3"
	sheets "google.golang.org/api/sheets/v4"
)

// DefaultScopes are the OAuth scopes requested for service-account credentials.
//
// The scopes provide access to:
//   - Google Drive: full access (files, folders, export, upload)
//   - Google Sheets: full access (values and structural updates)
var DefaultScopes = []string{
	drive.DriveScope,
	sheets.SpreadsheetsScope,
}
