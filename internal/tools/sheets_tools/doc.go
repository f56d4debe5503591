// Package sheets_tools provides MCP tools for Google Sheets spreadsheets.
//
// Ranges use A1 notation. A range without a sheet name refers to the first
// tab, unless the 'sheet' argument names a tab, in which case bare ranges
// are qualified with that tab's title.
//
// Available tools:
//   - sheets_list_tabs: List the tabs of a spreadsheet
//   - sheets_read: Read one range
//   - sheets_batch_read: Read several ranges in one call
//   - sheets_create: Create a spreadsheet (write)
//   - sheets_write: Write rows into a range (write)
//   - sheets_clear: Clear one or more ranges (write)
//   - sheets_add_tab: Add a tab (write)
//   - sheets_delete_tab: Delete a tab (write)
//
// Values are passed and returned as JSON arrays of rows, e.g.
// [["Name", "Total"], ["a", 1]].
package sheets_tools
