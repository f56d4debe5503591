// Package drive_tools provides MCP (Model Context Protocol) tools for Google Drive items.
//
// Every item is returned with its kind (file, folder, document or
// spreadsheet), derived from the mime type, and a browser URL.
//
// Available tools:
//   - drive_get_file: Get a file, folder, document or spreadsheet by id
//   - drive_list_files: List items matching name, full-text, folder and kind filters
//   - drive_list_parents: List the folders containing an item
//   - drive_list_children: List the items inside a folder
//   - drive_copy_file: Copy an item (write)
//   - drive_delete_file: Delete one or more items (write)
//   - drive_move_to_folder: Add a folder as a parent of an item (write)
//
// Write tools are only registered when the server is not read-only. All
// tools accept an optional 'credentials' argument naming a service-account
// key file to use instead of the server's configured one.
//
// Example tool usage:
//
//	drive_list_files({
//	  kind: "spreadsheet",
//	  name: "budget",
//	  folder: "0B1x..."
//	})
package drive_tools
