// Package cmd implements the command-line interface for gdocs.
//
// This package provides the following commands:
//   - files: Get, list, copy, delete and move Drive items
//   - docs: Export documents to local files and replace their content
//   - sheets: Read, write and clear spreadsheet ranges and manage tabs
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
