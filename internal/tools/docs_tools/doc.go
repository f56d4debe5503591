// Package docs_tools provides MCP tools for Google Docs documents.
//
// This package registers tools that allow AI assistants to:
//   - Export a document in another format (docx, pdf, plain text, ...)
//   - Replace a document's content with an uploaded file
//
// Text formats are returned inline. Binary formats are returned base64
// encoded.
package docs_tools
