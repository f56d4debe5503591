// Package resources provides MCP resources for exposing server and Drive data.
// Resources are read-only data sources that MCP clients can fetch without a
// tool call, such as the effective server settings or the content of the
// Drive root folder.
package resources
