// Package common provides shared utilities for MCP tool implementations:
// argument parsing, per-call credential selection, result rendering and
// the instrumentation wrapper every tool handler is registered through.
package common
