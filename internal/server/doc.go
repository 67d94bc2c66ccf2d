// Package server implements the MCP (Model Context Protocol) server that
// exposes the paint-by-numbers pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - pbn_convert: Convert an image (file path or base64) into a flat
//     image, an outline mask, an outlined composite and a palette strip
//   - pbn_convert_payload: The same conversion driven by a delimited
//     "<base64>|<numColors>|<includeOutline>" string
//   - pbn_palette: Quantize only and return the palette with coverage
//   - image_load: Load an image and report its size and working size
//
// # Image Caching
//
// Images referenced by path are decoded once and kept for the lifetime of
// the process, so repeated conversions of one file with different color
// counts skip disk I/O. Pass "refresh": true to re-read a file that changed
// on disk.
//
// # Error Handling
//
// Protocol problems (unknown method, malformed arguments, unknown tool)
// are JSON-RPC errors. A conversion that fails on its input is a normal
// result with "success": false and a message, so clients can show it to
// the user directly.
//
// # Configuration
//
// Server-wide defaults come from PBN_* environment variables (see
// ConfigFromEnv). Tool arguments override them per request.
package server
