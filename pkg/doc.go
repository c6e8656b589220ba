// Package pkg groups the building blocks of the Voicemeeter MCP server.
//
// # Sub-packages
//
//   - voicemeeter: gateway and session over the Voicemeeter Remote API
//   - preset: preset file formats, diffing, templates, backups and the
//     watched preset library
//   - server: the MCP server and its tools/resources providers
//   - protocol: core protocol types and messages
//   - transport: the newline-delimited stdio transport
//   - errors: structured error taxonomy with JSON-RPC conversion
//   - logging: leveled structured logging (text and JSON formatters)
//   - observability: Prometheus metrics and OpenTelemetry tracing
//   - utils: shared test and schema utilities
//
// The root package assembles these into a runnable server; see the
// repository root and cmd/voicemeeter-mcp.
package pkg
