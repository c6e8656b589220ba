// Package voicemeetermcp implements a Model Context Protocol server that
// controls the Voicemeeter virtual audio mixer on Windows.
//
// The server speaks JSON-RPC 2.0 over stdio and exposes the mixer through
// MCP tools (connect/disconnect, launch, parameter get/set, level snapshots,
// preset loading) and read-only resources (status, version, per-strip and
// per-bus state, audio levels, the preset catalog).
//
// # Layout
//
//   - pkg/voicemeeter: the Remote API binding (DLL gateway, session, fake
//     mixer for tests and simulate mode)
//   - pkg/preset: preset files (vendor XML and JSON), diffs, templates,
//     backups, and the watched preset library
//   - pkg/server, pkg/transport, pkg/protocol: the MCP protocol machinery
//   - pkg/errors, pkg/logging, pkg/observability: error taxonomy,
//     structured logging, metrics and tracing
//   - cmd/voicemeeter-mcp: the CLI entry point
//
// # Usage
//
// The root package wires everything together:
//
//	app, err := voicemeetermcp.New(voicemeetermcp.Config{
//	    PresetDir: "presets",
//	})
//	if err != nil {
//	    // handle error
//	}
//	if err := app.Run(ctx); err != nil {
//	    // handle error
//	}
//
// Run blocks until the context is cancelled. Logs go to stderr; stdout
// belongs to the protocol. Off Windows, set Config.Simulate to develop
// against an in-memory mixer.
package voicemeetermcp
