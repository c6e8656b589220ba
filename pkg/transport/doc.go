// Package transport provides the stdio transport layer for the Voicemeeter
// MCP server.
//
// The server is launched as a child process by an MCP client and speaks
// newline-delimited JSON-RPC 2.0 over its standard pipes: requests arrive on
// stdin, responses and notifications leave on stdout, and all logging goes to
// stderr so the protocol stream stays clean.
//
// # Usage
//
// Transports are created from a TransportConfig:
//
//	config := transport.DefaultTransportConfig(transport.TransportTypeStdio)
//	config.Observability.LogLevel = "debug"
//	t, err := transport.NewTransport(config)
//	if err != nil {
//	    return err
//	}
//	if err := t.Initialize(ctx); err != nil {
//	    return err
//	}
//	err = t.Start(ctx) // blocks until EOF or cancellation
//
// NewStdioTransport is a shortcut that binds directly to os.Stdin and
// os.Stdout with default settings.
//
// # Middleware
//
// Middleware wraps a Transport to add cross-cutting behavior. The built-in
// ObservabilityMiddleware collects per-method counters and duration stats and
// logs request outcomes to stderr; it is enabled through
// config.Features.EnableObservability. Custom middleware implements the
// Middleware interface and composes with ChainMiddleware.
//
// # Handler Types
//
//   - RequestHandler: processes incoming request messages and returns a response
//   - NotificationHandler: processes incoming notification messages (one-way)
//   - ProgressHandler: processes progress notifications for long-running operations
//   - ErrorHandler: processes transport-level errors
package transport
