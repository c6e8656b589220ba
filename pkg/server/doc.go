// Package server implements the server-side of the Model Context Protocol (MCP).
//
// The server package provides the components needed to expose Voicemeeter
// control to MCP clients over a transport. It includes:
//
//   - Server: The main implementation that manages the connection and handles client requests
//   - Providers: Interfaces for implementing the tools and resources capabilities
//
// # Server Capabilities
//
// The server implements two client-facing capabilities:
//
//   - Tools: Allow clients to invoke operations (connect, set parameters, read levels)
//   - Resources: Allow clients to read structured state (status, topology, presets)
//
// # Creating a Server
//
// To create an MCP server with basic capabilities:
//
//	import (
//	    "context"
//	    "encoding/json"
//
//	    "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
//	    "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/server"
//	    "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/transport"
//	)
//
//	func main() {
//	    // Create a transport for the server
//	    t := transport.NewStdioTransport()
//
//	    // Create a provider and register a tool with its handler
//	    toolsProvider := server.NewBaseToolsProvider()
//	    toolsProvider.RegisterToolWithHandler(protocol.Tool{
//	        Name:        "hello",
//	        Description: "Says hello",
//	    }, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
//	        return &protocol.CallToolResult{
//	            Result: json.RawMessage(`{"greeting":"Hello, World!"}`),
//	        }, nil
//	    })
//
//	    // Create and configure the server
//	    srv := server.New(t,
//	        server.WithName("ExampleServer"),
//	        server.WithVersion("1.0.0"),
//	        server.WithDescription("An example MCP server"),
//	        server.WithToolsProvider(toolsProvider),
//	    )
//
//	    // Start the server (blocks until context is canceled)
//	    ctx := context.Background()
//	    if err := srv.Start(ctx); err != nil {
//	        // Handle error
//	    }
//	}
//
// # Provider Interfaces
//
// The server uses providers to implement its capabilities:
//
//   - ToolsProvider: Manages tools that clients can invoke
//   - ResourcesProvider: Manages resources that clients can access
//
// BaseToolsProvider and BaseResourcesProvider are registry-backed
// implementations: tools dispatch to per-tool handlers, and resource reads go
// through a single configurable ResourceReader.
package server
