// Package protocol defines the core types and structures used in the MCP protocol.
//
// The Model Context Protocol (MCP) is a JSON-RPC based communication protocol that
// enables AI models to interact with their environment through a standardized interface.
// This package contains the Go type definitions for all protocol messages and structures
// exchanged by the Voicemeeter MCP server.
//
// # Package Organization
//
// The protocol package is organized into several files:
//
//   - jsonrpc.go: JSON-RPC 2.0 request, response, and notification envelopes
//   - jsonrpc_batch.go: JSON-RPC 2.0 batch request and response handling
//   - mcp.go: Constants for method names, capabilities, log levels, etc.
//   - tools.go: Tool definitions and the listTools/callTool message types
//   - resources.go: Resource definitions and the listResources/readResource message types
//   - types.go: Handler signatures shared between transport and server
//
// # Capability Types
//
// The server negotiates capabilities during initialization:
//
//   - tools: Allows clients to invoke operations on the server
//   - resources: Allows clients to access structured data from the server
//   - logging: Allows clients and servers to exchange log messages
//
// # Message Flow
//
// The protocol follows a standard flow:
//
//  1. Client connects to server and sends an initialize request
//  2. Server responds with capabilities and server info
//  3. Client sends an initialized notification
//  4. Client and server exchange requests and responses based on capabilities
//  5. Client disconnects when done
//
// # Error Handling
//
// The protocol defines standard error codes and structures for error reporting.
// All errors include a code, message, and optional data for additional context.
// Server-specific codes are registered in pkg/errors.
//
// # Example Messages
//
// Initialize request:
//
//	{
//	    "jsonrpc": "2.0",
//	    "id": 1,
//	    "method": "initialize",
//	    "params": {
//	        "protocolVersion": "2025-03-26",
//	        "name": "ExampleClient",
//	        "version": "1.0.0",
//	        "capabilities": {}
//	    }
//	}
//
// Initialize response:
//
//	{
//	    "jsonrpc": "2.0",
//	    "id": 1,
//	    "result": {
//	        "protocolVersion": "2025-03-26",
//	        "name": "voicemeeter-mcp",
//	        "version": "1.0.0",
//	        "capabilities": {
//	            "tools": true,
//	            "resources": true
//	        },
//	        "serverInfo": {
//	            "name": "voicemeeter-mcp",
//	            "version": "1.0.0",
//	            "description": "MCP server for Voicemeeter audio control"
//	        }
//	    }
//	}
package protocol
