package transport

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// newTestStdioTransport builds a stdio transport wired to the given reader and
// writer instead of the process pipes.
func newTestStdioTransport(t *testing.T, reader io.Reader, writer io.Writer) *StdioTransport {
	t.Helper()
	tr, err := newStdioTransport(TransportConfig{
		Type:        TransportTypeStdio,
		StdioReader: reader,
		StdioWriter: writer,
	})
	if err != nil {
		t.Fatalf("newStdioTransport failed: %v", err)
	}
	return tr
}

// TestMessage creates a test protocol message
func TestMessage(method string, params interface{}) *protocol.Request {
	paramsJSON, _ := json.Marshal(params)
	return &protocol.Request{
		JSONRPCMessage: protocol.JSONRPCMessage{
			JSONRPC: protocol.JSONRPCVersion,
		},
		ID:     "test-" + method,
		Method: method,
		Params: json.RawMessage(paramsJSON),
	}
}
