package errors

import (
	"fmt"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// ToJSONRPCResponse converts any error to a JSON-RPC response
func ToJSONRPCResponse(err error, requestID interface{}) (*protocol.Response, error) {
	if err == nil {
		return nil, fmt.Errorf("cannot create error response from nil error")
	}

	// Check if it's already an MCPError
	if mcpErr, ok := AsMCPError(err); ok {
		return protocol.NewErrorResponse(requestID, mcpErr.Code(), mcpErr.Message(), mcpErr.Data())
	}

	// For non-MCP errors, wrap as internal error
	return protocol.NewErrorResponse(requestID, CodeInternalError, err.Error(), nil)
}

// ToJSONRPCError converts any error to a JSON-RPC error object
func ToJSONRPCError(err error) *protocol.Error {
	if err == nil {
		return nil
	}

	// Check if it's already an MCPError
	if mcpErr, ok := AsMCPError(err); ok {
		return &protocol.Error{
			Code:    mcpErr.Code(),
			Message: mcpErr.Message(),
			Data:    mcpErr.Data(),
		}
	}

	// For non-MCP errors, wrap as internal error
	return &protocol.Error{
		Code:    CodeInternalError,
		Message: err.Error(),
		Data:    nil,
	}
}

// FromJSONRPCError converts a JSON-RPC error to an MCPError
func FromJSONRPCError(jsonrpcErr *protocol.Error) MCPError {
	if jsonrpcErr == nil {
		return nil
	}

	// Get error info from registry
	category := GetErrorCodeCategory(jsonrpcErr.Code)
	severity := GetErrorCodeSeverity(jsonrpcErr.Code)

	err := NewError(jsonrpcErr.Code, jsonrpcErr.Message, category, severity)
	if jsonrpcErr.Data != nil {
		err = err.WithData(jsonrpcErr.Data)
	}

	return err
}

// CreateMethodNotFoundError creates a standardized method not found error
func CreateMethodNotFoundError(method string, requestID interface{}) MCPError {
	context := &Context{
		Method:    method,
		RequestID: fmt.Sprintf("%v", requestID),
	}

	return NewError(
		CodeMethodNotFound,
		fmt.Sprintf("Method not found: %s", method),
		CategoryProtocol,
		SeverityError,
	).WithContext(context)
}

// CreateInternalError creates a standardized internal error with optional context
func CreateInternalError(operation string, cause error) MCPError {
	message := "Internal error"
	if operation != "" {
		message = fmt.Sprintf("Internal error during %s", operation)
	}

	err := WrapError(
		cause,
		CodeInternalError,
		message,
		CategoryInternal,
		SeverityError,
	)

	if operation != "" {
		context := &Context{
			Operation: operation,
		}
		err = err.WithContext(context)
	}

	return err
}
