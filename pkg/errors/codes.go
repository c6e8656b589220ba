package errors

// JSON-RPC 2.0 Standard Error Codes
// These map to the existing protocol error codes
const (
	// ParseError indicates invalid JSON was received by the server
	CodeParseError int = -32700

	// InvalidRequest indicates the JSON sent is not a valid Request object
	CodeInvalidRequest int = -32600

	// MethodNotFound indicates the method does not exist / is not available
	CodeMethodNotFound int = -32601

	// InvalidParams indicates invalid method parameter(s)
	CodeInvalidParams int = -32602

	// InternalError indicates internal JSON-RPC error
	CodeInternalError int = -32603
)

// MCP-Specific Error Codes
// These map to existing MCP protocol error codes and extend them
const (
	// Server Initialization Errors (-32000 to -32099)
	CodeServerInitError int = -32000 // Error during server initialization
	CodeServerNotReady  int = -32001 // Server not ready to handle requests

	// Resource Errors (-32200 to -32299)
	CodeResourceNotFound    int = -32200 // Requested resource not found
	CodeResourceUnavailable int = -32201 // Resource temporarily unavailable
	CodeResourceConflict    int = -32202 // Resource conflict (e.g., already exists)
	CodeResourceLocked      int = -32203 // Resource is locked

	// Operation Errors (-32300 to -32399)
	CodeOperationCancelled    int = -32300 // Operation was cancelled
	CodeOperationTimeout      int = -32301 // Operation timed out
	CodeOperationFailed       int = -32302 // Operation failed
	CodeOperationNotSupported int = -32303 // Operation not supported

	// Capability Errors (-32400 to -32499)
	CodeInvalidCapability  int = -32400 // Invalid or unsupported capability
	CodeCapabilityRequired int = -32401 // Required capability not enabled
	CodeCapabilityMismatch int = -32402 // Capability version mismatch

	// Transport and Session Errors (-32500 to -32599)
	CodeTransportError    int = -32500 // Generic transport error
	CodeConnectionFailed  int = -32501 // Failed to establish connection
	CodeConnectionLost    int = -32502 // Connection lost during operation
	CodeConnectionTimeout int = -32503 // Connection timed out
	CodeNotConnected      int = -32504 // No active session for the requested operation

	// Device Errors (-32650 to -32699)
	CodeDeviceNotInstalled int = -32650 // Remote API library not installed
	CodeDeviceUnavailable  int = -32651 // Device present but not responding
	CodeDeviceError        int = -32652 // Device rejected or failed an operation

	// Validation Errors (-32750 to -32799)
	CodeValidationError   int = -32750 // Generic validation error
	CodeMissingParameter  int = -32751 // Required parameter missing
	CodeInvalidParameter  int = -32752 // Parameter has invalid value
	CodeParameterTooLarge int = -32753 // Parameter value too large
	CodeParameterTooSmall int = -32754 // Parameter value too small
	CodeInvalidFormat     int = -32755 // Parameter has invalid format

	// Protocol Errors (-32900 to -32999)
	CodeProtocolError      int = -32900 // Generic protocol error
	CodeVersionMismatch    int = -32901 // Protocol version mismatch
	CodeInvalidSequence    int = -32902 // Invalid message sequence
	CodeUnsupportedFeature int = -32903 // Unsupported protocol feature
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

// errorCodeRegistry maps error codes to their information
var errorCodeRegistry = map[int]ErrorCodeInfo{
	// JSON-RPC Standard Errors
	CodeParseError:     {CodeParseError, "ParseError", "Invalid JSON was received", CategoryProtocol, SeverityError},
	CodeInvalidRequest: {CodeInvalidRequest, "InvalidRequest", "Invalid Request object", CategoryProtocol, SeverityError},
	CodeMethodNotFound: {CodeMethodNotFound, "MethodNotFound", "Method does not exist", CategoryProtocol, SeverityError},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", CategoryValidation, SeverityError},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal JSON-RPC error", CategoryInternal, SeverityError},

	// Server Errors
	CodeServerInitError: {CodeServerInitError, "ServerInitError", "Server initialization failed", CategoryInternal, SeverityCritical},
	CodeServerNotReady:  {CodeServerNotReady, "ServerNotReady", "Server not ready", CategoryInternal, SeverityError},

	// Resource Errors
	CodeResourceNotFound:    {CodeResourceNotFound, "ResourceNotFound", "Resource not found", CategoryNotFound, SeverityError},
	CodeResourceUnavailable: {CodeResourceUnavailable, "ResourceUnavailable", "Resource unavailable", CategoryNotFound, SeverityWarning},
	CodeResourceConflict:    {CodeResourceConflict, "ResourceConflict", "Resource conflict", CategoryValidation, SeverityError},
	CodeResourceLocked:      {CodeResourceLocked, "ResourceLocked", "Resource locked", CategoryValidation, SeverityWarning},

	// Operation Errors
	CodeOperationCancelled:    {CodeOperationCancelled, "OperationCancelled", "Operation cancelled", CategoryCancelled, SeverityInfo},
	CodeOperationTimeout:      {CodeOperationTimeout, "OperationTimeout", "Operation timed out", CategoryTimeout, SeverityError},
	CodeOperationFailed:       {CodeOperationFailed, "OperationFailed", "Operation failed", CategoryInternal, SeverityError},
	CodeOperationNotSupported: {CodeOperationNotSupported, "OperationNotSupported", "Operation not supported", CategoryValidation, SeverityError},

	// Capability Errors
	CodeInvalidCapability:  {CodeInvalidCapability, "InvalidCapability", "Invalid capability", CategoryValidation, SeverityError},
	CodeCapabilityRequired: {CodeCapabilityRequired, "CapabilityRequired", "Required capability not enabled", CategoryValidation, SeverityError},
	CodeCapabilityMismatch: {CodeCapabilityMismatch, "CapabilityMismatch", "Capability version mismatch", CategoryValidation, SeverityError},

	// Transport and Session Errors
	CodeTransportError:    {CodeTransportError, "TransportError", "Transport error", CategoryTransport, SeverityError},
	CodeConnectionFailed:  {CodeConnectionFailed, "ConnectionFailed", "Connection failed", CategoryTransport, SeverityCritical},
	CodeConnectionLost:    {CodeConnectionLost, "ConnectionLost", "Connection lost", CategoryTransport, SeverityError},
	CodeConnectionTimeout: {CodeConnectionTimeout, "ConnectionTimeout", "Connection timeout", CategoryTransport, SeverityError},
	CodeNotConnected:      {CodeNotConnected, "NotConnected", "No active session", CategoryTransport, SeverityError},

	// Device Errors
	CodeDeviceNotInstalled: {CodeDeviceNotInstalled, "DeviceNotInstalled", "Remote API library not installed", CategoryProvider, SeverityError},
	CodeDeviceUnavailable:  {CodeDeviceUnavailable, "DeviceUnavailable", "Device not responding", CategoryProvider, SeverityError},
	CodeDeviceError:        {CodeDeviceError, "DeviceError", "Device operation failed", CategoryProvider, SeverityError},

	// Validation Errors
	CodeValidationError:   {CodeValidationError, "ValidationError", "Validation error", CategoryValidation, SeverityError},
	CodeMissingParameter:  {CodeMissingParameter, "MissingParameter", "Required parameter missing", CategoryValidation, SeverityError},
	CodeInvalidParameter:  {CodeInvalidParameter, "InvalidParameter", "Invalid parameter value", CategoryValidation, SeverityError},
	CodeParameterTooLarge: {CodeParameterTooLarge, "ParameterTooLarge", "Parameter value too large", CategoryValidation, SeverityError},
	CodeParameterTooSmall: {CodeParameterTooSmall, "ParameterTooSmall", "Parameter value too small", CategoryValidation, SeverityError},
	CodeInvalidFormat:     {CodeInvalidFormat, "InvalidFormat", "Invalid parameter format", CategoryValidation, SeverityError},

	// Protocol Errors
	CodeProtocolError:      {CodeProtocolError, "ProtocolError", "Protocol error", CategoryProtocol, SeverityError},
	CodeVersionMismatch:    {CodeVersionMismatch, "VersionMismatch", "Protocol version mismatch", CategoryProtocol, SeverityError},
	CodeInvalidSequence:    {CodeInvalidSequence, "InvalidSequence", "Invalid message sequence", CategoryProtocol, SeverityError},
	CodeUnsupportedFeature: {CodeUnsupportedFeature, "UnsupportedFeature", "Unsupported protocol feature", CategoryProtocol, SeverityError},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code int) (ErrorCodeInfo, bool) {
	info, exists := errorCodeRegistry[code]
	return info, exists
}

// GetErrorCodeName returns the name of an error code
func GetErrorCodeName(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Name
	}
	return "UnknownError"
}

// GetErrorCodeCategory returns the category of an error code
func GetErrorCodeCategory(code int) Category {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Category
	}
	return CategoryInternal
}

// GetErrorCodeSeverity returns the severity of an error code
func GetErrorCodeSeverity(code int) Severity {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Severity
	}
	return SeverityError
}

