package errors

import (
	"fmt"
)

// ResourceErrorData contains structured data for resource-related errors
type ResourceErrorData struct {
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	URI          string `json:"uri,omitempty"`
	Available    bool   `json:"available"`
	Reason       string `json:"reason,omitempty"`
}

// DeviceErrorData contains structured data for device-related errors.
// Status carries the raw Voicemeeter Remote API return code when one exists.
type DeviceErrorData struct {
	Device    string `json:"device"`
	Operation string `json:"operation,omitempty"`
	Status    int64  `json:"status,omitempty"`
	Installed bool   `json:"installed"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CapabilityErrorData contains structured data for capability-related errors
type CapabilityErrorData struct {
	Capability string `json:"capability"`
	Required   bool   `json:"required"`
	Supported  bool   `json:"supported"`
	Version    string `json:"version,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// OperationErrorData contains structured data for operation-related errors
type OperationErrorData struct {
	Operation string `json:"operation"`
	Component string `json:"component,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Retryable bool   `json:"retryable"`
}

// Resource Errors

// ResourceNotFound creates an error for resources that cannot be found
func ResourceNotFound(resourceType, resourceID string) MCPError {
	return NewError(
		CodeResourceNotFound,
		fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
		CategoryNotFound,
		SeverityError,
	).WithData(&ResourceErrorData{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Available:    false,
	})
}

// ResourceNotFoundByURI creates an error for resources not found by URI
func ResourceNotFoundByURI(uri string) MCPError {
	return NewError(
		CodeResourceNotFound,
		fmt.Sprintf("Resource at URI '%s' not found", uri),
		CategoryNotFound,
		SeverityError,
	).WithData(&ResourceErrorData{
		URI:       uri,
		Available: false,
	})
}

// ResourceUnavailable creates an error for temporarily unavailable resources
func ResourceUnavailable(resourceType, resourceID, reason string) MCPError {
	return NewError(
		CodeResourceUnavailable,
		fmt.Sprintf("%s '%s' is temporarily unavailable: %s", resourceType, resourceID, reason),
		CategoryNotFound,
		SeverityWarning,
	).WithData(&ResourceErrorData{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Available:    false,
		Reason:       reason,
	})
}

// ResourceConflict creates an error for resource conflicts (e.g., already exists)
func ResourceConflict(resourceType, resourceID, reason string) MCPError {
	return NewError(
		CodeResourceConflict,
		fmt.Sprintf("%s '%s' conflict: %s", resourceType, resourceID, reason),
		CategoryValidation,
		SeverityError,
	).WithData(&ResourceErrorData{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Available:    true,
		Reason:       reason,
	})
}

// Device Errors
//
// These cover failures reported by the Voicemeeter Remote API itself, as
// opposed to session errors (NotConnected, ConnectionLost) which describe
// the state of the client/device link.

// DeviceNotInstalled creates an error for a missing Remote API library
func DeviceNotInstalled(reason string) MCPError {
	return NewError(
		CodeDeviceNotInstalled,
		fmt.Sprintf("Voicemeeter Remote API is not installed: %s", reason),
		CategoryProvider,
		SeverityError,
	).WithData(&DeviceErrorData{
		Device:    "voicemeeter",
		Installed: false,
		Available: false,
		Reason:    reason,
	})
}

// DeviceUnavailable creates an error for a device that is installed but not responding
func DeviceUnavailable(operation, reason string) MCPError {
	return NewError(
		CodeDeviceUnavailable,
		fmt.Sprintf("Voicemeeter is unavailable during %s: %s", operation, reason),
		CategoryProvider,
		SeverityError,
	).WithData(&DeviceErrorData{
		Device:    "voicemeeter",
		Operation: operation,
		Installed: true,
		Available: false,
		Reason:    reason,
	})
}

// DeviceFailure creates an error for an operation the device rejected or failed.
// The raw Remote API status code is preserved in the error data.
func DeviceFailure(operation string, status int64) MCPError {
	return NewError(
		CodeDeviceError,
		fmt.Sprintf("Voicemeeter operation '%s' failed with status %d", operation, status),
		CategoryProvider,
		SeverityError,
	).WithData(&DeviceErrorData{
		Device:    "voicemeeter",
		Operation: operation,
		Status:    status,
		Installed: true,
		Available: true,
		Reason:    fmt.Sprintf("remote API returned %d", status),
	})
}

// DeviceFailureWithCause wraps an underlying error as a device failure
func DeviceFailureWithCause(operation string, cause error) MCPError {
	message := fmt.Sprintf("Voicemeeter operation '%s' failed", operation)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	return WrapError(
		cause,
		CodeDeviceError,
		message,
		CategoryProvider,
		SeverityError,
	).WithData(&DeviceErrorData{
		Device:    "voicemeeter",
		Operation: operation,
		Installed: true,
		Available: true,
		Reason:    cause.Error(),
	})
}

// Capability Errors

// InvalidCapability creates an error for invalid or unsupported capabilities
func InvalidCapability(capability string, reason string) MCPError {
	return NewError(
		CodeInvalidCapability,
		fmt.Sprintf("Invalid capability '%s': %s", capability, reason),
		CategoryValidation,
		SeverityError,
	).WithData(&CapabilityErrorData{
		Capability: capability,
		Supported:  false,
		Reason:     reason,
	})
}

// CapabilityRequired creates an error for missing required capabilities
func CapabilityRequired(capability string) MCPError {
	return NewError(
		CodeCapabilityRequired,
		fmt.Sprintf("Required capability '%s' is not enabled", capability),
		CategoryValidation,
		SeverityError,
	).WithData(&CapabilityErrorData{
		Capability: capability,
		Required:   true,
		Supported:  false,
	})
}

// CapabilityMismatch creates an error for capability version mismatches
func CapabilityMismatch(capability, expectedVersion, actualVersion string) MCPError {
	return NewError(
		CodeCapabilityMismatch,
		fmt.Sprintf("Capability '%s' version mismatch: expected %s, got %s", capability, expectedVersion, actualVersion),
		CategoryValidation,
		SeverityError,
	).WithData(&CapabilityErrorData{
		Capability: capability,
		Version:    actualVersion,
		Supported:  true,
		Reason:     fmt.Sprintf("expected %s, got %s", expectedVersion, actualVersion),
	})
}

// Operation Errors

// OperationCancelled creates an error for cancelled operations
func OperationCancelled(operation string) MCPError {
	return NewError(
		CodeOperationCancelled,
		fmt.Sprintf("Operation '%s' was cancelled", operation),
		CategoryCancelled,
		SeverityInfo,
	).WithData(&OperationErrorData{
		Operation: operation,
		Retryable: true,
		Reason:    "cancelled by user or system",
	})
}

// OperationTimeout creates an error for operations that timed out
func OperationTimeout(operation string, timeout string) MCPError {
	return NewError(
		CodeOperationTimeout,
		fmt.Sprintf("Operation '%s' timed out after %s", operation, timeout),
		CategoryTimeout,
		SeverityError,
	).WithData(&OperationErrorData{
		Operation: operation,
		Retryable: true,
		Reason:    fmt.Sprintf("timeout after %s", timeout),
	})
}

// OperationFailed creates an error for failed operations
func OperationFailed(operation string, reason string) MCPError {
	return NewError(
		CodeOperationFailed,
		fmt.Sprintf("Operation '%s' failed: %s", operation, reason),
		CategoryInternal,
		SeverityError,
	).WithData(&OperationErrorData{
		Operation: operation,
		Retryable: false,
		Reason:    reason,
	})
}

// OperationNotSupported creates an error for unsupported operations
func OperationNotSupported(operation string, component string) MCPError {
	message := fmt.Sprintf("Operation '%s' is not supported", operation)
	if component != "" {
		message = fmt.Sprintf("Operation '%s' is not supported by %s", operation, component)
	}

	return NewError(
		CodeOperationNotSupported,
		message,
		CategoryValidation,
		SeverityError,
	).WithData(&OperationErrorData{
		Operation: operation,
		Component: component,
		Retryable: false,
		Reason:    "not supported",
	})
}

// Server Errors

// ServerInitError creates an error for server initialization failures
func ServerInitError(reason string, cause error) MCPError {
	return WrapError(
		cause,
		CodeServerInitError,
		fmt.Sprintf("Server initialization failed: %s", reason),
		CategoryInternal,
		SeverityCritical,
	)
}

// ServerNotReady creates an error when the server is not ready to handle requests
func ServerNotReady(reason string) MCPError {
	return NewError(
		CodeServerNotReady,
		fmt.Sprintf("Server not ready: %s", reason),
		CategoryInternal,
		SeverityError,
	)
}

// Protocol Errors

// ProtocolError creates a generic protocol error
func ProtocolError(reason string) MCPError {
	return NewError(
		CodeProtocolError,
		fmt.Sprintf("Protocol error: %s", reason),
		CategoryProtocol,
		SeverityError,
	)
}

// VersionMismatch creates an error for protocol version mismatches
func VersionMismatch(expected, actual string) MCPError {
	return NewError(
		CodeVersionMismatch,
		fmt.Sprintf("Protocol version mismatch: expected %s, got %s", expected, actual),
		CategoryProtocol,
		SeverityError,
	)
}

// InvalidSequence creates an error for invalid message sequences
func InvalidSequence(expected, actual string) MCPError {
	return NewError(
		CodeInvalidSequence,
		fmt.Sprintf("Invalid message sequence: expected %s, got %s", expected, actual),
		CategoryProtocol,
		SeverityError,
	)
}

// UnsupportedFeature creates an error for unsupported protocol features
func UnsupportedFeature(feature string) MCPError {
	return NewError(
		CodeUnsupportedFeature,
		fmt.Sprintf("Unsupported protocol feature: %s", feature),
		CategoryProtocol,
		SeverityError,
	)
}
