package errors

import (
	"fmt"
)

// ValidationErrorData contains structured data for validation errors
type ValidationErrorData struct {
	Field      string      `json:"field"`
	Value      interface{} `json:"value,omitempty"`
	Expected   string      `json:"expected"`
	Got        string      `json:"got,omitempty"`
	Constraint string      `json:"constraint,omitempty"`
}

// ParameterErrorData contains structured data for parameter-related errors
type ParameterErrorData struct {
	Parameter string      `json:"parameter"`
	Value     interface{} `json:"value,omitempty"`
	Type      string      `json:"type,omitempty"`
	Required  bool        `json:"required,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// ValidationError creates a generic validation error
func ValidationError(message string) MCPError {
	return NewError(CodeValidationError, message, CategoryValidation, SeverityError)
}

// ValidationErrorf creates a generic validation error with formatting
func ValidationErrorf(format string, args ...interface{}) MCPError {
	return NewErrorf(CodeValidationError, CategoryValidation, SeverityError, format, args...)
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(param string, value interface{}, expected string) MCPError {
	var got string
	if value != nil {
		got = fmt.Sprintf("%T", value)
		if str, ok := value.(string); ok && len(str) < 100 {
			got = fmt.Sprintf("%s(%q)", got, str)
		}
	} else {
		got = "nil"
	}

	return NewError(
		CodeInvalidParameter,
		fmt.Sprintf("Invalid parameter '%s': expected %s, got %s", param, expected, got),
		CategoryValidation,
		SeverityError,
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Type:      got,
		Reason:    fmt.Sprintf("expected %s", expected),
	})
}

// MissingParameter creates an error for missing required parameters
func MissingParameter(param string) MCPError {
	return NewError(
		CodeMissingParameter,
		fmt.Sprintf("Missing required parameter: %s", param),
		CategoryValidation,
		SeverityError,
	).WithData(&ParameterErrorData{
		Parameter: param,
		Required:  true,
	})
}

// ParameterTooLarge creates an error for parameter values that are too large
func ParameterTooLarge(param string, value interface{}, maxValue interface{}) MCPError {
	return NewError(
		CodeParameterTooLarge,
		fmt.Sprintf("Parameter '%s' value %v exceeds maximum allowed value %v", param, value, maxValue),
		CategoryValidation,
		SeverityError,
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Reason:    fmt.Sprintf("exceeds maximum %v", maxValue),
	})
}

// ParameterTooSmall creates an error for parameter values that are too small
func ParameterTooSmall(param string, value interface{}, minValue interface{}) MCPError {
	return NewError(
		CodeParameterTooSmall,
		fmt.Sprintf("Parameter '%s' value %v is below minimum allowed value %v", param, value, minValue),
		CategoryValidation,
		SeverityError,
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Reason:    fmt.Sprintf("below minimum %v", minValue),
	})
}

// InvalidFormat creates an error for incorrectly formatted parameters
func InvalidFormat(param string, value interface{}, expectedFormat string) MCPError {
	return NewError(
		CodeInvalidFormat,
		fmt.Sprintf("Parameter '%s' has invalid format: expected %s", param, expectedFormat),
		CategoryValidation,
		SeverityError,
	).WithData(&ParameterErrorData{
		Parameter: param,
		Value:     value,
		Reason:    fmt.Sprintf("expected format: %s", expectedFormat),
	})
}

// InvalidEnum creates an error for invalid enumeration values
func InvalidEnum(field string, value interface{}, validValues []string) MCPError {
	return NewError(
		CodeValidationError,
		fmt.Sprintf("Invalid value for field '%s': must be one of %v", field, validValues),
		CategoryValidation,
		SeverityError,
	).WithData(&ValidationErrorData{
		Field:      field,
		Value:      value,
		Expected:   fmt.Sprintf("one of %v", validValues),
		Constraint: "enumeration",
	})
}

// StringTooLong creates an error for strings that exceed maximum length
func StringTooLong(field string, value string, maxLength int) MCPError {
	return NewError(
		CodeValidationError,
		fmt.Sprintf("Field '%s' exceeds maximum length of %d characters", field, maxLength),
		CategoryValidation,
		SeverityError,
	).WithData(&ValidationErrorData{
		Field:      field,
		Value:      value,
		Expected:   fmt.Sprintf("≤ %d characters", maxLength),
		Got:        fmt.Sprintf("%d characters", len(value)),
		Constraint: "max_length",
	})
}

