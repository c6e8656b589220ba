package logging

import (
	"fmt"
	"strings"
)

// LegacyAdapter adapts the structured logger to printf-style logging
// interfaces, such as the server's Logger.
type LegacyAdapter struct {
	logger Logger
}

// NewLegacyAdapter creates a new legacy adapter
func NewLegacyAdapter(logger Logger) *LegacyAdapter {
	return &LegacyAdapter{logger: logger}
}

// Debug logs a debug message using printf-style formatting
func (a *LegacyAdapter) Debug(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fields := extractFieldsFromMessage(&formatted)
	a.logger.Debug(formatted, fields...)
}

// Info logs an info message using printf-style formatting
func (a *LegacyAdapter) Info(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fields := extractFieldsFromMessage(&formatted)
	a.logger.Info(formatted, fields...)
}

// Warn logs a warning message using printf-style formatting
func (a *LegacyAdapter) Warn(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fields := extractFieldsFromMessage(&formatted)
	a.logger.Warn(formatted, fields...)
}

// Error logs an error message using printf-style formatting
func (a *LegacyAdapter) Error(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fields := extractFieldsFromMessage(&formatted)
	a.logger.Error(formatted, fields...)
}

// extractFieldsFromMessage attempts to extract structured fields from a message
// It looks for patterns like "key=value" or "key: value" and creates fields
func extractFieldsFromMessage(msg *string) []Field {
	fields := []Field{}

	// Common patterns to extract
	patterns := []struct {
		prefix string
		field  string
	}{
		{"Method=", "method"},
		{"method=", "method"},
		{"ID=", "id"},
		{"id=", "id"},
		{"error=", "error_detail"},
		{"Error=", "error_detail"},
	}

	for _, pattern := range patterns {
		if idx := strings.Index(*msg, pattern.prefix); idx >= 0 {
			// Find the value after the prefix
			start := idx + len(pattern.prefix)
			end := start

			// Find the end of the value (space, comma, or end of string)
			for end < len(*msg) && (*msg)[end] != ' ' && (*msg)[end] != ',' && (*msg)[end] != '\n' {
				end++
			}

			if end > start {
				value := (*msg)[start:end]
				fields = append(fields, String(pattern.field, value))
			}
		}
	}

	return fields
}
