package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContextMiddleware adds request context to all operations
type ContextMiddleware struct {
	logger Logger
}

// NewContextMiddleware creates a new context middleware
func NewContextMiddleware(logger Logger) *ContextMiddleware {
	return &ContextMiddleware{logger: logger}
}

// WrapHandler wraps a handler function with context logging
func (m *ContextMiddleware) WrapHandler(operation string, handler func(context.Context, interface{}) (interface{}, error)) func(context.Context, interface{}) (interface{}, error) {
	return func(ctx context.Context, params interface{}) (interface{}, error) {
		// Extract request ID from context
		requestID := RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
			ctx = ContextWithRequestID(ctx, requestID)
		}

		// Create logger with context
		logger := m.logger.WithFields(
			String("request_id", requestID),
			String("operation", operation),
		)

		// Log operation start
		logger.Debug("Operation started", Any("params", params))

		// Track duration
		start := time.Now()

		// Call handler
		result, err := handler(ctx, params)

		// Log operation completion
		duration := time.Since(start)
		if err != nil {
			logger.WithError(err).WithFields(
				Duration("duration", duration),
			).Error("Operation failed")
		} else {
			logger.WithFields(
				Duration("duration", duration),
			).Debug("Operation completed")
		}

		return result, err
	}
}

