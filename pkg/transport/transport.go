// Package transport carries JSON-RPC 2.0 messages between the Voicemeeter MCP
// server and its client. The only wire is stdio: stdout belongs to the
// protocol, stderr to logging. Middleware (observability counters) can be
// layered over the base transport through TransportConfig.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// Transport defines the core interface for moving MCP messages.
type Transport interface {
	// Initialize prepares the transport for use
	Initialize(ctx context.Context) error

	// Core communication methods
	SendRequest(ctx context.Context, method string, params interface{}) (interface{}, error)
	SendNotification(ctx context.Context, method string, params interface{}) error

	// Batch processing methods
	SendBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error)
	HandleBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error)

	// Handler registration
	RegisterRequestHandler(method string, handler RequestHandler)
	RegisterNotificationHandler(method string, handler NotificationHandler)
	RegisterProgressHandler(id interface{}, handler ProgressHandler)
	UnregisterProgressHandler(id interface{})

	// Lifecycle management
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Message handling
	HandleResponse(response *protocol.Response)
	HandleRequest(ctx context.Context, request *protocol.Request) (*protocol.Response, error)
	HandleNotification(ctx context.Context, notification *protocol.Notification) error

	// Utilities
	GenerateID() string
	GetRequestIDPrefix() string
	GetNextID() int64
	Cleanup()
}

// Handlers for various transport operations

// RequestHandler handles incoming requests
type RequestHandler func(ctx context.Context, params interface{}) (interface{}, error)

// NotificationHandler handles incoming notifications
type NotificationHandler func(ctx context.Context, params interface{}) error

// ProgressHandler handles progress notifications
type ProgressHandler func(params interface{}) error

// ReceiveHandler processes raw incoming message data
type ReceiveHandler func(data []byte)

// ErrorHandler handles transport errors
type ErrorHandler func(err error)

// TransportType identifies the base transport implementation
type TransportType string

const (
	// TransportTypeStdio is the only transport this server speaks. The
	// session to the mixer is single-occupancy and local, and the MCP
	// client launches the server as a child process.
	TransportTypeStdio TransportType = "stdio"
)

// TransportConfig is the unified configuration for transport creation.
type TransportConfig struct {
	// Type of transport to create
	Type TransportType `json:"type"`

	// Testing support (custom reader/writer instead of stdin/stdout)
	StdioReader io.Reader `json:"-"`
	StdioWriter io.Writer `json:"-"`

	// Feature configuration
	Features FeatureConfig `json:"features"`

	// Component configurations
	Observability ObservabilityConfig `json:"observability"`
	Performance   PerformanceConfig   `json:"performance"`
}

// FeatureConfig controls which middleware are enabled
type FeatureConfig struct {
	EnableObservability bool `json:"enable_observability"`
}

// ObservabilityConfig for in-process metrics and logging
type ObservabilityConfig struct {
	EnableMetrics bool   `json:"enable_metrics"`
	EnableLogging bool   `json:"enable_logging"`
	LogLevel      string `json:"log_level"`
	MetricsPrefix string `json:"metrics_prefix"`
}

// PerformanceConfig for performance tuning
type PerformanceConfig struct {
	BufferSize     int           `json:"buffer_size"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// Errors
var (
	ErrUnsupportedMethod        = errors.New("unsupported method")
	ErrUnsupportedTransportType = errors.New("unsupported transport type")
)

// NewTransport creates a new transport with the specified configuration
func NewTransport(config TransportConfig) (Transport, error) {
	if config.Type != TransportTypeStdio {
		return nil, ErrUnsupportedTransportType
	}

	base, err := newStdioTransport(config)
	if err != nil {
		return nil, err
	}

	builder := NewMiddlewareBuilder(config)
	middleware := builder.Build()

	return ChainMiddleware(middleware...).Wrap(base), nil
}

// BaseTransport provides common functionality for transport implementations:
// handler registration, request/response correlation and ID generation.
type BaseTransport struct {
	sync.RWMutex
	requestHandlers      map[string]RequestHandler
	notificationHandlers map[string]NotificationHandler
	progressHandlers     map[interface{}]ProgressHandler
	nextID               int64
	pendingRequests      map[string]chan *protocol.Response
	requestIDPrefix      string
}

// NewBaseTransport creates a new BaseTransport
func NewBaseTransport() *BaseTransport {
	return &BaseTransport{
		requestHandlers:      make(map[string]RequestHandler),
		notificationHandlers: make(map[string]NotificationHandler),
		progressHandlers:     make(map[interface{}]ProgressHandler),
		nextID:               1,
		pendingRequests:      make(map[string]chan *protocol.Response),
		requestIDPrefix:      "req",
	}
}

// HandleRequest dispatches an incoming request to its registered handler.
// Panics and handler errors become error responses, never transport failures:
// the device adapter must keep answering even when a single call blows up.
func (t *BaseTransport) HandleRequest(ctx context.Context, request *protocol.Request) (resp *protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = &protocol.Response{
				ID: request.ID,
				Error: &protocol.Error{
					Code:    protocol.InternalError,
					Message: fmt.Sprintf("Internal server error processing %s", request.Method),
				},
			}
			err = nil
		}
	}()

	t.RLock()
	handler, ok := t.requestHandlers[request.Method]
	t.RUnlock()

	if !ok {
		return nil, mcperrors.CreateMethodNotFoundError(request.Method, request.ID)
	}

	result, handlerErr := handler(ctx, request.Params)
	if handlerErr != nil {
		// Preserve the handler's error code on the wire; a bare Go error
		// still degrades to an internal error.
		return &protocol.Response{
			ID:    request.ID,
			Error: mcperrors.ToJSONRPCError(handlerErr),
		}, nil
	}

	resultBytes, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return &protocol.Response{
			ID:    request.ID,
			Error: &protocol.Error{Code: protocol.InternalError, Message: fmt.Sprintf("failed to marshal result: %v", marshalErr)},
		}, nil
	}

	return &protocol.Response{
		ID:     request.ID,
		Result: resultBytes,
	}, nil
}

// HandleResponse delivers an incoming response to the pending request waiting
// for it, matched by ID.
func (t *BaseTransport) HandleResponse(response *protocol.Response) {
	t.Lock()
	ch, ok := t.pendingRequests[fmt.Sprintf("%v", response.ID)]
	if ok {
		ch <- response
		delete(t.pendingRequests, fmt.Sprintf("%v", response.ID))
	}
	t.Unlock()
}

// HandleNotification dispatches an incoming notification with panic recovery.
func (t *BaseTransport) HandleNotification(ctx context.Context, notification *protocol.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error processing notification %s: %v", notification.Method, r)
		}
	}()

	t.RLock()
	handler, ok := t.notificationHandlers[notification.Method]
	t.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, notification.Method)
	}

	return handler(ctx, notification.Params)
}

// WaitForResponse blocks until the response with the given ID arrives or the
// context is cancelled.
func (t *BaseTransport) WaitForResponse(ctx context.Context, id string) (*protocol.Response, error) {
	t.Lock()
	ch := make(chan *protocol.Response, 1)
	t.pendingRequests[id] = ch
	t.Unlock()

	select {
	case response := <-ch:
		return response, nil
	case <-ctx.Done():
		t.Lock()
		delete(t.pendingRequests, id)
		t.Unlock()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, mcperrors.ResponseTimeout("stdio", id, 0)
		}
		return nil, ctx.Err()
	}
}

// RegisterRequestHandler registers a handler for incoming requests
func (t *BaseTransport) RegisterRequestHandler(method string, handler RequestHandler) {
	t.Lock()
	defer t.Unlock()
	t.requestHandlers[method] = handler
}

// RegisterNotificationHandler registers a handler for incoming notifications
func (t *BaseTransport) RegisterNotificationHandler(method string, handler NotificationHandler) {
	t.Lock()
	defer t.Unlock()
	t.notificationHandlers[method] = handler
}

// RegisterProgressHandler registers a handler for progress updates
func (t *BaseTransport) RegisterProgressHandler(id interface{}, handler ProgressHandler) {
	t.Lock()
	defer t.Unlock()
	t.progressHandlers[id] = handler
}

// UnregisterProgressHandler removes a progress handler
func (t *BaseTransport) UnregisterProgressHandler(id interface{}) {
	t.Lock()
	defer t.Unlock()
	delete(t.progressHandlers, id)
}

// GetNextID returns the next unique ID
func (t *BaseTransport) GetNextID() int64 {
	t.Lock()
	defer t.Unlock()
	id := t.nextID
	t.nextID++
	return id
}

// GenerateID generates a unique request ID
func (t *BaseTransport) GenerateID() string {
	return fmt.Sprintf("%s_%d", t.requestIDPrefix, t.GetNextID())
}

// GetRequestIDPrefix returns the prefix used for request IDs
func (t *BaseTransport) GetRequestIDPrefix() string {
	return t.requestIDPrefix
}

// HandleBatchRequest processes a batch of requests and returns a batch response
func (t *BaseTransport) HandleBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error) {
	if batch == nil || batch.Len() == 0 {
		return nil, fmt.Errorf("batch request is empty")
	}

	responses := make([]*protocol.Response, 0)

	for _, item := range *batch {
		switch v := item.(type) {
		case *protocol.Request:
			response, err := t.HandleRequest(ctx, v)
			if err != nil {
				errorResp := &protocol.Response{
					JSONRPCMessage: protocol.JSONRPCMessage{JSONRPC: protocol.JSONRPCVersion},
					ID:             v.ID,
					Error: &protocol.Error{
						Code:    protocol.InternalError,
						Message: err.Error(),
					},
				}
				responses = append(responses, errorResp)
			} else if response != nil {
				responses = append(responses, response)
			}
		case *protocol.Notification:
			// Notifications don't generate responses in JSON-RPC 2.0
			_ = t.HandleNotification(ctx, v)
		}
	}

	// All-notification batches get an empty response per JSON-RPC 2.0
	if len(responses) == 0 {
		return &protocol.JSONRPCBatchResponse{}, nil
	}

	return protocol.NewJSONRPCBatchResponse(responses...), nil
}

// SendBatchRequest requires a concrete transport; BaseTransport has no wire.
func (t *BaseTransport) SendBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error) {
	if batch == nil || batch.Len() == 0 {
		return nil, fmt.Errorf("batch request is empty")
	}
	return nil, fmt.Errorf("SendBatchRequest requires transport-specific implementation")
}

// Cleanup cleans up transport resources
func (t *BaseTransport) Cleanup() {
	t.Lock()
	defer t.Unlock()

	for _, ch := range t.pendingRequests {
		close(ch)
	}
	t.pendingRequests = make(map[string]chan *protocol.Response)
}

// DefaultTransportConfig returns a transport configuration with sensible defaults
func DefaultTransportConfig(transportType TransportType) TransportConfig {
	return TransportConfig{
		Type: transportType,
		Features: FeatureConfig{
			EnableObservability: true,
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableLogging: true,
			LogLevel:      "info",
			MetricsPrefix: "voicemeeter_mcp",
		},
		Performance: PerformanceConfig{
			BufferSize:     8192,
			RequestTimeout: 30 * time.Second,
		},
	}
}
