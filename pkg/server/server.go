package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/transport"
)

// Server represents an MCP server
type Server struct {
	transport      transport.Transport
	name           string
	version        string
	description    string
	homepage       string
	capabilities   map[string]bool
	featureOptions map[string]interface{}

	// Server feature implementations
	toolsProvider     ToolsProvider
	resourcesProvider ResourcesProvider

	// Server state
	initialized     bool
	initializedLock sync.RWMutex
	clientInfo      *protocol.ClientInfo
	ctx             context.Context
	cancel          context.CancelFunc

	// Request tracking for cancellation
	activeRequests     map[string]context.CancelFunc
	activeRequestsLock sync.RWMutex

	// Logger
	logger Logger
}

// Logger defines the interface for logging
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// DefaultLogger is a simple implementation of Logger using structured logging
type DefaultLogger struct {
	logger logging.Logger
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() *DefaultLogger {
	logger := logging.New(nil, logging.NewTextFormatter()).WithFields(
		logging.String("component", "mcp-server"),
	)
	logger.SetLevel(logging.InfoLevel)
	return &DefaultLogger{logger: logger}
}

func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	logging.NewLegacyAdapter(l.logger).Debug(msg, args...)
}

func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	logging.NewLegacyAdapter(l.logger).Info(msg, args...)
}

func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	logging.NewLegacyAdapter(l.logger).Warn(msg, args...)
}

func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	logging.NewLegacyAdapter(l.logger).Error(msg, args...)
}

// ServerOption defines options for creating a server
type ServerOption func(*Server)

// WithName sets the server name
func WithName(name string) ServerOption {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithDescription sets the server description
func WithDescription(description string) ServerOption {
	return func(s *Server) {
		s.description = description
	}
}

// WithHomepage sets the server homepage
func WithHomepage(homepage string) ServerOption {
	return func(s *Server) {
		s.homepage = homepage
	}
}

// WithCapability enables a server capability
func WithCapability(capability protocol.CapabilityType, enabled bool) ServerOption {
	return func(s *Server) {
		s.capabilities[string(capability)] = enabled
	}
}

// WithFeatureOptions sets feature options for the server
func WithFeatureOptions(options map[string]interface{}) ServerOption {
	return func(s *Server) {
		for k, v := range options {
			s.featureOptions[k] = v
		}
	}
}

// WithToolsProvider sets the tools provider
func WithToolsProvider(provider ToolsProvider) ServerOption {
	return func(s *Server) {
		s.toolsProvider = provider
		s.capabilities[string(protocol.CapabilityTools)] = true
	}
}

// WithResourcesProvider sets the resources provider
func WithResourcesProvider(provider ResourcesProvider) ServerOption {
	return func(s *Server) {
		s.resourcesProvider = provider
		s.capabilities[string(protocol.CapabilityResources)] = true
	}
}

// WithLogger sets the logger
func WithLogger(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStructuredLogger sets a structured logger
func WithStructuredLogger(logger logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = &DefaultLogger{logger: logger}
	}
}

// New creates a new MCP server
func New(t transport.Transport, options ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		transport:      t,
		name:           "voicemeeter-mcp",
		version:        "1.0.0",
		capabilities:   make(map[string]bool),
		featureOptions: make(map[string]interface{}),
		logger:         NewDefaultLogger(),
		ctx:            ctx,
		cancel:         cancel,
		activeRequests: make(map[string]context.CancelFunc),
	}

	// Apply options
	for _, option := range options {
		option(server)
	}

	// Every request handler runs under the context middleware, which
	// assigns a request ID and logs start and completion.
	structured := logging.New(nil, logging.NewTextFormatter())
	if dl, ok := server.logger.(*DefaultLogger); ok {
		structured = dl.logger
	}
	requestContext := logging.NewContextMiddleware(structured)
	register := func(method string, handler transport.RequestHandler) {
		t.RegisterRequestHandler(method, requestContext.WrapHandler(method, handler))
	}

	// Register request handlers
	register(protocol.MethodInitialize, server.handleInitialize)
	t.RegisterNotificationHandler(protocol.MethodInitialized, server.handleInitialized)
	register(protocol.MethodCancel, server.handleCancel)
	register(protocol.MethodPing, server.handlePing)
	register(protocol.MethodSetLogLevel, server.handleSetLogLevel)

	// Register feature handlers based on capabilities
	if server.capabilities[string(protocol.CapabilityTools)] {
		register(protocol.MethodListTools, server.handleListTools)
		register(protocol.MethodCallTool, server.handleCallTool)
	}

	if server.capabilities[string(protocol.CapabilityResources)] {
		register(protocol.MethodListResources, server.handleListResources)
		register(protocol.MethodReadResource, server.handleReadResource)
	}

	return server
}

// Start initializes and starts the server (blocking)
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Initialize(ctx); err != nil {
		return mcperrors.TransportError("server", "initialization", err).
			WithContext(&mcperrors.Context{
				Component: "Server",
				Operation: "Start",
				Timestamp: time.Now(),
			}).
			WithDetail(fmt.Sprintf("Transport type: %T", s.transport))
	}

	s.logger.Info("Server starting with capabilities: %v", s.capabilities)

	// Start transport (blocking)
	return s.transport.Start(ctx)
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	s.cancel()

	// Cancel all active requests
	s.activeRequestsLock.Lock()
	for _, cancelFunc := range s.activeRequests {
		cancelFunc()
	}
	s.activeRequests = make(map[string]context.CancelFunc)
	s.activeRequestsLock.Unlock()

	return s.transport.Stop(context.Background())
}

// NotifyToolsChanged notifies the client about tool changes
func (s *Server) NotifyToolsChanged(added []protocol.Tool, removed []string, modified []protocol.Tool) error {
	if err := s.requireInitialized("NotifyToolsChanged"); err != nil {
		return err
	}

	params := &protocol.ToolsChangedParams{
		Added:    added,
		Removed:  removed,
		Modified: modified,
	}

	return s.transport.SendNotification(context.Background(), protocol.MethodToolsChanged, params)
}

// NotifyResourcesChanged notifies the client about resource changes
func (s *Server) NotifyResourcesChanged(uri string, resources []protocol.Resource, removed []string, added []protocol.Resource, modified []protocol.Resource) error {
	if err := s.requireInitialized("NotifyResourcesChanged"); err != nil {
		return err
	}

	params := &protocol.ResourcesChangedParams{
		URI:       uri,
		Resources: resources,
		Removed:   removed,
		Added:     added,
		Modified:  modified,
	}

	return s.transport.SendNotification(context.Background(), protocol.MethodResourcesChanged, params)
}

// SendLog sends a log message to the client
func (s *Server) SendLog(level protocol.LogLevel, message string, source string, data interface{}) error {
	if err := s.requireInitialized("SendLog"); err != nil {
		return err
	}

	var dataJSON json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return mcperrors.CreateInternalError("marshal_log_data", err).
				WithContext(&mcperrors.Context{
					Component: "Server",
					Operation: "SendLog",
					Timestamp: time.Now(),
				}).WithDetail(fmt.Sprintf("Log level: %s, data type: %T", level, data))
		}
		dataJSON = bytes
	}

	params := &protocol.LogParams{
		Level:   level,
		Message: message,
		Source:  source,
		Time:    time.Now(),
		Data:    dataJSON,
	}

	return s.transport.SendNotification(context.Background(), protocol.MethodLog, params)
}

// SendProgress sends a progress notification to the client
func (s *Server) SendProgress(id interface{}, message string, percent float64, completed bool) error {
	if err := s.requireInitialized("SendProgress"); err != nil {
		return err
	}

	params := &protocol.ProgressParams{
		ID:        id,
		Message:   message,
		Percent:   percent,
		Completed: completed,
	}

	return s.transport.SendNotification(context.Background(), protocol.MethodProgress, params)
}

// isInitialized checks if the server is initialized
func (s *Server) isInitialized() bool {
	s.initializedLock.RLock()
	defer s.initializedLock.RUnlock()
	return s.initialized
}

// getClientInfo safely returns the client info
func (s *Server) getClientInfo() *protocol.ClientInfo {
	s.initializedLock.RLock()
	defer s.initializedLock.RUnlock()
	return s.clientInfo
}

// Helper functions for error handling

// createRequestContext creates error context for request handling
func (s *Server) createRequestContext(method string, requestID interface{}) *mcperrors.Context {
	return &mcperrors.Context{
		RequestID: fmt.Sprintf("%v", requestID),
		Method:    method,
		Component: "Server",
		Operation: method,
		Timestamp: time.Now(),
	}
}

// validateParams validates and parses request parameters with structured errors
func (s *Server) validateParams(params interface{}, target interface{}, method string) error {
	if params == nil {
		return mcperrors.MissingParameter("params").WithContext(
			s.createRequestContext(method, nil),
		)
	}

	data, err := json.Marshal(params)
	if err != nil {
		return mcperrors.CreateInternalError("marshal_params", err).
			WithContext(s.createRequestContext(method, nil)).
			WithDetail("Failed to process request parameters")
	}

	if err := json.Unmarshal(data, target); err != nil {
		return mcperrors.InvalidParameter("params", params, fmt.Sprintf("%T", target)).
			WithContext(s.createRequestContext(method, nil)).
			WithDetail(err.Error())
	}

	return nil
}

// requireInitialized checks if server is initialized and returns structured error
func (s *Server) requireInitialized(operation string) error {
	if !s.isInitialized() {
		return mcperrors.ServerNotReady("Server must be initialized before this operation").
			WithContext(&mcperrors.Context{
				Component: "Server",
				Operation: operation,
				Timestamp: time.Now(),
			})
	}
	return nil
}

// requireProvider checks if a provider is configured and returns structured error
func (s *Server) requireProvider(providerType string, provider interface{}, method string) error {
	if provider == nil {
		return mcperrors.OperationFailed(method, fmt.Sprintf("%s provider not configured", providerType)).
			WithContext(s.createRequestContext(method, nil))
	}
	return nil
}

// providerError wraps a provider failure with request context. MCPErrors pass
// through unchanged so the device error taxonomy survives to the client.
func (s *Server) providerError(providerType, operation, method string, err error) error {
	if mcpErr, ok := mcperrors.AsMCPError(err); ok {
		return mcpErr
	}
	return mcperrors.WrapErrorf(err, mcperrors.CodeOperationFailed,
		mcperrors.CategoryProvider, mcperrors.SeverityError,
		"%s provider failed during %s", providerType, operation).
		WithContext(s.createRequestContext(method, nil))
}

// trackRequest adds a request to the active requests map with a cancellation function
func (s *Server) trackRequest(requestID string, cancelFunc context.CancelFunc) {
	s.activeRequestsLock.Lock()
	defer s.activeRequestsLock.Unlock()
	s.activeRequests[requestID] = cancelFunc
	s.logger.Debug("Tracking request ID: %s", requestID)
}

// completeRequest removes a request from the active requests map
func (s *Server) completeRequest(requestID string) {
	s.activeRequestsLock.Lock()
	defer s.activeRequestsLock.Unlock()
	if cancelFunc, exists := s.activeRequests[requestID]; exists {
		delete(s.activeRequests, requestID)
		s.logger.Debug("Completed request ID: %s", requestID)
		// Don't call cancelFunc here, the request completed normally
		_ = cancelFunc
	}
}

// cancelRequest cancels a specific request by ID
func (s *Server) cancelRequest(requestID string) bool {
	s.activeRequestsLock.Lock()
	defer s.activeRequestsLock.Unlock()
	if cancelFunc, exists := s.activeRequests[requestID]; exists {
		cancelFunc()
		delete(s.activeRequests, requestID)
		s.logger.Info("Cancelled request ID: %s", requestID)
		return true
	}
	s.logger.Warn("Request ID not found for cancellation: %s", requestID)
	return false
}

// Request handlers

func (s *Server) handleInitialize(ctx context.Context, params interface{}) (interface{}, error) {
	var initParams protocol.InitializeParams
	if err := s.validateParams(params, &initParams, protocol.MethodInitialize); err != nil {
		return nil, err
	}

	s.logger.Info("Initializing connection with client: %s %s", initParams.Name, initParams.Version)

	s.initializedLock.Lock()
	s.clientInfo = initParams.ClientInfo
	s.initialized = true
	s.initializedLock.Unlock()

	result := &protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolRevision,
		Name:            s.name,
		Version:         s.version,
		Capabilities:    s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:        s.name,
			Version:     s.version,
			Description: s.description,
			Homepage:    s.homepage,
		},
		FeatureOptions: s.featureOptions,
	}

	return result, nil
}

func (s *Server) handleInitialized(ctx context.Context, params interface{}) error {
	s.initializedLock.Lock()
	s.initialized = true
	s.initializedLock.Unlock()

	s.logger.Info("Connection initialized")
	return nil
}

func (s *Server) handleCancel(ctx context.Context, params interface{}) (interface{}, error) {
	var cancelParams protocol.CancelParams
	if err := s.validateParams(params, &cancelParams, protocol.MethodCancel); err != nil {
		return nil, err
	}

	// Convert the request ID to string for consistency
	requestID := fmt.Sprintf("%v", cancelParams.ID)

	cancelled := s.cancelRequest(requestID)

	return &protocol.CancelResult{Cancelled: cancelled}, nil
}

func (s *Server) handlePing(ctx context.Context, params interface{}) (interface{}, error) {
	var pingParams protocol.PingParams
	if err := s.validateParams(params, &pingParams, protocol.MethodPing); err != nil {
		return nil, err
	}

	timestamp := pingParams.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixNano() / int64(time.Millisecond)
	}

	return &protocol.PingResult{Timestamp: timestamp}, nil
}

func (s *Server) handleSetLogLevel(ctx context.Context, params interface{}) (interface{}, error) {
	if !s.capabilities[string(protocol.CapabilityLogging)] {
		return nil, mcperrors.CapabilityRequired(string(protocol.CapabilityLogging)).
			WithContext(s.createRequestContext(protocol.MethodSetLogLevel, nil))
	}

	var logParams protocol.SetLogLevelParams
	if err := s.validateParams(params, &logParams, protocol.MethodSetLogLevel); err != nil {
		return nil, err
	}

	s.logger.Info("Setting log level to: %s", logParams.Level)

	return &protocol.SetLogLevelResult{Success: true}, nil
}

func (s *Server) handleListTools(ctx context.Context, params interface{}) (interface{}, error) {
	if err := s.requireProvider("tools", s.toolsProvider, protocol.MethodListTools); err != nil {
		return nil, err
	}

	var listParams protocol.ListToolsParams
	if err := s.validateParams(params, &listParams, protocol.MethodListTools); err != nil {
		return nil, err
	}

	pagination := protocol.PaginationParams{
		Limit:  listParams.Limit,
		Cursor: listParams.Cursor,
	}

	tools, totalCount, nextCursor, hasMore, err := s.toolsProvider.ListTools(ctx, listParams.Category, &pagination)
	if err != nil {
		return nil, s.providerError("tools", "ListTools", protocol.MethodListTools, err)
	}

	return &protocol.ListToolsResult{
		Tools: tools,
		PaginationResult: protocol.PaginationResult{
			TotalCount: totalCount,
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	}, nil
}

func (s *Server) handleCallTool(ctx context.Context, params interface{}) (interface{}, error) {
	if err := s.requireProvider("tools", s.toolsProvider, protocol.MethodCallTool); err != nil {
		return nil, err
	}

	var callParams protocol.CallToolParams
	if err := s.validateParams(params, &callParams, protocol.MethodCallTool); err != nil {
		return nil, err
	}

	// Call the tool with the context, which may be cancelled
	result, err := s.toolsProvider.CallTool(ctx, callParams.Name, callParams.Input, callParams.Context)
	if err != nil {
		// Check if the error is due to context cancellation
		if ctx.Err() == context.Canceled {
			return &protocol.CallToolResult{
				Error: "Tool call was cancelled",
			}, nil
		}
		// Return a valid result with an error message rather than failing the request
		return &protocol.CallToolResult{
			Error: err.Error(),
		}, nil
	}

	return result, nil
}

func (s *Server) handleListResources(ctx context.Context, params interface{}) (interface{}, error) {
	if err := s.requireProvider("resources", s.resourcesProvider, protocol.MethodListResources); err != nil {
		return nil, err
	}

	var listParams protocol.ListResourcesParams
	if err := s.validateParams(params, &listParams, protocol.MethodListResources); err != nil {
		return nil, err
	}

	pagination := protocol.PaginationParams{
		Limit:  listParams.Limit,
		Cursor: listParams.Cursor,
	}

	resources, templates, totalCount, nextCursor, hasMore, err := s.resourcesProvider.ListResources(ctx, listParams.URI, listParams.Recursive, &pagination)
	if err != nil {
		return nil, s.providerError("resources", "ListResources", protocol.MethodListResources, err)
	}

	return &protocol.ListResourcesResult{
		Resources: resources,
		Templates: templates,
		PaginationResult: protocol.PaginationResult{
			TotalCount: totalCount,
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	}, nil
}

func (s *Server) handleReadResource(ctx context.Context, params interface{}) (interface{}, error) {
	if err := s.requireProvider("resources", s.resourcesProvider, protocol.MethodReadResource); err != nil {
		return nil, err
	}

	var readParams protocol.ReadResourceParams
	if err := s.validateParams(params, &readParams, protocol.MethodReadResource); err != nil {
		return nil, err
	}

	contents, err := s.resourcesProvider.ReadResource(ctx, readParams.URI, readParams.TemplateParams, readParams.Range)
	if err != nil {
		return nil, s.providerError("resources", "ReadResource", protocol.MethodReadResource, err)
	}

	return &protocol.ReadResourceResult{
		Contents: *contents,
	}, nil
}

// Utility functions

// parseParams converts loosely typed params into the target struct.
func parseParams(params interface{}, target interface{}) error {
	if params == nil {
		return fmt.Errorf("params cannot be nil")
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal params: %w", err)
	}

	return nil
}
