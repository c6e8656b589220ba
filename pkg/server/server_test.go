package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/transport"
)

// mockTransport implements the transport.Transport interface for testing
type mockTransport struct {
	initialized          bool
	initializeErr        error
	startErr             error
	stopErr              error
	sendRequestResponse  interface{}
	sendRequestErr       error
	sentRequests         map[string]interface{}
	sentNotifications    map[string]interface{}
	requestHandlers      map[string]transport.RequestHandler
	notificationHandlers map[string]transport.NotificationHandler
	progressHandlers     map[string]transport.ProgressHandler
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		sentRequests:         make(map[string]interface{}),
		sentNotifications:    make(map[string]interface{}),
		requestHandlers:      make(map[string]transport.RequestHandler),
		notificationHandlers: make(map[string]transport.NotificationHandler),
		progressHandlers:     make(map[string]transport.ProgressHandler),
	}
}

func (m *mockTransport) Initialize(ctx context.Context) error {
	if m.initializeErr != nil {
		return m.initializeErr
	}
	m.initialized = true
	return nil
}

func (m *mockTransport) Start(ctx context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockTransport) Stop(ctx context.Context) error {
	return m.stopErr
}

func (m *mockTransport) SendRequest(ctx context.Context, method string, params interface{}) (interface{}, error) {
	m.sentRequests[method] = params
	return m.sendRequestResponse, m.sendRequestErr
}

func (m *mockTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	m.sentNotifications[method] = params
	return nil
}

func (m *mockTransport) HandleBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error) {
	return &protocol.JSONRPCBatchResponse{}, nil
}

func (m *mockTransport) SendBatchRequest(ctx context.Context, batch *protocol.JSONRPCBatchRequest) (*protocol.JSONRPCBatchResponse, error) {
	return &protocol.JSONRPCBatchResponse{}, nil
}

func (m *mockTransport) RegisterRequestHandler(method string, handler transport.RequestHandler) {
	m.requestHandlers[method] = handler
}

func (m *mockTransport) RegisterNotificationHandler(method string, handler transport.NotificationHandler) {
	m.notificationHandlers[method] = handler
}

func (m *mockTransport) RegisterProgressHandler(id interface{}, handler transport.ProgressHandler) {
	m.progressHandlers[fmt.Sprintf("%v", id)] = handler
}

func (m *mockTransport) UnregisterProgressHandler(id interface{}) {
	delete(m.progressHandlers, fmt.Sprintf("%v", id))
}

func (m *mockTransport) GenerateID() string {
	return "test-id"
}

func (m *mockTransport) HandleResponse(response *protocol.Response) {
}

func (m *mockTransport) HandleRequest(ctx context.Context, request *protocol.Request) (*protocol.Response, error) {
	if handler, ok := m.requestHandlers[request.Method]; ok {
		result, err := handler(ctx, request.Params)
		if err != nil {
			return nil, err
		}
		return protocol.NewResponse(request.ID, result)
	}
	return nil, errors.New("method not found")
}

func (m *mockTransport) HandleNotification(ctx context.Context, notification *protocol.Notification) error {
	if handler, ok := m.notificationHandlers[notification.Method]; ok {
		return handler(ctx, notification.Params)
	}
	return errors.New("notification handler not found")
}

func (m *mockTransport) GetRequestIDPrefix() string {
	return "test"
}

func (m *mockTransport) GetNextID() int64 {
	return 1
}

func (m *mockTransport) Cleanup() {
}

// mockToolsProvider returns canned results for the tools handlers
type mockToolsProvider struct {
	tools []protocol.Tool
	err   error
}

func (m *mockToolsProvider) ListTools(ctx context.Context, category string, pagination *protocol.PaginationParams) ([]protocol.Tool, int, string, bool, error) {
	if m.err != nil {
		return nil, 0, "", false, m.err
	}
	return m.tools, len(m.tools), "", false, nil
}

func (m *mockToolsProvider) CallTool(ctx context.Context, name string, input json.RawMessage, toolContext json.RawMessage) (*protocol.CallToolResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &protocol.CallToolResult{
		Result: json.RawMessage(`{"message": "success"}`),
	}, nil
}

// mockServerResourcesProvider returns canned results for the resources handlers
type mockServerResourcesProvider struct {
	resources []protocol.Resource
	templates []protocol.ResourceTemplate
	err       error
}

func (m *mockServerResourcesProvider) ListResources(ctx context.Context, uri string, recursive bool, pagination *protocol.PaginationParams) ([]protocol.Resource, []protocol.ResourceTemplate, int, string, bool, error) {
	if m.err != nil {
		return nil, nil, 0, "", false, m.err
	}
	return m.resources, m.templates, len(m.resources) + len(m.templates), "", false, nil
}

func (m *mockServerResourcesProvider) ReadResource(ctx context.Context, uri string, templateParams map[string]interface{}, rangeOpt *protocol.ResourceRange) (*protocol.ResourceContents, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &protocol.ResourceContents{
		URI:     uri,
		Type:    "text/plain",
		Content: json.RawMessage(`"test content"`),
	}, nil
}

// TestServerConcurrentInitialize tests that concurrent initialization is safe
func TestServerConcurrentInitialize(t *testing.T) {
	mt := newMockTransport()
	server := New(mt, WithName("test-server"))

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			params := &protocol.InitializeParams{
				Name:    fmt.Sprintf("client-%d", id),
				Version: "1.0.0",
				ClientInfo: &protocol.ClientInfo{
					Name:    fmt.Sprintf("test-client-%d", id),
					Version: "1.0.0",
				},
			}

			ctx := context.Background()
			_, err := server.handleInitialize(ctx, params)
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent initialization: %v", err)
	}

	if !server.isInitialized() {
		t.Error("Server should be initialized after handleInitialize")
	}

	if server.getClientInfo() == nil {
		t.Error("Client info should be set after initialization")
	}
}

// TestServerGetClientInfoSafety tests that getClientInfo is safe to call concurrently
func TestServerGetClientInfoSafety(t *testing.T) {
	mt := newMockTransport()
	server := New(mt, WithName("test-server"))

	params := &protocol.InitializeParams{
		Name:    "test-client",
		Version: "1.0.0",
		ClientInfo: &protocol.ClientInfo{
			Name:    "test-client-info",
			Version: "1.0.0",
		},
	}

	ctx := context.Background()
	if _, err := server.handleInitialize(ctx, params); err != nil {
		t.Fatalf("Failed to initialize server: %v", err)
	}

	const numReaders = 100
	var wg sync.WaitGroup
	wg.Add(numReaders)

	for i := 0; i < numReaders; i++ {
		go func() {
			defer wg.Done()
			info := server.getClientInfo()
			if info == nil {
				t.Error("Client info should not be nil")
				return
			}
			if info.Name != "test-client-info" {
				t.Errorf("Expected client name 'test-client-info', got '%s'", info.Name)
			}
		}()
	}

	wg.Wait()
}

// Tests for server creation and options
func TestNewServer(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	if server == nil {
		t.Fatal("Expected server to be created, got nil")
	}

	if server.name != "voicemeeter-mcp" {
		t.Errorf("Expected default server name to be 'voicemeeter-mcp', got %q", server.name)
	}

	if server.version != "1.0.0" {
		t.Errorf("Expected default server version to be '1.0.0', got %q", server.version)
	}

	if len(server.capabilities) != 0 {
		t.Errorf("Expected no default capabilities, got %d", len(server.capabilities))
	}

	// Core handlers are always registered
	for _, method := range []string{
		protocol.MethodInitialize,
		protocol.MethodCancel,
		protocol.MethodPing,
		protocol.MethodSetLogLevel,
	} {
		if _, ok := mt.requestHandlers[method]; !ok {
			t.Errorf("Expected %s handler to be registered", method)
		}
	}

	if _, ok := mt.notificationHandlers[protocol.MethodInitialized]; !ok {
		t.Error("Expected initialized notification handler to be registered")
	}

	// Feature handlers are not registered without providers
	if _, ok := mt.requestHandlers[protocol.MethodListTools]; ok {
		t.Error("Expected listTools handler to be absent without a tools provider")
	}
	if _, ok := mt.requestHandlers[protocol.MethodListResources]; ok {
		t.Error("Expected listResources handler to be absent without a resources provider")
	}
}

func TestServerOptions(t *testing.T) {
	mt := newMockTransport()
	testName := "test-server"
	testVersion := "2.0.0"
	testDescription := "Test server description"
	testHomepage := "https://example.com"

	toolsProvider := &mockToolsProvider{
		tools: []protocol.Tool{
			{Name: "test-tool", Description: "A test tool"},
		},
	}

	server := New(mt,
		WithName(testName),
		WithVersion(testVersion),
		WithDescription(testDescription),
		WithHomepage(testHomepage),
		WithCapability(protocol.CapabilityLogging, true),
		WithToolsProvider(toolsProvider),
		WithFeatureOptions(map[string]interface{}{
			"test": "value",
		}),
	)

	if server.name != testName {
		t.Errorf("Expected server name to be %q, got %q", testName, server.name)
	}

	if server.version != testVersion {
		t.Errorf("Expected server version to be %q, got %q", testVersion, server.version)
	}

	if server.description != testDescription {
		t.Errorf("Expected server description to be %q, got %q", testDescription, server.description)
	}

	if server.homepage != testHomepage {
		t.Errorf("Expected server homepage to be %q, got %q", testHomepage, server.homepage)
	}

	if !server.capabilities[string(protocol.CapabilityLogging)] {
		t.Error("Expected logging capability to be enabled")
	}

	// WithToolsProvider implies the tools capability
	if !server.capabilities[string(protocol.CapabilityTools)] {
		t.Error("Expected tools capability to be enabled")
	}

	if val, ok := server.featureOptions["test"]; !ok || val != "value" {
		t.Error("Expected feature option 'test' to be set to 'value'")
	}

	if server.toolsProvider == nil {
		t.Error("Expected tools provider to be set")
	}

	if _, ok := mt.requestHandlers[protocol.MethodListTools]; !ok {
		t.Error("Expected listTools handler to be registered")
	}

	if _, ok := mt.requestHandlers[protocol.MethodCallTool]; !ok {
		t.Error("Expected callTool handler to be registered")
	}
}

func TestServerResourcesOption(t *testing.T) {
	mt := newMockTransport()
	resourcesProvider := &mockServerResourcesProvider{}
	server := New(mt, WithResourcesProvider(resourcesProvider))

	if server.resourcesProvider == nil {
		t.Error("Expected resources provider to be set")
	}

	if !server.capabilities[string(protocol.CapabilityResources)] {
		t.Error("Expected resources capability to be enabled")
	}

	if _, ok := mt.requestHandlers[protocol.MethodListResources]; !ok {
		t.Error("Expected listResources handler to be registered")
	}

	if _, ok := mt.requestHandlers[protocol.MethodReadResource]; !ok {
		t.Error("Expected readResource handler to be registered")
	}
}

// Test server initialization handler
func TestHandleInitialize(t *testing.T) {
	mt := newMockTransport()
	server := New(mt, WithName("test-server"), WithVersion("1.0.0"))

	initializeParams := &protocol.InitializeParams{
		ProtocolVersion: protocol.ProtocolRevision,
		Name:            "test-client",
		Version:         "1.0.0",
		Capabilities: map[string]bool{
			string(protocol.CapabilityTools): true,
		},
		ClientInfo: &protocol.ClientInfo{
			Name:     "test-client",
			Version:  "1.0.0",
			Platform: "test",
		},
	}

	paramsJSON, _ := json.Marshal(initializeParams)

	result, err := server.handleInitialize(context.Background(), json.RawMessage(paramsJSON))
	if err != nil {
		t.Fatalf("Expected handleInitialize to succeed, got error: %v", err)
	}

	initResult, ok := result.(*protocol.InitializeResult)
	if !ok {
		t.Fatalf("Expected result to be *protocol.InitializeResult, got %T", result)
	}

	if initResult.ProtocolVersion != protocol.ProtocolRevision {
		t.Errorf("Expected protocol version %q, got %q", protocol.ProtocolRevision, initResult.ProtocolVersion)
	}

	if initResult.ServerInfo == nil {
		t.Fatal("Expected ServerInfo to not be nil")
	}

	if initResult.ServerInfo.Name != "test-server" {
		t.Errorf("Expected ServerInfo.Name to be 'test-server', got %q", initResult.ServerInfo.Name)
	}

	if initResult.ServerInfo.Version != "1.0.0" {
		t.Errorf("Expected ServerInfo.Version to be '1.0.0', got %q", initResult.ServerInfo.Version)
	}

	if !server.isInitialized() {
		t.Error("Expected server to be marked as initialized")
	}

	if server.clientInfo == nil {
		t.Fatal("Expected ClientInfo to be stored")
	}

	if server.clientInfo.Name != "test-client" {
		t.Errorf("Expected ClientInfo.Name to be 'test-client', got %q", server.clientInfo.Name)
	}
}

// Test handleInitialized notification handler
func TestHandleInitialized(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	if err := server.handleInitialized(context.Background(), &protocol.InitializedParams{}); err != nil {
		t.Errorf("Expected handleInitialized to succeed, got error: %v", err)
	}

	if !server.isInitialized() {
		t.Error("Expected server to be marked as initialized")
	}
}

// Test notification handlers
func TestNotifyToolsChanged(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	server.initializedLock.Lock()
	server.initialized = true
	server.initializedLock.Unlock()

	tools := []protocol.Tool{
		{Name: "test-tool", Description: "A test tool"},
	}

	if err := server.NotifyToolsChanged(tools, nil, nil); err != nil {
		t.Fatalf("Expected NotifyToolsChanged to succeed, got error: %v", err)
	}

	if _, ok := mt.sentNotifications[protocol.MethodToolsChanged]; !ok {
		t.Error("Expected toolsChanged notification to be sent")
	}

	// Notifications fail before initialization
	server.initializedLock.Lock()
	server.initialized = false
	server.initializedLock.Unlock()

	if err := server.NotifyToolsChanged(tools, nil, nil); err == nil {
		t.Error("Expected NotifyToolsChanged to fail when server not initialized")
	}
}

func TestNotifyResourcesChanged(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	server.initializedLock.Lock()
	server.initialized = true
	server.initializedLock.Unlock()

	resources := []protocol.Resource{
		{URI: "test://resource1", Type: "text"},
	}
	err := server.NotifyResourcesChanged("test://", resources, []string{"removed1"}, resources, resources)
	if err != nil {
		t.Errorf("Expected NotifyResourcesChanged to succeed, got error: %v", err)
	}

	if _, ok := mt.sentNotifications[protocol.MethodResourcesChanged]; !ok {
		t.Error("Expected resourcesChanged notification to be sent")
	}

	server.initializedLock.Lock()
	server.initialized = false
	server.initializedLock.Unlock()

	if err := server.NotifyResourcesChanged("", nil, nil, nil, nil); err == nil {
		t.Error("Expected NotifyResourcesChanged to fail when server not initialized")
	}
}

// Test server start and stop
func TestServerStartStop(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := server.Start(ctx)
	if err != nil && err != context.Canceled {
		t.Errorf("Expected Start to be cancelled, got error: %v", err)
	}

	if err := server.Stop(); err != nil {
		t.Errorf("Expected Stop to succeed, got error: %v", err)
	}

	mt.stopErr = errors.New("stop error")
	if err := server.Stop(); err == nil {
		t.Error("Expected Stop to return error")
	}
}

func TestServerStartTransportInitError(t *testing.T) {
	mt := newMockTransport()
	mt.initializeErr = errors.New("pipe closed")
	server := New(mt)

	err := server.Start(context.Background())
	if err == nil {
		t.Fatal("Expected Start to fail when transport initialization fails")
	}
}

// Test utility methods
func TestParseParams(t *testing.T) {
	paramsJSON := `{"name": "test", "value": 42}`
	var target struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	if err := parseParams(json.RawMessage(paramsJSON), &target); err != nil {
		t.Fatalf("Expected parseParams to succeed, got error: %v", err)
	}

	if target.Name != "test" {
		t.Errorf("Expected Name to be 'test', got %q", target.Name)
	}

	if target.Value != 42 {
		t.Errorf("Expected Value to be 42, got %d", target.Value)
	}

	if err := parseParams(json.RawMessage(`{"name": "test", "value": "not-a-number"}`), &target); err == nil {
		t.Error("Expected parseParams to fail with invalid params")
	}

	if err := parseParams(nil, &target); err == nil {
		t.Error("Expected parseParams to fail with nil params")
	}

	// Values that cannot round-trip through JSON
	type invalidStruct struct {
		InvalidFunc func()
	}
	if err := parseParams(invalidStruct{InvalidFunc: func() {}}, &struct{}{}); err == nil {
		t.Error("Expected parseParams to fail with unmarshalable input")
	}
}

// Test logging methods
func TestServerLogging(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	server.logger.Debug("Debug message: %s", "test")
	server.logger.Warn("Warning message: %d", 42)
	server.logger.Error("Error message: %v", errors.New("test error"))

	customLogger := &mockLogger{}
	server = New(mt, WithLogger(customLogger))

	server.logger.Debug("Custom debug")
	server.logger.Info("Custom info")
	server.logger.Warn("Custom warn")
	server.logger.Error("Custom error")

	if customLogger.debugCalled == 0 {
		t.Error("Expected Debug to be called on custom logger")
	}
	if customLogger.infoCalled == 0 {
		t.Error("Expected Info to be called on custom logger")
	}
	if customLogger.warnCalled == 0 {
		t.Error("Expected Warn to be called on custom logger")
	}
	if customLogger.errorCalled == 0 {
		t.Error("Expected Error to be called on custom logger")
	}
}

// mockLogger for testing
type mockLogger struct {
	debugCalled int
	infoCalled  int
	warnCalled  int
	errorCalled int
}

func (l *mockLogger) Debug(msg string, args ...interface{}) {
	l.debugCalled++
}

func (l *mockLogger) Info(msg string, args ...interface{}) {
	l.infoCalled++
}

func (l *mockLogger) Warn(msg string, args ...interface{}) {
	l.warnCalled++
}

func (l *mockLogger) Error(msg string, args ...interface{}) {
	l.errorCalled++
}

// Test protocol method handlers
func TestServerProtocolHandlers(t *testing.T) {
	mt := newMockTransport()

	toolsProvider := &mockToolsProvider{
		tools: []protocol.Tool{
			{Name: "test-tool", Description: "A test tool"},
		},
	}
	resourcesProvider := &mockServerResourcesProvider{
		resources: []protocol.Resource{
			{URI: "test://resource1", Type: "text"},
		},
	}

	server := New(mt,
		WithToolsProvider(toolsProvider),
		WithResourcesProvider(resourcesProvider),
	)

	ctx := context.Background()

	// handleListTools
	listToolsParams := &protocol.ListToolsParams{
		Category: "",
		PaginationParams: protocol.PaginationParams{
			Limit: 10,
		},
	}
	result, err := server.handleListTools(ctx, listToolsParams)
	if err != nil {
		t.Errorf("Expected handleListTools to succeed, got error: %v", err)
	}
	listResult, ok := result.(*protocol.ListToolsResult)
	if !ok {
		t.Errorf("Expected *protocol.ListToolsResult, got %T", result)
	} else if len(listResult.Tools) != 1 {
		t.Errorf("Expected 1 tool, got %d", len(listResult.Tools))
	}

	// handleCallTool
	callToolParams := &protocol.CallToolParams{
		Name:  "test-tool",
		Input: json.RawMessage(`{"param": "value"}`),
	}
	result, err = server.handleCallTool(ctx, callToolParams)
	if err != nil {
		t.Errorf("Expected handleCallTool to succeed, got error: %v", err)
	}
	callResult, ok := result.(*protocol.CallToolResult)
	if !ok {
		t.Errorf("Expected *protocol.CallToolResult, got %T", result)
	} else if callResult.Error != "" {
		t.Errorf("Expected no tool error, got %q", callResult.Error)
	}

	// handleListResources
	listResourcesParams := &protocol.ListResourcesParams{
		URI: "",
		PaginationParams: protocol.PaginationParams{
			Limit: 10,
		},
	}
	result, err = server.handleListResources(ctx, listResourcesParams)
	if err != nil {
		t.Errorf("Expected handleListResources to succeed, got error: %v", err)
	}
	listResResult, ok := result.(*protocol.ListResourcesResult)
	if !ok {
		t.Errorf("Expected *protocol.ListResourcesResult, got %T", result)
	} else if len(listResResult.Resources) != 1 {
		t.Errorf("Expected 1 resource, got %d", len(listResResult.Resources))
	}

	// handleReadResource
	readResourceParams := &protocol.ReadResourceParams{
		URI: "test://resource1",
	}
	result, err = server.handleReadResource(ctx, readResourceParams)
	if err != nil {
		t.Errorf("Expected handleReadResource to succeed, got error: %v", err)
	}
	readResult, ok := result.(*protocol.ReadResourceResult)
	if !ok {
		t.Errorf("Expected *protocol.ReadResourceResult, got %T", result)
	} else if readResult.Contents.URI != "test://resource1" {
		t.Errorf("Expected contents URI test://resource1, got %q", readResult.Contents.URI)
	}
}

// Tool errors surface inside the result, not as request failures
func TestHandleCallToolError(t *testing.T) {
	mt := newMockTransport()
	toolsProvider := &mockToolsProvider{err: errors.New("device not responding")}
	server := New(mt, WithToolsProvider(toolsProvider))

	result, err := server.handleCallTool(context.Background(), &protocol.CallToolParams{
		Name: "test-tool",
	})
	if err != nil {
		t.Fatalf("Expected handleCallTool to return a result, got error: %v", err)
	}

	callResult, ok := result.(*protocol.CallToolResult)
	if !ok {
		t.Fatalf("Expected *protocol.CallToolResult, got %T", result)
	}
	if callResult.Error != "device not responding" {
		t.Errorf("Expected tool error 'device not responding', got %q", callResult.Error)
	}
}

// Test handler error cases
func TestServerHandlerErrors(t *testing.T) {
	mt := newMockTransport()
	server := New(mt) // No providers configured

	ctx := context.Background()

	if _, err := server.handleListTools(ctx, &protocol.ListToolsParams{}); err == nil {
		t.Error("Expected handleListTools to fail without tools provider")
	}

	if _, err := server.handleCallTool(ctx, &protocol.CallToolParams{}); err == nil {
		t.Error("Expected handleCallTool to fail without tools provider")
	}

	if _, err := server.handleListResources(ctx, &protocol.ListResourcesParams{}); err == nil {
		t.Error("Expected handleListResources to fail without resources provider")
	}

	if _, err := server.handleReadResource(ctx, &protocol.ReadResourceParams{}); err == nil {
		t.Error("Expected handleReadResource to fail without resources provider")
	}

	// Provider failures are wrapped with operation context
	server = New(mt,
		WithToolsProvider(&mockToolsProvider{err: errors.New("list failed")}),
		WithResourcesProvider(&mockServerResourcesProvider{err: errors.New("read failed")}),
	)

	if _, err := server.handleListTools(ctx, &protocol.ListToolsParams{}); err == nil {
		t.Error("Expected handleListTools to surface provider error")
	}

	if _, err := server.handleReadResource(ctx, &protocol.ReadResourceParams{URI: "test://x"}); err == nil {
		t.Error("Expected handleReadResource to surface provider error")
	}
}

// Test SendLog and SendProgress methods
func TestServerSendMethods(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	server.initializedLock.Lock()
	server.initialized = true
	server.initializedLock.Unlock()

	err := server.SendLog(protocol.LogLevelInfo, "Test log message", "test-source", map[string]interface{}{"key": "value"})
	if err != nil {
		t.Errorf("Expected SendLog to succeed, got error: %v", err)
	}

	if err := server.SendLog(protocol.LogLevelError, "Error message", "test-source", nil); err != nil {
		t.Errorf("Expected SendLog with nil data to succeed, got error: %v", err)
	}

	if err := server.SendProgress("progress-id", "Processing...", 50.0, false); err != nil {
		t.Errorf("Expected SendProgress to succeed, got error: %v", err)
	}

	if err := server.SendProgress("progress-id", "Completed", 100.0, true); err != nil {
		t.Errorf("Expected SendProgress completion to succeed, got error: %v", err)
	}

	if _, ok := mt.sentNotifications[protocol.MethodLog]; !ok {
		t.Error("Expected log notification to be sent")
	}
	if _, ok := mt.sentNotifications[protocol.MethodProgress]; !ok {
		t.Error("Expected progress notification to be sent")
	}

	// Both fail before initialization
	server.initializedLock.Lock()
	server.initialized = false
	server.initializedLock.Unlock()

	if err := server.SendLog(protocol.LogLevelInfo, "Test", "test", nil); err == nil {
		t.Error("Expected SendLog to fail when server not initialized")
	}

	if err := server.SendProgress("id", "test", 0, false); err == nil {
		t.Error("Expected SendProgress to fail when server not initialized")
	}
}

// Test SendLog with marshaling error
func TestSendLogMarshalError(t *testing.T) {
	mt := newMockTransport()
	server := New(mt)

	server.initializedLock.Lock()
	server.initialized = true
	server.initializedLock.Unlock()

	invalidData := make(chan int) // channels can't be marshaled

	err := server.SendLog(protocol.LogLevelInfo, "Test", "test", invalidData)
	if err == nil {
		t.Error("Expected SendLog to fail with unmarshalable data")
	}

	if !strings.Contains(err.Error(), "marshal_log_data") {
		t.Errorf("Expected error to mention marshaling failure, got: %v", err)
	}
}

// Test additional handler methods
func TestServerAdditionalHandlers(t *testing.T) {
	mt := newMockTransport()
	server := New(mt, WithCapability(protocol.CapabilityLogging, true))

	ctx := context.Background()

	// handleCancel with an unknown request ID reports cancelled=false
	cancelParams := &protocol.CancelParams{
		ID: "test-request-id",
	}
	result, err := server.handleCancel(ctx, cancelParams)
	if err != nil {
		t.Errorf("Expected handleCancel to succeed, got error: %v", err)
	}
	cancelResult, ok := result.(*protocol.CancelResult)
	if !ok {
		t.Errorf("Expected *protocol.CancelResult, got %T", result)
	} else if cancelResult.Cancelled {
		t.Error("Expected Cancelled to be false for unknown request ID")
	}

	// handlePing echoes the timestamp
	pingParams := &protocol.PingParams{
		Timestamp: 1234567890,
	}
	result, err = server.handlePing(ctx, pingParams)
	if err != nil {
		t.Errorf("Expected handlePing to succeed, got error: %v", err)
	}
	pingResult, ok := result.(*protocol.PingResult)
	if !ok {
		t.Errorf("Expected *protocol.PingResult, got %T", result)
	} else if pingResult.Timestamp != 1234567890 {
		t.Errorf("Expected timestamp 1234567890, got %d", pingResult.Timestamp)
	}

	// handlePing with zero timestamp fills in the current time
	pingParams.Timestamp = 0
	result, err = server.handlePing(ctx, pingParams)
	if err != nil {
		t.Errorf("Expected handlePing with zero timestamp to succeed, got error: %v", err)
	}
	pingResult, ok = result.(*protocol.PingResult)
	if !ok {
		t.Errorf("Expected *protocol.PingResult, got %T", result)
	} else if pingResult.Timestamp == 0 {
		t.Error("Expected non-zero timestamp when input timestamp is 0")
	}

	// handleSetLogLevel
	logLevelParams := &protocol.SetLogLevelParams{
		Level: protocol.LogLevelDebug,
	}
	if _, err := server.handleSetLogLevel(ctx, logLevelParams); err != nil {
		t.Errorf("Expected handleSetLogLevel to succeed, got error: %v", err)
	}

	// handleSetLogLevel requires the logging capability
	serverNoLogging := New(mt)
	if _, err := serverNoLogging.handleSetLogLevel(ctx, logLevelParams); err == nil {
		t.Error("Expected handleSetLogLevel to fail without logging capability")
	}
}

// Test utility functions used by the providers
func TestUtilityFunctions(t *testing.T) {
	if !hasPrefix("test/path", "test") {
		t.Error("Expected hasPrefix to return true for 'test/path' with prefix 'test'")
	}

	if hasPrefix("test", "test/path") {
		t.Error("Expected hasPrefix to return false for 'test' with prefix 'test/path'")
	}

	if hasPrefix("test", "other") {
		t.Error("Expected hasPrefix to return false for 'test' with prefix 'other'")
	}

	err := errNotFound("resource", "test-id")
	if err == nil {
		t.Fatal("Expected errNotFound to return an error")
	}

	expectedMsg := "resource not found: test-id"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}
