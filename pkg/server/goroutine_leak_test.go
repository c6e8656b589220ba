package server

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/transport"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/utils"
)

// MockTransportForLeakTest is a simple mock transport for testing
type MockTransportForLeakTest struct {
	*transport.BaseTransport
	initialized bool
	started     bool
	stopped     bool
}

func NewMockTransportForLeakTest() *MockTransportForLeakTest {
	return &MockTransportForLeakTest{
		BaseTransport: transport.NewBaseTransport(),
	}
}

func (m *MockTransportForLeakTest) Initialize(ctx context.Context) error {
	m.initialized = true
	return nil
}

func (m *MockTransportForLeakTest) Start(ctx context.Context) error {
	m.started = true
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockTransportForLeakTest) Stop(ctx context.Context) error {
	m.stopped = true
	return nil
}

func (m *MockTransportForLeakTest) SendRequest(ctx context.Context, method string, params interface{}) (interface{}, error) {
	return map[string]string{"status": "ok"}, nil
}

func (m *MockTransportForLeakTest) SendNotification(ctx context.Context, method string, params interface{}) error {
	return nil
}

// TestServerGoroutineLeak tests for goroutine leaks in Server
func TestServerGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(2). // Allow some growth for test infrastructure
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	mockTransport := NewMockTransportForLeakTest()
	server := New(mockTransport,
		WithName("test-server"),
		WithVersion("1.0.0"),
	)

	ctx, cancel := context.WithCancel(context.Background())

	// Start server in background
	done := make(chan error)
	go func() {
		done <- server.Start(ctx)
	}()

	// Let it run briefly
	time.Sleep(100 * time.Millisecond)

	// Stop server
	cancel()

	if err := server.Stop(); err != nil {
		t.Errorf("Failed to stop server: %v", err)
	}

	// Wait for Start to finish
	select {
	case <-done:
		// Good
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after Stop")
	}

	detector.Check()
}

// TestBaseProvidersGoroutineLeak tests for leaks in base providers
func TestBaseProvidersGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	toolsProvider := NewBaseToolsProvider()
	resourcesProvider := NewBaseResourcesProvider()

	ctx := context.Background()

	done := make(chan struct{}, 20) // Buffer for all operations

	// Tools operations
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() {
				done <- struct{}{}
			}()

			tool := protocol.Tool{
				Name: string(rune('A' + id)),
			}
			toolsProvider.RegisterTool(tool)
			toolsProvider.ListTools(ctx, "", nil)
		}(i)
	}

	// Resources operations
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() {
				done <- struct{}{}
			}()

			resource := protocol.Resource{
				URI: string(rune('A' + id)),
			}
			resourcesProvider.RegisterResource(resource)
			resourcesProvider.ListResources(ctx, "", false, nil)
		}(i)
	}

	// Wait for all operations to complete
	for i := 0; i < 20; i++ {
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("Operation %d did not complete", i)
		}
	}

	detector.Check()
}
