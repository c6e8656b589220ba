package transport

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/utils"
)

// TestStdioTransportGoroutineLeak tests for goroutine leaks in StdioTransport
func TestStdioTransportGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(2). // Allow some growth for test infrastructure
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	inReader, inWriter := io.Pipe()
	outReader, outWriter := io.Pipe()
	config := DefaultTransportConfig(TransportTypeStdio)
	config.StdioReader = inReader
	config.StdioWriter = outWriter
	config.Features.EnableObservability = false // Disable for test
	transport, err := NewTransport(config)
	if err != nil {
		t.Fatalf("Failed to create transport: %v", err)
	}
	defer inWriter.Close()
	defer outReader.Close()

	transport.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params interface{}) (interface{}, error) {
		return map[string]string{"status": "ok"}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	if err := transport.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize transport: %v", err)
	}

	done := make(chan error)
	go func() {
		done <- transport.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	if err := transport.Stop(stopCtx); err != nil {
		t.Errorf("Failed to stop transport: %v", err)
	}

	select {
	case <-done:
		// Start returned
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after Stop")
	}

	detector.Check()
}

// TestBaseTransportGoroutineLeak tests for goroutine leaks in BaseTransport
func TestBaseTransportGoroutineLeak(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetStabilizeDelay(300 * time.Millisecond)
	detector.Start()

	transport := NewBaseTransport()

	transport.RegisterRequestHandler(protocol.MethodInitialize, func(ctx context.Context, params interface{}) (interface{}, error) {
		return map[string]string{"status": "ok"}, nil
	})

	transport.RegisterNotificationHandler(protocol.MethodInitialized, func(ctx context.Context, params interface{}) error {
		return nil
	})

	ctx := context.Background()

	// Handle responses concurrently
	for i := 0; i < 10; i++ {
		go func(id int) {
			resp := &protocol.Response{
				ID:     string(rune('0' + id)),
				Result: []byte(`{"status":"ok"}`),
			}
			transport.HandleResponse(resp)
		}(i)
	}

	// Handle notifications concurrently
	for i := 0; i < 5; i++ {
		go func(id int) {
			_ = transport.HandleNotification(ctx, &protocol.Notification{
				Method: protocol.MethodInitialized,
				Params: []byte(`{}`),
			})
		}(i)
	}

	time.Sleep(200 * time.Millisecond)

	detector.Check()
}

// TestTransportStartStopCycle tests that start/stop leaves no goroutines
// behind. Each cycle uses a fresh transport since Stop is terminal.
func TestTransportStartStopCycle(t *testing.T) {
	detector := utils.NewGoroutineLeakDetector(t).
		SetAllowedGrowth(3).
		SetStabilizeDelay(500 * time.Millisecond)
	detector.Start()

	for i := 0; i < 3; i++ {
		inReader, inWriter := io.Pipe()
		outReader, outWriter := io.Pipe()
		config := DefaultTransportConfig(TransportTypeStdio)
		config.StdioReader = inReader
		config.StdioWriter = outWriter
		config.Features.EnableObservability = false // Disable for test
		transport, err := NewTransport(config)
		if err != nil {
			t.Fatalf("Cycle %d: Failed to create transport: %v", i, err)
		}

		ctx, cancel := context.WithCancel(context.Background())

		if err := transport.Initialize(ctx); err != nil {
			t.Fatalf("Cycle %d: Failed to initialize: %v", i, err)
		}

		done := make(chan error)
		go func() {
			done <- transport.Start(ctx)
		}()

		time.Sleep(50 * time.Millisecond)

		cancel()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 1*time.Second)
		err = transport.Stop(stopCtx)
		stopCancel()

		if err != nil {
			t.Errorf("Cycle %d: Failed to stop: %v", i, err)
		}

		select {
		case <-done:
			// Start returned
		case <-time.After(1 * time.Second):
			t.Errorf("Cycle %d: Start did not return after Stop", i)
		}

		inWriter.Close()
		outReader.Close()
	}

	detector.Check()
}
