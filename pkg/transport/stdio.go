package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// StdioTransport implements Transport over standard input and output.
// Messages are newline-delimited JSON-RPC 2.0. The MCP client owns the
// process and its pipes; everything this transport logs goes to stderr
// because stdout carries the protocol.
type StdioTransport struct {
	*BaseTransport
	reader       io.Reader
	writer       io.Writer
	rawWriter    *bufio.Writer
	errorHandler ErrorHandler
	logger       logging.Logger
	mutex        sync.RWMutex // protects writer and errorHandler
	done         chan struct{}
	stopOnce     sync.Once
}

// NewStdioTransport creates a stdio transport bound to os.Stdin/os.Stdout.
func NewStdioTransport() *StdioTransport {
	t, _ := newStdioTransport(TransportConfig{Type: TransportTypeStdio})
	return t
}

// newStdioTransport creates a stdio transport from config. Custom reader and
// writer are for tests; production always runs on the process pipes.
func newStdioTransport(config TransportConfig) (*StdioTransport, error) {
	reader := config.StdioReader
	writer := config.StdioWriter

	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	logger := logging.New(os.Stderr, logging.NewTextFormatter()).WithFields(
		logging.String("component", "stdio-transport"),
	)
	if config.Observability.LogLevel == "debug" {
		logger.SetLevel(logging.DebugLevel)
	} else {
		logger.SetLevel(logging.WarnLevel)
	}

	return &StdioTransport{
		BaseTransport: NewBaseTransport(),
		reader:        reader,
		writer:        writer,
		rawWriter:     bufio.NewWriter(writer),
		logger:        logger,
		done:          make(chan struct{}),
	}, nil
}

// Initialize prepares the transport for use. The pipes already exist, so
// there is nothing to do.
func (t *StdioTransport) Initialize(ctx context.Context) error {
	return nil
}

// Start reads messages from stdin and processes them until EOF or
// cancellation. It blocks for the lifetime of the connection.
func (t *StdioTransport) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	scanner := bufio.NewScanner(t.reader)
	scannerDone := make(chan struct{})

	g.Go(func() error {
		defer close(scannerDone)

		for scanner.Scan() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.done:
				return nil
			default:
				line := scanner.Bytes()

				// Copy: the scanner reuses its buffer on the next Scan
				data := make([]byte, len(line))
				copy(data, line)

				func() {
					defer func() {
						if r := recover(); r != nil {
							t.logger.Error("panic in message processing",
								logging.Any("panic", r),
								logging.String("stack", string(debug.Stack())))
						}
					}()
					t.processMessage(data)
				}()
			}
		}

		if err := scanner.Err(); err != nil && err != io.EOF {
			return mcperrors.StdioTransportError("read_input", err).
				WithContext(&mcperrors.Context{
					Component: "StdioTransport",
					Operation: "scan_input",
				})
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			// Close the reader to unblock scanner.Scan()
			if closer, ok := t.reader.(io.Closer); ok {
				_ = closer.Close()
			}
			return gctx.Err()
		case <-t.done:
			if closer, ok := t.reader.(io.Closer); ok {
				_ = closer.Close()
			}
			return nil
		case <-scannerDone:
			return nil
		}
	})

	return g.Wait()
}

// Stop halts the transport, flushes pending output and releases resources.
func (t *StdioTransport) Stop(ctx context.Context) error {
	var flushErr error

	t.stopOnce.Do(func() {
		close(t.done)

		t.mutex.Lock()
		if t.rawWriter != nil {
			flushErr = t.rawWriter.Flush()
		}
		t.errorHandler = nil
		t.mutex.Unlock()

		t.BaseTransport.Cleanup()
	})

	if flushErr != nil {
		return mcperrors.StdioTransportError("stop", flushErr).
			WithContext(&mcperrors.Context{
				Component: "StdioTransport",
				Operation: "flush_on_stop",
			})
	}
	return nil
}

// Send writes one newline-terminated message to stdout.
func (t *StdioTransport) Send(data []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.rawWriter == nil {
		return mcperrors.TransportNotInitialized("stdio")
	}

	if _, err := t.rawWriter.Write(data); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{
				Component: "StdioTransport",
				Operation: "write_data",
			})
	}

	if err := t.rawWriter.WriteByte('\n'); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{
				Component: "StdioTransport",
				Operation: "write_newline",
			})
	}

	if err := t.rawWriter.Flush(); err != nil {
		return mcperrors.StdioTransportError("send_message", err).
			WithContext(&mcperrors.Context{
				Component: "StdioTransport",
				Operation: "flush_output",
			})
	}

	return nil
}

// SetErrorHandler sets the handler for transport errors.
func (t *StdioTransport) SetErrorHandler(handler ErrorHandler) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.errorHandler = handler
}

// processMessage classifies one raw line as request, response or notification
// and dispatches it.
func (t *StdioTransport) processMessage(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic in processMessage",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())))
			t.handleError(fmt.Errorf("panic processing message: %v", r))
		}
	}()

	t.logger.Debug("received raw data", logging.String("data", string(data)))

	var genericMsg map[string]interface{}
	if err := json.Unmarshal(data, &genericMsg); err != nil {
		t.handleError(fmt.Errorf("error unmarshalling generic message: %w", err))
		return
	}

	_, hasMethod := genericMsg["method"]
	_, hasID := genericMsg["id"]
	isResponse := hasID && (genericMsg["result"] != nil || genericMsg["error"] != nil)
	isRequest := hasID && hasMethod && !isResponse
	isNotification := hasMethod && !hasID

	// Atypical notifications carrying an ID but no result/error
	if hasMethod && hasID && !isRequest && !isResponse {
		isNotification = true
	}

	ctx := context.Background()

	switch {
	case isRequest:
		var req protocol.Request
		if err := json.Unmarshal(data, &req); err != nil {
			t.handleError(fmt.Errorf("error unmarshalling request: %w", err))
			return
		}
		resp, err := t.BaseTransport.HandleRequest(ctx, &req)
		if err != nil {
			t.handleError(fmt.Errorf("HandleRequest for %v returned error: %w", req.ID, err))
			// A request must still get an answer, e.g. method-not-found.
			if resp == nil {
				if errResp, convErr := mcperrors.ToJSONRPCResponse(err, req.ID); convErr == nil {
					resp = errResp
				}
			}
		}
		if resp != nil {
			respData, marshalErr := json.Marshal(resp)
			if marshalErr != nil {
				t.handleError(fmt.Errorf("error marshalling response for request %v: %w", req.ID, marshalErr))
				return
			}
			if sendErr := t.Send(respData); sendErr != nil {
				t.handleError(fmt.Errorf("error sending response for request %v: %w", req.ID, sendErr))
			}
		}

	case isResponse:
		var resp protocol.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			t.handleError(fmt.Errorf("error unmarshalling response: %w", err))
			return
		}
		t.BaseTransport.HandleResponse(&resp)

	case isNotification:
		var notif protocol.Notification
		if err := json.Unmarshal(data, &notif); err != nil {
			t.handleError(fmt.Errorf("error unmarshalling notification: %w", err))
			return
		}
		if err := t.BaseTransport.HandleNotification(ctx, &notif); err != nil {
			// Unregistered notifications are fire-and-forget; ignore them
			if errors.Is(err, ErrUnsupportedMethod) {
				t.logger.Debug("ignoring notification for unregistered method",
					logging.String("method", notif.Method))
			} else {
				t.handleError(fmt.Errorf("error handling notification %s: %w", notif.Method, err))
			}
		}

	default:
		t.handleError(fmt.Errorf("unknown message type received: %s", string(data)))
	}
}

// handleError passes an error to the registered error handler, if any.
func (t *StdioTransport) handleError(err error) {
	t.mutex.RLock()
	handler := t.errorHandler
	t.mutex.RUnlock()

	if handler != nil {
		handler(err)
	}
}

// SendRequest sends a request and waits for its response.
func (t *StdioTransport) SendRequest(ctx context.Context, method string, params interface{}) (interface{}, error) {
	id := t.BaseTransport.GenerateID()
	stringID := fmt.Sprintf("%v", id)

	req, err := protocol.NewRequest(stringID, method, params)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	bytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	if err := t.Send(bytes); err != nil {
		return nil, fmt.Errorf("error sending request bytes: %w", err)
	}

	pResp, err := t.BaseTransport.WaitForResponse(ctx, stringID)
	if err != nil {
		return nil, fmt.Errorf("error waiting for response: %w", err)
	}

	if pResp.Error != nil {
		return nil, mcperrors.FromJSONRPCError(pResp.Error)
	}

	return pResp, nil
}

// SendNotification sends a one-way message.
func (t *StdioTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	notification, err := protocol.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	jsonData, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("error marshalling notification: %w", err)
	}
	return t.Send(jsonData)
}
