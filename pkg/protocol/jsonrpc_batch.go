package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONRPCBatchRequest represents a JSON-RPC 2.0 batch of requests and
// notifications. Items are *Request or *Notification.
type JSONRPCBatchRequest []interface{}

// NewJSONRPCBatchRequest creates a batch from the given requests and
// notifications. At least one item is required.
func NewJSONRPCBatchRequest(items ...interface{}) (*JSONRPCBatchRequest, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("batch request must contain at least one item")
	}

	batch := make(JSONRPCBatchRequest, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case *Request:
			if v == nil {
				return nil, fmt.Errorf("batch item %d is a nil request", i)
			}
			batch = append(batch, v)
		case *Notification:
			if v == nil {
				return nil, fmt.Errorf("batch item %d is a nil notification", i)
			}
			batch = append(batch, v)
		default:
			return nil, fmt.Errorf("batch item %d has unsupported type %T", i, item)
		}
	}

	return &batch, nil
}

// Len returns the number of items in the batch
func (b *JSONRPCBatchRequest) Len() int {
	if b == nil {
		return 0
	}
	return len(*b)
}

// GetRequests returns the requests contained in the batch
func (b *JSONRPCBatchRequest) GetRequests() []*Request {
	if b == nil {
		return nil
	}
	var requests []*Request
	for _, item := range *b {
		if req, ok := item.(*Request); ok {
			requests = append(requests, req)
		}
	}
	return requests
}

// GetNotifications returns the notifications contained in the batch
func (b *JSONRPCBatchRequest) GetNotifications() []*Notification {
	if b == nil {
		return nil
	}
	var notifications []*Notification
	for _, item := range *b {
		if notif, ok := item.(*Notification); ok {
			notifications = append(notifications, notif)
		}
	}
	return notifications
}

// ToJSON serializes the batch as a JSON array
func (b *JSONRPCBatchRequest) ToJSON() ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("cannot serialize nil batch")
	}
	return json.Marshal(*b)
}

// JSONRPCBatchResponse represents a JSON-RPC 2.0 batch of responses
type JSONRPCBatchResponse []*Response

// NewJSONRPCBatchResponse creates a batch response. Nil responses are dropped.
func NewJSONRPCBatchResponse(responses ...*Response) *JSONRPCBatchResponse {
	batch := make(JSONRPCBatchResponse, 0, len(responses))
	for _, resp := range responses {
		if resp != nil {
			batch = append(batch, resp)
		}
	}
	return &batch
}

// Len returns the number of responses in the batch
func (b *JSONRPCBatchResponse) Len() int {
	if b == nil {
		return 0
	}
	return len(*b)
}

// IsEmpty reports whether the batch contains no responses
func (b *JSONRPCBatchResponse) IsEmpty() bool {
	return b.Len() == 0
}

// Add appends a response to the batch. Nil batches and nil responses are ignored.
func (b *JSONRPCBatchResponse) Add(resp *Response) {
	if b == nil || resp == nil {
		return
	}
	*b = append(*b, resp)
}

// ToJSON serializes the batch as a JSON array
func (b *JSONRPCBatchResponse) ToJSON() ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("cannot serialize nil batch")
	}
	return json.Marshal(*b)
}

// ParseJSONRPCBatchRequest parses a JSON array into a batch of requests and
// notifications. Empty arrays are rejected per the JSON-RPC 2.0 specification.
func ParseJSONRPCBatchRequest(data []byte) (*JSONRPCBatchRequest, error) {
	if !IsBatch(data) {
		return nil, fmt.Errorf("data is not a JSON array")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}

	if len(rawItems) == 0 {
		return nil, fmt.Errorf("batch request must contain at least one item")
	}

	batch := make(JSONRPCBatchRequest, 0, len(rawItems))
	for i, raw := range rawItems {
		switch {
		case IsRequest(raw):
			var req Request
			if err := json.Unmarshal(raw, &req); err != nil {
				return nil, fmt.Errorf("failed to parse batch item %d as request: %w", i, err)
			}
			batch = append(batch, &req)
		case IsNotification(raw):
			var notif Notification
			if err := json.Unmarshal(raw, &notif); err != nil {
				return nil, fmt.Errorf("failed to parse batch item %d as notification: %w", i, err)
			}
			batch = append(batch, &notif)
		default:
			return nil, fmt.Errorf("batch item %d is neither a request nor a notification", i)
		}
	}

	return &batch, nil
}

// ParseJSONRPCBatchResponse parses a JSON array into a batch of responses
func ParseJSONRPCBatchResponse(data []byte) (*JSONRPCBatchResponse, error) {
	if !IsBatch(data) {
		return nil, fmt.Errorf("data is not a JSON array")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}

	if len(rawItems) == 0 {
		return nil, fmt.Errorf("batch response must contain at least one item")
	}

	batch := make(JSONRPCBatchResponse, 0, len(rawItems))
	for i, raw := range rawItems {
		if !IsResponse(raw) {
			return nil, fmt.Errorf("batch item %d is not a response", i)
		}
		var resp Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse batch item %d as response: %w", i, err)
		}
		batch = append(batch, &resp)
	}

	return &batch, nil
}

// IsBatch reports whether the raw message is a JSON array. Leading whitespace
// is permitted, matching encoding/json behaviour.
func IsBatch(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	return json.Valid(data)
}
