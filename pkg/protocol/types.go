package protocol

import "context"

// ReceiveHandler is called when raw message data is received.
// It processes the raw byte data of an incoming message.
type ReceiveHandler func(data []byte)

// RequestHandler handles incoming requests
type RequestHandler func(ctx context.Context, params interface{}) (interface{}, error)

// NotificationHandler handles incoming notifications
type NotificationHandler func(ctx context.Context, params interface{}) error

// ProgressHandler handles progress notifications for streaming operations
type ProgressHandler func(params interface{}) error
