package websocket

import (
	"context"
	"time"

	"upscdash/pkg/contracts/domain"
)

// Connection defines the interface for WebSocket connections
// This allows for proper mocking in tests
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	// Returns the message type and payload
	ReadMessage() (messageType int, p []byte, err error)

	// Close closes the connection
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// ViewRenderer renders a view model for a constraint request. Implemented
// by services.DashboardService.
type ViewRenderer interface {
	View(ctx context.Context, source string, req domain.ConstraintsRequest) (*domain.ViewModel, error)
}

// Validator checks the structural validity of an incoming payload.
type Validator interface {
	ValidateStruct(v interface{}) error
}

// MetricsRecorder receives client and message counts. Implemented by
// infrastructure.BusinessMetrics.
type MetricsRecorder interface {
	RecordWebSocketClient(ctx context.Context, delta int64)
	RecordWebSocketMessage(ctx context.Context, direction, msgType string)
}
