package websocket

import (
	"encoding/json"
	"time"
)

// Message types
const (
	TypeConnection      = "connection"
	TypeConstraints     = "constraints"
	TypeView            = "view"
	TypeHeartbeat       = "heartbeat"
	TypeError           = "error"
	TypeDatasetReloaded = "dataset:reloaded"
)

// Error codes carried by TypeError messages.
const (
	CodeInvalidMessage     = "INVALID_MESSAGE"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeRenderFailed       = "RENDER_FAILED"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	TraceID   string          `json:"trace_id,omitempty"`
}

// ErrorData is the payload of a TypeError message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConnectionData is the payload of the greeting sent on connect.
type ConnectionData struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}

// encode builds a frame with data marshalled as the payload.
func encode(msgType string, data any, traceID string) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TraceID:   traceID,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
