package ws

import (
	"encoding/json"
	"time"
)

// MessageType discriminates WebSocket messages pushed to the browser.
type MessageType string

const (
	MessageSessionUpdated  MessageType = "session.updated"
	MessageCaptureUpdated  MessageType = "capture.updated"
	MessageAnalysisUpdated MessageType = "analysis.updated"
	MessageDoorChanged     MessageType = "door.changed"
	MessageReachability    MessageType = "orchestrator.reachability"
)

// Message is the envelope for all dashboard WebSocket messages.
type Message struct {
	Type      MessageType     `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}
