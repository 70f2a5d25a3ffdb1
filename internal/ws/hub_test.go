package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	c := &Client{send: make(chan Message, 1)}
	hub.Register(c)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("ClientCount() = %d, want 1", got)
	}

	hub.Unregister(c)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("ClientCount() after unregister = %d, want 0", got)
	}

	// Unregistering twice must not panic or double-close.
	hub.Unregister(c)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	a := &Client{send: make(chan Message, 4)}
	b := &Client{send: make(chan Message, 4)}
	hub.Register(a)
	hub.Register(b)

	msg := Message{
		Type:      MessageSessionUpdated,
		SessionID: "sess-1",
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"status":"active"}`),
	}
	hub.Broadcast(msg)

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.send:
			if got.Type != MessageSessionUpdated || got.SessionID != "sess-1" {
				t.Fatalf("unexpected message: %+v", got)
			}
		default:
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	c := &Client{send: make(chan Message, 1)}
	hub.Register(c)

	hub.Broadcast(Message{Type: MessageDoorChanged})
	// Buffer is full now; this must not block.
	done := make(chan struct{})
	go func() {
		hub.Broadcast(Message{Type: MessageDoorChanged})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full client buffer")
	}
}
