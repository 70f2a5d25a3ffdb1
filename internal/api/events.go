package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Event is one server-sent event from the orchestrator stream.
type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Known event types emitted by the orchestrator.
const (
	EventSessionUpdated  = "session.updated"
	EventCaptureUpdated  = "capture.updated"
	EventAnalysisUpdated = "analysis.updated"
	EventDoorChanged     = "door.changed"
)

// StreamEvents opens one SSE connection and invokes fn for every event until
// the context is cancelled or the connection drops. Callers wanting automatic
// reconnection use RunEventLoop.
func (c *Client) StreamEvents(ctx context.Context, fn func(Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/events", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// The stream outlives the client's request timeout; use a dedicated
	// transport-less client so only ctx bounds the connection.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return &Error{Code: CodeNetwork, Resource: "events", Message: err.Error(), Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classify(resp.StatusCode, nil, "events")
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventType string
	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(dataLines) > 0 {
				c.dispatchEvent(eventType, strings.Join(dataLines, "\n"), fn)
			}
			eventType = ""
			dataLines = nil
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case strings.HasPrefix(line, ":"):
			// Comment / keepalive.
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return &Error{Code: CodeNetwork, Resource: "events", Message: err.Error(), Retryable: true, Err: err}
	}
	// Orderly end of stream: the caller reconnects.
	return nil
}

func (c *Client) dispatchEvent(eventType, data string, fn func(Event)) {
	ev := Event{Type: eventType, Data: json.RawMessage(data)}
	var meta struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(ev.Data, &meta); err == nil {
		ev.SessionID = meta.SessionID
	}
	if ev.Type == "" {
		ev.Type = "message"
	}
	fn(ev)
}

// RunEventLoop keeps an SSE subscription alive with capped exponential
// backoff between reconnect attempts. Blocks until ctx is cancelled.
func (c *Client) RunEventLoop(ctx context.Context, fn func(Event)) {
	const (
		initialBackoff = time.Second
		maxBackoff     = 30 * time.Second
	)
	backoff := initialBackoff

	for {
		start := time.Now()
		err := c.StreamEvents(ctx, fn)
		if ctx.Err() != nil {
			return
		}

		// A connection that lived a while resets the backoff.
		if time.Since(start) > time.Minute {
			backoff = initialBackoff
		}
		c.logger.Warn("event stream disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
