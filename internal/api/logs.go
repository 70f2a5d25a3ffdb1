package api

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/contract"
	"github.com/shelfsense/pidash/internal/normalize"
)

// TailLogs returns the most recent orchestrator log lines. Another legacy
// un-enveloped endpoint; some releases return a plain array, others wrap it
// under "entries" or "logs".
func (c *Client) TailLogs(ctx context.Context, limit int) ([]contract.LogEntry, error) {
	path := fmt.Sprintf("/api/v1/logs?limit=%d", limit)
	raw, err := c.get(ctx, path, "logs")
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, c.validationError("logs", nil, fmt.Errorf("decode response: %w", err))
	}

	items, ok := decoded.([]any)
	if !ok {
		items = normalize.ExtractList(decoded, "entries", "logs", "items", "data")
	}

	entries := make([]contract.LogEntry, 0, len(items))
	for i, item := range items {
		itemRaw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		entry, err := contract.Parse[contract.LogEntry](itemRaw)
		if err != nil {
			// Cosmetic data: drop the line, keep the tail rendering.
			c.logger.Warn("dropping invalid log entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
