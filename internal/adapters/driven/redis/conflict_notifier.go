package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConflictNotifier = (*ConflictNotifier)(nil)

const (
	// ConflictChannel is the pub/sub channel conflict events are published on
	ConflictChannel = "planner:conflicts"

	recentConflictsKey = "planner:conflicts:recent"

	// DefaultConflictHistory is how many recent events are kept for the API
	DefaultConflictHistory = 100
)

// ConflictNotifier publishes concurrent-edit events on a Redis channel and
// keeps a capped list of the most recent ones.
type ConflictNotifier struct {
	client  *redis.Client
	history int64
}

// NewConflictNotifier creates a notifier keeping up to history recent events.
// A non-positive history uses DefaultConflictHistory.
func NewConflictNotifier(client *redis.Client, history int) *ConflictNotifier {
	if history <= 0 {
		history = DefaultConflictHistory
	}
	return &ConflictNotifier{client: client, history: int64(history)}
}

// Notify publishes the event and records it in the recent list
func (n *ConflictNotifier) Notify(ctx context.Context, event domain.ConflictEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal conflict event: %w", err)
	}

	_, err = n.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, ConflictChannel, data)
		pipe.LPush(ctx, recentConflictsKey, data)
		pipe.LTrim(ctx, recentConflictsKey, 0, n.history-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish conflict event for %s: %w", event.Date, err)
	}
	return nil
}

// Recent returns up to limit recorded events, newest first.
// Entries that fail to decode are skipped.
func (n *ConflictNotifier) Recent(ctx context.Context, limit int) ([]domain.ConflictEvent, error) {
	if limit <= 0 || int64(limit) > n.history {
		limit = int(n.history)
	}

	raw, err := n.client.LRange(ctx, recentConflictsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent conflicts: %w", err)
	}

	events := make([]domain.ConflictEvent, 0, len(raw))
	for _, item := range raw {
		var event domain.ConflictEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Ping checks if the Redis backend is healthy
func (n *ConflictNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}
