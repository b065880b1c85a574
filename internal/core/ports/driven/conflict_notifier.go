package driven

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// ConflictNotifier publishes concurrent-edit signals for observability.
// Notifications are best-effort and never block a write.
type ConflictNotifier interface {
	// Notify publishes a conflict event
	Notify(ctx context.Context, event domain.ConflictEvent) error

	// Recent returns up to limit of the most recent conflict events, newest first
	Recent(ctx context.Context, limit int) ([]domain.ConflictEvent, error)

	// Ping checks if the notifier backend is healthy
	Ping(ctx context.Context) error
}
