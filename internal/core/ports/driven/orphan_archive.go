package driven

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// OrphanArchive is the append-only log of orphaned selections (PostgreSQL)
type OrphanArchive interface {
	// Insert appends a record. Records are never updated.
	Insert(ctx context.Context, record *domain.OrphanRecord) error

	// Latest returns the most recent record for a date.
	// Returns domain.ErrNotFound if none exist.
	Latest(ctx context.Context, date domain.ServiceDate) (*domain.OrphanRecord, error)

	// ListByDate returns records for a date, newest first
	ListByDate(ctx context.Context, date domain.ServiceDate, limit int) ([]*domain.OrphanRecord, error)
}
