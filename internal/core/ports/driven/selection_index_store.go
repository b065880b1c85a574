package driven

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// SelectionIndexStore handles the slot-indexed song selection records (PostgreSQL)
type SelectionIndexStore interface {
	// Get retrieves the selection index record for a date.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, date domain.ServiceDate) (*domain.SelectionIndexRecord, error)

	// Save creates or replaces the record for record.Date.
	// The selections map is replaced wholesale, never patched.
	Save(ctx context.Context, record *domain.SelectionIndexRecord) error

	// Delete removes the record for a date. Missing records are not an error.
	Delete(ctx context.Context, date domain.ServiceDate) error
}
