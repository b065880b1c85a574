package driven

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// ServiceStore handles service document persistence (PostgreSQL)
type ServiceStore interface {
	// Get retrieves the service document for a date.
	// Returns domain.ErrNotFound if no document exists.
	Get(ctx context.Context, date domain.ServiceDate) (*domain.ServiceDocument, error)

	// SaveIfVersion writes doc only if the stored version still equals expectedVersion.
	// An empty expectedVersion means the document must not exist yet.
	// Returns domain.ErrVersionMismatch when another writer got there first.
	SaveIfVersion(ctx context.Context, doc *domain.ServiceDocument, expectedVersion string) error

	// Delete removes the service document for a date.
	// Returns domain.ErrNotFound if no document exists.
	Delete(ctx context.Context, date domain.ServiceDate) error

	// List returns summaries of stored services, most recently updated first
	List(ctx context.Context, limit int) ([]domain.ServiceSummary, error)
}
