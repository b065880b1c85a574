package driving

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// SaveStructureRequest submits an editor's intended order of worship for a date
type SaveStructureRequest struct {
	Date     string                     `json:"date"`
	Title    string                     `json:"title,omitempty"`
	Elements []domain.StructuralElement `json:"elements"`
	// LastKnownVersion is the version the editor started from; empty if unknown
	LastKnownVersion string                    `json:"lastKnownVersion,omitempty"`
	Liturgical       *domain.LiturgicalContext `json:"liturgicalContext,omitempty"`
	Team             domain.Team               `json:"team,omitempty"`
}

// SaveStructureResult is the merged document plus any non-fatal orphan warning
type SaveStructureResult struct {
	Document         *domain.ServiceDocument `json:"document"`
	OrphanWarning    *domain.OrphanWarning   `json:"orphanWarning,omitempty"`
	ConflictDetected bool                    `json:"conflictDetected"`
}

// PlanningService reconciles concurrent edits to service documents
type PlanningService interface {
	// SaveServiceStructure merges a new structure with the stored selections,
	// archives any orphaned selections and resyncs the selection index.
	// A stale LastKnownVersion never causes a rejection.
	SaveServiceStructure(ctx context.Context, req SaveStructureRequest) (*SaveStructureResult, error)

	// Get retrieves the service document for a date
	Get(ctx context.Context, date string) (*domain.ServiceDocument, error)

	// List returns stored services, most recently updated first
	List(ctx context.Context, limit int) ([]domain.ServiceSummary, error)

	// Delete removes the service document and its selection index for a date
	Delete(ctx context.Context, date string) error

	// RecoverOrphans returns the most recent orphan event for a date.
	// Returns domain.ErrNotFound if none was ever recorded.
	RecoverOrphans(ctx context.Context, date string) (*domain.OrphanRecovery, error)

	// OrphanHistory returns archived orphan records for a date, newest first
	OrphanHistory(ctx context.Context, date string, limit int) ([]*domain.OrphanRecord, error)
}
