package driving

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// SaveSelectionsRequest attaches songs and readings to existing slots of a service
type SaveSelectionsRequest struct {
	Date             string                 `json:"date"`
	Selections       []domain.SlotSelection `json:"selections"`
	LastKnownVersion string                 `json:"lastKnownVersion,omitempty"`
	Team             domain.Team            `json:"team,omitempty"`
}

// SaveSelectionsResult reports the updated document and any slots that could not be found
type SaveSelectionsResult struct {
	Document     *domain.ServiceDocument      `json:"document"`
	Index        *domain.SelectionIndexRecord `json:"index"`
	UnknownSlots []string                     `json:"unknownSlots,omitempty"`
}

// SelectionService is the worship team's direct selection-save path
type SelectionService interface {
	// SaveSelections attaches selections to slots matched by slot key
	SaveSelections(ctx context.Context, req SaveSelectionsRequest) (*SaveSelectionsResult, error)

	// GetSelections returns the slot-indexed selection record for a date
	GetSelections(ctx context.Context, date string) (*domain.SelectionIndexRecord, error)
}
