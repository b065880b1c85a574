package driven

import (
	"context"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// LiturgicalCalendar resolves the season and special day for a service date
type LiturgicalCalendar interface {
	// Lookup returns the liturgical context for a date.
	// It is a pure lookup with no side effects.
	Lookup(ctx context.Context, date domain.ServiceDate) (*domain.LiturgicalContext, error)
}
