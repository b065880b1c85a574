package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driving"
)

// Ensure selectionService implements SelectionService
var _ driving.SelectionService = (*selectionService)(nil)

// selectionService implements the worship team's selection-save path.
// It fills existing slots and never changes the structure.
type selectionService struct {
	*serviceWriter
}

// NewSelectionService creates a new SelectionService
func NewSelectionService(cfg WriterConfig) driving.SelectionService {
	return &selectionService{serviceWriter: newServiceWriter(cfg)}
}

// SaveSelections attaches selections to the slots whose key matches the given slot label
func (s *selectionService) SaveSelections(ctx context.Context, req driving.SaveSelectionsRequest) (*driving.SaveSelectionsResult, error) {
	date, err := domain.ParseServiceDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateSlotSelections(req.Selections); err != nil {
		return nil, err
	}
	team := req.Team
	if team == "" {
		team = domain.TeamWorship
	}

	var unknown []string
	conflictSignalled := false

	written, _, err := s.write(ctx, date, func(stored *domain.ServiceDocument, attempt int) (*domain.ServiceDocument, error) {
		if stored == nil {
			return nil, fmt.Errorf("%w: no service for %s", domain.ErrNotFound, date)
		}

		if !conflictSignalled && domain.CheckVersion(stored.Version, req.LastKnownVersion) == domain.Conflict {
			conflictSignalled = true
			s.signalConflict(ctx, domain.ConflictEvent{
				Date:            date,
				StoredVersion:   stored.Version,
				IncomingVersion: req.LastKnownVersion,
				Team:            team,
				DetectedAt:      s.clock().UTC(),
			})
		}

		next := *stored
		next.Elements = make([]domain.StructuralElement, len(stored.Elements))
		copy(next.Elements, stored.Elements)
		next.UpdatedAt = s.clock().UTC()

		unknown = unknown[:0]
		for _, sel := range req.Selections {
			if !applySlotSelection(next.Elements, sel) {
				unknown = append(unknown, sel.Slot)
			}
		}
		return &next, nil
	})
	if err != nil {
		return nil, err
	}

	orphanedSongs := 0
	if existing, err := s.index.Get(ctx, date); err == nil {
		orphanedSongs = existing.OrphanedSongsRemoved
	} else if !isNotFound(err) {
		s.logger.Warn("failed to read selection index", "date", date, "error", err)
	}
	index := s.resyncIndex(ctx, written, orphanedSongs)

	if len(unknown) > 0 {
		s.logger.Warn("selections for unknown slots ignored", "date", date, "slots", unknown)
	}
	s.logger.Info("selections saved",
		"date", date,
		"version", written.Version,
		"team", team,
		"applied", len(req.Selections)-len(unknown))

	return &driving.SaveSelectionsResult{
		Document:     written,
		Index:        index,
		UnknownSlots: unknown,
	}, nil
}

// GetSelections returns the slot-indexed selection record for a date
func (s *selectionService) GetSelections(ctx context.Context, date string) (*domain.SelectionIndexRecord, error) {
	d, err := domain.ParseServiceDate(date)
	if err != nil {
		return nil, err
	}
	return s.index.Get(ctx, d)
}

// applySlotSelection fills every slot of the matching kind whose key equals the
// selection's slot label. Reports whether any slot matched.
func applySlotSelection(elements []domain.StructuralElement, sel domain.SlotSelection) bool {
	key := domain.DeriveSlotKey(sel.Slot + ":")
	matched := false
	for i, el := range elements {
		if el.Key() != key {
			continue
		}
		switch {
		case sel.Selection != nil && el.Type.IsSong():
			chosen := *sel.Selection
			elements[i].Selection = &chosen
			elements[i].Content = domain.RenderSlotContent(el.Content, chosen, el.Type)
		case sel.Selection == nil && el.Type.IsReading():
			elements[i].Reference = sel.Reference
		default:
			continue
		}
		matched = true
	}
	return matched
}

func validateSlotSelections(selections []domain.SlotSelection) error {
	if len(selections) == 0 {
		return fmt.Errorf("%w: no selections given", domain.ErrInvalidInput)
	}
	for i, sel := range selections {
		if strings.TrimSpace(sel.Slot) == "" {
			return fmt.Errorf("%w: selection %d has no slot", domain.ErrInvalidInput, i)
		}
		if sel.Selection != nil && sel.Reference != "" {
			return fmt.Errorf("%w: selection %d sets both a song and a reference", domain.ErrInvalidInput, i)
		}
		if sel.Selection == nil && sel.Reference == "" {
			return fmt.Errorf("%w: selection %d is empty", domain.ErrInvalidInput, i)
		}
		if sel.Selection != nil && strings.TrimSpace(sel.Selection.Title) == "" {
			return fmt.Errorf("%w: selection %d has no title", domain.ErrInvalidInput, i)
		}
	}
	return nil
}
