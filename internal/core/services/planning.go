package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driving"
)

// Ensure planningService implements PlanningService
var _ driving.PlanningService = (*planningService)(nil)

// planningService implements the structural save path. Concurrent edits are
// never rejected: the stored selections are merged into the editor's new
// structure, and anything that no longer has a slot is archived as an orphan.
type planningService struct {
	*serviceWriter
}

// NewPlanningService creates a new PlanningService
func NewPlanningService(cfg WriterConfig) driving.PlanningService {
	return &planningService{serviceWriter: newServiceWriter(cfg)}
}

// structuralMerge carries what the last successful merge attempt computed
type structuralMerge struct {
	orphans  []domain.OrphanedSelection
	conflict *domain.ConflictEvent
}

// SaveServiceStructure merges the new structure with the stored selections
func (s *planningService) SaveServiceStructure(ctx context.Context, req driving.SaveStructureRequest) (*driving.SaveStructureResult, error) {
	date, err := domain.ParseServiceDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateElements(req.Elements); err != nil {
		return nil, err
	}
	team := req.Team
	if team == "" {
		team = domain.TeamPastor
	}

	var merge structuralMerge
	liturgical := s.liturgicalFor(date, req.Liturgical)

	written, replaced, err := s.write(ctx, date, func(stored *domain.ServiceDocument, attempt int) (*domain.ServiceDocument, error) {
		var storedVersion string
		var storedElements []domain.StructuralElement
		if stored != nil {
			storedVersion = stored.Version
			storedElements = stored.Elements
		}

		if merge.conflict == nil && domain.CheckVersion(storedVersion, req.LastKnownVersion) == domain.Conflict {
			merge.conflict = &domain.ConflictEvent{
				Date:            date,
				StoredVersion:   storedVersion,
				IncomingVersion: req.LastKnownVersion,
				Team:            team,
				DetectedAt:      s.clock().UTC(),
			}
			s.signalConflict(ctx, *merge.conflict)
		}

		idx := domain.BuildSelectionIndex(storedElements)
		result := domain.MergeStructure(req.Elements, idx)
		merge.orphans = domain.DetectOrphans(idx, result.Matched)

		now := s.clock().UTC()
		doc := &domain.ServiceDocument{
			Date:       date,
			Title:      req.Title,
			Elements:   result.Elements,
			Liturgical: liturgical.resolve(ctx, stored),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if stored != nil {
			doc.CreatedAt = stored.CreatedAt
			if doc.Title == "" {
				doc.Title = stored.Title
			}
		}
		if len(merge.orphans) > 0 {
			doc.LastOrphanEvent = &domain.OrphanEvent{
				Timestamp:      now,
				OrphanCount:    len(merge.orphans),
				OrphanedTitles: domain.OrphanTitles(merge.orphans),
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	result := &driving.SaveStructureResult{
		Document:         written,
		ConflictDetected: merge.conflict != nil,
	}

	if len(merge.orphans) > 0 {
		record := &domain.OrphanRecord{
			ID:                   generateID(),
			Date:                 date,
			Timestamp:            written.LastOrphanEvent.Timestamp,
			OrphanedBy:           team,
			OrphanedSongs:        merge.orphans,
			ServiceTitle:         serviceTitle(written),
			OriginalElementCount: len(replaced.Elements),
			NewElementCount:      len(written.Elements),
			OrphanReason:         domain.OrphanReasonPastorEdit,
		}
		archived := s.archiveOrphans(ctx, record)
		result.OrphanWarning = &domain.OrphanWarning{
			Message:       orphanMessage(len(merge.orphans), archived),
			OrphanCount:   len(merge.orphans),
			OrphanedSongs: merge.orphans,
			Reason:        domain.OrphanReasonPastorEdit,
			Archived:      archived,
		}
		s.logger.Info("structural edit orphaned selections",
			"date", date,
			"orphan_count", len(merge.orphans),
			"titles", domain.OrphanTitles(merge.orphans),
			"archived", archived)
	}

	s.resyncIndex(ctx, written, domain.CountSongOrphans(merge.orphans))

	s.logger.Info("service structure saved",
		"date", date,
		"version", written.Version,
		"elements", len(written.Elements),
		"conflict", result.ConflictDetected)

	return result, nil
}

// Get retrieves the service document for a date
func (s *planningService) Get(ctx context.Context, date string) (*domain.ServiceDocument, error) {
	d, err := domain.ParseServiceDate(date)
	if err != nil {
		return nil, err
	}
	return s.services.Get(ctx, d)
}

// List returns stored services, most recently updated first
func (s *planningService) List(ctx context.Context, limit int) ([]domain.ServiceSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.services.List(ctx, limit)
}

// Delete removes the service document and its selection index for a date.
// The orphan archive is kept for recovery.
func (s *planningService) Delete(ctx context.Context, date string) error {
	d, err := domain.ParseServiceDate(date)
	if err != nil {
		return err
	}
	if err := s.services.Delete(ctx, d); err != nil {
		return err
	}
	if err := s.index.Delete(ctx, d); err != nil {
		s.logger.Warn("failed to delete selection index", "date", d, "error", err)
	}
	return nil
}

// RecoverOrphans returns the most recent orphan event for a date
func (s *planningService) RecoverOrphans(ctx context.Context, date string) (*domain.OrphanRecovery, error) {
	d, err := domain.ParseServiceDate(date)
	if err != nil {
		return nil, err
	}
	record, err := s.archive.Latest(ctx, d)
	if err != nil {
		return nil, err
	}
	return record.Recovery(), nil
}

// OrphanHistory returns archived orphan records for a date, newest first
func (s *planningService) OrphanHistory(ctx context.Context, date string, limit int) ([]*domain.OrphanRecord, error) {
	d, err := domain.ParseServiceDate(date)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.archive.ListByDate(ctx, d, limit)
}

func validateElements(elements []domain.StructuralElement) error {
	for i, el := range elements {
		if !el.Type.IsValid() {
			return fmt.Errorf("%w: element %d has unknown type %q", domain.ErrInvalidInput, i, el.Type)
		}
	}
	return nil
}

func serviceTitle(doc *domain.ServiceDocument) string {
	if doc.Title != "" {
		return doc.Title
	}
	if doc.Liturgical != nil {
		if doc.Liturgical.SpecialDayName != "" {
			return doc.Liturgical.SpecialDayName
		}
		return doc.Liturgical.SeasonName
	}
	return ""
}

func orphanMessage(count int, archived bool) string {
	subject := fmt.Sprintf("%d selections no longer have matching slots", count)
	if count == 1 {
		subject = "1 selection no longer has a matching slot"
	}
	if !archived {
		return subject + "; the recovery record could not be saved"
	}
	return subject + " and was saved for recovery"
}

// isNotFound reports whether err is a not-found error from a store
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
