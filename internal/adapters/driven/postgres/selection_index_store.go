package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SelectionIndexStore = (*SelectionIndexStore)(nil)

// SelectionIndexStore implements driven.SelectionIndexStore using PostgreSQL
type SelectionIndexStore struct {
	db *DB
}

// NewSelectionIndexStore creates a new SelectionIndexStore
func NewSelectionIndexStore(db *DB) *SelectionIndexStore {
	return &SelectionIndexStore{db: db}
}

// Get retrieves the selection index record for a date
func (s *SelectionIndexStore) Get(ctx context.Context, date domain.ServiceDate) (*domain.SelectionIndexRecord, error) {
	query := `
		SELECT date, selections, last_synced_at, orphaned_songs_removed, updated_at
		FROM selection_indexes
		WHERE date = $1
	`

	var record domain.SelectionIndexRecord
	var selectionsJSON []byte
	var lastSynced sql.NullTime

	err := s.db.QueryRowContext(ctx, query, date.String()).Scan(
		&record.Date,
		&selectionsJSON,
		&lastSynced,
		&record.OrphanedSongsRemoved,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get selection index %s: %w", date, err)
	}

	if err := json.Unmarshal(selectionsJSON, &record.Selections); err != nil {
		return nil, fmt.Errorf("decode selections for %s: %w", date, err)
	}
	record.LastSyncedWithServiceDetails = TimePtr(lastSynced)
	record.UpdatedAt = record.UpdatedAt.UTC()

	return &record, nil
}

// Save replaces the record for record.Date, selections included
func (s *SelectionIndexStore) Save(ctx context.Context, record *domain.SelectionIndexRecord) error {
	selections := record.Selections
	if selections == nil {
		selections = map[string]domain.SongSelection{}
	}
	selectionsJSON, err := json.Marshal(selections)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO selection_indexes (date, selections, last_synced_at, orphaned_songs_removed, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE SET
			selections = EXCLUDED.selections,
			last_synced_at = EXCLUDED.last_synced_at,
			orphaned_songs_removed = EXCLUDED.orphaned_songs_removed,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		record.Date.String(),
		selectionsJSON,
		NullTime(record.LastSyncedWithServiceDetails),
		record.OrphanedSongsRemoved,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save selection index %s: %w", record.Date, err)
	}
	return nil
}

// Delete removes the record for a date
func (s *SelectionIndexStore) Delete(ctx context.Context, date domain.ServiceDate) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM selection_indexes WHERE date = $1", date.String())
	return err
}
