package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OrphanArchive = (*OrphanArchive)(nil)

// OrphanArchive implements driven.OrphanArchive using PostgreSQL.
// Rows are only ever inserted.
type OrphanArchive struct {
	db *DB
}

// NewOrphanArchive creates a new OrphanArchive
func NewOrphanArchive(db *DB) *OrphanArchive {
	return &OrphanArchive{db: db}
}

// orphaned_titles is a denormalised copy of the titles for ad-hoc queries; it is written, never read back.
const orphanSelectColumns = `id, date, occurred_at, orphaned_by, orphaned_songs,
		service_title, original_element_count, new_element_count, orphan_reason`

// Insert appends an orphan record
func (a *OrphanArchive) Insert(ctx context.Context, record *domain.OrphanRecord) error {
	songsJSON, err := json.Marshal(record.OrphanedSongs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orphan_records (id, date, occurred_at, orphaned_by, orphaned_titles, orphaned_songs,
			service_title, original_element_count, new_element_count, orphan_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = a.db.ExecContext(ctx, query,
		record.ID,
		record.Date.String(),
		record.Timestamp,
		string(record.OrphanedBy),
		pq.Array(domain.OrphanTitles(record.OrphanedSongs)),
		songsJSON,
		record.ServiceTitle,
		record.OriginalElementCount,
		record.NewElementCount,
		string(record.OrphanReason),
	)
	if err != nil {
		return fmt.Errorf("insert orphan record for %s: %w", record.Date, err)
	}
	return nil
}

// Latest returns the most recent orphan record for a date
func (a *OrphanArchive) Latest(ctx context.Context, date domain.ServiceDate) (*domain.OrphanRecord, error) {
	query := `
		SELECT ` + orphanSelectColumns + `
		FROM orphan_records
		WHERE date = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT 1
	`

	record, err := scanOrphanRecord(a.db.QueryRowContext(ctx, query, date.String()))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListByDate returns orphan records for a date, newest first
func (a *OrphanArchive) ListByDate(ctx context.Context, date domain.ServiceDate, limit int) ([]*domain.OrphanRecord, error) {
	query := `
		SELECT ` + orphanSelectColumns + `
		FROM orphan_records
		WHERE date = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`

	rows, err := a.db.QueryContext(ctx, query, date.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OrphanRecord
	for rows.Next() {
		record, err := scanOrphanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrphanRecord(row rowScanner) (*domain.OrphanRecord, error) {
	var record domain.OrphanRecord
	var songsJSON []byte

	err := row.Scan(
		&record.ID,
		&record.Date,
		&record.Timestamp,
		&record.OrphanedBy,
		&songsJSON,
		&record.ServiceTitle,
		&record.OriginalElementCount,
		&record.NewElementCount,
		&record.OrphanReason,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(songsJSON, &record.OrphanedSongs); err != nil {
		return nil, fmt.Errorf("decode orphaned selections for %s: %w", record.Date, err)
	}
	record.Timestamp = record.Timestamp.UTC()
	return &record, nil
}
