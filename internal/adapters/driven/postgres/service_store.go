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
var _ driven.ServiceStore = (*ServiceStore)(nil)

// ServiceStore implements driven.ServiceStore using PostgreSQL.
// Writes are compare-and-set on the version column.
type ServiceStore struct {
	db *DB
}

// NewServiceStore creates a new ServiceStore
func NewServiceStore(db *DB) *ServiceStore {
	return &ServiceStore{db: db}
}

// Get retrieves the service document for a date
func (s *ServiceStore) Get(ctx context.Context, date domain.ServiceDate) (*domain.ServiceDocument, error) {
	query := `
		SELECT date, title, elements, version, liturgical, last_orphan_event, created_at, updated_at
		FROM service_documents
		WHERE date = $1
	`

	var doc domain.ServiceDocument
	var elementsJSON, liturgicalJSON, orphanJSON []byte

	err := s.db.QueryRowContext(ctx, query, date.String()).Scan(
		&doc.Date,
		&doc.Title,
		&elementsJSON,
		&doc.Version,
		&liturgicalJSON,
		&orphanJSON,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service %s: %w", date, err)
	}

	if err := json.Unmarshal(elementsJSON, &doc.Elements); err != nil {
		return nil, fmt.Errorf("decode elements for %s: %w", date, err)
	}
	if doc.Liturgical, err = scanNullableJSON[domain.LiturgicalContext](liturgicalJSON); err != nil {
		return nil, fmt.Errorf("decode liturgical context for %s: %w", date, err)
	}
	if doc.LastOrphanEvent, err = scanNullableJSON[domain.OrphanEvent](orphanJSON); err != nil {
		return nil, fmt.Errorf("decode orphan event for %s: %w", date, err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()

	return &doc, nil
}

// SaveIfVersion inserts the document when expectedVersion is empty, otherwise
// updates it only while the stored version still equals expectedVersion.
func (s *ServiceStore) SaveIfVersion(ctx context.Context, doc *domain.ServiceDocument, expectedVersion string) error {
	elements := doc.Elements
	if elements == nil {
		elements = []domain.StructuralElement{}
	}
	elementsJSON, err := json.Marshal(elements)
	if err != nil {
		return err
	}
	liturgicalJSON, err := nullableJSON(doc.Liturgical)
	if err != nil {
		return err
	}
	orphanJSON, err := nullableJSON(doc.LastOrphanEvent)
	if err != nil {
		return err
	}

	var res sql.Result
	if expectedVersion == "" {
		query := `
			INSERT INTO service_documents (date, service_day, title, elements, version, liturgical, last_orphan_event, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (date) DO NOTHING
		`
		res, err = s.db.ExecContext(ctx, query,
			doc.Date.String(),
			doc.Date.Time(),
			doc.Title,
			elementsJSON,
			doc.Version,
			liturgicalJSON,
			orphanJSON,
			doc.CreatedAt,
			doc.UpdatedAt,
		)
	} else {
		query := `
			UPDATE service_documents SET
				title = $2,
				elements = $3,
				version = $4,
				liturgical = $5,
				last_orphan_event = $6,
				updated_at = $7
			WHERE date = $1 AND version = $8
		`
		res, err = s.db.ExecContext(ctx, query,
			doc.Date.String(),
			doc.Title,
			elementsJSON,
			doc.Version,
			liturgicalJSON,
			orphanJSON,
			doc.UpdatedAt,
			expectedVersion,
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionMismatch
		}
		return fmt.Errorf("save service %s: %w", doc.Date, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVersionMismatch
	}
	return nil
}

// Delete removes the service document and its selection index in one transaction
func (s *ServiceStore) Delete(ctx context.Context, date domain.ServiceDate) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM service_documents WHERE date = $1", date.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM selection_indexes WHERE date = $1", date.String())
		return err
	})
}

// List returns summaries of stored services, most recently updated first
func (s *ServiceStore) List(ctx context.Context, limit int) ([]domain.ServiceSummary, error) {
	query := `
		SELECT date, title, elements, version, updated_at
		FROM service_documents
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.ServiceSummary
	for rows.Next() {
		var doc domain.ServiceDocument
		var elementsJSON []byte
		if err := rows.Scan(&doc.Date, &doc.Title, &elementsJSON, &doc.Version, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(elementsJSON, &doc.Elements); err != nil {
			return nil, fmt.Errorf("decode elements for %s: %w", doc.Date, err)
		}
		doc.UpdatedAt = doc.UpdatedAt.UTC()
		summaries = append(summaries, doc.Summary())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
