package mocks

import (
	"context"
	"sync"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// MockOrphanArchive is an in-memory append-only OrphanArchive
type MockOrphanArchive struct {
	mu      sync.RWMutex
	records []*domain.OrphanRecord

	// Custom behavior hooks (optional)
	InsertFn func(record *domain.OrphanRecord) error
}

// NewMockOrphanArchive creates a new MockOrphanArchive
func NewMockOrphanArchive() *MockOrphanArchive {
	return &MockOrphanArchive{}
}

func (m *MockOrphanArchive) Insert(ctx context.Context, record *domain.OrphanRecord) error {
	if m.InsertFn != nil {
		return m.InsertFn(record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MockOrphanArchive) Latest(ctx context.Context, date domain.ServiceDate) (*domain.OrphanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Date == date {
			return m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockOrphanArchive) ListByDate(ctx context.Context, date domain.ServiceDate, limit int) ([]*domain.OrphanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OrphanRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Date != date {
			continue
		}
		result = append(result, m.records[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// Records returns every archived record in insertion order (for test assertions)
func (m *MockOrphanArchive) Records() []*domain.OrphanRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OrphanRecord(nil), m.records...)
}
