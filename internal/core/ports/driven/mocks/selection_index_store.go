package mocks

import (
	"context"
	"maps"
	"sync"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// MockSelectionIndexStore is a mock implementation of SelectionIndexStore for testing
type MockSelectionIndexStore struct {
	mu      sync.RWMutex
	records map[domain.ServiceDate]*domain.SelectionIndexRecord

	// Custom behavior hooks (optional)
	SaveFn func(record *domain.SelectionIndexRecord) error
}

// NewMockSelectionIndexStore creates a new MockSelectionIndexStore
func NewMockSelectionIndexStore() *MockSelectionIndexStore {
	return &MockSelectionIndexStore{
		records: make(map[domain.ServiceDate]*domain.SelectionIndexRecord),
	}
}

func (m *MockSelectionIndexStore) Get(ctx context.Context, date domain.ServiceDate) (*domain.SelectionIndexRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneIndexRecord(record), nil
}

func (m *MockSelectionIndexStore) Save(ctx context.Context, record *domain.SelectionIndexRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Date] = cloneIndexRecord(record)
	return nil
}

func (m *MockSelectionIndexStore) Delete(ctx context.Context, date domain.ServiceDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, date)
	return nil
}

// Put stores a record unconditionally (for test setup)
func (m *MockSelectionIndexStore) Put(record *domain.SelectionIndexRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Date] = cloneIndexRecord(record)
}

func cloneIndexRecord(r *domain.SelectionIndexRecord) *domain.SelectionIndexRecord {
	out := *r
	out.Selections = maps.Clone(r.Selections)
	return &out
}
