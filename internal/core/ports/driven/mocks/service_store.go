package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// MockServiceStore is an in-memory ServiceStore with compare-and-set semantics
type MockServiceStore struct {
	mu   sync.RWMutex
	docs map[domain.ServiceDate]*domain.ServiceDocument

	// SaveAttempts counts SaveIfVersion calls, successful or not
	SaveAttempts int

	// Custom behavior hooks (optional)
	GetFn func(date domain.ServiceDate) (*domain.ServiceDocument, error)
	// BeforeSaveFn runs before the version comparison, without the store lock held.
	// Tests use it to simulate a writer that commits between read and write.
	BeforeSaveFn    func(doc *domain.ServiceDocument, expectedVersion string)
	SaveIfVersionFn func(doc *domain.ServiceDocument, expectedVersion string) error
}

// NewMockServiceStore creates a new MockServiceStore
func NewMockServiceStore() *MockServiceStore {
	return &MockServiceStore{
		docs: make(map[domain.ServiceDate]*domain.ServiceDocument),
	}
}

// Put stores doc unconditionally (for test setup)
func (m *MockServiceStore) Put(doc *domain.ServiceDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Date] = CloneDocument(doc)
}

func (m *MockServiceStore) Get(ctx context.Context, date domain.ServiceDate) (*domain.ServiceDocument, error) {
	if m.GetFn != nil {
		return m.GetFn(date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return CloneDocument(doc), nil
}

func (m *MockServiceStore) SaveIfVersion(ctx context.Context, doc *domain.ServiceDocument, expectedVersion string) error {
	m.mu.Lock()
	m.SaveAttempts++
	m.mu.Unlock()

	if m.BeforeSaveFn != nil {
		m.BeforeSaveFn(doc, expectedVersion)
	}
	if m.SaveIfVersionFn != nil {
		return m.SaveIfVersionFn(doc, expectedVersion)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, exists := m.docs[doc.Date]
	switch {
	case expectedVersion == "" && exists:
		return domain.ErrVersionMismatch
	case expectedVersion != "" && (!exists || current.Version != expectedVersion):
		return domain.ErrVersionMismatch
	}
	m.docs[doc.Date] = CloneDocument(doc)
	return nil
}

func (m *MockServiceStore) Delete(ctx context.Context, date domain.ServiceDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[date]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, date)
	return nil
}

func (m *MockServiceStore) List(ctx context.Context, limit int) ([]domain.ServiceSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.ServiceSummary, 0, len(m.docs))
	for _, doc := range m.docs {
		result = append(result, doc.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Stored returns the stored document without copying (for test assertions)
func (m *MockServiceStore) Stored(date domain.ServiceDate) *domain.ServiceDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[date]
}

// CloneDocument deep-copies a service document so callers never share element slices
func CloneDocument(doc *domain.ServiceDocument) *domain.ServiceDocument {
	if doc == nil {
		return nil
	}
	out := *doc
	out.Elements = make([]domain.StructuralElement, len(doc.Elements))
	for i, el := range doc.Elements {
		if el.Selection != nil {
			sel := *el.Selection
			el.Selection = &sel
		}
		out.Elements[i] = el
	}
	if doc.Liturgical != nil {
		lit := *doc.Liturgical
		out.Liturgical = &lit
	}
	if doc.LastOrphanEvent != nil {
		ev := *doc.LastOrphanEvent
		ev.OrphanedTitles = append([]string(nil), doc.LastOrphanEvent.OrphanedTitles...)
		out.LastOrphanEvent = &ev
	}
	return &out
}
