package mocks

import (
	"context"
	"sync"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// MockLiturgicalCalendar is a mock implementation of LiturgicalCalendar for testing
type MockLiturgicalCalendar struct {
	mu      sync.Mutex
	entries map[domain.ServiceDate]*domain.LiturgicalContext
	calls   int

	// Custom behavior hooks (optional)
	LookupFn func(date domain.ServiceDate) (*domain.LiturgicalContext, error)
}

// NewMockLiturgicalCalendar creates a new MockLiturgicalCalendar
func NewMockLiturgicalCalendar() *MockLiturgicalCalendar {
	return &MockLiturgicalCalendar{
		entries: make(map[domain.ServiceDate]*domain.LiturgicalContext),
	}
}

// Set registers the context returned for a date
func (m *MockLiturgicalCalendar) Set(date domain.ServiceDate, info *domain.LiturgicalContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[date] = info
}

func (m *MockLiturgicalCalendar) Lookup(ctx context.Context, date domain.ServiceDate) (*domain.LiturgicalContext, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.LookupFn != nil {
		return m.LookupFn(date)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.entries[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return info, nil
}

// Calls returns how many lookups were made
func (m *MockLiturgicalCalendar) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
