package mocks

import (
	"context"
	"sync"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

// MockConflictNotifier records published conflict events
type MockConflictNotifier struct {
	mu     sync.Mutex
	events []domain.ConflictEvent

	// Custom behavior hooks (optional)
	NotifyFn func(event domain.ConflictEvent) error
	PingFn   func() error
}

// NewMockConflictNotifier creates a new MockConflictNotifier
func NewMockConflictNotifier() *MockConflictNotifier {
	return &MockConflictNotifier{}
}

func (m *MockConflictNotifier) Notify(ctx context.Context, event domain.ConflictEvent) error {
	if m.NotifyFn != nil {
		return m.NotifyFn(event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockConflictNotifier) Recent(ctx context.Context, limit int) ([]domain.ConflictEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.ConflictEvent
	for i := len(m.events) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		result = append(result, m.events[i])
	}
	return result, nil
}

func (m *MockConflictNotifier) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn()
	}
	return nil
}

// Events returns every published event in order (for test assertions)
func (m *MockConflictNotifier) Events() []domain.ConflictEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ConflictEvent(nil), m.events...)
}
