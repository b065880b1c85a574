package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// MockWriteLock is an in-memory WriteLock with TTL expiry and per-acquisition
// tokens. It records every date that was locked so tests can assert on write gating.
type MockWriteLock struct {
	mu       sync.Mutex
	held     map[domain.ServiceDate]heldLock
	acquired []domain.ServiceDate
	next     int

	// TryLockFn replaces the in-memory behaviour when set
	TryLockFn func(date domain.ServiceDate, ttl time.Duration) (driven.UnlockFunc, bool, error)
}

type heldLock struct {
	token  int
	expiry time.Time
}

// NewMockWriteLock creates a new mock write lock.
func NewMockWriteLock() *MockWriteLock {
	return &MockWriteLock{
		held: make(map[domain.ServiceDate]heldLock),
	}
}

func (m *MockWriteLock) TryLock(ctx context.Context, date domain.ServiceDate, ttl time.Duration) (driven.UnlockFunc, bool, error) {
	if m.TryLockFn != nil {
		return m.TryLockFn(date, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if h, exists := m.held[date]; exists && time.Now().Before(h.expiry) {
		return nil, false, nil
	}

	m.next++
	token := m.next
	m.held[date] = heldLock{token: token, expiry: time.Now().Add(ttl)}
	m.acquired = append(m.acquired, date)

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.held[date].token == token {
			delete(m.held, date)
		}
		return nil
	}, true, nil
}

// Acquired returns every date that was locked, in order
func (m *MockWriteLock) Acquired() []domain.ServiceDate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ServiceDate(nil), m.acquired...)
}

// IsHeld reports whether date is locked and unexpired
func (m *MockWriteLock) IsHeld(date domain.ServiceDate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, exists := m.held[date]
	return exists && time.Now().Before(h.expiry)
}

// HoldElsewhere marks date as locked by another writer (for test setup)
func (m *MockWriteLock) HoldElsewhere(date domain.ServiceDate, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[date] = heldLock{token: -1, expiry: time.Now().Add(ttl)}
}
