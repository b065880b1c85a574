package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.WriteLock = (*AdvisoryWriteLock)(nil)

// AdvisoryWriteLock implements driven.WriteLock with session advisory locks.
//
// Advisory locks belong to a connection, so each held date pins one pooled
// connection until it is unlocked. There is no expiry: ttl is ignored and the
// lock lasts until unlock or until the connection drops.
//
// Used when Redis is not configured.
type AdvisoryWriteLock struct {
	db *DB

	mu    sync.Mutex
	conns map[domain.ServiceDate]*sql.Conn
}

// NewAdvisoryWriteLock creates a PostgreSQL advisory write lock.
func NewAdvisoryWriteLock(db *DB) *AdvisoryWriteLock {
	return &AdvisoryWriteLock{
		db:    db,
		conns: make(map[domain.ServiceDate]*sql.Conn),
	}
}

// advisoryKey maps a service date to the 64-bit key advisory locks use.
func advisoryKey(date domain.ServiceDate) int64 {
	h := fnv.New64a()
	h.Write([]byte("planner:write-lock:" + date.String()))
	return int64(h.Sum64())
}

// TryLock takes the date's advisory lock without blocking.
func (l *AdvisoryWriteLock) TryLock(ctx context.Context, date domain.ServiceDate, ttl time.Duration) (driven.UnlockFunc, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Advisory locks are reentrant within a session; the map keeps them exclusive per process.
	if _, held := l.conns[date]; held {
		return nil, false, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("reserve lock connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", advisoryKey(date)).Scan(&acquired); err != nil {
		conn.Close()
		return nil, false, fmt.Errorf("lock %s: %w", date, err)
	}
	if !acquired {
		conn.Close()
		return nil, false, nil
	}

	l.conns[date] = conn
	return func(ctx context.Context) error {
		return l.unlock(ctx, date, conn)
	}, true, nil
}

// unlock releases the advisory lock held on conn and returns conn to the pool.
func (l *AdvisoryWriteLock) unlock(ctx context.Context, date domain.ServiceDate, conn *sql.Conn) error {
	l.mu.Lock()
	if l.conns[date] != conn {
		l.mu.Unlock()
		return nil
	}
	delete(l.conns, date)
	l.mu.Unlock()

	defer conn.Close()
	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", advisoryKey(date)).Scan(&released); err != nil {
		return fmt.Errorf("unlock %s: %w", date, err)
	}
	return nil
}
