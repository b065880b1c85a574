package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.WriteLock = (*WriteLock)(nil)

const writeLockPrefix = "planner:write-lock:"

// WriteLock implements driven.WriteLock with SET NX and a TTL.
//
// Every acquisition stores its own token, so a writer whose lock expired
// mid-write cannot release the lock a later writer took, even when both
// run in the same process.
type WriteLock struct {
	client *redis.Client
	prefix string // hostname:pid, shared by every token this process issues
}

// NewWriteLock creates a Redis-backed per-date write lock.
func NewWriteLock(client *redis.Client) *WriteLock {
	hostname, _ := os.Hostname()
	return &WriteLock{
		client: client,
		prefix: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
	}
}

func writeLockKey(date domain.ServiceDate) string {
	return writeLockPrefix + date.String()
}

// newToken returns hostname:pid:random
func (l *WriteLock) newToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return l.prefix + ":" + hex.EncodeToString(b)
}

// TryLock takes the write lock for date if nobody holds it.
func (l *WriteLock) TryLock(ctx context.Context, date domain.ServiceDate, ttl time.Duration) (driven.UnlockFunc, bool, error) {
	key := writeLockKey(date)
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", date, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		return l.unlock(ctx, key, token)
	}, true, nil
}

// compareAndDelete deletes KEYS[1] only while it still holds ARGV[1]
var compareAndDelete = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

func (l *WriteLock) unlock(ctx context.Context, key, token string) error {
	err := compareAndDelete.Run(ctx, l.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("unlock %s: %w", key, err)
	}
	return nil
}
