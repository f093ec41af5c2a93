// Package distlock provides short-lived locks keyed by name, backed by Redis
// when available and by an in-process table otherwise.
package distlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTimeout is returned by Wait when the lock stays held until ctx is done.
var ErrTimeout = errors.New("timed out waiting for lock")

// DistLock is the interface for distributed locking.
// Implementations must be safe for use from a single goroutine;
// concurrent use across goroutines requires separate lock instances.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// Factory returns a fresh lock instance for key.
type Factory func(key string) DistLock

// NewFactory creates locks using the best available backend.
// If redisClient is non-nil, uses Redis (preferred for cross-host locking).
// Otherwise falls back to locks local to this process.
func NewFactory(redisClient *redis.Client, ttl time.Duration) Factory {
	if redisClient != nil {
		return func(key string) DistLock { return NewRedisLock(redisClient, key, ttl) }
	}
	locks := NewLocalLocks()
	return func(key string) DistLock { return locks.Lock(key, ttl) }
}

// Wait polls Acquire every interval until the lock is held or ctx is done.
func Wait(ctx context.Context, l DistLock, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ok, err := l.Acquire(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrTimeout
		case <-ticker.C:
		}
	}
}

// =============================================================================
// Local locks (fallback when Redis is unavailable)
// =============================================================================
// Only coordinate within one process. Held locks expire after their TTL so a
// handler that never releases cannot block a key forever.

// LocalLocks is a set of keyed locks shared by every LocalLock it creates.
type LocalLocks struct {
	mu     sync.Mutex
	owners map[string]localOwner
	now    func() time.Time
}

type localOwner struct {
	lock    *LocalLock
	expires time.Time
}

// NewLocalLocks creates an empty lock set.
func NewLocalLocks() *LocalLocks {
	return &LocalLocks{owners: make(map[string]localOwner), now: time.Now}
}

// Lock returns a new lock instance for key.
func (s *LocalLocks) Lock(key string, ttl time.Duration) *LocalLock {
	return &LocalLock{set: s, key: key, ttl: ttl}
}

// LocalLock implements DistLock within a single process.
type LocalLock struct {
	set *LocalLocks
	key string
	ttl time.Duration
}

// Acquire tries to acquire the lock. Returns true if successful.
func (l *LocalLock) Acquire(ctx context.Context) (bool, error) {
	s := l.set
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if cur, held := s.owners[l.key]; held && now.Before(cur.expires) {
		return false, nil
	}
	s.owners[l.key] = localOwner{lock: l, expires: now.Add(l.ttl)}
	return true, nil
}

// Release releases the lock if we still own it.
func (l *LocalLock) Release(ctx context.Context) error {
	s := l.set
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, held := s.owners[l.key]; held && cur.lock == l {
		delete(s.owners, l.key)
	}
	return nil
}
