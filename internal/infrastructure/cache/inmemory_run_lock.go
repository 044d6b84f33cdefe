package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	appmigration "github.com/morrillo/blo-migration/internal/application/migration"
)

// ErrLockNotHeld is returned by Unlock when the token does not own the key
var ErrLockNotHeld = errors.New("run lock not held by token")

type lease struct {
	token     string
	expiresAt time.Time
}

// InMemoryRunLock implements RunLock with a process-local map.
// Expired leases are reclaimed lazily on the next TryLock.
type InMemoryRunLock struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

// NewInMemoryRunLock creates an empty in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

// TryLock acquires key for ttl unless a live lease exists
func (l *InMemoryRunLock) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if current, held := l.leases[key]; held && now.Before(current.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Unlock releases key if token still owns it
func (l *InMemoryRunLock) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, held := l.leases[key]
	if !held || current.token != token {
		return ErrLockNotHeld
	}
	delete(l.leases, key)
	return nil
}

var _ appmigration.RunLock = (*InMemoryRunLock)(nil)
