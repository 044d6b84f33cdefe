package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLock_TryLock(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	t.Run("acquires a free key", func(t *testing.T) {
		token, ok, err := lock.TryLock(ctx, "invoices", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})

	t.Run("refuses a held key", func(t *testing.T) {
		token, ok, err := lock.TryLock(ctx, "invoices", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, token)
	})

	t.Run("keys are independent", func(t *testing.T) {
		_, ok, err := lock.TryLock(ctx, "other", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryRunLock_Expiry(t *testing.T) {
	lock := NewInMemoryRunLock()
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	lock.now = func() time.Time { return now }
	ctx := context.Background()

	first, ok, err := lock.TryLock(ctx, "invoices", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	second, ok, err := lock.TryLock(ctx, "invoices", time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "an expired lease is reclaimed")
	assert.NotEqual(t, first, second)

	assert.ErrorIs(t, lock.Unlock(ctx, "invoices", first), ErrLockNotHeld, "the stale holder cannot release the new lease")
	assert.NoError(t, lock.Unlock(ctx, "invoices", second))
}

func TestInMemoryRunLock_Unlock(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	token, ok, err := lock.TryLock(ctx, "invoices", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, lock.Unlock(ctx, "invoices", "someone-else"), ErrLockNotHeld)
	require.NoError(t, lock.Unlock(ctx, "invoices", token))
	assert.ErrorIs(t, lock.Unlock(ctx, "invoices", token), ErrLockNotHeld)

	_, ok, err = lock.TryLock(ctx, "invoices", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "released key can be acquired again")
}

func TestInMemoryRunLock_Concurrent(t *testing.T) {
	lock := NewInMemoryRunLock()
	var winners atomic.Int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := lock.TryLock(context.Background(), "invoices", time.Minute); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
