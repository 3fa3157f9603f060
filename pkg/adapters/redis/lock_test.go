package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowgen/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (*miniredis.Miniredis, *redis.Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewLocker(client, "")
}

func TestLocker_LockAndRelease(t *testing.T) {
	ctx := context.Background()
	mr, locker := newLocker(t)

	unlock, err := locker.Lock(ctx, "patrol", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultLockPrefix+"patrol"))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultLockPrefix+"patrol"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(redis.DefaultLockPrefix+"patrol"))
}

func TestLocker_BlocksWhileHeld(t *testing.T) {
	ctx := context.Background()
	_, locker := newLocker(t)

	unlock, err := locker.Lock(ctx, "patrol", time.Minute)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "patrol", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	unlock, err = locker.Lock(ctx, "patrol", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	mr, locker := newLocker(t)

	staleUnlock, err := locker.Lock(ctx, "patrol", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "patrol", time.Minute)
	require.NoError(t, err)

	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists(redis.DefaultLockPrefix+"patrol"), "expired holder must not release the new lock")
	require.NoError(t, unlock(ctx))
}
