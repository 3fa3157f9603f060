package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/flowgen/pkg/adapters/memory"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/aretw0/flowgen/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Contract(t *testing.T) {
	ports.RunScriptStoreContract(t, session.NewManager(memory.NewStore()))
}

func TestManager_SerializesSameName(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = manager.WithLock(ctx, "patrol", func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
}

func TestManager_DifferentNamesRunConcurrently(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	inside := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = manager.WithLock(ctx, "a", func(ctx context.Context) error {
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	done := make(chan struct{})
	go func() {
		_ = manager.WithLock(ctx, "b", func(ctx context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b waited for a")
	}
	close(release)
}

type fakeLocker struct {
	mu     sync.Mutex
	locked []string
	err    error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.locked = append(f.locked, key)
	f.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()
	locker := &fakeLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	require.NoError(t, manager.Save(ctx, domain.NewScript("patrol", domain.Graph{})))
	assert.Equal(t, []string{"patrol"}, locker.locked)

	locker.err = errors.New("redis down")
	err := manager.Delete(ctx, "patrol")
	assert.ErrorIs(t, err, locker.err)
}
