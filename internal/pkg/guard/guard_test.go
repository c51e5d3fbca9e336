//go:build unit

package guard_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotel-booking/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_SameKeyIsExclusive(t *testing.T) {
	g := guard.NewOrdered[string]()
	ctx := context.Background()

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := guard.WithExclusiveAccess(ctx, g, "room-1", func(_ context.Context) (struct{}, error) {
				n := inFlight.Add(1)
				for {
					cur := maxInFlight.Load()
					if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return struct{}{}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, 0, g.Len(), "slots must be dropped once idle")
}

func TestGuard_DistinctKeysDoNotBlock(t *testing.T) {
	g := guard.NewOrdered[string]()
	ctx := context.Background()

	releaseA, err := g.Acquire(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := g.Acquire(ctx, "b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring a different key blocked")
	}
}

func TestGuard_FIFOOrder(t *testing.T) {
	g := guard.NewOrdered[int]()
	ctx := context.Background()

	release, err := g.Acquire(ctx, 1)
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := g.Acquire(ctx, 1)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			r()
		}()
		// let waiter i enqueue before waiter i+1
		time.Sleep(10 * time.Millisecond)
	}

	release()
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestGuard_CancelledWaiterLeavesQueue(t *testing.T) {
	g := guard.NewOrdered[string]()

	release, err := g.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Acquire(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	// The abandoned waiter must not have inherited the key.
	r, err := g.Acquire(context.Background(), "k")
	require.NoError(t, err)
	r()
	assert.Equal(t, 0, g.Len())
}

func TestGuard_ReleaseIsIdempotent(t *testing.T) {
	g := guard.NewOrdered[string]()
	release, err := g.Acquire(context.Background(), "k")
	require.NoError(t, err)

	release()
	assert.NotPanics(t, release)
}

func TestGuard_AcquireAllNoDeadlock(t *testing.T) {
	g := guard.NewOrdered[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys := []string{"a", "b", "c"}
			if i%2 == 0 {
				keys = []string{"c", "b", "a", "a"}
			}
			_, err := guard.WithExclusiveAccessAll(ctx, g, keys, func(_ context.Context) (int, error) {
				return 0, nil
			})
			assert.NoError(t, err)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := guard.WithExclusiveAccess(ctx, g, "b", func(_ context.Context) (int, error) {
				return 0, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, g.Len())
}

func TestGuard_AcquireAllReleasesOnCancel(t *testing.T) {
	g := guard.NewOrdered[string]()

	releaseB, err := g.Acquire(context.Background(), "b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.AcquireAll(ctx, []string{"a", "b"})
	require.Error(t, err)

	// "a" was taken then given back.
	releaseA, err := g.Acquire(context.Background(), "a")
	require.NoError(t, err)
	releaseA()
	releaseB()
}

func TestGuard_PropagatesOperationError(t *testing.T) {
	g := guard.NewOrdered[string]()
	boom := assert.AnError

	_, err := guard.WithExclusiveAccess(context.Background(), g, "k", func(_ context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	// no residual lock
	r, err := g.Acquire(context.Background(), "k")
	require.NoError(t, err)
	r()
}
