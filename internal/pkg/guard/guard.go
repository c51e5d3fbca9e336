// Package guard provides per-key mutual exclusion with FIFO hand-off.
//
// Operations on the same key run one at a time in arrival order; operations on
// different keys never wait on each other. A caller whose context ends while it
// is queued is removed from the queue and never ends up holding the key.
package guard

import (
	"cmp"
	"container/list"
	"context"
	"slices"
	"sync"
)

// Guard serializes operations per key. The zero value is not usable; call New.
type Guard[K comparable] struct {
	mu      sync.Mutex
	slots   map[K]*slot
	compare func(a, b K) int
}

type slot struct {
	held    bool
	waiters list.List // of chan struct{}, closed on hand-off
	refs    int       // holder + queued waiters; slot is dropped at zero
}

// New returns a Guard whose multi-key acquisition orders keys with compare.
func New[K comparable](compare func(a, b K) int) *Guard[K] {
	return &Guard[K]{slots: make(map[K]*slot), compare: compare}
}

// NewOrdered returns a Guard that orders keys with cmp.Compare.
func NewOrdered[K cmp.Ordered]() *Guard[K] {
	return New[K](cmp.Compare[K])
}

// Acquire blocks until key is held by the caller or ctx is done.
// The returned release func must be called exactly once.
func (g *Guard[K]) Acquire(ctx context.Context, key K) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	s, ok := g.slots[key]
	if !ok {
		s = &slot{}
		g.slots[key] = s
	}
	s.refs++
	if !s.held && s.waiters.Len() == 0 {
		s.held = true
		g.mu.Unlock()
		return g.releaser(key), nil
	}
	ready := make(chan struct{})
	elem := s.waiters.PushBack(ready)
	g.mu.Unlock()

	select {
	case <-ready:
		return g.releaser(key), nil
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case <-ready:
			// Handed off between ctx firing and taking the lock; pass it on.
			g.mu.Unlock()
			g.release(key)
		default:
			s.waiters.Remove(elem)
			s.refs--
			if s.refs == 0 {
				delete(g.slots, key)
			}
			g.mu.Unlock()
		}
		return nil, ctx.Err()
	}
}

func (g *Guard[K]) releaser(key K) func() {
	var once sync.Once
	return func() {
		once.Do(func() { g.release(key) })
	}
}

func (g *Guard[K]) release(key K) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.slots[key]
	if !ok || !s.held {
		panic("guard: release of a key that is not held")
	}
	s.refs--
	if front := s.waiters.Front(); front != nil {
		s.waiters.Remove(front)
		close(front.Value.(chan struct{}))
		return
	}
	s.held = false
	if s.refs == 0 {
		delete(g.slots, key)
	}
}

// AcquireAll takes every key in compare order so concurrent multi-key callers
// cannot deadlock with each other or with single-key callers.
func (g *Guard[K]) AcquireAll(ctx context.Context, keys []K) (func(), error) {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, g.compare)
	sorted = slices.Compact(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, key := range sorted {
		release, err := g.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// Len reports how many keys are currently held or waited on.
func (g *Guard[K]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}

// WithExclusiveAccess runs fn while holding key.
func WithExclusiveAccess[K comparable, T any](ctx context.Context, g *Guard[K], key K, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	release, err := g.Acquire(ctx, key)
	if err != nil {
		return zero, err
	}
	defer release()
	return fn(ctx)
}

// WithExclusiveAccessAll runs fn while holding every key.
func WithExclusiveAccessAll[K comparable, T any](ctx context.Context, g *Guard[K], keys []K, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	release, err := g.AcquireAll(ctx, keys)
	if err != nil {
		return zero, err
	}
	defer release()
	return fn(ctx)
}
