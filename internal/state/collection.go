// Package state keeps in-memory snapshots of the stored collections and
// writes changes through to their repositories. The in-memory value is the
// authoritative one for the running session: mutations apply synchronously
// and the store write happens in the background, so a failed write degrades
// persistence but never the session.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Collection binds one array-typed collection to its repository.
type Collection[T any] struct {
	name    string
	persist func(ctx context.Context, items []T) error

	mu    sync.RWMutex
	items []T
	seq   uint64

	// writeMu serializes write-throughs; written is the sequence number of
	// the newest snapshot handed to the store, guarded by writeMu. A snapshot
	// older than written is dropped, so the store always converges on the
	// latest mutation even when the goroutines run out of order.
	writeMu sync.Mutex
	written uint64

	writes sync.WaitGroup

	// OnWriteError, when set, is invoked for every failed write-through so
	// the caller can surface a notification. The write itself is not retried
	// until the next mutation.
	OnWriteError func(error)
}

// NewCollection creates an unbound collection; call Load before use.
func NewCollection[T any](name string, persist func(ctx context.Context, items []T) error) *Collection[T] {
	return &Collection[T]{name: name, persist: persist}
}

// Load populates memory from the store. A read failure or an empty store
// seeds memory with fallback without writing anything back.
func (c *Collection[T]) Load(ctx context.Context, read func(ctx context.Context) ([]T, error), fallback []T) {
	items, err := read(ctx)
	if err != nil {
		log.Warn().Err(err).Str("collection", c.name).Msg("load failed, using fallback")
		items = nil
	}
	if len(items) == 0 {
		items = fallback
	}

	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.mu.Unlock()
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Len returns the current item count.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Update applies mutate to the snapshot, installs the result synchronously
// and schedules a write-through of the new snapshot. Write-throughs are
// serialized and stale snapshots dropped, so the store always ends up with
// the newest mutation.
func (c *Collection[T]) Update(mutate func(items []T) []T) []T {
	c.mu.Lock()
	c.items = mutate(c.items)
	snapshot := append([]T(nil), c.items...)
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		if seq <= c.written {
			// A newer snapshot already reached the store.
			return
		}
		c.written = seq
		if err := c.persist(context.Background(), snapshot); err != nil {
			log.Error().Err(err).Str("collection", c.name).Msg("write-through failed")
			if c.OnWriteError != nil {
				c.OnWriteError(err)
			}
		}
	}()

	return snapshot
}

// Flush blocks until every scheduled write-through has finished. Used on
// shutdown and in tests; callers on the hot path never wait.
func (c *Collection[T]) Flush() {
	c.writes.Wait()
}
