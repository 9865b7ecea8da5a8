package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Singleton binds a single keyed record (the settings row) to its repository
// with the same memory-first, write-behind contract as Collection.
type Singleton[T any] struct {
	name    string
	persist func(ctx context.Context, value *T) error

	mu    sync.RWMutex
	value *T
	seq   uint64

	// writeMu/written order the write-throughs exactly as Collection does:
	// stale snapshots are dropped so the store holds the latest Set.
	writeMu sync.Mutex
	written uint64

	writes sync.WaitGroup

	OnWriteError func(error)
}

func NewSingleton[T any](name string, persist func(ctx context.Context, value *T) error) *Singleton[T] {
	return &Singleton[T]{name: name, persist: persist}
}

// Load populates memory from the store, falling back to defaults on a read
// failure or an absent record. Storage is not written during load.
func (s *Singleton[T]) Load(ctx context.Context, read func(ctx context.Context) (*T, error), defaults *T) {
	value, err := read(ctx)
	if err != nil {
		log.Warn().Err(err).Str("record", s.name).Msg("load failed, using defaults")
		value = nil
	}
	if value == nil {
		value = defaults
	}

	s.mu.Lock()
	copied := *value
	s.value = &copied
	s.mu.Unlock()
}

// Get returns a copy of the current value.
func (s *Singleton[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.value
}

// Set installs the new value synchronously and schedules a write-through;
// an older pending write never overwrites a newer one.
func (s *Singleton[T]) Set(value T) {
	s.mu.Lock()
	s.value = &value
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if seq <= s.written {
			return
		}
		s.written = seq
		snapshot := value
		if err := s.persist(context.Background(), &snapshot); err != nil {
			log.Error().Err(err).Str("record", s.name).Msg("write-through failed")
			if s.OnWriteError != nil {
				s.OnWriteError(err)
			}
		}
	}()
}

// Flush blocks until every scheduled write-through has finished.
func (s *Singleton[T]) Flush() {
	s.writes.Wait()
}
