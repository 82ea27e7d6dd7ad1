package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/domain"
	"go.uber.org/zap"
)

// State is a snapshot of a store's view state.
type State[T domain.Entity] struct {
	Items   []T
	Loading bool
	Err     error
}

// Store caches one remote collection and keeps it in step with the api.
// Local state changes only after the remote call succeeds; a failed call
// leaves Items untouched and records the error instead.
type Store[T domain.Entity] struct {
	name   string
	topic  string
	remote apiclient.Resource[T]
	bus    EventBus.Bus

	// pubMu orders state changes with their events, so the last event
	// published always matches the current state
	pubMu   sync.Mutex
	mu      sync.RWMutex
	items   []T
	loading bool
	err     error
}

// New creates an empty store. bus may be nil when nobody listens.
func New[T domain.Entity](name, topic string, remote apiclient.Resource[T], bus EventBus.Bus) *Store[T] {
	return &Store[T]{
		name:   name,
		topic:  topic,
		remote: remote,
		bus:    bus,
		items:  make([]T, 0),
	}
}

func (s *Store[T]) Name() string {
	return s.name
}

// Topic is the bus topic published after every state change. Synchronous
// subscribers may read the store but must not mutate it.
func (s *Store[T]) Topic() string {
	return s.topic
}

// State returns a copy of the current view state.
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store[T]) stateLocked() State[T] {
	return State[T]{
		Items:   s.copyItems(),
		Loading: s.loading,
		Err:     s.err,
	}
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Find returns the cached record stored under id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FetchAll replaces the cache with the server collection. Concurrent calls
// are not sequenced: the last response to arrive wins.
func (s *Store[T]) FetchAll(ctx context.Context) error {
	s.pubMu.Lock()
	s.mu.Lock()
	s.loading = true
	s.err = nil
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()

	items, err := s.remote.List(ctx)

	s.pubMu.Lock()
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err
	} else {
		s.items = items
	}
	snap = s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()

	if err != nil {
		zap.L().Error("fetch failed", zap.String("store", s.name), zap.Error(err))
		return fmt.Errorf("fetch %s: %w", s.name, err)
	}
	zap.L().Debug("fetch done", zap.String("store", s.name), zap.Int("count", len(items)))
	return nil
}

// Add creates item remotely, then appends the submitted value to the cache.
// A successful Add leaves any earlier error in place.
func (s *Store[T]) Add(ctx context.Context, item T) error {
	if err := s.remote.Create(ctx, item); err != nil {
		s.fail("add", item.Key(), err)
		return fmt.Errorf("add %s %s: %w", s.name, item.Key(), err)
	}

	s.pubMu.Lock()
	s.mu.Lock()
	if i := s.indexOf(item.Key()); i >= 0 {
		// the api accepted a key we already hold; keep one record per key
		zap.L().Warn("added record already cached",
			zap.String("store", s.name),
			zap.String("id", item.Key()),
		)
		s.items[i] = item
	} else {
		s.items = append(s.items, item)
	}
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()
	return nil
}

// Update replaces the record stored under id once the api accepted the
// change. An id absent from the cache is a silent no-op locally.
func (s *Store[T]) Update(ctx context.Context, id string, item T) error {
	if err := s.remote.Update(ctx, id, item); err != nil {
		s.fail("update", id, err)
		return fmt.Errorf("update %s %s: %w", s.name, id, err)
	}

	s.pubMu.Lock()
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = item
	} else {
		zap.L().Debug("updated record not cached", zap.String("store", s.name), zap.String("id", id))
	}
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()
	return nil
}

// Delete removes every cached record stored under id once the api accepted
// the deletion.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.fail("delete", id, err)
		return fmt.Errorf("delete %s %s: %w", s.name, id, err)
	}

	s.pubMu.Lock()
	s.mu.Lock()
	kept := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if item.Key() != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()
	return nil
}

// ClearError dismisses the recorded error. No remote call is made.
func (s *Store[T]) ClearError() {
	s.pubMu.Lock()
	s.mu.Lock()
	s.err = nil
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()
}

func (s *Store[T]) fail(action, id string, err error) {
	s.pubMu.Lock()
	s.mu.Lock()
	s.err = err
	snap := s.stateLocked()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()
	zap.L().Error(action+" failed",
		zap.String("store", s.name),
		zap.String("id", id),
		zap.Error(err),
	)
}

func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) copyItems() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) publish(snap State[T]) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(s.topic, snap)
}
