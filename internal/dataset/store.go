package dataset

import (
	"sync"
	"sync/atomic"
)

// Store publishes the current snapshot. Readers never block writers and
// always see a complete Dataset.
type Store struct {
	current atomic.Pointer[Dataset]

	mu          sync.Mutex
	subscribers []func(*Dataset)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the published snapshot, or nil before the first load.
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Ready reports whether a snapshot has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Publish swaps in ds and notifies subscribers. It returns the previous
// snapshot, which stays valid for anyone still holding it.
func (s *Store) Publish(ds *Dataset) *Dataset {
	prev := s.current.Swap(ds)

	s.mu.Lock()
	subs := append([]func(*Dataset){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ds)
	}
	return prev
}

// Subscribe registers fn to run after every Publish.
func (s *Store) Subscribe(fn func(*Dataset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
